//go:build !lambda

package main

import (
	"fmt"
	"os"
)

// @title        Mailrender API
// @version      2.0.0
// @description  Renders transactional emails from structured requests.
// @BasePath     /api/v1/email-templates

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
