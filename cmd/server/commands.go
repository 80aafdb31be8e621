//go:build !lambda

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/config"
	"github.com/gsarma/mailrender/internal/server"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "mailrender",
		Short:         "Render transactional emails from structured requests",
		Version:       config.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file (env: MAILRENDER_CONFIG)")

	root.AddCommand(newServeCmd(&configPath), newRenderCmd(&configPath), newTemplatesCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			srv, err := server.New(cfg, log)
			if err != nil {
				log.Error("Failed to start server", zap.Error(err))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				log.Error("Server stopped with error", zap.Error(err))
				return err
			}
			log.Info("Server stopped")
			return nil
		},
	}
}

func newRenderCmd(configPath *string) *cobra.Command {
	var (
		input    string
		output   string
		template string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a request file to HTML",
		Example: `  mailrender render -f request.json -o preview.html
  cat request.json | mailrender render --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			svc, c, err := server.NewRenderer(cfg, log, nil)
			if err != nil {
				return err
			}
			if c != nil {
				defer c.Close()
			}

			raw, err := readRequest(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			if m, ok := raw.(map[string]any); ok && template != "" {
				m["template"] = template
			}

			resp, err := svc.RenderEmail(context.Background(), raw)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			_, err = io.WriteString(out, resp.HTML)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "file", "f", "-", "request JSON file, - for stdin")
	cmd.Flags().StringVarP(&output, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().StringVarP(&template, "template", "t", "", "override the request's template")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full response instead of the HTML")
	return cmd
}

func newTemplatesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "templates [name]",
		Short: "List templates or print one template's example request",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			svc, c, err := server.NewRenderer(cfg, log, nil)
			if err != nil {
				return err
			}
			if c != nil {
				defer c.Close()
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range svc.Templates() {
					info, _ := svc.DescribeTemplate(name)
					fmt.Fprintf(out, "%-20s %s\n", info.Name, info.Description)
				}
				return nil
			}

			info, ok := svc.DescribeTemplate(args[0])
			if !ok {
				return fmt.Errorf("template %q not found", args[0])
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(info.ExampleRequest)
		},
	}
}

func readRequest(stdin io.Reader, path string) (any, error) {
	r := stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return raw, nil
}
