package main

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/gsarma/mailrender/internal/config"
	"github.com/gsarma/mailrender/internal/logger"
)

// setup loads configuration and builds the process logger.
func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, errors.Wrap(err, "init logger")
	}
	return cfg, log, nil
}
