// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide [zap.Logger].
//
// Debug mode uses the human-readable development encoder with coloured levels;
// everything else uses the production JSON encoder so log shippers can parse it.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/taibuivan/autoluxe/internal/platform/constants"
)

// New returns a logger tagged with the application name.
func New(debug bool) (*zap.Logger, error) {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	log, err := config.Build()
	if err != nil {
		return nil, err
	}

	return log.With(zap.String("app", constants.AppName)), nil
}
