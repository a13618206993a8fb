package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds a console logger writing to w.
// Default level is info; --verbose enables debug, --quiet keeps errors only.
func newLogger(w io.Writer, f commonFlags) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case f.verbose:
		level = zapcore.DebugLevel
	case f.quiet:
		level = zapcore.ErrorLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""
	encoderCfg.EncodeLevel = zapcore.LowercaseLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}
