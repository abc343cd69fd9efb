package logger

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger adapts a zap SugaredLogger to Logger.
type zapLogger struct {
	sugar  *zap.SugaredLogger
	closer io.Closer
}

func newZap(cfg Config, output io.Writer, closer io.Closer) *zapLogger {
	encodeConfig := zap.NewProductionEncoderConfig()
	encodeConfig.TimeKey = "time"
	encodeConfig.MessageKey = "msg"
	encodeConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encodeConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encodeConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encodeConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		encoder = zapcore.NewConsoleEncoder(encodeConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encodeConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), zapLevel)
	opts := []zap.Option{zap.AddCallerSkip(1)}
	if cfg.AddSource {
		opts = append(opts, zap.AddCaller())
	}

	return &zapLogger{
		sugar:  zap.New(core, opts...).Sugar(),
		closer: closer,
	}
}

func (l *zapLogger) Debug(msg string, args ...any) {
	l.sugar.Debugw(msg, abbreviateArgs(args)...)
}

func (l *zapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, abbreviateArgs(args)...)
}

func (l *zapLogger) Warn(msg string, args ...any) {
	l.sugar.Warnw(msg, abbreviateArgs(args)...)
}

func (l *zapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, abbreviateArgs(args)...)
}

func (l *zapLogger) With(args ...any) Logger {
	return &zapLogger{
		sugar:  l.sugar.With(abbreviateArgs(args)...),
		closer: l.closer,
	}
}

// WithContext returns l unchanged; zap does not consume contexts. Use L to
// pick up the connection ID.
func (l *zapLogger) WithContext(context.Context) Logger {
	return l
}

func (l *zapLogger) Close() error {
	// Sync on stderr returns EINVAL on some platforms.
	_ = l.sugar.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
