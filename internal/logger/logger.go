package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger. Stacktraces are kept
// for errors only; warn-level noise from best-effort mail and audit
// writes should stay one line.
func NewLogger() *zap.Logger {
	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	loggerConfig.Development = false

	logger, err := loggerConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if nil != err {
		panic(err)
	}

	return logger
}
