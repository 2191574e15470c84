package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the process logger. It discards everything until Init is called.
var Logger = zap.NewNop()

// Init builds a production logger at the given level. Unknown levels fall
// back to info.
func Init(logLevel string) error {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	config.Level.SetLevel(level)
	l, err := config.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}
