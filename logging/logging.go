package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DPanic, Panic and Fatal level can not be set by user
	DebugLevelStr   string = "debug"
	InfoLevelStr    string = "info"
	WarningLevelStr string = "warning"
	ErrorLevelStr   string = "error"
)

// ParseLevel maps a level name to a zap level, falling back to info.
func ParseLevel(logLevel string) zapcore.Level {
	switch logLevel {
	case DebugLevelStr:
		return zap.DebugLevel
	case InfoLevelStr:
		return zap.InfoLevel
	case WarningLevelStr:
		return zap.WarnLevel
	case ErrorLevelStr:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// New builds a JSON logger writing to stdout and, when logFile is set, to a
// rotated file as well.
func New(logLevel string, logFile string, dev bool) *zap.Logger {
	return newLogger(zapcore.AddSync(os.Stdout), logLevel, logFile, dev)
}

func newLogger(out zapcore.WriteSyncer, logLevel string, logFile string, dev bool) *zap.Logger {
	ws := out
	if logFile != "" {
		ws = zapcore.NewMultiWriteSyncer(out, zapcore.AddSync(
			&lumberjack.Logger{
				Filename:   logFile,
				MaxSize:    1, //MB
				MaxBackups: 30,
				MaxAge:     90, //days
				Compress:   false,
			},
		))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		ws,
		zap.NewAtomicLevelAt(ParseLevel(logLevel)),
	)
	if dev {
		return zap.New(core, zap.AddCaller(), zap.Development())
	}
	return zap.New(core, zap.AddCaller())
}
