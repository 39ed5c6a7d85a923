// Package logging provides the leveled log helpers shared by the server and
// the quest packages. Messages are printf-style and go through a zap sugared
// logger.
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = newLogger(false, "")
)

func newLogger(production bool, logFile string) *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoder := zapcore.NewConsoleEncoder(encoderConfig)
	if production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), zap.InfoLevel)
	if logFile != "" {
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
		core = zapcore.NewTee(core, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), fileWriter, zap.InfoLevel))
	}
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

// Init replaces the package logger. Production mode switches stdout to JSON
// output. A non-empty logFile also writes JSON entries to a rotated file.
func Init(production bool, logFile string) {
	l := newLogger(production, logFile)
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Use installs a caller supplied logger, mostly for tests.
func Use(l *zap.Logger) {
	mu.Lock()
	logger = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Info logs an info-level message.
func Info(format string, v ...any) {
	current().Infof(format, v...)
}

// Warn logs a warning-level message.
func Warn(format string, v ...any) {
	current().Warnf(format, v...)
}

// Fatal logs a fatal error and exits.
func Fatal(format string, v ...any) {
	current().Fatalf(format, v...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = current().Sync()
}
