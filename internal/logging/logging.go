package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envLogLevel = "MEDIALINK_LOG_LEVEL"

var (
	level = zap.NewAtomicLevelAt(zapcore.WarnLevel)

	mu   sync.Mutex
	root *zap.Logger
)

func init() {
	if lvl := os.Getenv(envLogLevel); lvl != "" {
		_ = SetLevel(lvl)
	}
}

// SetLevel change le niveau de tous les loggers ("debug", "info", "warn"...).
func SetLevel(lvl string) error {
	parsed, err := zapcore.ParseLevel(strings.TrimSpace(lvl))
	if err != nil {
		return err
	}
	level.SetLevel(parsed)
	return nil
}

// SetOutput remplace le logger racine (utile en test avec zaptest / observer).
func SetOutput(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	root = l
}

// Logger retourne un logger nommé pour un sous-système.
func Logger(system string) *zap.SugaredLogger {
	return rootLogger().Named(system).Sugar()
}

func rootLogger() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if root == nil {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
		root = zap.New(core)
	}
	return root
}
