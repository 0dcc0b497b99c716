// Package logger holds the process wide zap logger.
// Library code only logs at debug level, the CLI raises or lowers the level.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	level  = zap.NewAtomicLevelAt(zap.WarnLevel)
	sugar  *zap.SugaredLogger
	output io.Writer = os.Stderr
)

// Logger returns the shared logger, building it on first use.
func Logger() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()

	if sugar == nil {
		sugar = build(output)
	}
	return sugar
}

// Init replaces the shared logger by one writing to w with the given level.
func Init(levelName string, w io.Writer) error {
	lvl, err := parseLevel(levelName)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()

	level.SetLevel(lvl)
	output = w
	sugar = build(w)
	return nil
}

// SetLevel changes the level of the shared logger.
func SetLevel(levelName string) error {
	lvl, err := parseLevel(levelName)
	if err != nil {
		return err
	}
	level.SetLevel(lvl)
	return nil
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger().Sync()
}

func parseLevel(levelName string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(levelName)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}
	return lvl, nil
}

func build(w io.Writer) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}
