// Package debug provides an opt-in trace log for diagnosing memctl runs.
//
// Nothing is written unless MEMCTL_DEBUG is set; command output on
// stdout/stderr is never routed through here.
package debug

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// enabled reports whether debug tracing was requested via environment.
func enabled() bool {
	v := os.Getenv("MEMCTL_DEBUG")
	return v != "" && v != "0" && v != "false"
}

// get lazily builds the rotating file logger on first use.
func get() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		dir := os.Getenv("MEMCTL_DEBUG_DIR")
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "memctl")
		}
		logger.SetOutput(&lumberjack.Logger{
			Filename:   filepath.Join(dir, "debug.log"),
			MaxSize:    5, // megabytes
			MaxBackups: 2,
		})
	})
	return logger
}

// Logf records a formatted trace line under the given subsystem.
// It is a no-op unless MEMCTL_DEBUG is set.
func Logf(subsystem, format string, args ...any) {
	if !enabled() {
		return
	}
	get().WithField("sub", subsystem).Debugf(format, args...)
}
