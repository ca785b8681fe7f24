// Package log configures the shared logrus logger for ehttpd binaries,
// the way nishisan-dev-n-backup's internal packages centralise logger setup
// so every command-line entry point gets the same formatting and level
// parsing instead of each main.go rolling its own.
package log

import "github.com/sirupsen/logrus"

// Configure builds a *logrus.Entry at the given level (parsed the same way
// logrus.ParseLevel does: "debug", "info", "warn", "error", ...), falling
// back to info on an unrecognised level string.
func Configure(level string) *logrus.Entry {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return logrus.NewEntry(logger)
}
