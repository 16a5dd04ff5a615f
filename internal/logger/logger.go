// Package logger builds the shared logrus logger.
package logger

import (
	"github.com/sirupsen/logrus"
)

// New returns a logger with full timestamps. When jsonOutput is true the
// formatter switches to JSON for log collectors.
func New(jsonOutput bool) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)
	if jsonOutput {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	return log
}
