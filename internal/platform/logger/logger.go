package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type appNameHook struct {
	appName string
}

func (h *appNameHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *appNameHook) Fire(entry *logrus.Entry) error {
	entry.Message = "[" + h.appName + "] " + entry.Message
	return nil
}

// New builds the process logger. An unknown level falls back to info.
func New(appName, level string) *logrus.Logger {
	return newLogger(os.Stdout, appName, level)
}

func newLogger(out io.Writer, appName, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		if level != "" {
			log.Warnf("Invalid LOG_LEVEL '%s', defaulting to INFO", level)
		}
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if appName != "" {
		log.AddHook(&appNameHook{appName})
	}

	return log
}
