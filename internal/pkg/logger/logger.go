package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a configured logrus logger. Development gets a text formatter,
// every other environment gets JSON.
func New(appName, env, level string) *logrus.Logger {
	return newWithOutput(os.Stdout, appName, env, level)
}

func newWithOutput(w io.Writer, appName, env, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	if isDevelopment(env) {
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(lvl)
		} else {
			log.WithField("level", level).Warn("unknown LOG_LEVEL, keeping default")
		}
	}

	log.WithFields(logrus.Fields{"app": appName, "env": env}).Debug("logger initialized")
	return log
}

func isDevelopment(env string) bool {
	switch env {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}
