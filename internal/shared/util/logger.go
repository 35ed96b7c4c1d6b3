package util

import (
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger tags every line with the component instance that emitted it
// (e.g. "LifecycleService.Accept"), backed by logrus.
type Logger struct {
	log *logrus.Logger
}

func NewLogger() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		l.SetLevel(lvl)
	}

	return &Logger{log: l}
}

func (l *Logger) Info(instance, message string) {
	l.log.WithField("instance", instance).Info(message)
}

func (l *Logger) Warn(instance, message string) {
	l.log.WithField("instance", instance).Warn(message)
}

func (l *Logger) Error(instance string, err error) {
	l.log.WithField("instance", instance).Error(err.Error())
}

func (l *Logger) Fatal(instance string, err error) {
	l.log.WithField("instance", instance).Fatal(err.Error())
}

func (l *Logger) OK(instance, message string) {
	l.log.WithField("instance", instance).Info(message)
}

func (l *Logger) HTTP(status int, elapsed time.Duration, host, method, path string) {
	entry := l.log.WithFields(logrus.Fields{
		"status":  status,
		"elapsed": elapsed.String(),
		"host":    host,
		"method":  method,
	})
	switch {
	case status >= http.StatusInternalServerError:
		entry.Error(path)
	case status >= http.StatusBadRequest:
		entry.Warn(path)
	default:
		entry.Info(path)
	}
}
