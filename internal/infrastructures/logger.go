package infrastructures

import (
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// ConfigureLogger applies LOG_LEVEL. Unknown levels fall back to info.
func ConfigureLogger(config *AppConfig) *logrus.Logger {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		logger.WithField("level", config.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
