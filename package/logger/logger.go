package logger

import (
	"github.com/sirupsen/logrus"
	"os"
)

func Init() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)
	return logger
}

var Log = Init()

// SetDebug raises the level for is_debug deployments.
func SetDebug(debug bool) {
	if debug {
		Log.SetLevel(logrus.DebugLevel)
	}
}
