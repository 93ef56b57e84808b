package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init with logrus
// defaults so packages and tests never see a nil logger.
var Log = logrus.New()

// Init configures Log from LOG_LEVEL (default "info") and LOG_FORMAT
// ("json" or text). Call once from main.
func Init() {
	level, err := logrus.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	Log.SetOutput(os.Stdout)
}

func getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
