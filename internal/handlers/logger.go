package handlers

import "github.com/sirupsen/logrus"

var log = logrus.StandardLogger()

// SetLogger swaps in the process-wide logger configured in main.
func SetLogger(l *logrus.Logger) {
	log = l
}
