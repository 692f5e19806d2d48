package util

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LoggingNewError logs and returns a new error with the given message
func LoggingNewError(msg string) error {
	err := errors.New(msg)
	logrus.Error(err)
	return err
}

// LoggingNewErrorf logs and returns a new formatted error
func LoggingNewErrorf(format string, args ...any) error {
	err := errors.Errorf(format, args...)
	logrus.Error(err)
	return err
}

// LoggingError logs and returns the given error
func LoggingError(err error) error {
	logrus.WithError(err).Error()
	return err
}

// LoggingErrorMsg logs and wraps the given error with the given message
func LoggingErrorMsg(err error, msg string) error {
	logrus.WithError(err).Error(SanitizeLog(msg))
	if err == nil {
		return errors.New(msg)
	}
	return errors.Wrap(err, msg)
}

// LoggingErrorMsgf logs and wraps the given error with a formatted message
func LoggingErrorMsgf(err error, format string, args ...any) error {
	msg := errors.Errorf(format, args...).Error()
	return LoggingErrorMsg(err, msg)
}

// SanitizeLog prevents certain classes of injection attacks before logging
// https://codeql.github.com/codeql-query-help/go/go-log-injection/
func SanitizeLog(log string) string {
	escapedLog := strings.ReplaceAll(log, "\n", "")
	return strings.ReplaceAll(escapedLog, "\r", "")
}

// Is2xxResponse returns true if the given status code is a 2xx response
func Is2xxResponse(statusCode int) bool {
	return statusCode/100 == 2
}
