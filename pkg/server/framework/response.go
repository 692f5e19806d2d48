package framework

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/internal/util"
)

// Respond converts a Go value to JSON and sends it to the client.
func Respond(c *gin.Context, data any, statusCode int) {
	if v, ok := c.Value(RequestStateKey.String()).(*RequestState); ok {
		v.StatusCode = statusCode
	}

	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return
	}
	c.JSON(statusCode, data)
}

// RespondError sends an error response back to the client. If the error is a
// SafeError the message and fields are sent as is; anything else is not safe
// to return and becomes a generic 500.
func RespondError(c *gin.Context, err error) {
	var safeErr *SafeError
	if errors.As(errors.Cause(err), &safeErr) {
		Respond(c, ErrorResponse{Error: safeErr.Err.Error(), Fields: safeErr.Fields}, safeErr.StatusCode)
		return
	}
	Respond(c, ErrorResponse{Error: http.StatusText(http.StatusInternalServerError)}, http.StatusInternalServerError)
}

// LoggingRespondError logs the error before responding with it.
func LoggingRespondError(c *gin.Context, err error, statusCode int) {
	logrus.Error(util.SanitizeLog(err.Error()))
	RespondError(c, NewRequestError(err, statusCode))
}

// LoggingRespondErrMsg logs and responds with a new error from the message.
func LoggingRespondErrMsg(c *gin.Context, errMsg string, statusCode int) {
	LoggingRespondError(c, errors.New(errMsg), statusCode)
}

// LoggingRespondErrWithMsg wraps the error with the message before logging
// and responding.
func LoggingRespondErrWithMsg(c *gin.Context, err error, errMsg string, statusCode int) {
	LoggingRespondError(c, errors.Wrap(err, errMsg), statusCode)
}
