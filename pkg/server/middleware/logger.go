package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openvci/vci-service/pkg/server/framework"
)

// Logger initializes per-request state and logs request info before and
// after the handler chain runs.
//
//	TraceID : started|completed : HTTPMethod Path -> IPAddr (status) (latency)
func Logger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := &framework.RequestState{
			TraceID: uuid.NewString(),
			Now:     time.Now(),
		}
		c.Set(framework.RequestStateKey.String(), state)

		log.Infof("%s : started : %s %s -> %s",
			state.TraceID, c.Request.Method, c.Request.URL.Path, c.ClientIP())

		c.Next()

		statusCode := state.StatusCode
		if statusCode == 0 {
			statusCode = c.Writer.Status()
		}
		log.Infof("%s : completed : %s %s -> %s (%d) (%s)",
			state.TraceID, c.Request.Method, c.Request.URL.Path, c.ClientIP(),
			statusCode, time.Since(state.Now))
	}
}
