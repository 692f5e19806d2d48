// Package framework is a minimal web framework.
package framework

import (
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openvci/vci-service/config"
)

type contextKey string

const (
	TraceIDKey       contextKey = "traceID"
	ShutdownErrorKey contextKey = "shutdownError"
	RequestStateKey  contextKey = "requestState"
)

func (c contextKey) String() string {
	return string(c)
}

// RequestState carries per-request bookkeeping set by the middleware chain.
type RequestState struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

// Server wraps the standard library http server with our engine and a
// shutdown channel the middleware can signal on integrity failures.
type Server struct {
	*http.Server
	shutdown chan os.Signal
}

// NewServer creates a Server that handles the application's routes.
func NewServer(cfg config.ServerConfig, handler *gin.Engine, shutdown chan os.Signal) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              cfg.APIHost,
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		shutdown: shutdown,
	}
}

// SignalShutdown gracefully shuts down the server when an integrity issue is
// identified.
func (s *Server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
}
