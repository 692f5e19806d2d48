package middleware

import (
	"expvar"
	"runtime"

	"github.com/gin-gonic/gin"
)

// goroutineSampleInterval is how many requests pass between goroutine-count
// samples. runtime.NumGoroutine walks scheduler state, so it is not read on
// every request.
const goroutineSampleInterval = 100

// counters published under /debug/vars
var counters = struct {
	goroutines *expvar.Int
	requests   *expvar.Int
	errors     *expvar.Int
}{
	goroutines: expvar.NewInt("goroutines"),
	requests:   expvar.NewInt("requests"),
	errors:     expvar.NewInt("errors"),
}

// Metrics publishes request, error, and sampled goroutine counts.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		counters.requests.Add(1)
		if counters.requests.Value()%goroutineSampleInterval == 0 {
			counters.goroutines.Set(int64(runtime.NumGoroutine()))
		}
		if errCount := len(c.Errors); errCount > 0 {
			counters.errors.Add(int64(errCount))
		}
	}
}
