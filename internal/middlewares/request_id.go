package middlewares

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID tags every request with an id, reusing the caller's header when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger is gin's access log with the request id added.
func Logger() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(p gin.LogFormatterParams) string {
		id, _ := p.Keys[requestIDKey].(string)
		return fmt.Sprintf("[GIN] %s | %s | %3d | %13v | %15s | %-7s %#v\n",
			p.TimeStamp.Format("2006/01/02 - 15:04:05"),
			id,
			p.StatusCode,
			p.Latency,
			p.ClientIP,
			p.Method,
			p.Path,
		)
	})
}
