package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/CijeTheCreator/consultify/internal/common"
)

const RequestIDKey = "request.id"

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a ULID unless the client supplied one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if generated, err := common.NewULID(); err == nil {
				id = generated
			}
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}
