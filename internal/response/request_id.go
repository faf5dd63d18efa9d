package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is where the middleware parks the request id in the
// gin context; buildMetadata reads it back.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware tags each request with an id for log correlation.
// A caller-supplied X-Request-ID is honored, otherwise one is minted, and
// either way it is echoed back on the response.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
