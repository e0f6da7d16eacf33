package response

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key for the request ID.
const ContextKeyRequestID = "request_id"

// maxRequestIDLen caps inbound X-Request-ID values so a caller cannot inflate
// logs or response metadata with an arbitrarily long header.
const maxRequestIDLen = 64

// RequestIDMiddleware tags every request with an ID, reusing a sane inbound
// X-Request-ID header and minting a UUID otherwise. The ID is echoed back in
// the response header and in the envelope metadata.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-Request-ID"))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		c.Set(ContextKeyRequestID, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
