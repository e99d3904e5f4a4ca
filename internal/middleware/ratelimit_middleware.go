package middleware

import (
	"net/http"
	"strconv"

	"social-crm/internal/redis"
	"social-crm/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// SendRateLimitMiddleware throttles the outbound send endpoint per client
// IP. Applied only when Redis is configured.
func SendRateLimitMiddleware(limiter *redis.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.AllowSend(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Redis being down must not take the send path down with it.
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse("rate limit exceeded", "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.Itoa(int(result.ResetIn.Seconds())))
}
