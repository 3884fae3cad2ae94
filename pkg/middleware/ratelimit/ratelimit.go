package ratelimit

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/noah-isme/inventory-api/pkg/errors"
	"github.com/noah-isme/inventory-api/pkg/response"
)

// Limiter decides whether a request may proceed.
type Limiter interface {
	Allow() bool
}

// NewTokenBucket returns a limiter refilling rps tokens per second up to burst.
// A non-positive rps disables limiting.
func NewTokenBucket(rps float64, burst int) Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Middleware rejects requests with 429 when the limiter denies them.
func Middleware(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow() {
			c.Next()
			return
		}
		response.Error(c, appErrors.ErrTooManyRequests)
	}
}
