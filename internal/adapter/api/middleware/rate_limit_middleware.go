package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"scamwatch/internal/infrastructure/ratelimit"
	"scamwatch/pkg/errors"
	"scamwatch/pkg/logger"
	"scamwatch/pkg/response"
)

// RateLimit throttles action per client IP.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			allowed, retryAfter := limiter.Allow(ip, action)
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				logger.WithFields(logger.Fields{"ip": ip, "action": action}).Warn("rate limit exceeded")

				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded, retry in "+strconv.Itoa(seconds)+"s"))
			}

			return next(c)
		}
	}
}
