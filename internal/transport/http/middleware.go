package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"roomdesk/internal/domain"
	"roomdesk/internal/service/bookings"
)

const callerContextKey = "roomdesk.caller"

// Auth validates an HS256 bearer token (Authorization header or "token"
// cookie) and stores the resulting Caller in the request context. Requests
// without a token proceed unauthenticated; handlers that require identity
// reject them.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c)
			if raw == "" {
				return next(c)
			}

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			caller := bookings.Caller{}
			if email, ok := claims["email"].(string); ok {
				caller.Email = email
			} else if sub, ok := claims["sub"].(string); ok {
				caller.Email = sub
			}
			if role, ok := claims["role"].(string); ok {
				caller.Role = role
			}
			c.Set(callerContextKey, caller)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie.Value
	}
	return ""
}

func callerFrom(c echo.Context) bookings.Caller {
	caller, _ := c.Get(callerContextKey).(bookings.Caller)
	return caller
}

// RateLimit enforces a fixed window per caller (email if authenticated,
// client IP otherwise) using a redis counter. A nil client or a redis
// failure lets the request through.
func RateLimit(rdb *redis.Client, limit int, window int, log *slog.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "http.ratelimit"))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil || limit <= 0 {
				return next(c)
			}

			subject := domain.NormalizeEmail(callerFrom(c).Email)
			if subject == "" {
				subject = c.RealIP()
			}
			key := "roomdesk:rate:" + subject

			ctx := c.Request().Context()
			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Warn("rate limit check failed", slog.Any("err", err))
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, windowDuration(window))
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(window))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": window,
				})
			}
			return next(c)
		}
	}
}

func windowDuration(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 60
	}
	return time.Duration(seconds) * time.Second
}
