package middleware

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/config"
)

// captureWriter buffers the response body while forwarding it to the
// client, up to a size limit.
type captureWriter struct {
	http.ResponseWriter
	status   int
	buf      bytes.Buffer
	overflow bool
	limit    int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if !cw.overflow {
		if cw.buf.Len()+len(b) <= cw.limit {
			cw.buf.Write(b)
		} else {
			cw.overflow = true
		}
	}
	return cw.ResponseWriter.Write(b)
}

// CacheGET returns middleware that caches successful JSON GET responses
// in Redis, keyed by route and query string.  It is applied only to the
// public browse endpoints, where short staleness is acceptable; anything
// principal-scoped must not go through it.  Redis failures fail open.
func CacheGET(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cfg.Prefix + ":" + c.Path() + "?" + c.Request().URL.RawQuery

			ctx := c.Request().Context()
			if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
				return c.JSONBlob(http.StatusOK, body)
			} else if err != redis.Nil {
				log.Warn("response cache unavailable", zap.Error(err))
				return next(c)
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			if cw.status == http.StatusOK && !cw.overflow && cw.buf.Len() > 0 {
				if err := rdb.Set(ctx, key, cw.buf.Bytes(), cfg.TTL).Err(); err != nil {
					log.Warn("response cache store failed", zap.Error(err))
				}
			}
			return nil
		}
	}
}
