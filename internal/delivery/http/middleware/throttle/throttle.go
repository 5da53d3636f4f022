package http_throttle_middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/moviematch/internal/delivery/http/common"
	"github.com/humanbelnik/moviematch/internal/infra/metrics"
)

// Counter counts hits for key within the current window.
type Counter interface {
	Hit(key string) (int64, error)
}

type Middleware struct {
	counter Counter
	limit   int64
	logger  *slog.Logger
}

func New(
	counter Counter,
	limit int,
) *Middleware {
	return &Middleware{
		counter: counter,
		limit:   int64(limit),
		logger:  slog.Default(),
	}
}

// PerClient rejects a client once it exceeds the limit within a window.
// Counter failures let the request through.
func (m *Middleware) PerClient() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if m.limit <= 0 {
			ctx.Next()
			return
		}

		n, err := m.counter.Hit(ctx.ClientIP())
		if err != nil {
			m.logger.Error("throttle counter unavailable", slog.String("error", err.Error()))
			ctx.Next()
			return
		}
		if n > m.limit {
			m.logger.Warn("request throttled",
				slog.String("client", ctx.ClientIP()),
				slog.String("path", ctx.FullPath()),
				slog.Int64("hits", n),
			)
			metrics.JoinAttempts.WithLabelValues(metrics.JoinThrottled).Inc()
			ctx.JSON(http.StatusTooManyRequests, http_common.ErrorResponse{
				Message: "too many attempts, try again later",
			})
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
