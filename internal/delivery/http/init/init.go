package http_init

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	http_access_middleware "github.com/humanbelnik/moviematch/internal/delivery/http/middleware/access"
	http_metrics_middleware "github.com/humanbelnik/moviematch/internal/delivery/http/middleware/metrics"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 10 * time.Second
)

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
	logger *slog.Logger

	trustedProxies []string
}

type PoolOption func(*ControllerPool)

func WithLogger(logger *slog.Logger) PoolOption {
	return func(pool *ControllerPool) {
		pool.logger = logger
	}
}

// WithTrustedProxies sets the proxies whose forwarding headers decide the client IP.
func WithTrustedProxies(proxies []string) PoolOption {
	return func(pool *ControllerPool) {
		pool.trustedProxies = proxies
	}
}

func NewControllerPool(mode string, opts ...PoolOption) *ControllerPool {
	engine := gin.New()
	pool := &ControllerPool{
		pool:   make([]Controller, 0, 10),
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	// Client IP keys the join throttle, so forwarding headers from unknown hops are ignored.
	if err := engine.SetTrustedProxies(pool.trustedProxies); err != nil {
		pool.logger.Error("invalid trusted proxies, trusting none", slog.String("error", err.Error()))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		gin.Recovery(),
		http_metrics_middleware.Observe(),
		http_access_middleware.ReadOnly(mode),
	)
	pool.rg = engine.Group(apiPrefix)
	return pool
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

// Handler exposes the engine, mostly for tests.
func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

// RunAll serves until ctx is cancelled, then drains in-flight requests.
func (pool *ControllerPool) RunAll(ctx context.Context, host, port string) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           pool.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		pool.logger.Info("http server started", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	pool.logger.Info("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}
