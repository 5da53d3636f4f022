package app

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/moviematch/internal/config"
	http_catalog "github.com/humanbelnik/moviematch/internal/delivery/http/catalog"
	http_init "github.com/humanbelnik/moviematch/internal/delivery/http/init"
	http_metrics "github.com/humanbelnik/moviematch/internal/delivery/http/metrics"
	http_throttle_middleware "github.com/humanbelnik/moviematch/internal/delivery/http/middleware/throttle"
	http_session "github.com/humanbelnik/moviematch/internal/delivery/http/session"
	http_swagger "github.com/humanbelnik/moviematch/internal/delivery/http/swagger"
	http_swipe "github.com/humanbelnik/moviematch/internal/delivery/http/swipe"
	infra_pg_init "github.com/humanbelnik/moviematch/internal/infra/postgres/init"
	infra_postgres_session "github.com/humanbelnik/moviematch/internal/infra/postgres/session"
	infra_postgres_swipe "github.com/humanbelnik/moviematch/internal/infra/postgres/swipe"
	infra_redis_attempts "github.com/humanbelnik/moviematch/internal/infra/redis/attempts"
	infra_redis_init "github.com/humanbelnik/moviematch/internal/infra/redis/init"
	infra_tmdb "github.com/humanbelnik/moviematch/internal/infra/tmdb"
	usecase_catalog "github.com/humanbelnik/moviematch/internal/usecase/catalog"
	usecase_session "github.com/humanbelnik/moviematch/internal/usecase/session"
	usecase_swipe "github.com/humanbelnik/moviematch/internal/usecase/swipe"
)

func Go(cfg *config.Config) {
	logger := NewLogger(cfg.Log)
	slog.SetDefault(logger)
	gin.SetMode(cfg.HTTP.GinMode)

	writerConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	readerConn := infra_pg_init.MustEstablishReaderConn(cfg.Postgres)
	defer writerConn.Close()
	defer readerConn.Close()
	if cfg.Postgres.Migrate {
		infra_pg_init.MustMigrate(writerConn)
	}

	sessionRepository := infra_postgres_session.New(readerConn, writerConn)
	swipeRepository := infra_postgres_swipe.New(readerConn, writerConn)
	catalogClient := infra_tmdb.New(cfg.Catalog, infra_tmdb.WithLogger(logger))

	sessionUC := usecase_session.New(sessionRepository,
		usecase_session.WithLogger(logger),
		usecase_session.WithCodeAttempts(cfg.Session.CodeAttempts),
	)
	swipeUC := usecase_swipe.New(swipeRepository, sessionUC, usecase_swipe.WithLogger(logger))
	catalogUC := usecase_catalog.New(catalogClient)

	sessionOpts := []http_session.Option{http_session.WithLogger(logger)}
	if cfg.Throttle.JoinAttempts > 0 {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		defer redisConn.Close()
		attempts := infra_redis_attempts.New(redisConn, "join_attempts", cfg.Throttle.Window)
		throttle := http_throttle_middleware.New(attempts, cfg.Throttle.JoinAttempts)
		sessionOpts = append(sessionOpts, http_session.WithJoinThrottle(throttle.PerClient()))
	}

	controllerPool := http_init.NewControllerPool(cfg.HTTP.Mode,
		http_init.WithLogger(logger),
		http_init.WithTrustedProxies(cfg.HTTP.TrustedProxies),
	)
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_metrics.New())
	controllerPool.Add(http_session.New(sessionUC, swipeUC, sessionOpts...))
	controllerPool.Add(http_swipe.New(swipeUC, http_swipe.WithLogger(logger)))
	controllerPool.Add(http_catalog.New(catalogUC, http_catalog.WithLogger(logger)))
	controllerPool.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := controllerPool.RunAll(ctx, cfg.HTTP.Host, cfg.HTTP.Port); err != nil {
		log.Fatalf("failed to run HTTP server: %v", err)
	}
}

func NewLogger(cfg config.Log) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
