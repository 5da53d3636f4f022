package infra_redis_init

import (
	"log"
	"log/slog"
	"net"
	"time"

	"github.com/go-redis/redis"
	"github.com/humanbelnik/moviematch/internal/config"
)

// MustEstablishConn connects to the join-attempt counter store.
func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          0,
		DialTimeout: 3 * time.Second,
		ReadTimeout: time.Second,
	})

	if err := client.Ping().Err(); err != nil {
		log.Fatalf("redis ping failed: %v", err)
	}
	slog.Default().Info("redis connected", slog.String("addr", client.Options().Addr))

	return client
}
