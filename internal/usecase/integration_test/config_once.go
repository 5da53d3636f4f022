package integrationtest

import (
	"sync"

	"github.com/humanbelnik/moviematch/internal/config"
	infra_pg_init "github.com/humanbelnik/moviematch/internal/infra/postgres/init"
	"github.com/jmoiron/sqlx"
)

var (
	cfg     *config.Config
	cfgOnce sync.Once

	writer, reader *sqlx.DB
	connOnce       sync.Once
)

func getConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg = config.Load()
	})
	return cfg
}

// getConns migrates once and returns the writer and reader connections.
func getConns() (*sqlx.DB, *sqlx.DB) {
	connOnce.Do(func() {
		c := getConfig()
		writer = infra_pg_init.MustEstablishConn(c.Postgres)
		infra_pg_init.MustMigrate(writer)
		reader = infra_pg_init.MustEstablishReaderConn(c.Postgres)
	})
	return writer, reader
}
