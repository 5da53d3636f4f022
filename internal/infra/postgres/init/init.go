package infra_pg_init

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migrate_postgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/humanbelnik/moviematch/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MustEstablishConn opens the privileged read-write connection.
func MustEstablishConn(cfg config.Postgres) *sqlx.DB {
	return mustConnect(DSN(cfg, cfg.User, cfg.Password))
}

// MustEstablishReaderConn opens the restricted connection used by read paths.
func MustEstablishReaderConn(cfg config.Postgres) *sqlx.DB {
	return mustConnect(DSN(cfg, cfg.ReaderUser, cfg.ReaderPassword))
}

func DSN(cfg config.Postgres, user, password string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		user,
		password,
		cfg.DBName,
		cfg.SSLMode,
	)
}

func mustConnect(dsn string) *sqlx.DB {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db
}

// MustMigrate applies the embedded schema migrations through the privileged connection.
func MustMigrate(db *sqlx.DB) {
	if err := Migrate(db); err != nil {
		log.Fatal(err)
	}
}

func Migrate(db *sqlx.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migrate_postgres.WithInstance(db.DB, &migrate_postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
