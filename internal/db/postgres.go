package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ignatzorin/freelance-marketplace/internal/logger"
	"github.com/ignatzorin/freelance-marketplace/migrations"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// PoolConfig задаёт параметры пула соединений.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewPostgres создаёт подключение к PostgreSQL с заданным DSN.
func NewPostgres(ctx context.Context, dsn string, pool PoolConfig) (*sqlx.DB, error) {
	conn, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: не удалось подключиться: %w", err)
	}

	conn.SetMaxOpenConns(pool.MaxOpenConns)
	conn.SetMaxIdleConns(pool.MaxIdleConns)
	conn.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return conn, nil
}

// RunMigrations применяет встроенные миграции goose.
func RunMigrations(ctx context.Context, conn *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(logger.Log)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("postgres: не удалось выбрать диалект миграций: %w", err)
	}

	if err := goose.UpContext(ctx, conn.DB, "."); err != nil {
		return fmt.Errorf("postgres: не удалось применить миграции: %w", err)
	}

	return nil
}
