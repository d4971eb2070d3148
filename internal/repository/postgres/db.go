// Package postgres implements the invoice_income repository on PostgreSQL
// through sqlx and the pgx stdlib driver.
package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"backoffice/internal/config"
)

const connectTimeout = 10 * time.Second

// NewDB opens the connection pool and verifies the server answers within
// connectTimeout.
func NewDB(ctx context.Context, cfg *config.DBConfig) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres at %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(cfg.MaxLifetime)
	return db, nil
}
