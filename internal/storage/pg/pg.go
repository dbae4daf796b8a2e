// Package pg implements advertisement retrieval and result persistence on
// PostgreSQL. It owns no search logic; the extraction engine drives it.
package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Stepan2222000/connect-article-avito/shared/config"
	"github.com/Stepan2222000/connect-article-avito/shared/logger"
)

// ConnectionConfig holds database connection pool settings.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns pool settings sized for the batch
// pipeline: a handful of connections is enough since retrieval and
// persistence are sequential per batch.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 1 * time.Minute,
	}
}

type Storage struct {
	db  *sql.DB
	cfg *config.Config
}

func New(cfg *config.Config) (*Storage, error) {
	logger.Log.Info("connecting to db",
		"host", cfg.Private.Pg.Host,
		"port", cfg.Private.Pg.Port,
		"dbname", cfg.Private.Pg.Dbname)
	db, err := Connect(cfg, DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to db")
	return &Storage{db, cfg}, nil
}

// Connect establishes and verifies a connection, configuring the pool.
func Connect(cfg *config.Config, connCfg ConnectionConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Private.Pg.Host, cfg.Private.Pg.Port,
		cfg.Private.Pg.User, cfg.Private.Pg.Password, cfg.Private.Pg.Dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(connCfg.MaxOpenConns)
	db.SetMaxIdleConns(connCfg.MaxIdleConns)
	db.SetConnMaxLifetime(connCfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(connCfg.ConnMaxIdleTime)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// EnsureResultTable creates avito_parts_resolved when missing. The upsert in
// SaveResults relies on the ad_id primary key.
func (s *Storage) EnsureResultTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS public.avito_parts_resolved (
			ad_id                    BIGINT PRIMARY KEY,
			text_clean               TEXT,
			first_article            TEXT,
			brand_near_first_article TEXT,
			all_articles             TEXT[],
			all_brands               TEXT[],
			updated_at               TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("creating avito_parts_resolved: %w", err)
	}
	return nil
}

// TestConnection verifies the schema the pipeline depends on and logs row
// counts. Used by the --test-connection mode.
func (s *Storage) TestConnection(ctx context.Context) error {
	for _, table := range []string{"special_model_data", "text_model_data"} {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM public.%s", table)
		if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return fmt.Errorf("table %s not reachable: %w", table, err)
		}
		logger.Log.Info("table reachable", "table", table, "rows", count)
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'avito_parts_resolved'
		)`).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking avito_parts_resolved: %w", err)
	}
	if exists {
		var count int64
		if err := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM public.avito_parts_resolved").Scan(&count); err != nil {
			return err
		}
		logger.Log.Info("result table exists", "rows", count)
	} else {
		logger.Log.Info("result table will be created on first run")
	}
	return nil
}
