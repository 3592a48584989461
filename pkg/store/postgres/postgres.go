// Package postgres provides the PostgreSQL expense store.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adikhanna/smsledger/pkg/api"
)

//go:embed 001_create_expenses.sql
var migrationSQL string

const insertSQL = `
	INSERT INTO expenses (amount, category, occurred_at, occurred_date, description, source, merchant_name)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (amount, occurred_date, category) DO NOTHING`

// Config holds the PostgreSQL store configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string

	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize int
}

// Store persists expense records to PostgreSQL. Duplicate suppression is
// done in the database via a unique index on (amount, occurred_date,
// category), so re-inserting a known record is not an error.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New creates a PostgreSQL store, verifies connectivity, and runs migrations.
func New(cfg Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	if cfg.MaxPoolSize == 0 {
		cfg.MaxPoolSize = 10
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxPoolSize)
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(context.Background(), migrationSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
	)

	return &Store{pool: pool, logger: logger}, nil
}

// Insert persists one record. It returns inserted=false when the unique
// index suppressed the record as a duplicate of history. Transient failures
// are retried before being reported.
func (s *Store) Insert(ctx context.Context, record *api.ExpenseRecord) (bool, error) {
	var inserted bool

	err := retry.Do(
		func() error {
			tag, err := s.pool.Exec(ctx, insertSQL,
				record.Amount,
				record.Category,
				record.OccurredAt,
				record.OccurredAt.Format("2006-01-02"),
				record.RawText,
				record.Source,
				record.MerchantName,
			)
			if err != nil {
				return err
			}
			inserted = tag.RowsAffected() == 1
			return nil
		},
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return false, fmt.Errorf("inserting expense: %w", err)
	}

	if !inserted {
		s.logger.Debug("duplicate expense ignored",
			"amount", record.Amount,
			"category", record.Category,
			"occurred_at", record.OccurredAt,
		)
	}

	return inserted, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
