package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/crusade153/snop-mgt-sub000/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// The planning workload is read-heavy wide scans with the occasional alert
// persist, so the pool stays small and writes queue on the semaphore.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	maxConcurrentTx = 10
)

// DB wraps the sqlx pool with a write-concurrency cap shared by all
// repositories.
type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

var (
	sharedDB *DB
	openOnce sync.Once
)

// NewDB opens the shared connection pool. Repeated calls return the same
// instance.
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	var err error
	openOnce.Do(func() {
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

		var pool *sqlx.DB
		pool, err = sqlx.Connect("postgres", dsn)
		if err != nil {
			return
		}

		pool.SetMaxOpenConns(maxOpenConns)
		pool.SetMaxIdleConns(maxIdleConns)
		pool.SetConnMaxLifetime(connMaxLifetime)

		sharedDB = &DB{
			DB:  pool,
			sem: semaphore.NewWeighted(maxConcurrentTx),
		}
	})

	return sharedDB, err
}

// NewDBFromConn wraps an existing database handle. The CLI opens its own
// connection from a single URL and hands it over here.
func NewDBFromConn(db *sql.DB, driverName string) *DB {
	return &DB{
		DB:  sqlx.NewDb(db, driverName),
		sem: semaphore.NewWeighted(maxConcurrentTx),
	}
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error. Acquiring the semaphore first keeps bulk alert persists
// from starving the dashboard reads.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}
