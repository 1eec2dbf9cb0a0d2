package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/fridgebot/backend/internal/domain"
	"github.com/fridgebot/backend/internal/pkg/logger"
)

const backoffStep = 100 * time.Millisecond

// executor runs store calls with a per-attempt timeout and retries
type executor struct {
	timeout    time.Duration
	maxRetries int
	log        *logger.Logger
}

// run calls fn until it succeeds or attempts run out. Only connection and timeout errors
// are retried; exhaustion wraps domain.ErrStorageUnavailable. Any other error is returned
// at once without the sentinel. A cancelled caller context stops immediately.
func (e *executor) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var lastErr error
	attempts := e.maxRetries + 1

	for attempt := 1; attempt <= attempts; attempt++ {
		err := e.attempt(ctx, fn)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if !retryable(err) {
			e.log.Error("store call rejected", "op", op, "error", err)
			return fmt.Errorf("%s: %w", op, err)
		}
		e.log.Warn("store call failed", "op", op, "attempt", attempt, "error", err)

		if attempt < attempts {
			select {
			case <-ctx.Done():
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	e.log.Error("store call gave up", "op", op, "attempts", attempts, "error", lastErr)
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, lastErr)
}

func (e *executor) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", e.timeout, err)
	}
	return err
}

// retryable reports whether err is a lost connection, an unreachable server or a timeout
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// postgres
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08 connection exception, 53 insufficient resources, 57P admin shutdown
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "53") ||
			strings.HasPrefix(pgErr.Code, "57P")
	}

	// sqlite
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}

	// database/sql does not export its closed pool error
	return strings.Contains(err.Error(), "sql: database is closed")
}

// exponentialBackoff returns 100ms, 200ms, 400ms, ... capped at 2s
func exponentialBackoff(attempt int) time.Duration {
	const maxBackoff = 2 * time.Second
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		return maxBackoff
	}
	return min(backoffStep<<(attempt-1), maxBackoff)
}
