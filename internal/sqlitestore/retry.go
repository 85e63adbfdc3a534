package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// backoffSchedule is the Transient retry policy: up to 3 retries after the
// first attempt, waiting 100ms/400ms/1.6s before each.
var backoffSchedule = []time.Duration{100 * time.Millisecond, 400 * time.Millisecond, 1600 * time.Millisecond}

// withRetry runs op, retrying up to len(backoffSchedule) additional times
// when op fails with an error isTransient accepts (sql.ErrConnDone,
// sql.ErrTxDone, or context.DeadlineExceeded), per the Transient error kind;
// any other error is returned at once. A context cancellation aborts
// retrying immediately.
func withRetry(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = op()
		if lastErr == nil || !isTransient(lastErr) {
			return lastErr
		}
		if attempt >= len(backoffSchedule) {
			return fmt.Errorf("%w: %v", domain.ErrTransient, lastErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoffSchedule[attempt]):
		}
	}
}

func isTransient(err error) bool {
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	return errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) || errors.Is(err, context.DeadlineExceeded)
}
