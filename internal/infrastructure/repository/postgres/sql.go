package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
)

const (
	pqForeignKeyViolation = "23503"

	// removedSentinel marks a soft-deleted player in players.drafted_by.
	removedSentinel = "REMOVED"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pqForeignKeyViolation
}

// IsOutage separates database outages from answers about the data.
// Missing rows, constraint violations and caller cancellation are not
// outages. It is the failure classifier for the repository breaker.
func IsOutage(err error) bool {
	switch {
	case err == nil:
		return false
	case isNotFound(err),
		errors.Is(err, context.Canceled),
		errors.Is(err, player.ErrNotFound),
		errors.Is(err, team.ErrNotFound),
		errors.Is(err, draft.ErrNotFound):
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23":
			return false
		}
	}

	return true
}

// guard runs fn behind breaker. A nil breaker runs fn directly.
func guard(ctx context.Context, breaker *resilience.CircuitBreaker, fn func() error) error {
	if breaker == nil {
		return fn()
	}
	return breaker.Execute(ctx, fn)
}

func nullInt64ToInt64(v sql.NullInt64) int64 {
	if !v.Valid {
		return 0
	}
	return v.Int64
}

func int64ToNullInt64(v int64) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func nullStringToString(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}

func stringToNullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
