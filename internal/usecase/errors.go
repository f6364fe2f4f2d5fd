package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrUnsupported           = errors.New("unsupported in current storage mode")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// classify tags adapter errors with the use case sentinel they map to. The
// original error stays in the chain.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, kvstore.ErrQuotaExceeded):
		return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	case errors.Is(err, player.ErrNotFound), errors.Is(err, team.ErrNotFound), errors.Is(err, draft.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, backup.ErrInvalidSnapshot):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
