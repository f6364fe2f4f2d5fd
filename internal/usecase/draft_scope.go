package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
)

// draftScope resolves the draft a request works on. Without a draft
// repository the board is a single global collection and every id maps to 0.
type draftScope struct {
	drafts draft.Repository
}

func (s draftScope) enabled() bool {
	return s.drafts != nil
}

func (s draftScope) resolve(ctx context.Context, draftID int64) (int64, error) {
	if s.drafts == nil {
		return 0, nil
	}
	if draftID <= 0 {
		return 0, fmt.Errorf("%w: draft id is required", ErrInvalidInput)
	}

	_, exists, err := s.drafts.GetByID(ctx, draftID)
	if err != nil {
		return 0, fmt.Errorf("get draft: %w", classify(err))
	}
	if !exists {
		return 0, fmt.Errorf("%w: draft=%d", ErrNotFound, draftID)
	}

	return draftID, nil
}
