package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
)

type DraftInput struct {
	Name        string
	Description string
}

// DraftService manages named drafts. Backends without draft partitioning
// pass a nil repository and every call reports ErrUnsupported.
type DraftService struct {
	drafts draft.Repository
}

func NewDraftService(drafts draft.Repository) *DraftService {
	return &DraftService{drafts: drafts}
}

// Enabled reports whether multi-draft mode is available.
func (s *DraftService) Enabled() bool {
	return s.drafts != nil
}

func (s *DraftService) ListDrafts(ctx context.Context) ([]draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.ListDrafts")
	defer span.End()

	if !s.Enabled() {
		return nil, fmt.Errorf("%w: drafts require remote storage", ErrUnsupported)
	}

	items, err := s.drafts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", classify(err))
	}

	return items, nil
}

func (s *DraftService) GetDraft(ctx context.Context, id int64) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.GetDraft")
	defer span.End()

	if !s.Enabled() {
		return draft.Draft{}, fmt.Errorf("%w: drafts require remote storage", ErrUnsupported)
	}
	if id <= 0 {
		return draft.Draft{}, fmt.Errorf("%w: draft id is required", ErrInvalidInput)
	}

	item, exists, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return draft.Draft{}, fmt.Errorf("get draft: %w", classify(err))
	}
	if !exists {
		return draft.Draft{}, fmt.Errorf("%w: draft=%d", ErrNotFound, id)
	}

	return item, nil
}

func (s *DraftService) CreateDraft(ctx context.Context, input DraftInput) (draft.Draft, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.CreateDraft")
	defer span.End()

	if !s.Enabled() {
		return draft.Draft{}, fmt.Errorf("%w: drafts require remote storage", ErrUnsupported)
	}

	item := draft.Draft{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := item.Validate(); err != nil {
		return draft.Draft{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.drafts.Create(ctx, item)
	if err != nil {
		return draft.Draft{}, fmt.Errorf("create draft: %w", classify(err))
	}

	return created, nil
}
