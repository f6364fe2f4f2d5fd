package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	qb "github.com/riskibarqy/draft-board/internal/platform/querybuilder"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
)

type DraftRepository struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewDraftRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *DraftRepository {
	return &DraftRepository{db: db, breaker: breaker}
}

func (r *DraftRepository) List(ctx context.Context) ([]draft.Draft, error) {
	query, args, err := qb.Select(draftColumns...).From("drafts").
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select drafts query: %w", err)
	}

	var rows []draftTableModel
	if err := guard(ctx, r.breaker, func() error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	}); err != nil {
		return nil, fmt.Errorf("select drafts: %w", err)
	}

	out := make([]draft.Draft, 0, len(rows))
	for _, row := range rows {
		out = append(out, draftFromRow(row))
	}

	return out, nil
}

func (r *DraftRepository) GetByID(ctx context.Context, id int64) (draft.Draft, bool, error) {
	query, args, err := qb.Select(draftColumns...).From("drafts").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return draft.Draft{}, false, fmt.Errorf("build get draft by id query: %w", err)
	}

	var row draftTableModel
	err = guard(ctx, r.breaker, func() error {
		return r.db.GetContext(ctx, &row, query, args...)
	})
	if err != nil {
		if isNotFound(err) {
			return draft.Draft{}, false, nil
		}
		return draft.Draft{}, false, fmt.Errorf("get draft by id: %w", err)
	}

	return draftFromRow(row), true, nil
}

func (r *DraftRepository) Create(ctx context.Context, item draft.Draft) (draft.Draft, error) {
	query, args, err := qb.InsertModel("drafts", draftInsertModel{
		Name:        item.Name,
		Description: stringToNullString(item.Description),
	}, "RETURNING "+strings.Join(draftColumns, ", "))
	if err != nil {
		return draft.Draft{}, fmt.Errorf("build insert draft query: %w", err)
	}

	var row draftTableModel
	if err := guard(ctx, r.breaker, func() error {
		return r.db.QueryRowxContext(ctx, query, args...).StructScan(&row)
	}); err != nil {
		return draft.Draft{}, fmt.Errorf("insert draft: %w", err)
	}

	return draftFromRow(row), nil
}

func draftFromRow(row draftTableModel) draft.Draft {
	return draft.Draft{
		ID:          row.ID,
		Name:        row.Name,
		Description: nullStringToString(row.Description),
		CreatedAt:   row.CreatedAt,
	}
}
