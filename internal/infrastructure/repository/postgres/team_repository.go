package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	qb "github.com/riskibarqy/draft-board/internal/platform/querybuilder"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
)

type TeamRepository struct {
	db      *sqlx.DB
	breaker *resilience.CircuitBreaker
}

func NewTeamRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker) *TeamRepository {
	return &TeamRepository{db: db, breaker: breaker}
}

func (r *TeamRepository) ListTeams(ctx context.Context, draftID int64) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").
		Where(qb.Eq("draft_id", draftID)).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := guard(ctx, r.breaker, func() error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	}); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

func (r *TeamRepository) CreateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	query, args, err := qb.InsertModel("teams", teamInsertModel{
		DraftID: item.DraftID,
		Name:    item.Name,
		Captain: item.Captain,
	}, "RETURNING "+strings.Join(teamColumns, ", "))
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}

	var row teamTableModel
	err = guard(ctx, r.breaker, func() error {
		return r.db.QueryRowxContext(ctx, query, args...).StructScan(&row)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return team.Team{}, fmt.Errorf("insert team: %w: id=%d", draft.ErrNotFound, item.DraftID)
		}
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}

	return teamFromRow(row), nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("captain", item.Captain).
		Where(
			qb.Eq("id", item.ID),
			qb.Eq("draft_id", item.DraftID),
		).
		Returning(teamColumns...).
		ToSQL()
	if err != nil {
		return team.Team{}, fmt.Errorf("build update team query: %w", err)
	}

	var row teamTableModel
	err = guard(ctx, r.breaker, func() error {
		return r.db.QueryRowxContext(ctx, query, args...).StructScan(&row)
	})
	if err != nil {
		if isNotFound(err) {
			return team.Team{}, fmt.Errorf("update team: %w: id=%d", team.ErrNotFound, item.ID)
		}
		return team.Team{}, fmt.Errorf("update team: %w", err)
	}

	return teamFromRow(row), nil
}

// DeleteTeam removes the row. Players drafted by the team keep their
// drafted_by name; team_id is cleared by the foreign key.
func (r *TeamRepository) DeleteTeam(ctx context.Context, draftID, teamID int64) error {
	query, args, err := qb.DeleteFrom("teams").
		Where(
			qb.Eq("id", teamID),
			qb.Eq("draft_id", draftID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}

	var affected int64
	err = guard(ctx, r.breaker, func() error {
		result, execErr := r.db.ExecContext(ctx, query, args...)
		if execErr != nil {
			return execErr
		}
		affected, execErr = result.RowsAffected()
		return execErr
	})
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete team: %w: id=%d", team.ErrNotFound, teamID)
	}

	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:        row.ID,
		DraftID:   row.DraftID,
		Name:      row.Name,
		Captain:   row.Captain,
		CreatedAt: row.CreatedAt,
	}
}
