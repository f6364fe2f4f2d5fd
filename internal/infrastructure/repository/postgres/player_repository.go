package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	qb "github.com/riskibarqy/draft-board/internal/platform/querybuilder"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
)

const DefaultBulkChunkSize = 50

type PlayerRepository struct {
	db        *sqlx.DB
	breaker   *resilience.CircuitBreaker
	chunkSize int
}

func NewPlayerRepository(db *sqlx.DB, breaker *resilience.CircuitBreaker, chunkSize int) *PlayerRepository {
	if chunkSize < 1 {
		chunkSize = DefaultBulkChunkSize
	}
	return &PlayerRepository{db: db, breaker: breaker, chunkSize: chunkSize}
}

// ListPlayers returns the draft's players that are not soft-deleted.
func (r *PlayerRepository) ListPlayers(ctx context.Context, draftID int64) ([]player.Player, error) {
	query, args, err := qb.Select(playerColumns...).From("players").
		Where(
			qb.Eq("draft_id", draftID),
			qb.NotEq("drafted_by", removedSentinel),
		).
		OrderBy("rank ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := guard(ctx, r.breaker, func() error {
		return r.db.SelectContext(ctx, &rows, query, args...)
	}); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}

	return out, nil
}

// WithinBoard runs fn inside one transaction. The breaker sees the unit as a
// single call, and any error from fn or the commit rolls everything back.
func (r *PlayerRepository) WithinBoard(ctx context.Context, _ int64, fn func(w player.Writer) error) error {
	return guard(ctx, r.breaker, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx players: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		if err := fn(&txWriter{tx: tx, chunkSize: r.chunkSize}); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx players: %w", err)
		}
		return nil
	})
}

// txWriter issues player writes on an open transaction.
type txWriter struct {
	tx        *sqlx.Tx
	chunkSize int
}

func (w *txWriter) CreatePlayer(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerInsertFrom(item), "RETURNING "+strings.Join(playerColumns, ", "))
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	var row playerTableModel
	if err := w.tx.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isForeignKeyViolation(err) {
			return player.Player{}, fmt.Errorf("insert player: %w: id=%d", draft.ErrNotFound, item.DraftID)
		}
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	return playerFromRow(row), nil
}

func (w *txWriter) UpdatePlayer(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.Update("players").
		Set("name", item.Name).
		Set("ppg", item.Stats.PPG).
		Set("rpg", item.Stats.RPG).
		Set("apg", item.Stats.APG).
		Set("fg", item.Stats.FG).
		Set("fi", item.Stats.FI).
		Set("probability", item.Probability).
		Set("rank", item.Rank).
		Set("drafted", item.Drafted).
		Set("drafted_by", draftedByColumn(item)).
		Set("drafted_at", draftedAtColumn(item)).
		Set("team_id", int64ToNullInt64(item.TeamID)).
		Where(
			qb.Eq("id", item.ID),
			qb.Eq("draft_id", item.DraftID),
			qb.NotEq("drafted_by", removedSentinel),
		).
		Returning(playerColumns...).
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build update player query: %w", err)
	}

	var row playerTableModel
	if err := w.tx.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if isNotFound(err) {
			return player.Player{}, fmt.Errorf("update player: %w: id=%d", player.ErrNotFound, item.ID)
		}
		return player.Player{}, fmt.Errorf("update player: %w", err)
	}

	return playerFromRow(row), nil
}

// RemovePlayer soft-deletes the player so history rows stay referentially intact.
func (w *txWriter) RemovePlayer(ctx context.Context, draftID, playerID int64) error {
	query, args, err := qb.Update("players").
		Set("drafted_by", removedSentinel).
		SetNull("team_id").
		Where(
			qb.Eq("id", playerID),
			qb.Eq("draft_id", draftID),
			qb.NotEq("drafted_by", removedSentinel),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build remove player query: %w", err)
	}

	result, err := w.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove player: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("remove player: %w: id=%d", player.ErrNotFound, playerID)
	}

	return nil
}

// BulkUpsertPlayers writes items in fixed-size chunks, one statement per
// chunk, executed in order on the enclosing transaction.
func (w *txWriter) BulkUpsertPlayers(ctx context.Context, draftID int64, items []player.Player) error {
	statements, err := planPlayerUpsert(draftID, items, w.chunkSize)
	if err != nil {
		return err
	}

	for idx, stmt := range statements {
		if _, err := w.tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("upsert players chunk %d/%d: %w", idx+1, len(statements), err)
		}
	}
	return nil
}

func planPlayerUpsert(draftID int64, items []player.Player, chunkSize int) ([]upsertStatement, error) {
	for _, item := range items {
		if item.ID <= 0 {
			return nil, fmt.Errorf("bulk upsert players: player %q has no id", item.Name)
		}
	}

	statements := make([]upsertStatement, 0, len(items)/max(chunkSize, 1)+1)
	for _, chunk := range chunkPlayers(items, chunkSize) {
		query, args, err := buildPlayerUpsert(draftID, chunk)
		if err != nil {
			return nil, fmt.Errorf("build upsert players query: %w", err)
		}
		statements = append(statements, upsertStatement{query: query, args: args})
	}
	return statements, nil
}

type upsertStatement struct {
	query string
	args  []any
}

func chunkPlayers(items []player.Player, size int) [][]player.Player {
	if size < 1 {
		size = DefaultBulkChunkSize
	}

	out := make([][]player.Player, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// buildPlayerUpsert only updates rows that already belong to draftID.
func buildPlayerUpsert(draftID int64, chunk []player.Player) (string, []any, error) {
	builder := qb.InsertInto("players").Columns(playerUpsertColumns...)
	for _, item := range chunk {
		builder.Values(playerUpsertValues(draftID, item)...)
	}

	return builder.
		Suffix(qb.OnConflictUpdate("id", playerUpsertColumns, "draft_id") +
			" WHERE players.draft_id = EXCLUDED.draft_id").
		ToSQL()
}
