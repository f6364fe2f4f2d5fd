package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/draft-board/internal/domain/player"
)

var playerColumns = []string{
	"id",
	"draft_id",
	"name",
	"ppg",
	"rpg",
	"apg",
	"fg",
	"fi",
	"probability",
	"rank",
	"drafted",
	"drafted_by",
	"drafted_at",
	"team_id",
	"created_at",
}

// playerUpsertColumns are written by bulk upserts; created_at keeps its default.
var playerUpsertColumns = playerColumns[:len(playerColumns)-1]

type playerTableModel struct {
	ID          int64         `db:"id"`
	DraftID     int64         `db:"draft_id"`
	Name        string        `db:"name"`
	PPG         float64       `db:"ppg"`
	RPG         float64       `db:"rpg"`
	APG         float64       `db:"apg"`
	FG          float64       `db:"fg"`
	FI          float64       `db:"fi"`
	Probability int           `db:"probability"`
	Rank        int           `db:"rank"`
	Drafted     bool          `db:"drafted"`
	DraftedBy   string        `db:"drafted_by"`
	DraftedAt   sql.NullInt64 `db:"drafted_at"`
	TeamID      sql.NullInt64 `db:"team_id"`
	CreatedAt   time.Time     `db:"created_at"`
}

type playerInsertModel struct {
	DraftID     int64         `db:"draft_id"`
	Name        string        `db:"name"`
	PPG         float64       `db:"ppg"`
	RPG         float64       `db:"rpg"`
	APG         float64       `db:"apg"`
	FG          float64       `db:"fg"`
	FI          float64       `db:"fi"`
	Probability int           `db:"probability"`
	Rank        int           `db:"rank"`
	Drafted     bool          `db:"drafted"`
	DraftedBy   string        `db:"drafted_by"`
	DraftedAt   sql.NullInt64 `db:"drafted_at"`
	TeamID      sql.NullInt64 `db:"team_id"`
}

func playerFromRow(row playerTableModel) player.Player {
	p := player.Player{
		ID:      row.ID,
		DraftID: row.DraftID,
		TeamID:  nullInt64ToInt64(row.TeamID),
		Name:    row.Name,
		Stats: player.Stats{
			PPG: row.PPG,
			RPG: row.RPG,
			APG: row.APG,
			FG:  row.FG,
			FI:  row.FI,
		},
		Probability: row.Probability,
		Rank:        row.Rank,
		Drafted:     row.Drafted,
		DraftedBy:   row.DraftedBy,
		Status:      player.StatusActive,
	}
	if row.DraftedBy == removedSentinel {
		p.DraftedBy = ""
		p.Status = player.StatusRemoved
	}
	if row.DraftedAt.Valid {
		at := time.UnixMilli(row.DraftedAt.Int64).UTC()
		p.DraftedAt = &at
	}
	return p
}

func playerInsertFrom(p player.Player) playerInsertModel {
	return playerInsertModel{
		DraftID:     p.DraftID,
		Name:        p.Name,
		PPG:         p.Stats.PPG,
		RPG:         p.Stats.RPG,
		APG:         p.Stats.APG,
		FG:          p.Stats.FG,
		FI:          p.Stats.FI,
		Probability: p.Probability,
		Rank:        p.Rank,
		Drafted:     p.Drafted,
		DraftedBy:   draftedByColumn(p),
		DraftedAt:   draftedAtColumn(p),
		TeamID:      int64ToNullInt64(p.TeamID),
	}
}

// playerUpsertValues follows the order of playerUpsertColumns.
func playerUpsertValues(draftID int64, p player.Player) []any {
	return []any{
		p.ID,
		draftID,
		p.Name,
		p.Stats.PPG,
		p.Stats.RPG,
		p.Stats.APG,
		p.Stats.FG,
		p.Stats.FI,
		p.Probability,
		p.Rank,
		p.Drafted,
		draftedByColumn(p),
		draftedAtColumn(p),
		int64ToNullInt64(p.TeamID),
	}
}

func draftedByColumn(p player.Player) string {
	if p.IsRemoved() {
		return removedSentinel
	}
	return p.DraftedBy
}

func draftedAtColumn(p player.Player) sql.NullInt64 {
	if p.DraftedAt == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: p.DraftedAt.UnixMilli(), Valid: true}
}
