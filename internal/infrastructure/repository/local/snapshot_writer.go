package local

import (
	"context"

	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
)

// SnapshotWriter replaces both collections of the local board. Restores and
// imports write through it.
type SnapshotWriter struct {
	players *PlayerRepository
	teams   *TeamRepository
}

func NewSnapshotWriter(players *PlayerRepository, teams *TeamRepository) *SnapshotWriter {
	return &SnapshotWriter{players: players, teams: teams}
}

func (w *SnapshotWriter) ReplacePlayers(ctx context.Context, items []player.Player) error {
	return w.players.ReplacePlayers(ctx, items)
}

func (w *SnapshotWriter) ReplaceTeams(ctx context.Context, items []team.Team) error {
	return w.teams.ReplaceTeams(ctx, items)
}
