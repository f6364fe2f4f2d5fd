package player

import "context"

// Repository describes player persistence needs from use cases.
//
// ListPlayers returns active players ordered by rank, then id. Backends that
// keep a single global collection ignore draftID.
//
// WithinBoard runs fn against a Writer bound to one atomic write of the
// draft's collection. Either every write fn makes is persisted or, when fn
// or the final write fails, none is.
type Repository interface {
	ListPlayers(ctx context.Context, draftID int64) ([]Player, error)
	WithinBoard(ctx context.Context, draftID int64, fn func(w Writer) error) error
}

// Writer holds the row-level player writes available inside WithinBoard.
type Writer interface {
	CreatePlayer(ctx context.Context, item Player) (Player, error)
	UpdatePlayer(ctx context.Context, item Player) (Player, error)
	RemovePlayer(ctx context.Context, draftID, playerID int64) error
	BulkUpsertPlayers(ctx context.Context, draftID int64, items []Player) error
}
