// Package local keeps the board in a single key-value store with no draft
// partitioning. Draft ids passed in are ignored.
package local

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/ranking"
	"github.com/riskibarqy/draft-board/internal/platform/id"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
)

type PlayerRepository struct {
	mu  sync.Mutex
	kv  kvstore.Store
	ids id.Generator
}

func NewPlayerRepository(kv kvstore.Store, ids id.Generator) *PlayerRepository {
	return &PlayerRepository{kv: kv, ids: ids}
}

func (r *PlayerRepository) ListPlayers(ctx context.Context, _ int64) ([]player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

// WithinBoard applies fn's writes to an in-memory copy of the collection and
// stores the result with a single Set. Readers are held off until it returns.
func (r *PlayerRepository) WithinBoard(ctx context.Context, _ int64, fn func(w player.Writer) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}

	w := &boardWriter{items: items, ids: r.ids}
	if err := fn(w); err != nil {
		return err
	}

	return r.save(ctx, w.items)
}

// ReplacePlayers overwrites the stored list wholesale.
func (r *PlayerRepository) ReplacePlayers(ctx context.Context, items []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save(ctx, items)
}

func (r *PlayerRepository) load(ctx context.Context) ([]player.Player, error) {
	raw, ok, err := r.kv.Get(ctx, backup.PlayersKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", backup.PlayersKey, err)
	}
	if !ok {
		return []player.Player{}, nil
	}

	items, err := backup.DecodePlayers(raw)
	if err != nil {
		return nil, err
	}
	ranking.SortByRank(items)
	return items, nil
}

func (r *PlayerRepository) save(ctx context.Context, items []player.Player) error {
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		if item.IsRemoved() {
			continue
		}
		out = append(out, item)
	}
	ranking.SortByRank(out)

	raw, err := backup.EncodePlayers(out)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, backup.PlayersKey, raw); err != nil {
		return fmt.Errorf("write %s: %w", backup.PlayersKey, err)
	}

	return nil
}

// boardWriter edits the loaded collection. Nothing reaches the store until
// WithinBoard saves it.
type boardWriter struct {
	items []player.Player
	ids   id.Generator
}

func (w *boardWriter) CreatePlayer(_ context.Context, item player.Player) (player.Player, error) {
	item.ID = w.ids.NewID()
	item.DraftID = 0
	item.Status = player.StatusActive
	w.items = append(w.items, item)
	return item, nil
}

func (w *boardWriter) UpdatePlayer(_ context.Context, item player.Player) (player.Player, error) {
	idx := indexOfPlayer(w.items, item.ID)
	if idx < 0 {
		return player.Player{}, fmt.Errorf("%w: id=%d", player.ErrNotFound, item.ID)
	}
	item.DraftID = 0
	w.items[idx] = item
	return item, nil
}

// RemovePlayer deletes the record outright.
func (w *boardWriter) RemovePlayer(_ context.Context, _ int64, playerID int64) error {
	idx := indexOfPlayer(w.items, playerID)
	if idx < 0 {
		return fmt.Errorf("%w: id=%d", player.ErrNotFound, playerID)
	}
	w.items = append(w.items[:idx], w.items[idx+1:]...)
	return nil
}

// BulkUpsertPlayers merges items into the collection by id.
func (w *boardWriter) BulkUpsertPlayers(_ context.Context, _ int64, items []player.Player) error {
	for _, item := range items {
		item.DraftID = 0
		if idx := indexOfPlayer(w.items, item.ID); idx >= 0 {
			w.items[idx] = item
			continue
		}
		w.items = append(w.items, item)
	}
	return nil
}

func indexOfPlayer(items []player.Player, playerID int64) int {
	for i := range items {
		if items[i].ID == playerID {
			return i
		}
	}
	return -1
}
