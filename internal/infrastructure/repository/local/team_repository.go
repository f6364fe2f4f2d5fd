package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/platform/id"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
)

type TeamRepository struct {
	mu  sync.Mutex
	kv  kvstore.Store
	ids id.Generator
	now func() time.Time
}

func NewTeamRepository(kv kvstore.Store, ids id.Generator) *TeamRepository {
	return &TeamRepository{kv: kv, ids: ids, now: time.Now}
}

func (r *TeamRepository) ListTeams(ctx context.Context, _ int64) ([]team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load(ctx)
}

func (r *TeamRepository) CreateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return team.Team{}, err
	}

	item.ID = r.ids.NewID()
	item.DraftID = 0
	item.CreatedAt = r.now().UTC()
	items = append(items, item)
	if err := r.save(ctx, items); err != nil {
		return team.Team{}, err
	}

	return item, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return team.Team{}, err
	}

	idx := indexOfTeam(items, item.ID)
	if idx < 0 {
		return team.Team{}, fmt.Errorf("%w: id=%d", team.ErrNotFound, item.ID)
	}
	item.DraftID = 0
	item.CreatedAt = items[idx].CreatedAt
	items[idx] = item
	if err := r.save(ctx, items); err != nil {
		return team.Team{}, err
	}

	return item, nil
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, _ int64, teamID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := indexOfTeam(items, teamID)
	if idx < 0 {
		return fmt.Errorf("%w: id=%d", team.ErrNotFound, teamID)
	}
	items = append(items[:idx], items[idx+1:]...)

	return r.save(ctx, items)
}

// ReplaceTeams overwrites the stored list wholesale.
func (r *TeamRepository) ReplaceTeams(ctx context.Context, items []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.save(ctx, items)
}

func (r *TeamRepository) load(ctx context.Context) ([]team.Team, error) {
	raw, ok, err := r.kv.Get(ctx, backup.TeamsKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", backup.TeamsKey, err)
	}
	if !ok {
		return []team.Team{}, nil
	}

	return backup.DecodeTeams(raw)
}

func (r *TeamRepository) save(ctx context.Context, items []team.Team) error {
	raw, err := backup.EncodeTeams(items)
	if err != nil {
		return err
	}
	if err := r.kv.Set(ctx, backup.TeamsKey, raw); err != nil {
		return fmt.Errorf("write %s: %w", backup.TeamsKey, err)
	}

	return nil
}

func indexOfTeam(items []team.Team, teamID int64) int {
	for i := range items {
		if items[i].ID == teamID {
			return i
		}
	}
	return -1
}
