// Package cache wraps slow-changing repositories with a read-through TTL cache.
// Writes go to the wrapped repository first and then drop the affected keys.
package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	basecache "github.com/riskibarqy/draft-board/internal/platform/cache"
)

const (
	draftKeyPrefix = "draft:"
	draftListKey   = draftKeyPrefix + "list"
	teamListPrefix = "team:list:"
)

type DraftRepository struct {
	next  draft.Repository
	cache *basecache.Store
}

func NewDraftRepository(next draft.Repository, cache *basecache.Store) *DraftRepository {
	return &DraftRepository{next: next, cache: cache}
}

func (r *DraftRepository) List(ctx context.Context) ([]draft.Draft, error) {
	items, err := basecache.Load(ctx, r.cache, draftListKey, func(ctx context.Context) ([]draft.Draft, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]draft.Draft(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]draft.Draft(nil), items...), nil
}

func (r *DraftRepository) GetByID(ctx context.Context, id int64) (draft.Draft, bool, error) {
	key := draftKeyPrefix + "id:" + strconv.FormatInt(id, 10)
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (cachedDraftByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedDraftByID{}, err
		}
		return cachedDraftByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return draft.Draft{}, false, err
	}

	return cached.value, cached.exists, nil
}

func (r *DraftRepository) Create(ctx context.Context, item draft.Draft) (draft.Draft, error) {
	created, err := r.next.Create(ctx, item)
	if err != nil {
		return draft.Draft{}, err
	}

	r.cache.InvalidatePrefix(ctx, draftKeyPrefix)
	return created, nil
}

type cachedDraftByID struct {
	value  draft.Draft
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListTeams(ctx context.Context, draftID int64) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamListKey(draftID), func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.ListTeams(ctx, draftID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) CreateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	created, err := r.next.CreateTeam(ctx, item)
	if err != nil {
		return team.Team{}, err
	}

	r.cache.Invalidate(ctx, teamListKey(item.DraftID))
	return created, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, item team.Team) (team.Team, error) {
	updated, err := r.next.UpdateTeam(ctx, item)
	if err != nil {
		return team.Team{}, err
	}

	r.cache.Invalidate(ctx, teamListKey(item.DraftID))
	return updated, nil
}

func (r *TeamRepository) DeleteTeam(ctx context.Context, draftID, teamID int64) error {
	if err := r.next.DeleteTeam(ctx, draftID, teamID); err != nil {
		return err
	}

	r.cache.Invalidate(ctx, teamListKey(draftID))
	return nil
}

func teamListKey(draftID int64) string {
	return teamListPrefix + strconv.FormatInt(draftID, 10)
}
