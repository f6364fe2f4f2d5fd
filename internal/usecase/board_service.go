package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/ranking"
	"github.com/riskibarqy/draft-board/internal/domain/team"
)

// ChartPoint is one undrafted player on the score chart.
type ChartPoint struct {
	Name        string
	Score       float64
	Probability int
}

// BoardService owns the ranked player pool. Every mutation re-ranks the
// whole pool and persists the row change and the new ranks as one write.
type BoardService struct {
	mu      sync.RWMutex
	players player.Repository
	teams   team.Repository
	scope   draftScope
	now     func() time.Time
}

// NewBoardService builds the board. drafts may be nil when the storage
// backend keeps one global board.
func NewBoardService(players player.Repository, teams team.Repository, drafts draft.Repository) *BoardService {
	return &BoardService{
		players: players,
		teams:   teams,
		scope:   draftScope{drafts: drafts},
		now:     time.Now,
	}
}

func (s *BoardService) ListPlayers(ctx context.Context, draftID int64) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.ListPlayers")
	defer span.End()

	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", classify(err))
	}

	return items, nil
}

func (s *BoardService) AddPlayer(ctx context.Context, draftID int64, form player.Form) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.AddPlayer")
	defer span.End()

	name := strings.TrimSpace(form.Name)
	if name == "" {
		return player.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return player.Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return player.Player{}, fmt.Errorf("list players: %w", classify(err))
	}

	form.Name = name
	var created player.Player
	ranked, err := s.commit(ctx, draftID, func(w player.Writer) ([]player.Player, error) {
		item, err := w.CreatePlayer(ctx, newPlayer(draftID, form, len(current)+1))
		if err != nil {
			return nil, fmt.Errorf("create player: %w", err)
		}
		created = item
		return append(current, item), nil
	})
	if err != nil {
		return player.Player{}, err
	}

	return findPlayer(ranked, created.ID, created), nil
}

// BulkAddPlayers creates one zero-stat player per non-blank name. A failing
// create leaves the board as it was.
func (s *BoardService) BulkAddPlayers(ctx context.Context, draftID int64, names []string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.BulkAddPlayers")
	defer span.End()

	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			cleaned = append(cleaned, name)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one player name is required", ErrInvalidInput)
	}
	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", classify(err))
	}

	var created []player.Player
	ranked, err := s.commit(ctx, draftID, func(w player.Writer) ([]player.Player, error) {
		created = make([]player.Player, 0, len(cleaned))
		for _, name := range cleaned {
			item, err := w.CreatePlayer(ctx, newPlayer(draftID, player.Form{Name: name}, len(current)+len(created)+1))
			if err != nil {
				return nil, fmt.Errorf("create player %q: %w", name, err)
			}
			created = append(created, item)
		}
		return append(current, created...), nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0, len(created))
	for _, item := range created {
		out = append(out, findPlayer(ranked, item.ID, item))
	}
	return out, nil
}

// UpdatePlayer edits name and stats. Probability follows the new score.
func (s *BoardService) UpdatePlayer(ctx context.Context, draftID, playerID int64, form player.Form) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.UpdatePlayer")
	defer span.End()

	name := strings.TrimSpace(form.Name)
	if name == "" {
		return player.Player{}, fmt.Errorf("%w: player name is required", ErrInvalidInput)
	}
	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return player.Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return player.Player{}, fmt.Errorf("list players: %w", classify(err))
	}
	idx := indexOfPlayer(current, playerID)
	if idx < 0 {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	item := current[idx]
	item.Name = name
	item.Stats = ranking.StatsFromForm(form)
	item.Probability = ranking.Probability(ranking.Score(item.Stats))

	ranked, err := s.commit(ctx, draftID, replacePlayer(ctx, current, idx, item))
	if err != nil {
		return player.Player{}, err
	}

	return findPlayer(ranked, item.ID, item), nil
}

func (s *BoardService) RemovePlayer(ctx context.Context, draftID, playerID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.RemovePlayer")
	defer span.End()

	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return fmt.Errorf("list players: %w", classify(err))
	}
	idx := indexOfPlayer(current, playerID)
	if idx < 0 {
		return fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	_, err = s.commit(ctx, draftID, func(w player.Writer) ([]player.Player, error) {
		if err := w.RemovePlayer(ctx, draftID, playerID); err != nil {
			return nil, fmt.Errorf("remove player: %w", err)
		}
		current[idx].Status = player.StatusRemoved
		return current, nil
	})
	return err
}

// MarkDrafted assigns an undrafted player to the named team.
func (s *BoardService) MarkDrafted(ctx context.Context, draftID, playerID int64, teamName string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.MarkDrafted",
		attribute.Int64("draft.id", draftID),
		attribute.Int64("player.id", playerID),
	)
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	if teamName == "" {
		return player.Player{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return player.Player{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := s.teams.ListTeams(ctx, draftID)
	if err != nil {
		return player.Player{}, fmt.Errorf("list teams: %w", classify(err))
	}
	owner, ok := findTeamByName(teams, teamName)
	if !ok {
		return player.Player{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamName)
	}

	current, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return player.Player{}, fmt.Errorf("list players: %w", classify(err))
	}
	idx := indexOfPlayer(current, playerID)
	if idx < 0 {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	item := current[idx]
	if item.Drafted {
		return player.Player{}, fmt.Errorf("%w: player=%d already drafted by %s", ErrConflict, playerID, item.DraftedBy)
	}
	draftedAt := s.now().UTC()
	item.Drafted = true
	item.DraftedBy = owner.Name
	item.DraftedAt = &draftedAt
	item.TeamID = owner.ID

	ranked, err := s.commit(ctx, draftID, replacePlayer(ctx, current, idx, item))
	if err != nil {
		return player.Player{}, err
	}

	return findPlayer(ranked, item.ID, item), nil
}

func (s *BoardService) Recommendations(ctx context.Context, draftID int64) ([]ranking.Recommendation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.Recommendations")
	defer span.End()

	items, err := s.ListPlayers(ctx, draftID)
	if err != nil {
		return nil, err
	}

	return ranking.Recommend(items), nil
}

// History lists drafted players, most recent pick first.
func (s *BoardService) History(ctx context.Context, draftID int64) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.History")
	defer span.End()

	items, err := s.ListPlayers(ctx, draftID)
	if err != nil {
		return nil, err
	}

	out := make([]player.Player, 0)
	for _, item := range items {
		if item.Drafted {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return draftedAtMillis(out[i]) > draftedAtMillis(out[j])
	})

	return out, nil
}

func (s *BoardService) ChartData(ctx context.Context, draftID int64) ([]ChartPoint, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BoardService.ChartData")
	defer span.End()

	items, err := s.ListPlayers(ctx, draftID)
	if err != nil {
		return nil, err
	}

	out := make([]ChartPoint, 0, len(items))
	for _, item := range items {
		if item.Drafted {
			continue
		}
		out = append(out, ChartPoint{
			Name:        item.Name,
			Score:       ranking.ScoreValue(item.Stats),
			Probability: item.Probability,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out, nil
}

// commit runs change and the rank rewrite it triggers as one board write.
// change applies the row edit and returns the collection to reconcile.
// Nothing is persisted if either step fails.
func (s *BoardService) commit(ctx context.Context, draftID int64, change func(w player.Writer) ([]player.Player, error)) ([]player.Player, error) {
	var ranked []player.Player
	err := s.players.WithinBoard(ctx, draftID, func(w player.Writer) error {
		items, err := change(w)
		if err != nil {
			return err
		}
		ranked = ranking.Reconcile(items)
		if len(ranked) == 0 {
			return nil
		}
		if err := w.BulkUpsertPlayers(ctx, draftID, ranked); err != nil {
			return fmt.Errorf("save player ranks: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return ranked, nil
}

// replacePlayer is the change for an in-place edit of current[idx].
func replacePlayer(ctx context.Context, current []player.Player, idx int, item player.Player) func(w player.Writer) ([]player.Player, error) {
	return func(w player.Writer) ([]player.Player, error) {
		updated, err := w.UpdatePlayer(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("update player: %w", err)
		}
		current[idx] = updated
		return current, nil
	}
}

func newPlayer(draftID int64, form player.Form, rank int) player.Player {
	stats := ranking.StatsFromForm(form)
	return player.Player{
		DraftID:     draftID,
		Name:        form.Name,
		Stats:       stats,
		Probability: ranking.Probability(ranking.Score(stats)),
		Rank:        rank,
		Status:      player.StatusActive,
	}
}

func indexOfPlayer(items []player.Player, playerID int64) int {
	for i := range items {
		if items[i].ID == playerID {
			return i
		}
	}
	return -1
}

func findPlayer(items []player.Player, playerID int64, fallback player.Player) player.Player {
	if idx := indexOfPlayer(items, playerID); idx >= 0 {
		return items[idx]
	}
	return fallback
}

func findTeamByName(items []team.Team, name string) (team.Team, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return team.Team{}, false
}

func draftedAtMillis(p player.Player) int64 {
	if p.DraftedAt == nil {
		return 0
	}
	return p.DraftedAt.UnixMilli()
}
