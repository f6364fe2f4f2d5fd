package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/infrastructure/repository/local"
	draftmock "github.com/riskibarqy/draft-board/internal/mocks/domain/draft"
	playermock "github.com/riskibarqy/draft-board/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/draft-board/internal/mocks/domain/team"
	"github.com/riskibarqy/draft-board/internal/platform/id"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/resilience"
	"github.com/stretchr/testify/mock"
)

type localBoard struct {
	kv      *kvstore.MemoryStore
	players *local.PlayerRepository
	teams   *local.TeamRepository
	board   *BoardService
	roster  *TeamService
}

func newLocalBoard(t *testing.T) localBoard {
	t.Helper()

	kv := kvstore.NewMemoryStore(0)
	ids := id.NewClockGenerator()
	players := local.NewPlayerRepository(kv, ids)
	teams := local.NewTeamRepository(kv, ids)

	return localBoard{
		kv:      kv,
		players: players,
		teams:   teams,
		board:   NewBoardService(players, teams, nil),
		roster:  NewTeamService(teams, players, nil),
	}
}

func TestBoardService_AddPlayerRanksByScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)

	a, err := b.board.AddPlayer(ctx, 0, player.Form{Name: " A ", PPG: "10"})
	if err != nil {
		t.Fatalf("add A: %v", err)
	}
	if a.Name != "A" || a.Probability != 45 || a.Rank != 1 {
		t.Fatalf("unexpected A: %+v", a)
	}

	bp, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "B", PPG: "30"})
	if err != nil {
		t.Fatalf("add B: %v", err)
	}
	if bp.Probability != 95 || bp.Rank != 1 {
		t.Fatalf("unexpected B: %+v", bp)
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("unexpected player count: %d", len(items))
	}
	if items[0].Name != "B" || items[0].Rank != 1 || items[1].Name != "A" || items[1].Rank != 2 {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestBoardService_AddPlayerRequiresName(t *testing.T) {
	t.Parallel()

	b := newLocalBoard(t)
	_, err := b.board.AddPlayer(context.Background(), 0, player.Form{Name: "  ", PPG: "10"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBoardService_AddPlayerCoercesBadStats(t *testing.T) {
	t.Parallel()

	b := newLocalBoard(t)
	got, err := b.board.AddPlayer(context.Background(), 0, player.Form{Name: "C", PPG: "abc", RPG: "NaN", APG: "4"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}
	if got.Stats.PPG != 0 || got.Stats.RPG != 0 || got.Stats.APG != 4 {
		t.Fatalf("unexpected stats: %+v", got.Stats)
	}
	if got.Probability != 35 {
		t.Fatalf("unexpected probability: %d", got.Probability)
	}
}

func TestBoardService_BulkAddSkipsBlankNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)

	created, err := b.board.BulkAddPlayers(ctx, 0, []string{"Ann", "", "  ", " Bo ", "Cy"})
	if err != nil {
		t.Fatalf("bulk add: %v", err)
	}
	if len(created) != 3 || created[1].Name != "Bo" {
		t.Fatalf("unexpected created players: %+v", created)
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	for i, item := range items {
		if item.Rank != i+1 {
			t.Fatalf("rank gap at %d: %+v", i, items)
		}
	}
	if items[0].Name != "Ann" || items[2].Name != "Cy" {
		t.Fatalf("equal scores must keep insertion order: %+v", items)
	}

	if _, err := b.board.BulkAddPlayers(ctx, 0, []string{" ", ""}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBoardService_UpdatePlayerRecomputesProbabilityAndRank(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)

	low, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "Low", PPG: "5"})
	if err != nil {
		t.Fatalf("add low: %v", err)
	}
	if _, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "High", PPG: "20"}); err != nil {
		t.Fatalf("add high: %v", err)
	}

	updated, err := b.board.UpdatePlayer(ctx, 0, low.ID, player.Form{Name: "Low", PPG: "40"})
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	if updated.Rank != 1 || updated.Probability != 95 {
		t.Fatalf("unexpected updated player: %+v", updated)
	}

	_, err = b.board.UpdatePlayer(ctx, 0, 424242, player.Form{Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBoardService_RemovePlayerCompactsRanks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)

	var middle player.Player
	for i, ppg := range []string{"30", "20", "10"} {
		item, err := b.board.AddPlayer(ctx, 0, player.Form{Name: ppg, PPG: ppg})
		if err != nil {
			t.Fatalf("add player: %v", err)
		}
		if i == 1 {
			middle = item
		}
	}

	if err := b.board.RemovePlayer(ctx, 0, middle.ID); err != nil {
		t.Fatalf("remove player: %v", err)
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(items) != 2 || items[0].Rank != 1 || items[1].Rank != 2 || items[1].Name != "10" {
		t.Fatalf("unexpected players after remove: %+v", items)
	}

	if err := b.board.RemovePlayer(ctx, 0, middle.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// flakyStore fails the next Set of key once armed.
type flakyStore struct {
	*kvstore.MemoryStore
	key   string
	armed bool
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.armed && key == s.key {
		s.armed = false
		return errors.New("write interrupted")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func TestBoardService_InterruptedWriteKeepsRanks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := &flakyStore{MemoryStore: kvstore.NewMemoryStore(0), key: backup.PlayersKey}
	ids := id.NewClockGenerator()
	players := local.NewPlayerRepository(kv, ids)
	board := NewBoardService(players, local.NewTeamRepository(kv, ids), nil)

	var top player.Player
	for i, name := range []string{"A", "B", "C"} {
		item, err := board.AddPlayer(ctx, 0, player.Form{Name: name, PPG: []string{"30", "20", "10"}[i]})
		if err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		if i == 0 {
			top = item
		}
	}

	kv.armed = true
	if err := board.RemovePlayer(ctx, 0, top.ID); err == nil {
		t.Fatalf("expected remove to fail")
	}
	assertRankOrder(t, board, "A", "B", "C")

	kv.armed = true
	if _, err := board.AddPlayer(ctx, 0, player.Form{Name: "D", PPG: "40"}); err == nil {
		t.Fatalf("expected add to fail")
	}
	assertRankOrder(t, board, "A", "B", "C")

	if _, err := board.AddPlayer(ctx, 0, player.Form{Name: "D", PPG: "40"}); err != nil {
		t.Fatalf("add D: %v", err)
	}
	assertRankOrder(t, board, "D", "A", "B", "C")
}

// assertRankOrder checks the stored board lists names in order with ranks 1..n.
func assertRankOrder(t *testing.T, board *BoardService, names ...string) {
	t.Helper()

	items, err := board.ListPlayers(context.Background(), 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(items) != len(names) {
		t.Fatalf("expected %d players, got %+v", len(names), items)
	}
	for i, item := range items {
		if item.Name != names[i] || item.Rank != i+1 {
			t.Fatalf("position %d: expected %s at rank %d, got %+v", i, names[i], i+1, items)
		}
	}
}

func TestBoardService_MarkDrafted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	draftedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b.board.now = func() time.Time { return draftedAt }

	red, err := b.roster.AddTeam(ctx, 0, TeamInput{Name: "Red", Captain: "Ann"})
	if err != nil {
		t.Fatalf("add team: %v", err)
	}
	item, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "A", PPG: "10"})
	if err != nil {
		t.Fatalf("add player: %v", err)
	}

	if _, err := b.board.MarkDrafted(ctx, 0, item.ID, "Blue"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown team, got %v", err)
	}

	got, err := b.board.MarkDrafted(ctx, 0, item.ID, "Red")
	if err != nil {
		t.Fatalf("mark drafted: %v", err)
	}
	if !got.Drafted || got.DraftedBy != "Red" || got.TeamID != red.ID {
		t.Fatalf("unexpected drafted player: %+v", got)
	}
	if got.DraftedAt == nil || !got.DraftedAt.Equal(draftedAt) {
		t.Fatalf("unexpected drafted at: %v", got.DraftedAt)
	}

	b.board.now = func() time.Time { return draftedAt.Add(time.Hour) }
	if _, err := b.board.MarkDrafted(ctx, 0, item.ID, "Red"); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if !items[0].DraftedAt.Equal(draftedAt) {
		t.Fatalf("drafted at must not change: %v", items[0].DraftedAt)
	}

	_, roster, err := b.roster.Roster(ctx, 0, red.ID)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 1 || roster[0].ID != item.ID {
		t.Fatalf("unexpected roster: %+v", roster)
	}
}

func TestBoardService_HistoryRecommendationsAndChart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b.board.now = func() time.Time { return clock }

	if _, err := b.roster.AddTeam(ctx, 0, TeamInput{Name: "Red", Captain: "Ann"}); err != nil {
		t.Fatalf("add team: %v", err)
	}

	ids := make(map[string]int64)
	for _, form := range []player.Form{
		{Name: "Star", PPG: "30"},
		{Name: "Solid", PPG: "20"},
		{Name: "Bench", PPG: "10"},
		{Name: "Deep", PPG: "4"},
	} {
		item, err := b.board.AddPlayer(ctx, 0, form)
		if err != nil {
			t.Fatalf("add %s: %v", form.Name, err)
		}
		ids[form.Name] = item.ID
	}

	if _, err := b.board.MarkDrafted(ctx, 0, ids["Bench"], "Red"); err != nil {
		t.Fatalf("draft bench: %v", err)
	}
	clock = clock.Add(time.Minute)
	if _, err := b.board.MarkDrafted(ctx, 0, ids["Star"], "Red"); err != nil {
		t.Fatalf("draft star: %v", err)
	}

	history, err := b.board.History(ctx, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Name != "Star" || history[1].Name != "Bench" {
		t.Fatalf("unexpected history: %+v", history)
	}

	recs, err := b.board.Recommendations(ctx, 0)
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	if len(recs) != 2 || recs[0].Player.Name != "Solid" || recs[1].Player.Name != "Deep" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	chart, err := b.board.ChartData(ctx, 0)
	if err != nil {
		t.Fatalf("chart: %v", err)
	}
	if len(chart) != 2 || chart[0].Name != "Solid" || chart[0].Score != 30 || chart[1].Probability != 35 {
		t.Fatalf("unexpected chart: %+v", chart)
	}
}

func TestBoardService_FailedCreateSkipsRankWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	players := playermock.NewRepository(t)
	teams := teammock.NewRepository(t)
	service := NewBoardService(players, teams, nil)

	existing := []player.Player{{ID: 1, Name: "A", Rank: 1, Status: player.StatusActive}}
	players.
		On("ListPlayers", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(0)).
		Return(existing, nil).
		Once()
	writer := playermock.NewWriter(t)
	expectBoardWrite(players, writer, int64(0))
	writer.
		On("CreatePlayer", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), mock.AnythingOfType("player.Player")).
		Return(player.Player{}, errors.New("connection reset")).
		Once()

	_, err := service.AddPlayer(ctx, 0, player.Form{Name: "B", PPG: "30"})
	if err == nil {
		t.Fatalf("expected create error")
	}
	writer.AssertNotCalled(t, "BulkUpsertPlayers", mock.Anything, mock.Anything, mock.Anything)
}

func TestBoardService_OpenCircuitIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	players := playermock.NewRepository(t)
	teams := teammock.NewRepository(t)
	service := NewBoardService(players, teams, nil)

	players.
		On("ListPlayers", mock.Anything, int64(0)).
		Return(nil, resilience.ErrCircuitOpen).
		Once()

	_, err := service.ListPlayers(ctx, 0)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestBoardService_RemoteScope(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	players := playermock.NewRepository(t)
	teams := teammock.NewRepository(t)
	drafts := draftmock.NewRepository(t)
	service := NewBoardService(players, teams, drafts)

	if _, err := service.ListPlayers(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without draft id, got %v", err)
	}

	drafts.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(9)).
		Return(draft.Draft{}, false, nil).
		Once()
	if _, err := service.ListPlayers(ctx, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing draft, got %v", err)
	}

	drafts.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(3)).
		Return(draft.Draft{ID: 3, Name: "Spring"}, true, nil).
		Once()
	teams.
		On("ListTeams", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(3)).
		Return([]team.Team{{ID: 11, DraftID: 3, Name: "Red", Captain: "Ann"}}, nil).
		Once()
	players.
		On("ListPlayers", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(3)).
		Return([]player.Player{{ID: 5, DraftID: 3, Name: "A", Rank: 1, Probability: 45, Status: player.StatusActive}}, nil).
		Once()
	writer := playermock.NewWriter(t)
	expectBoardWrite(players, writer, int64(3))
	writer.
		On("UpdatePlayer", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), mock.MatchedBy(func(p player.Player) bool {
			return p.ID == 5 && p.TeamID == 11 && p.DraftedBy == "Red" && p.Drafted
		})).
		Return(func(_ context.Context, p player.Player) (player.Player, error) { return p, nil }).
		Once()
	writer.
		On("BulkUpsertPlayers", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(3), mock.MatchedBy(func(items []player.Player) bool {
			return len(items) == 1 && items[0].Rank == 1 && items[0].Drafted
		})).
		Return(nil).
		Once()

	got, err := service.MarkDrafted(ctx, 3, 5, "Red")
	if err != nil {
		t.Fatalf("mark drafted: %v", err)
	}
	if got.TeamID != 11 {
		t.Fatalf("unexpected team id: %d", got.TeamID)
	}
}

// expectBoardWrite lets one WithinBoard call run its unit against writer.
func expectBoardWrite(players *playermock.Repository, writer *playermock.Writer, draftID int64) {
	players.
		On("WithinBoard", mock.Anything, draftID, mock.Anything).
		Return(func(_ context.Context, _ int64, fn func(player.Writer) error) error { return fn(writer) }).
		Once()
}
