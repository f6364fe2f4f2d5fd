package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	playermock "github.com/riskibarqy/draft-board/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/draft-board/internal/mocks/domain/team"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/stretchr/testify/mock"
)

func TestTeamService_AddTeamValidation(t *testing.T) {
	t.Parallel()

	b := newLocalBoard(t)
	cases := []TeamInput{
		{Name: "", Captain: "Ann"},
		{Name: "Red", Captain: "  "},
	}
	for _, input := range cases {
		if _, err := b.roster.AddTeam(context.Background(), 0, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

func TestTeamService_CRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)

	red, err := b.roster.AddTeam(ctx, 0, TeamInput{Name: " Red ", Captain: "Ann"})
	if err != nil {
		t.Fatalf("add red: %v", err)
	}
	if red.Name != "Red" || red.ID == 0 {
		t.Fatalf("unexpected team: %+v", red)
	}
	if _, err := b.roster.AddTeam(ctx, 0, TeamInput{Name: "Red", Captain: "Bo"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate name, got %v", err)
	}
	blue, err := b.roster.AddTeam(ctx, 0, TeamInput{Name: "Blue", Captain: "Bo"})
	if err != nil {
		t.Fatalf("add blue: %v", err)
	}

	updated, err := b.roster.UpdateTeam(ctx, 0, blue.ID, TeamInput{Name: "Navy", Captain: "Cy"})
	if err != nil {
		t.Fatalf("update team: %v", err)
	}
	if updated.Name != "Navy" || updated.Captain != "Cy" {
		t.Fatalf("unexpected updated team: %+v", updated)
	}
	if _, err := b.roster.UpdateTeam(ctx, 0, 999, TeamInput{Name: "Gone", Captain: "X"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := b.roster.RemoveTeam(ctx, 0, red.ID); err != nil {
		t.Fatalf("remove team: %v", err)
	}
	items, err := b.roster.ListTeams(ctx, 0)
	if err != nil {
		t.Fatalf("list teams: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Navy" {
		t.Fatalf("unexpected teams: %+v", items)
	}

	if _, _, err := b.roster.Roster(ctx, 0, red.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for removed team roster, got %v", err)
	}
}

func TestTeamService_QuotaExceededIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := teammock.NewRepository(t)
	players := playermock.NewRepository(t)
	service := NewTeamService(teams, players, nil)

	teams.
		On("ListTeams", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(0)).
		Return([]team.Team{}, nil).
		Once()
	teams.
		On("CreateTeam", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), team.Team{Name: "Red", Captain: "Ann"}).
		Return(team.Team{}, kvstore.ErrQuotaExceeded).
		Once()

	_, err := service.AddTeam(ctx, 0, TeamInput{Name: "Red", Captain: "Ann"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestTeamService_RosterMatchesTeamName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teams := teammock.NewRepository(t)
	players := playermock.NewRepository(t)
	service := NewTeamService(teams, players, nil)

	teams.
		On("ListTeams", mock.Anything, int64(0)).
		Return([]team.Team{{ID: 1, Name: "Red"}, {ID: 2, Name: "Blue"}}, nil).
		Once()
	players.
		On("ListPlayers", mock.Anything, int64(0)).
		Return([]player.Player{
			{ID: 10, Name: "A", Drafted: true, DraftedBy: "Blue", Status: player.StatusActive},
			{ID: 11, Name: "B", Drafted: true, DraftedBy: "Red", Status: player.StatusActive},
			{ID: 12, Name: "C", Status: player.StatusActive},
		}, nil).
		Once()

	owner, roster, err := service.Roster(ctx, 0, 2)
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if owner.Name != "Blue" || len(roster) != 1 || roster[0].ID != 10 {
		t.Fatalf("unexpected roster: %+v %+v", owner, roster)
	}
}
