package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
)

// TeamInput carries the editable team fields.
type TeamInput struct {
	Name    string
	Captain string
}

type TeamService struct {
	mu      sync.Mutex
	teams   team.Repository
	players player.Repository
	scope   draftScope
}

func NewTeamService(teams team.Repository, players player.Repository, drafts draft.Repository) *TeamService {
	return &TeamService{
		teams:   teams,
		players: players,
		scope:   draftScope{drafts: drafts},
	}
}

func (s *TeamService) ListTeams(ctx context.Context, draftID int64) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListTeams")
	defer span.End()

	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return nil, err
	}

	items, err := s.teams.ListTeams(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", classify(err))
	}

	return items, nil
}

func (s *TeamService) AddTeam(ctx context.Context, draftID int64, input TeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.AddTeam")
	defer span.End()

	item := team.Team{
		Name:    strings.TrimSpace(input.Name),
		Captain: strings.TrimSpace(input.Captain),
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return team.Team{}, err
	}
	item.DraftID = draftID

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.teams.ListTeams(ctx, draftID)
	if err != nil {
		return team.Team{}, fmt.Errorf("list teams: %w", classify(err))
	}
	if _, exists := findTeamByName(current, item.Name); exists {
		return team.Team{}, fmt.Errorf("%w: team name %q already used", ErrConflict, item.Name)
	}

	created, err := s.teams.CreateTeam(ctx, item)
	if err != nil {
		return team.Team{}, fmt.Errorf("create team: %w", classify(err))
	}

	return created, nil
}

// UpdateTeam edits name and captain. Players already drafted keep the team
// name they were drafted under.
func (s *TeamService) UpdateTeam(ctx context.Context, draftID, teamID int64, input TeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateTeam")
	defer span.End()

	item := team.Team{
		ID:      teamID,
		Name:    strings.TrimSpace(input.Name),
		Captain: strings.TrimSpace(input.Captain),
	}
	if err := item.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return team.Team{}, err
	}
	item.DraftID = draftID

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.teams.ListTeams(ctx, draftID)
	if err != nil {
		return team.Team{}, fmt.Errorf("list teams: %w", classify(err))
	}
	if other, exists := findTeamByName(current, item.Name); exists && other.ID != teamID {
		return team.Team{}, fmt.Errorf("%w: team name %q already used", ErrConflict, item.Name)
	}

	updated, err := s.teams.UpdateTeam(ctx, item)
	if err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", classify(err))
	}

	return updated, nil
}

func (s *TeamService) RemoveTeam(ctx context.Context, draftID, teamID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemoveTeam")
	defer span.End()

	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.teams.DeleteTeam(ctx, draftID, teamID); err != nil {
		return fmt.Errorf("delete team: %w", classify(err))
	}

	return nil
}

// Roster lists the players drafted under the team's name.
func (s *TeamService) Roster(ctx context.Context, draftID, teamID int64) (team.Team, []player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Roster")
	defer span.End()

	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return team.Team{}, nil, err
	}

	teams, err := s.teams.ListTeams(ctx, draftID)
	if err != nil {
		return team.Team{}, nil, fmt.Errorf("list teams: %w", classify(err))
	}
	var owner team.Team
	found := false
	for _, item := range teams {
		if item.ID == teamID {
			owner, found = item, true
			break
		}
	}
	if !found {
		return team.Team{}, nil, fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
	}

	players, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return team.Team{}, nil, fmt.Errorf("list players: %w", classify(err))
	}

	return owner, backup.RosterFor(owner.Name, players), nil
}
