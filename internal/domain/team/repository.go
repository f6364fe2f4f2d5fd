package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListTeams(ctx context.Context, draftID int64) ([]Team, error)
	CreateTeam(ctx context.Context, item Team) (Team, error)
	UpdateTeam(ctx context.Context, item Team) (Team, error)
	DeleteTeam(ctx context.Context, draftID, teamID int64) error
}
