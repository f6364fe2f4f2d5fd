package settings

import "context"

// Repository stores board preferences that live outside any draft.
type Repository interface {
	GetTimerSeconds(ctx context.Context) (int, bool, error)
	SetTimerSeconds(ctx context.Context, seconds int) error
}
