package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/draft-board/internal/domain/settings"
)

type SettingsService struct {
	repo settings.Repository
}

func NewSettingsService(repo settings.Repository) *SettingsService {
	return &SettingsService{repo: repo}
}

// TimerSeconds returns the stored pick timer, or the default when unset.
func (s *SettingsService) TimerSeconds(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.TimerSeconds")
	defer span.End()

	seconds, ok, err := s.repo.GetTimerSeconds(ctx)
	if err != nil {
		return 0, fmt.Errorf("get timer: %w", classify(err))
	}
	if !ok {
		return settings.DefaultTimerSeconds, nil
	}

	return settings.ClampTimer(seconds), nil
}

// SetTimerSeconds stores the clamped value and returns it.
func (s *SettingsService) SetTimerSeconds(ctx context.Context, seconds int) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettingsService.SetTimerSeconds")
	defer span.End()

	seconds = settings.ClampTimer(seconds)
	if err := s.repo.SetTimerSeconds(ctx, seconds); err != nil {
		return 0, fmt.Errorf("set timer: %w", classify(err))
	}

	return seconds, nil
}
