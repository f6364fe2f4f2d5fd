package local

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/draft-board/internal/domain/settings"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
)

type SettingsRepository struct {
	kv kvstore.Store
}

func NewSettingsRepository(kv kvstore.Store) *SettingsRepository {
	return &SettingsRepository{kv: kv}
}

// GetTimerSeconds reports ok=false when nothing usable is stored.
func (r *SettingsRepository) GetTimerSeconds(ctx context.Context) (int, bool, error) {
	raw, ok, err := r.kv.Get(ctx, settings.TimerKey)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", settings.TimerKey, err)
	}
	if !ok {
		return 0, false, nil
	}

	seconds, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, false, nil
	}
	return seconds, true, nil
}

func (r *SettingsRepository) SetTimerSeconds(ctx context.Context, seconds int) error {
	if err := r.kv.Set(ctx, settings.TimerKey, []byte(strconv.Itoa(seconds))); err != nil {
		return fmt.Errorf("write %s: %w", settings.TimerKey, err)
	}
	return nil
}
