package settings

const (
	TimerKey = "draft-timer-duration"

	DefaultTimerSeconds = 60
	MinTimerSeconds     = 30
	MaxTimerSeconds     = 300
)

// ClampTimer keeps a pick timer within the allowed window.
func ClampTimer(seconds int) int {
	if seconds < MinTimerSeconds {
		return MinTimerSeconds
	}
	if seconds > MaxTimerSeconds {
		return MaxTimerSeconds
	}
	return seconds
}
