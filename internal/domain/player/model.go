package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("player not found")

// Status separates players on the board from players taken off it.
type Status string

const (
	StatusActive  Status = "active"
	StatusRemoved Status = "removed"
)

// Stats holds the five per-game numbers a score is computed from.
type Stats struct {
	PPG float64
	RPG float64
	APG float64
	FG  float64
	FI  float64
}

// Form is the loosely typed input of the add/edit player form. Stat fields
// arrive as free text and are coerced when scored.
type Form struct {
	Name string
	PPG  string
	RPG  string
	APG  string
	FG   string
	FI   string
}

// Player is a draftable entry on the board.
type Player struct {
	ID          int64
	DraftID     int64
	TeamID      int64
	Name        string
	Stats       Stats
	Probability int
	Rank        int
	Drafted     bool
	DraftedBy   string
	DraftedAt   *time.Time
	Status      Status
}

func (p Player) IsRemoved() bool {
	return p.Status == StatusRemoved
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Probability < 0 || p.Probability > 100 {
		return fmt.Errorf("player probability must be within 0..100")
	}
	if p.Rank < 0 {
		return fmt.Errorf("player rank must be >= 0")
	}
	if p.Drafted && strings.TrimSpace(p.DraftedBy) == "" {
		return fmt.Errorf("drafted player requires drafted by")
	}

	return nil
}
