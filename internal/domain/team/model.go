package team

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("team not found")

// Team is a drafting side. Players join a team by name when drafted.
type Team struct {
	ID        int64
	DraftID   int64
	Name      string
	Captain   string
	CreatedAt time.Time
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	if strings.TrimSpace(t.Captain) == "" {
		return fmt.Errorf("team captain is required")
	}

	return nil
}
