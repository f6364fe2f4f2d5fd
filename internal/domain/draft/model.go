package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("draft not found")

// Draft is a named event owning its own teams and players.
type Draft struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("draft name is required")
	}

	return nil
}
