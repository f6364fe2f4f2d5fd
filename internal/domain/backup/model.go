package backup

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
)

const (
	PlayersKey = "draft-players"
	TeamsKey   = "draft-teams"
	LatestKey  = "draft-backup"

	RotationSize = 5

	// ExportDateLayout matches millisecond ISO-8601 timestamps in UTC.
	ExportDateLayout = "2006-01-02T15:04:05.000Z07:00"
)

// SlotKey names rotation slot idx.
func SlotKey(idx int) string {
	return fmt.Sprintf("%s-%d", LatestKey, idx)
}

// Snapshot is a point-in-time copy of the board.
type Snapshot struct {
	Players    []player.Player
	Teams      []team.Team
	ExportDate time.Time
}

// FileName is the attachment name used when a snapshot is exported.
func (s Snapshot) FileName() string {
	return "draft-backup-" + s.ExportDate.UTC().Format("2006-01-02") + ".json"
}

// Document is the stored and exported JSON shape of a snapshot.
type Document struct {
	Players    []PlayerRecord `json:"players" validate:"required,dive"`
	Teams      []TeamRecord   `json:"teams" validate:"required,dive"`
	ExportDate string         `json:"exportDate"`
}

// PlayerRecord is a player as kept in the key-value store and in backup files.
type PlayerRecord struct {
	ID          *int64  `json:"id" validate:"required"`
	Name        *string `json:"name" validate:"required"`
	PPG         Stat    `json:"ppg"`
	RPG         Stat    `json:"rpg"`
	APG         Stat    `json:"apg"`
	FG          Stat    `json:"fg"`
	FI          Stat    `json:"fi"`
	Probability int     `json:"probability"`
	Rank        int     `json:"rank"`
	Drafted     bool    `json:"drafted"`
	DraftedBy   string  `json:"draftedBy"`
	DraftedAt   *int64  `json:"draftedAt,omitempty"`
	DraftID     int64   `json:"draftId,omitempty"`
	TeamID      int64   `json:"teamId,omitempty"`
}

// TeamRecord is a team as kept in the key-value store and in backup files.
type TeamRecord struct {
	ID      *int64         `json:"id" validate:"required"`
	Name    *string        `json:"name" validate:"required"`
	Captain string         `json:"captain"`
	Players []PlayerRecord `json:"players"`
	DraftID int64          `json:"draftId,omitempty"`
}

// Stat is a stat value that tolerates string-encoded numbers. Values that do
// not parse decode as zero.
type Stat float64

func (s *Stat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			*s = 0
			return nil
		}
		raw = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*s = 0
		return nil
	}
	*s = Stat(v)
	return nil
}

func PlayerToRecord(p player.Player) PlayerRecord {
	id := p.ID
	name := p.Name
	rec := PlayerRecord{
		ID:          &id,
		Name:        &name,
		PPG:         Stat(p.Stats.PPG),
		RPG:         Stat(p.Stats.RPG),
		APG:         Stat(p.Stats.APG),
		FG:          Stat(p.Stats.FG),
		FI:          Stat(p.Stats.FI),
		Probability: p.Probability,
		Rank:        p.Rank,
		Drafted:     p.Drafted,
		DraftedBy:   p.DraftedBy,
		DraftID:     p.DraftID,
		TeamID:      p.TeamID,
	}
	if p.DraftedAt != nil {
		ms := p.DraftedAt.UnixMilli()
		rec.DraftedAt = &ms
	}
	return rec
}

func PlayerFromRecord(rec PlayerRecord) player.Player {
	p := player.Player{
		Stats: player.Stats{
			PPG: float64(rec.PPG),
			RPG: float64(rec.RPG),
			APG: float64(rec.APG),
			FG:  float64(rec.FG),
			FI:  float64(rec.FI),
		},
		Probability: rec.Probability,
		Rank:        rec.Rank,
		Drafted:     rec.Drafted,
		DraftedBy:   rec.DraftedBy,
		DraftID:     rec.DraftID,
		TeamID:      rec.TeamID,
		Status:      player.StatusActive,
	}
	if rec.ID != nil {
		p.ID = *rec.ID
	}
	if rec.Name != nil {
		p.Name = *rec.Name
	}
	if rec.DraftedAt != nil {
		at := time.UnixMilli(*rec.DraftedAt).UTC()
		p.DraftedAt = &at
	}
	return p
}

func TeamToRecord(t team.Team, roster []player.Player) TeamRecord {
	id := t.ID
	name := t.Name
	players := make([]PlayerRecord, 0, len(roster))
	for _, p := range roster {
		players = append(players, PlayerToRecord(p))
	}
	return TeamRecord{
		ID:      &id,
		Name:    &name,
		Captain: t.Captain,
		Players: players,
		DraftID: t.DraftID,
	}
}

func TeamFromRecord(rec TeamRecord) team.Team {
	t := team.Team{
		Captain: rec.Captain,
		DraftID: rec.DraftID,
	}
	if rec.ID != nil {
		t.ID = *rec.ID
	}
	if rec.Name != nil {
		t.Name = *rec.Name
	}
	return t
}
