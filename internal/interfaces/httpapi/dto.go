package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/ranking"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

// statInput keeps a form stat as text. Clients send numbers or strings.
type statInput string

func (s *statInput) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return err
		}
		raw = unquoted
	}
	*s = statInput(raw)
	return nil
}

type playerFormRequest struct {
	Name string    `json:"name" validate:"required,max=120"`
	PPG  statInput `json:"ppg"`
	RPG  statInput `json:"rpg"`
	APG  statInput `json:"apg"`
	FG   statInput `json:"fg"`
	FI   statInput `json:"fi"`
}

func (r playerFormRequest) form() player.Form {
	return player.Form{
		Name: r.Name,
		PPG:  string(r.PPG),
		RPG:  string(r.RPG),
		APG:  string(r.APG),
		FG:   string(r.FG),
		FI:   string(r.FI),
	}
}

type bulkAddPlayersRequest struct {
	Names []string `json:"names" validate:"required,min=1,max=500"`
}

type markDraftedRequest struct {
	TeamName string `json:"team_name" validate:"required"`
}

type teamRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Captain string `json:"captain" validate:"required,max=120"`
}

type draftRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type timerRequest struct {
	Seconds *int `json:"seconds" validate:"required"`
}

type playerDTO struct {
	ID          int64   `json:"id"`
	DraftID     int64   `json:"draft_id,omitempty"`
	TeamID      int64   `json:"team_id,omitempty"`
	Name        string  `json:"name"`
	PPG         float64 `json:"ppg"`
	RPG         float64 `json:"rpg"`
	APG         float64 `json:"apg"`
	FG          float64 `json:"fg"`
	FI          float64 `json:"fi"`
	Score       string  `json:"score"`
	Probability int     `json:"probability"`
	Rank        int     `json:"rank"`
	Drafted     bool    `json:"drafted"`
	DraftedBy   string  `json:"drafted_by"`
	DraftedAt   *string `json:"drafted_at,omitempty"`
}

type recommendationDTO struct {
	Label    string    `json:"label"`
	Player   playerDTO `json:"player"`
	Score    float64   `json:"score"`
	Weighted float64   `json:"weighted_score"`
}

type chartPointDTO struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Probability int     `json:"probability"`
}

type teamDTO struct {
	ID        int64  `json:"id"`
	DraftID   int64  `json:"draft_id,omitempty"`
	Name      string `json:"name"`
	Captain   string `json:"captain"`
	CreatedAt string `json:"created_at,omitempty"`
}

type rosterDTO struct {
	Team    teamDTO     `json:"team"`
	Players []playerDTO `json:"players"`
}

type draftDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type backupStatusDTO struct {
	Cycles       int     `json:"cycles"`
	NextSlot     int     `json:"next_slot"`
	LastBackupAt *string `json:"last_backup_at,omitempty"`
	LastError    string  `json:"last_error,omitempty"`
}

type importResultDTO struct {
	Players    int    `json:"players"`
	Teams      int    `json:"teams"`
	ExportDate string `json:"export_date,omitempty"`
}

type timerDTO struct {
	Seconds int `json:"seconds"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		DraftID:     p.DraftID,
		TeamID:      p.TeamID,
		Name:        p.Name,
		PPG:         p.Stats.PPG,
		RPG:         p.Stats.RPG,
		APG:         p.Stats.APG,
		FG:          p.Stats.FG,
		FI:          p.Stats.FI,
		Score:       ranking.Score(p.Stats),
		Probability: p.Probability,
		Rank:        p.Rank,
		Drafted:     p.Drafted,
		DraftedBy:   p.DraftedBy,
		DraftedAt:   formatOptionalTime(p.DraftedAt),
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func recommendationsToDTO(items []ranking.Recommendation) []recommendationDTO {
	out := make([]recommendationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, recommendationDTO{
			Label:    item.Label,
			Player:   playerToDTO(item.Player),
			Score:    item.Score,
			Weighted: item.Weighted,
		})
	}
	return out
}

func chartToDTO(items []usecase.ChartPoint) []chartPointDTO {
	out := make([]chartPointDTO, 0, len(items))
	for _, item := range items {
		out = append(out, chartPointDTO{
			Name:        item.Name,
			Score:       item.Score,
			Probability: item.Probability,
		})
	}
	return out
}

func teamToDTO(t team.Team) teamDTO {
	out := teamDTO{
		ID:      t.ID,
		DraftID: t.DraftID,
		Name:    t.Name,
		Captain: t.Captain,
	}
	if !t.CreatedAt.IsZero() {
		out.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func draftToDTO(d draft.Draft) draftDTO {
	return draftDTO{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func backupStatusToDTO(v usecase.BackupStatus) backupStatusDTO {
	return backupStatusDTO{
		Cycles:       v.Cycles,
		NextSlot:     v.NextSlot,
		LastBackupAt: formatOptionalTime(v.LastBackupAt),
		LastError:    v.LastError,
	}
}

func formatOptionalTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	out := v.UTC().Format(time.RFC3339Nano)
	return &out
}
