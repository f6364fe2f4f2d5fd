package backup

import (
	"io"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
)

var validate = validator.New()

// RosterFor lists the players drafted by the named team.
func RosterFor(teamName string, players []player.Player) []player.Player {
	out := make([]player.Player, 0)
	for _, p := range players {
		if p.Drafted && !p.IsRemoved() && p.DraftedBy == teamName {
			out = append(out, p)
		}
	}
	return out
}

// NewDocument converts a snapshot to its JSON shape. Team records carry their roster.
func NewDocument(snap Snapshot) Document {
	doc := Document{
		Players:    make([]PlayerRecord, 0, len(snap.Players)),
		Teams:      make([]TeamRecord, 0, len(snap.Teams)),
		ExportDate: snap.ExportDate.UTC().Format(ExportDateLayout),
	}
	for _, p := range snap.Players {
		doc.Players = append(doc.Players, PlayerToRecord(p))
	}
	for _, t := range snap.Teams {
		doc.Teams = append(doc.Teams, TeamToRecord(t, RosterFor(t.Name, snap.Players)))
	}
	return doc
}

// Snapshot converts a decoded document back to domain values. An unparsable
// export date yields the zero time.
func (d Document) Snapshot() Snapshot {
	snap := Snapshot{
		Players: make([]player.Player, 0, len(d.Players)),
		Teams:   make([]team.Team, 0, len(d.Teams)),
	}
	for _, rec := range d.Players {
		snap.Players = append(snap.Players, PlayerFromRecord(rec))
	}
	for _, rec := range d.Teams {
		snap.Teams = append(snap.Teams, TeamFromRecord(rec))
	}
	if at, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(d.ExportDate)); err == nil {
		snap.ExportDate = at.UTC()
	}
	return snap
}

// EncodeSnapshot writes snap as JSON. indent selects the two-space export format.
func EncodeSnapshot(w io.Writer, snap Snapshot, indent bool) error {
	enc := sonic.ConfigDefault.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(NewDocument(snap)); err != nil {
		return crerr.Wrap(err, "encode snapshot")
	}
	return nil
}

// DecodeSnapshot parses and structurally validates a snapshot document.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, &ValidationError{Source: "decode snapshot", Err: err}
	}
	if err := validate.Struct(doc); err != nil {
		return Snapshot{}, &ValidationError{Source: "validate snapshot", Err: err}
	}
	return doc.Snapshot(), nil
}

func EncodePlayers(players []player.Player) ([]byte, error) {
	records := make([]PlayerRecord, 0, len(players))
	for _, p := range players {
		records = append(records, PlayerToRecord(p))
	}
	data, err := sonic.Marshal(records)
	if err != nil {
		return nil, crerr.Wrap(err, "encode players")
	}
	return data, nil
}

// DecodePlayers parses a stored player list. Empty input is an empty list.
func DecodePlayers(data []byte) ([]player.Player, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []player.Player{}, nil
	}

	var records []PlayerRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, &ValidationError{Source: "decode players", Err: err}
	}
	out := make([]player.Player, 0, len(records))
	for _, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, &ValidationError{Source: "validate players", Err: err}
		}
		out = append(out, PlayerFromRecord(rec))
	}
	return out, nil
}

func EncodeTeams(teams []team.Team) ([]byte, error) {
	records := make([]TeamRecord, 0, len(teams))
	for _, t := range teams {
		records = append(records, TeamToRecord(t, nil))
	}
	data, err := sonic.Marshal(records)
	if err != nil {
		return nil, crerr.Wrap(err, "encode teams")
	}
	return data, nil
}

// DecodeTeams parses a stored team list. Empty input is an empty list.
func DecodeTeams(data []byte) ([]team.Team, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []team.Team{}, nil
	}

	var records []TeamRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		return nil, &ValidationError{Source: "decode teams", Err: err}
	}
	out := make([]team.Team, 0, len(records))
	for _, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return nil, &ValidationError{Source: "validate teams", Err: err}
		}
		out = append(out, TeamFromRecord(rec))
	}
	return out, nil
}
