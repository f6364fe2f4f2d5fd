package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sourcegraph/conc/iter"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/draft"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/ranking"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
)

const (
	RestoreSourcePrimary = "primary"
	RestoreSourceLatest  = "latest"
	RestoreSourceSlot    = "slot"
	RestoreSourceNone    = "none"
)

// SnapshotWriter replaces the board collections wholesale. Only backends that
// own the primary copy of the board implement it.
type SnapshotWriter interface {
	ReplacePlayers(ctx context.Context, items []player.Player) error
	ReplaceTeams(ctx context.Context, items []team.Team) error
}

type BackupStatus struct {
	Cycles       int
	NextSlot     int
	LastBackupAt *time.Time
	LastError    string
}

type RestoreReport struct {
	Source  string
	Key     string
	Players int
	Teams   int
}

type ExportFile struct {
	FileName string
	Content  []byte
}

// BackupServiceOptions wires a BackupService. Writer is nil when the board
// lives in a remote store; DraftID then names the draft that is snapshotted.
type BackupServiceOptions struct {
	Store   kvstore.Store
	Players player.Repository
	Teams   team.Repository
	Writer  SnapshotWriter
	Drafts  draft.Repository
	DraftID int64
	Logger  *logging.Logger
}

// BackupService writes periodic snapshots into a latest slot plus a fixed
// ring of rotation slots, and restores from them on startup.
type BackupService struct {
	mu      sync.Mutex
	kv      kvstore.Store
	players player.Repository
	teams   team.Repository
	writer  SnapshotWriter
	scope   draftScope
	draftID int64
	logger  *logging.Logger
	now     func() time.Time

	counter      int
	lastBackupAt time.Time
	lastErr      error
}

func NewBackupService(opts BackupServiceOptions) *BackupService {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &BackupService{
		kv:      opts.Store,
		players: opts.Players,
		teams:   opts.Teams,
		writer:  opts.Writer,
		scope:   draftScope{drafts: opts.Drafts},
		draftID: opts.DraftID,
		logger:  logger,
		now:     time.Now,
	}
}

// RunCycle snapshots the board once and writes it to the latest slot and the
// next rotation slot.
func (s *BackupService) RunCycle(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.RunCycle",
		attribute.Int64("draft.id", s.draftID),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.runCycle(ctx)
	s.lastErr = err
	spanError(span, err)
	return err
}

func (s *BackupService) runCycle(ctx context.Context) error {
	if s.scope.enabled() && s.draftID <= 0 {
		return fmt.Errorf("%w: backup draft id is not configured", ErrInvalidInput)
	}

	snap, err := s.snapshot(ctx, s.draftID)
	if err != nil {
		return err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := backup.EncodeSnapshot(buf, snap, false); err != nil {
		return err
	}

	if err := s.kv.Set(ctx, backup.LatestKey, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", backup.LatestKey, classify(err))
	}
	slot := backup.SlotKey(s.counter % backup.RotationSize)
	if err := s.kv.Set(ctx, slot, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", slot, classify(err))
	}

	s.counter++
	s.lastBackupAt = snap.ExportDate
	return nil
}

func (s *BackupService) Status() BackupStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := BackupStatus{
		Cycles:   s.counter,
		NextSlot: s.counter % backup.RotationSize,
	}
	if !s.lastBackupAt.IsZero() {
		at := s.lastBackupAt
		out.LastBackupAt = &at
	}
	if s.lastErr != nil {
		out.LastError = s.lastErr.Error()
	}
	return out
}

// RestoreOnStartup keeps the primary collections when they decode and are
// not both empty. Otherwise it restores the latest slot, then rotation slots
// newest first. The rotation counter resumes after the newest slot.
func (s *BackupService) RestoreOnStartup(ctx context.Context) (RestoreReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.RestoreOnStartup")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	slots := s.readSlots(ctx)
	if len(slots) > 0 {
		s.counter = slots[0].index + 1
	}

	if s.writer == nil {
		return RestoreReport{Source: RestoreSourcePrimary}, nil
	}

	players, teams, err := s.readPrimary(ctx)
	if err == nil && (len(players) > 0 || len(teams) > 0) {
		return RestoreReport{Source: RestoreSourcePrimary, Players: len(players), Teams: len(teams)}, nil
	}
	if err != nil {
		s.logger.WarnContext(ctx, "primary board data is unreadable, trying backups", "error", err)
	}

	candidates := make([]restoreCandidate, 0, len(slots)+1)
	if snap, ok := s.readSnapshot(ctx, backup.LatestKey); ok {
		candidates = append(candidates, restoreCandidate{source: RestoreSourceLatest, key: backup.LatestKey, snap: snap})
	}
	for _, slot := range slots {
		candidates = append(candidates, restoreCandidate{source: RestoreSourceSlot, key: slot.key, snap: slot.snap})
	}

	for _, candidate := range candidates {
		if err := s.apply(ctx, candidate.snap); err != nil {
			return RestoreReport{}, fmt.Errorf("restore from %s: %w", candidate.key, err)
		}
		s.logger.InfoContext(ctx, "board restored from backup",
			"key", candidate.key,
			"players", len(candidate.snap.Players),
			"teams", len(candidate.snap.Teams),
		)
		return RestoreReport{
			Source:  candidate.source,
			Key:     candidate.key,
			Players: len(candidate.snap.Players),
			Teams:   len(candidate.snap.Teams),
		}, nil
	}

	if err != nil {
		if err := s.apply(ctx, backup.Snapshot{}); err != nil {
			return RestoreReport{}, fmt.Errorf("reset board: %w", err)
		}
	}
	return RestoreReport{Source: RestoreSourceNone}, nil
}

// Export renders the board of draftID as an indented backup file.
func (s *BackupService) Export(ctx context.Context, draftID int64) (ExportFile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.Export")
	defer span.End()

	draftID, err := s.scope.resolve(ctx, draftID)
	if err != nil {
		return ExportFile{}, err
	}

	snap, err := s.snapshot(ctx, draftID)
	if err != nil {
		return ExportFile{}, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := backup.EncodeSnapshot(buf, snap, true); err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		FileName: snap.FileName(),
		Content:  append([]byte(nil), buf.Bytes()...),
	}, nil
}

// Import replaces the board with the decoded file. There is no merge.
func (s *BackupService) Import(ctx context.Context, data []byte) (backup.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BackupService.Import",
		attribute.Int("backup.bytes", len(data)),
	)
	defer span.End()

	if s.writer == nil {
		return backup.Snapshot{}, fmt.Errorf("%w: import requires local storage", ErrUnsupported)
	}

	snap, err := backup.DecodeSnapshot(data)
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("import backup: %w", classify(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.apply(ctx, snap); err != nil {
		return backup.Snapshot{}, fmt.Errorf("import backup: %w", err)
	}

	snap.Players = ranking.Reconcile(snap.Players)
	return snap, nil
}

func (s *BackupService) snapshot(ctx context.Context, draftID int64) (backup.Snapshot, error) {
	players, err := s.players.ListPlayers(ctx, draftID)
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("list players: %w", classify(err))
	}
	teams, err := s.teams.ListTeams(ctx, draftID)
	if err != nil {
		return backup.Snapshot{}, fmt.Errorf("list teams: %w", classify(err))
	}

	return backup.Snapshot{
		Players:    players,
		Teams:      teams,
		ExportDate: s.now().UTC(),
	}, nil
}

// apply writes snap to the primary collections. A failed team write puts the
// previous players back.
func (s *BackupService) apply(ctx context.Context, snap backup.Snapshot) error {
	previous, prevErr := s.players.ListPlayers(ctx, 0)

	if err := s.writer.ReplacePlayers(ctx, ranking.Reconcile(snap.Players)); err != nil {
		return fmt.Errorf("replace players: %w", classify(err))
	}

	teams := snap.Teams
	if teams == nil {
		teams = []team.Team{}
	}
	if err := s.writer.ReplaceTeams(ctx, teams); err != nil {
		if prevErr == nil {
			if rollbackErr := s.writer.ReplacePlayers(ctx, previous); rollbackErr != nil {
				err = errors.Join(err, rollbackErr)
			}
		}
		return fmt.Errorf("replace teams: %w", classify(err))
	}

	return nil
}

func (s *BackupService) readPrimary(ctx context.Context) ([]player.Player, []team.Team, error) {
	rawPlayers, _, err := s.kv.Get(ctx, backup.PlayersKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", backup.PlayersKey, err)
	}
	rawTeams, _, err := s.kv.Get(ctx, backup.TeamsKey)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", backup.TeamsKey, err)
	}

	players, err := backup.DecodePlayers(rawPlayers)
	if err != nil {
		return nil, nil, err
	}
	teams, err := backup.DecodeTeams(rawTeams)
	if err != nil {
		return nil, nil, err
	}

	return players, teams, nil
}

func (s *BackupService) readSnapshot(ctx context.Context, key string) (backup.Snapshot, bool) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "read backup failed", "key", key, "error", err)
		return backup.Snapshot{}, false
	}
	if !ok {
		return backup.Snapshot{}, false
	}

	snap, err := backup.DecodeSnapshot(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "skip invalid backup", "key", key, "error", err)
		return backup.Snapshot{}, false
	}
	return snap, true
}

// readSlots returns the valid rotation slots, newest export first. Slots are
// fetched and decoded concurrently.
func (s *BackupService) readSlots(ctx context.Context) []rotationSlot {
	indices := make([]int, backup.RotationSize)
	for i := range indices {
		indices[i] = i
	}
	read := iter.Map(indices, func(i *int) *rotationSlot {
		key := backup.SlotKey(*i)
		snap, ok := s.readSnapshot(ctx, key)
		if !ok {
			return nil
		}
		return &rotationSlot{index: *i, key: key, snap: snap}
	})

	out := make([]rotationSlot, 0, len(read))
	for _, slot := range read {
		if slot != nil {
			out = append(out, *slot)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].snap.ExportDate.After(out[j].snap.ExportDate)
	})
	return out
}

type rotationSlot struct {
	index int
	key   string
	snap  backup.Snapshot
}

type restoreCandidate struct {
	source string
	key    string
	snap   backup.Snapshot
}
