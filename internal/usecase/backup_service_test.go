package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/domain/player"
	"github.com/riskibarqy/draft-board/internal/domain/team"
	"github.com/riskibarqy/draft-board/internal/infrastructure/repository/local"
	draftmock "github.com/riskibarqy/draft-board/internal/mocks/domain/draft"
	playermock "github.com/riskibarqy/draft-board/internal/mocks/domain/player"
	teammock "github.com/riskibarqy/draft-board/internal/mocks/domain/team"
	kvstoremock "github.com/riskibarqy/draft-board/internal/mocks/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
)

var backupEpoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newLocalBackup(b localBoard) *BackupService {
	service := NewBackupService(BackupServiceOptions{
		Store:   b.kv,
		Players: b.players,
		Teams:   b.teams,
		Writer:  local.NewSnapshotWriter(b.players, b.teams),
		Logger:  logging.NewNop(),
	})
	tick := 0
	service.now = func() time.Time {
		tick++
		return backupEpoch.Add(time.Duration(tick) * time.Second)
	}
	return service
}

func readSlot(t *testing.T, b localBoard, key string) backup.Snapshot {
	t.Helper()

	raw, ok, err := b.kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	if !ok {
		t.Fatalf("missing %s", key)
	}
	snap, err := backup.DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("decode %s: %v", key, err)
	}
	return snap
}

func TestBackupService_RotationAfterElevenCycles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	if _, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "A", PPG: "10"}); err != nil {
		t.Fatalf("add player: %v", err)
	}
	service := newLocalBackup(b)

	for i := 0; i < 11; i++ {
		if err := service.RunCycle(ctx); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	// cycle c (1-based tick c+1) lands in slot c mod 5
	wantCycle := map[int]int{0: 10, 1: 6, 2: 7, 3: 8, 4: 9}
	for slot, cycle := range wantCycle {
		snap := readSlot(t, b, backup.SlotKey(slot))
		want := backupEpoch.Add(time.Duration(cycle+1) * time.Second)
		if !snap.ExportDate.Equal(want) {
			t.Fatalf("slot %d holds %s, want cycle %d (%s)", slot, snap.ExportDate, cycle, want)
		}
	}
	if _, ok, _ := b.kv.Get(ctx, backup.SlotKey(5)); ok {
		t.Fatalf("only %d rotation slots may exist", backup.RotationSize)
	}

	latest := readSlot(t, b, backup.LatestKey)
	newest := readSlot(t, b, backup.SlotKey(0))
	if !latest.ExportDate.Equal(newest.ExportDate) {
		t.Fatalf("latest %s must match newest slot %s", latest.ExportDate, newest.ExportDate)
	}
	if len(latest.Players) != 1 || latest.Players[0].Name != "A" {
		t.Fatalf("unexpected latest players: %+v", latest.Players)
	}

	status := service.Status()
	if status.Cycles != 11 || status.NextSlot != 1 || status.LastError != "" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.LastBackupAt == nil || !status.LastBackupAt.Equal(backupEpoch.Add(11*time.Second)) {
		t.Fatalf("unexpected last backup time: %v", status.LastBackupAt)
	}
}

func TestBackupService_QuotaKeepsRotationCounter(t *testing.T) {
	ctx := context.Background()
	players := playermock.NewRepository(t)
	teams := teammock.NewRepository(t)
	kv := kvstoremock.NewStore(t)

	players.On("ListPlayers", mock.Anything, int64(0)).Return([]player.Player{{ID: 1, Name: "A"}}, nil).Once()
	teams.On("ListTeams", mock.Anything, int64(0)).Return([]team.Team{}, nil).Once()
	kv.On("Set", mock.Anything, backup.LatestKey, mock.Anything).Return(nil).Once()
	kv.On("Set", mock.Anything, backup.SlotKey(0), mock.Anything).Return(kvstore.ErrQuotaExceeded).Once()

	service := NewBackupService(BackupServiceOptions{
		Store:   kv,
		Players: players,
		Teams:   teams,
		Logger:  logging.NewNop(),
	})

	err := service.RunCycle(ctx)
	if !errors.Is(err, kvstore.ErrQuotaExceeded) || !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected quota failure, got %v", err)
	}
	status := service.Status()
	if status.Cycles != 0 || status.NextSlot != 0 || status.LastBackupAt != nil {
		t.Fatalf("failed cycle must not advance rotation: %+v", status)
	}
	if !strings.Contains(status.LastError, "quota") {
		t.Fatalf("expected last error to be recorded, got %q", status.LastError)
	}
}

func TestBackupService_RestoreKeepsValidPrimary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	if _, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "A"}); err != nil {
		t.Fatalf("add player: %v", err)
	}

	report, err := newLocalBackup(b).RestoreOnStartup(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if report.Source != RestoreSourcePrimary || report.Players != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBackupService_RestorePicksNewestValidSlot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	writer := newLocalBackup(b)
	for _, name := range []string{"A", "B", "C"} {
		if _, err := b.board.AddPlayer(ctx, 0, player.Form{Name: name}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		if err := writer.RunCycle(ctx); err != nil {
			t.Fatalf("cycle: %v", err)
		}
	}

	for _, key := range []string{backup.PlayersKey, backup.LatestKey} {
		if err := b.kv.Set(ctx, key, []byte(`{"players": [`)); err != nil {
			t.Fatalf("corrupt %s: %v", key, err)
		}
	}

	restorer := newLocalBackup(b)
	report, err := restorer.RestoreOnStartup(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if report.Source != RestoreSourceSlot || report.Key != backup.SlotKey(2) || report.Players != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list restored players: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("unexpected restored players: %+v", items)
	}
	if got := restorer.Status().NextSlot; got != 3 {
		t.Fatalf("rotation must resume after newest slot, next=%d", got)
	}
}

func TestBackupService_RestoreSkipsInvalidSlots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	writer := newLocalBackup(b)
	if _, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "A"}); err != nil {
		t.Fatalf("add player: %v", err)
	}
	if err := writer.RunCycle(ctx); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if err := b.kv.Set(ctx, backup.SlotKey(1), []byte(`{"players":[{"id":"x","name":"B"}],"teams":[]}`)); err != nil {
		t.Fatalf("write bad slot: %v", err)
	}
	if err := b.kv.Set(ctx, backup.LatestKey, []byte(`{"players":"x"}`)); err != nil {
		t.Fatalf("corrupt latest: %v", err)
	}
	if err := b.kv.Set(ctx, backup.PlayersKey, []byte(`[]`)); err != nil {
		t.Fatalf("clear players: %v", err)
	}

	report, err := newLocalBackup(b).RestoreOnStartup(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if report.Key != backup.SlotKey(0) || report.Players != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestBackupService_RestoreWithoutBackupsStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	if err := b.kv.Set(ctx, backup.PlayersKey, []byte(`not json`)); err != nil {
		t.Fatalf("corrupt players: %v", err)
	}

	report, err := newLocalBackup(b).RestoreOnStartup(ctx)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if report.Source != RestoreSourceNone {
		t.Fatalf("unexpected report: %+v", report)
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list players after reset: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty board, got %+v", items)
	}
}

func TestBackupService_ExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src := newLocalBoard(t)
	if _, err := src.roster.AddTeam(ctx, 0, TeamInput{Name: "Red", Captain: "Ann"}); err != nil {
		t.Fatalf("add team: %v", err)
	}
	star, err := src.board.AddPlayer(ctx, 0, player.Form{Name: "Star", PPG: "30", RPG: "8.5", FG: "51.2"})
	if err != nil {
		t.Fatalf("add star: %v", err)
	}
	if _, err := src.board.AddPlayer(ctx, 0, player.Form{Name: "Role", PPG: "7"}); err != nil {
		t.Fatalf("add role: %v", err)
	}
	if _, err := src.board.MarkDrafted(ctx, 0, star.ID, "Red"); err != nil {
		t.Fatalf("draft star: %v", err)
	}

	file, err := newLocalBackup(src).Export(ctx, 0)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if file.FileName != "draft-backup-2026-05-01.json" {
		t.Fatalf("unexpected file name: %s", file.FileName)
	}
	if !strings.Contains(string(file.Content), "\n  \"players\": [") {
		t.Fatalf("export must be two-space indented:\n%s", file.Content)
	}

	dst := newLocalBoard(t)
	if _, err := dst.board.AddPlayer(ctx, 0, player.Form{Name: "Stale"}); err != nil {
		t.Fatalf("add stale: %v", err)
	}
	if _, err := newLocalBackup(dst).Import(ctx, file.Content); err != nil {
		t.Fatalf("import: %v", err)
	}

	want, err := src.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list source players: %v", err)
	}
	got, err := dst.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list imported players: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected imported players: %+v", got)
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Name != want[i].Name || got[i].Stats != want[i].Stats || got[i].Drafted != want[i].Drafted {
			t.Fatalf("player %d differs: got=%+v want=%+v", i, got[i], want[i])
		}
	}

	teams, err := dst.roster.ListTeams(ctx, 0)
	if err != nil {
		t.Fatalf("list imported teams: %v", err)
	}
	if len(teams) != 1 || teams[0].Name != "Red" {
		t.Fatalf("unexpected imported teams: %+v", teams)
	}
}

func TestBackupService_ImportRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	if _, err := b.board.AddPlayer(ctx, 0, player.Form{Name: "Keep"}); err != nil {
		t.Fatalf("add player: %v", err)
	}
	service := newLocalBackup(b)

	cases := map[string]string{
		"not json":          `{{`,
		"missing players":   `{"teams":[]}`,
		"missing teams":     `{"players":[]}`,
		"non-numeric id":    `{"players":[{"id":"7","name":"A"}],"teams":[]}`,
		"missing team name": `{"players":[],"teams":[{"id":1}]}`,
	}
	for name, doc := range cases {
		_, err := service.Import(ctx, []byte(doc))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", name, err)
		}
		var validationErr *backup.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected backup.ValidationError, got %T", name, err)
		}
	}

	items, err := b.board.ListPlayers(ctx, 0)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Keep" {
		t.Fatalf("rejected imports must not touch the board: %+v", items)
	}
}

func TestBackupService_RemoteMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := newLocalBoard(t)
	service := NewBackupService(BackupServiceOptions{
		Store:   b.kv,
		Players: playermock.NewRepository(t),
		Teams:   teammock.NewRepository(t),
		Drafts:  draftmock.NewRepository(t),
		Logger:  logging.NewNop(),
	})

	if _, err := service.Import(ctx, []byte(`{"players":[],"teams":[]}`)); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	if err := service.RunCycle(ctx); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without backup draft, got %v", err)
	}
	if status := service.Status(); status.LastError == "" || status.Cycles != 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
}
