package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/draft-board/internal/infrastructure/repository/local"
	"github.com/riskibarqy/draft-board/internal/platform/id"
	"github.com/riskibarqy/draft-board/internal/platform/kvstore"
	"github.com/riskibarqy/draft-board/internal/platform/logging"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	kv := kvstore.NewMemoryStore(0)
	ids := id.NewClockGenerator()
	players := local.NewPlayerRepository(kv, ids)
	teams := local.NewTeamRepository(kv, ids)
	logger := logging.NewNop()

	handler := NewHandler(Services{
		Board:    usecase.NewBoardService(players, teams, nil),
		Teams:    usecase.NewTeamService(teams, players, nil),
		Drafts:   usecase.NewDraftService(nil),
		Settings: usecase.NewSettingsService(local.NewSettingsRepository(kv)),
		Backups: usecase.NewBackupService(usecase.BackupServiceOptions{
			Store:   kv,
			Players: players,
			Teams:   teams,
			Writer:  local.NewSnapshotWriter(players, teams),
			Logger:  logger,
		}),
	}, logger)

	return NewRouter(handler, logger, []string{"https://board.example.com"})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeEnvelope[map[string]string](t, rec)
	if body.Data["status"] != "ok" {
		t.Fatalf("unexpected health body: %+v", body)
	}
}

func TestRouter_DraftFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/players", `{"name":"A","ppg":10}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add A: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = doRequest(t, router, http.MethodPost, "/v1/players", `{"name":"B","ppg":"30"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add B: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	added := decodeEnvelope[playerDTO](t, rec)
	if added.Data.Rank != 1 || added.Data.Probability != 95 {
		t.Fatalf("unexpected B: %+v", added.Data)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"Sharks","captain":"Ann"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add team: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	team := decodeEnvelope[teamDTO](t, rec)

	rec = doRequest(t, router, http.MethodPost, "/v1/players/"+itoa(added.Data.ID)+"/draft", `{"team_name":"Sharks"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark drafted: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	drafted := decodeEnvelope[playerDTO](t, rec)
	if !drafted.Data.Drafted || drafted.Data.DraftedBy != "Sharks" || drafted.Data.DraftedAt == nil {
		t.Fatalf("unexpected drafted player: %+v", drafted.Data)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/players/"+itoa(added.Data.ID)+"/draft", `{"team_name":"Sharks"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("draft twice: expected 409, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/history", "")
	history := decodeEnvelope[[]playerDTO](t, rec)
	if len(history.Data) != 1 || history.Data[0].Name != "B" {
		t.Fatalf("unexpected history: %+v", history.Data)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/recommendations", "")
	recs := decodeEnvelope[[]recommendationDTO](t, rec)
	if len(recs.Data) != 1 || recs.Data[0].Player.Name != "A" || recs.Data[0].Label != "first_pick" {
		t.Fatalf("unexpected recommendations: %+v", recs.Data)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/chart", "")
	chart := decodeEnvelope[[]chartPointDTO](t, rec)
	if len(chart.Data) != 1 || chart.Data[0].Name != "A" {
		t.Fatalf("unexpected chart: %+v", chart.Data)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/teams/"+itoa(team.Data.ID)+"/roster", "")
	roster := decodeEnvelope[rosterDTO](t, rec)
	if roster.Data.Team.Name != "Sharks" || len(roster.Data.Players) != 1 {
		t.Fatalf("unexpected roster: %+v", roster.Data)
	}
}

func TestRouter_RejectsBadPayloads(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{name: "unknown field", method: http.MethodPost, path: "/v1/players", body: `{"name":"A","height":7}`, status: http.StatusBadRequest},
		{name: "missing name", method: http.MethodPost, path: "/v1/players", body: `{"ppg":10}`, status: http.StatusBadRequest},
		{name: "bad draft id", method: http.MethodGet, path: "/v1/players?draft_id=abc", status: http.StatusBadRequest},
		{name: "bad path id", method: http.MethodDelete, path: "/v1/players/zero", status: http.StatusBadRequest},
		{name: "missing player", method: http.MethodDelete, path: "/v1/players/404", status: http.StatusNotFound},
		{name: "missing seconds", method: http.MethodPut, path: "/v1/settings/timer", body: `{}`, status: http.StatusBadRequest},
		{name: "drafts without catalog", method: http.MethodGet, path: "/v1/drafts", status: http.StatusNotImplemented},
		{name: "invalid backup", method: http.MethodPost, path: "/v1/backups/import", body: `{"players":"nope"}`, status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, tc.method, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d: %s", tc.status, rec.Code, rec.Body.String())
			}
			body := decodeEnvelope[any](t, rec)
			if body.Error == nil || body.Error.Code != tc.status {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestRouter_TeamConflict(t *testing.T) {
	router := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"Sharks","captain":"Ann"}`); rec.Code != http.StatusCreated {
		t.Fatalf("add team: expected 201, got %d", rec.Code)
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/teams", `{"name":"Sharks","captain":"Bob"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	body := decodeEnvelope[any](t, rec)
	if body.Error == nil || body.Error.Status != "ALREADY_EXISTS" {
		t.Fatalf("unexpected error envelope: %s", rec.Body.String())
	}
}

func TestRouter_TimerClamp(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/settings/timer", "")
	if got := decodeEnvelope[timerDTO](t, rec); got.Data.Seconds != 60 {
		t.Fatalf("expected default 60 seconds, got %+v", got.Data)
	}

	rec = doRequest(t, router, http.MethodPut, "/v1/settings/timer", `{"seconds":5}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set timer: expected 200, got %d", rec.Code)
	}
	if got := decodeEnvelope[timerDTO](t, rec); got.Data.Seconds != 30 {
		t.Fatalf("expected clamp to 30, got %+v", got.Data)
	}
}

func TestRouter_BackupExportImport(t *testing.T) {
	router := newTestRouter(t)

	if rec := doRequest(t, router, http.MethodPost, "/v1/players", `{"name":"A","ppg":10}`); rec.Code != http.StatusCreated {
		t.Fatalf("add player: expected 201, got %d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/v1/backups/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, `attachment; filename="draft-backup-`) {
		t.Fatalf("unexpected content disposition: %q", disposition)
	}
	exported := bytes.Clone(rec.Body.Bytes())

	if rec := doRequest(t, router, http.MethodPost, "/v1/players", `{"name":"B","ppg":30}`); rec.Code != http.StatusCreated {
		t.Fatalf("add B: expected 201, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/backups/import", string(exported))
	if rec.Code != http.StatusOK {
		t.Fatalf("import: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	imported := decodeEnvelope[importResultDTO](t, rec)
	if imported.Data.Players != 1 {
		t.Fatalf("unexpected import result: %+v", imported.Data)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/players", "")
	players := decodeEnvelope[[]playerDTO](t, rec)
	if len(players.Data) != 1 || players.Data[0].Name != "A" {
		t.Fatalf("import should replace the board, got %+v", players.Data)
	}
}

func TestRouter_RunBackupUpdatesStatus(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/backups/run", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("run backup: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	status := decodeEnvelope[backupStatusDTO](t, rec)
	if status.Data.Cycles != 1 || status.Data.NextSlot != 1 || status.Data.LastBackupAt == nil {
		t.Fatalf("unexpected status: %+v", status.Data)
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
