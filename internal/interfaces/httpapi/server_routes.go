package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDraftRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/drafts", handler.ListDrafts)
	mux.HandleFunc("POST /v1/drafts", handler.CreateDraft)
	mux.HandleFunc("GET /v1/drafts/{draftID}", handler.GetDraft)
}

func registerBoardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("POST /v1/players", handler.AddPlayer)
	mux.HandleFunc("POST /v1/players/bulk", handler.BulkAddPlayers)
	mux.HandleFunc("PUT /v1/players/{playerID}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE /v1/players/{playerID}", handler.RemovePlayer)
	mux.HandleFunc("POST /v1/players/{playerID}/draft", handler.MarkDrafted)
	mux.HandleFunc("GET /v1/recommendations", handler.ListRecommendations)
	mux.HandleFunc("GET /v1/history", handler.ListHistory)
	mux.HandleFunc("GET /v1/chart", handler.GetChart)
}

func registerTeamRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("POST /v1/teams", handler.AddTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}", handler.UpdateTeam)
	mux.HandleFunc("DELETE /v1/teams/{teamID}", handler.RemoveTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/roster", handler.GetTeamRoster)
}

func registerBackupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/backups/export", handler.ExportBackup)
	mux.HandleFunc("POST /v1/backups/import", handler.ImportBackup)
	mux.HandleFunc("POST /v1/backups/run", handler.RunBackup)
	mux.HandleFunc("GET /v1/backups/status", handler.GetBackupStatus)
}

func registerSettingsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/settings/timer", handler.GetTimer)
	mux.HandleFunc("PUT /v1/settings/timer", handler.SetTimer)
}
