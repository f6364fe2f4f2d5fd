package httpapi

import (
	"net/http"

	"github.com/riskibarqy/draft-board/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.teamService.ListTeams(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddTeam")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req teamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.AddTeam(ctx, draftID, usecase.TeamInput{Name: req.Name, Captain: req.Captain})
	if err != nil {
		h.logger.WarnContext(ctx, "add team failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req teamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.UpdateTeam(ctx, draftID, teamID, usecase.TeamInput{Name: req.Name, Captain: req.Captain})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "draft_id", draftID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveTeam")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.teamService.RemoveTeam(ctx, draftID, teamID); err != nil {
		h.logger.WarnContext(ctx, "remove team failed", "draft_id", draftID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": teamID})
}

func (h *Handler) GetTeamRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamRoster")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	owner, players, err := h.teamService.Roster(ctx, draftID, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team roster failed", "draft_id", draftID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterDTO{
		Team:    teamToDTO(owner),
		Players: playersToDTO(players),
	})
}
