package httpapi

import "net/http"

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.boardService.ListPlayers(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayer")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req playerFormRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.boardService.AddPlayer(ctx, draftID, req.form())
	if err != nil {
		h.logger.WarnContext(ctx, "add player failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) BulkAddPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BulkAddPlayers")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req bulkAddPlayersRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.boardService.BulkAddPlayers(ctx, draftID, req.Names)
	if err != nil {
		h.logger.WarnContext(ctx, "bulk add players failed", "draft_id", draftID, "names", len(req.Names), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playersToDTO(items))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req playerFormRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.boardService.UpdatePlayer(ctx, draftID, playerID, req.form())
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "draft_id", draftID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayer")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.boardService.RemovePlayer(ctx, draftID, playerID); err != nil {
		h.logger.WarnContext(ctx, "remove player failed", "draft_id", draftID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int64{"id": playerID})
}

func (h *Handler) MarkDrafted(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkDrafted")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var req markDraftedRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.boardService.MarkDrafted(ctx, draftID, playerID, req.TeamName)
	if err != nil {
		h.logger.WarnContext(ctx, "mark drafted failed", "draft_id", draftID, "player_id", playerID, "team", req.TeamName, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "player drafted", "draft_id", draftID, "player_id", playerID, "team", item.DraftedBy)
	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRecommendations")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.boardService.Recommendations(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "list recommendations failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recommendationsToDTO(items))
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHistory")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.boardService.History(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "list history failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(items))
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChart")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.boardService.ChartData(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "get chart failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, chartToDTO(items))
}
