package httpapi

import (
	"net/http"

	"github.com/riskibarqy/draft-board/internal/usecase"
)

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrafts")
	defer span.End()

	drafts, err := h.draftService.ListDrafts(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list drafts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]draftDTO, 0, len(drafts))
	for _, d := range drafts {
		items = append(items, draftToDTO(d))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateDraft")
	defer span.End()

	var req draftRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.draftService.CreateDraft(ctx, usecase.DraftInput{Name: req.Name, Description: req.Description})
	if err != nil {
		h.logger.WarnContext(ctx, "create draft failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, draftToDTO(item))
}

func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDraft")
	defer span.End()

	draftID, err := pathID(r, "draftID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.draftService.GetDraft(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "get draft failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, draftToDTO(item))
}
