package httpapi

import "net/http"

func (h *Handler) GetTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTimer")
	defer span.End()

	seconds, err := h.settingsService.TimerSeconds(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get timer failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, timerDTO{Seconds: seconds})
}

func (h *Handler) SetTimer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetTimer")
	defer span.End()

	var req timerRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	seconds, err := h.settingsService.SetTimerSeconds(ctx, *req.Seconds)
	if err != nil {
		h.logger.WarnContext(ctx, "set timer failed", "seconds", *req.Seconds, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, timerDTO{Seconds: seconds})
}
