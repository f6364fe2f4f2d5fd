package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/riskibarqy/draft-board/internal/domain/backup"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

// ExportBackup streams the board as a JSON attachment rather than an envelope.
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportBackup")
	defer span.End()

	draftID, err := draftIDFromQuery(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	file, err := h.backupService.Export(ctx, draftID)
	if err != nil {
		h.logger.WarnContext(ctx, "export backup failed", "draft_id", draftID, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		h.logger.WarnContext(ctx, "write backup export failed", "error", err)
	}
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ImportBackup")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read backup file: %v", usecase.ErrInvalidInput, err))
		return
	}

	snap, err := h.backupService.Import(ctx, body)
	if err != nil {
		h.logger.WarnContext(ctx, "import backup failed", "bytes", len(body), "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "backup imported", "players", len(snap.Players), "teams", len(snap.Teams))
	writeSuccess(ctx, w, http.StatusOK, importResultToDTO(snap))
}

func (h *Handler) RunBackup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackup")
	defer span.End()

	if err := h.backupService.RunCycle(ctx); err != nil {
		h.logger.WarnContext(ctx, "manual backup failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, backupStatusToDTO(h.backupService.Status()))
}

func (h *Handler) GetBackupStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBackupStatus")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, backupStatusToDTO(h.backupService.Status()))
}

func importResultToDTO(snap backup.Snapshot) importResultDTO {
	out := importResultDTO{
		Players: len(snap.Players),
		Teams:   len(snap.Teams),
	}
	if !snap.ExportDate.IsZero() {
		out.ExportDate = snap.ExportDate.UTC().Format(backup.ExportDateLayout)
	}
	return out
}
