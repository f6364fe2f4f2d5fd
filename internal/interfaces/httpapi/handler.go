package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/draft-board/internal/platform/logging"
	"github.com/riskibarqy/draft-board/internal/usecase"
)

// maxBodyBytes bounds request bodies, backup imports included.
const maxBodyBytes = 8 << 20

type Services struct {
	Board    *usecase.BoardService
	Teams    *usecase.TeamService
	Drafts   *usecase.DraftService
	Backups  *usecase.BackupService
	Settings *usecase.SettingsService
}

type Handler struct {
	boardService    *usecase.BoardService
	teamService     *usecase.TeamService
	draftService    *usecase.DraftService
	backupService   *usecase.BackupService
	settingsService *usecase.SettingsService
	logger          *logging.Logger
	validator       *validator.Validate
}

func NewHandler(services Services, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		boardService:    services.Board,
		teamService:     services.Teams,
		draftService:    services.Drafts,
		backupService:   services.Backups,
		settingsService: services.Settings,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, dst)
}

// draftIDFromQuery reads ?draft_id=. Absent means 0, which local storage
// accepts and remote storage rejects.
func draftIDFromQuery(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("draft_id"))
	if raw == "" {
		return 0, nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: draft_id must be a non-negative integer", usecase.ErrInvalidInput)
	}
	annotateRequest(r.Context(), "draft.id", v)
	return v, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	annotateRequest(r.Context(), "path."+name, v)
	return v, nil
}
