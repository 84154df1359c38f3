package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/matchmindhq/matchmind/internal/platform/logging"
	"github.com/matchmindhq/matchmind/internal/usecase"
)

type Handler struct {
	analysisService *usecase.AnalysisService
	fixtureService  *usecase.FixtureService
	quotaService    *usecase.QuotaService
	syncService     *usecase.SyncService
	quotaLimits     QuotaLimits
	logger          *logging.Logger
	validator       *validator.Validate
}

// QuotaLimits mirrors the per-tier daily allowances so the usage endpoint
// can report against the same numbers the gateway enforces.
type QuotaLimits struct {
	Free    int
	Premium int
}

func NewHandler(
	analysisService *usecase.AnalysisService,
	fixtureService *usecase.FixtureService,
	quotaService *usecase.QuotaService,
	syncService *usecase.SyncService,
	quotaLimits QuotaLimits,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		analysisService: analysisService,
		fixtureService:  fixtureService,
		quotaService:    quotaService,
		syncService:     syncService,
		quotaLimits:     quotaLimits,
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
