package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	"github.com/matchmindhq/matchmind/internal/usecase"
)

func (h *Handler) GetMyQuota(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyQuota")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	scope := strings.TrimSpace(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = analysis.ScopeAnalysis
	}

	limit := h.quotaLimits.Free
	if principal.Premium {
		limit = h.quotaLimits.Premium
	}

	usage, err := h.quotaService.Usage(ctx, "user:"+principal.UserID, scope, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "get quota usage failed", "user_id", principal.UserID, "scope", scope, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, quotaUsageDTO{
		Scope:     usage.Scope,
		Limit:     usage.Limit,
		Used:      usage.Used,
		Remaining: usage.Remaining,
		ResetsAt:  usage.ResetsAt.UTC().Format(time.RFC3339),
		Premium:   principal.Premium,
	})
}

type quotaUsageDTO struct {
	Scope     string `json:"scope"`
	Limit     int    `json:"limit"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
	ResetsAt  string `json:"resetsAt"`
	Premium   bool   `json:"premium"`
}
