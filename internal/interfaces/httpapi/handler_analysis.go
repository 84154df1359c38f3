package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	"github.com/matchmindhq/matchmind/internal/domain/quota"
	"github.com/matchmindhq/matchmind/internal/usecase"
)

func (h *Handler) RequestMatchAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestMatchAnalysis")
	defer span.End()

	h.handleAnalysisRequest(ctx, w, r, analysis.ScopeAnalysis)
}

func (h *Handler) RequestMatchPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestMatchPredictions")
	defer span.End()

	h.handleAnalysisRequest(ctx, w, r, analysis.ScopePredictions)
}

func (h *Handler) handleAnalysisRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, scope string) {
	fixtureID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("fixtureID")), 10, 64)
	if err != nil || fixtureID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: fixture id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	req, err := decodeAnalysisRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	locale := strings.TrimSpace(req.Locale)
	if locale == "" {
		locale = localeFromAcceptLanguage(r.Header.Get("Accept-Language"))
	}

	identity, premium := resolveRequestIdentity(ctx, r)
	if identity == "" {
		writeError(ctx, w, fmt.Errorf("%w: client identity could not be determined", usecase.ErrInvalidInput))
		return
	}

	out, err := h.analysisService.Analyze(ctx, usecase.AnalysisInput{
		Identity:  identity,
		FixtureID: fixtureID,
		Scope:     scope,
		Locale:    locale,
		Premium:   premium,
	})
	if err != nil {
		var limitErr *quota.LimitExceededError
		if errors.As(err, &limitErr) {
			w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(limitErr.ResetsAt).Seconds())+1, 10))
		} else {
			h.logger.WarnContext(ctx, "analysis request failed",
				"fixture_id", fixtureID,
				"scope", scope,
				"country", resolveCountryCode(ctx, r),
				"error", err,
			)
		}
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, analysisResponseDTO{
		FixtureID: fixtureID,
		Scope:     scope,
		Locale:    locale,
		Analysis:  analysisToDTO(out.Analysis),
		Meta: analysisMetaDTO{
			CacheHit:  out.CacheHit,
			Limit:     out.Limit,
			Remaining: out.Remaining,
			ResetsAt:  out.ResetsAt.UTC().Format(time.RFC3339),
		},
	})
}

// resolveRequestIdentity prefers the authenticated principal; anonymous
// callers are identified by client IP so quota still applies per device.
func resolveRequestIdentity(ctx context.Context, r *http.Request) (string, bool) {
	if principal, ok := principalFromContext(ctx); ok {
		return "user:" + principal.UserID, principal.Premium
	}
	if ip := resolveClientIP(ctx, r); ip != "" {
		return "ip:" + ip, false
	}
	return "", false
}

func decodeAnalysisRequest(r *http.Request) (analysisRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req analysisRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return analysisRequest{}, nil
		}
		return analysisRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

func localeFromAcceptLanguage(header string) string {
	first := strings.TrimSpace(strings.Split(header, ",")[0])
	if idx := strings.Index(first, ";"); idx >= 0 {
		first = strings.TrimSpace(first[:idx])
	}
	return first
}

type analysisRequest struct {
	Locale string `json:"locale" validate:"omitempty,max=16"`
}

type analysisResponseDTO struct {
	FixtureID int64           `json:"fixtureId"`
	Scope     string          `json:"scope"`
	Locale    string          `json:"locale"`
	Analysis  analysisDTO     `json:"analysis"`
	Meta      analysisMetaDTO `json:"meta"`
}

type analysisMetaDTO struct {
	CacheHit  bool   `json:"cacheHit"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	ResetsAt  string `json:"resetsAt"`
}

type analysisDTO struct {
	HomeWinProb    int                `json:"homeWinProb"`
	DrawProb       int                `json:"drawProb"`
	AwayWinProb    int                `json:"awayWinProb"`
	Confidence     int                `json:"confidence"`
	RiskLevel      string             `json:"riskLevel"`
	Advice         string             `json:"advice"`
	KeyFactors     []string           `json:"keyFactors"`
	BetSuggestions []betSuggestionDTO `json:"betSuggestions"`
	RiskDisplay    *riskDisplayDTO    `json:"riskDisplay,omitempty"`
	Degraded       bool               `json:"degraded,omitempty"`
}

type betSuggestionDTO struct {
	Market      string          `json:"market"`
	Pick        string          `json:"pick"`
	Confidence  int             `json:"confidence"`
	Risk        string          `json:"risk"`
	RiskDisplay *riskDisplayDTO `json:"riskDisplay,omitempty"`
}

type riskDisplayDTO struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

func analysisToDTO(v analysis.Analysis) analysisDTO {
	suggestions := make([]betSuggestionDTO, 0, len(v.BetSuggestions))
	for _, s := range v.BetSuggestions {
		suggestions = append(suggestions, betSuggestionDTO{
			Market:      s.Market,
			Pick:        s.Pick,
			Confidence:  s.Confidence,
			Risk:        s.Risk,
			RiskDisplay: riskDisplayToDTO(s.RiskDisplay),
		})
	}

	return analysisDTO{
		HomeWinProb:    v.HomeWinProb,
		DrawProb:       v.DrawProb,
		AwayWinProb:    v.AwayWinProb,
		Confidence:     v.Confidence,
		RiskLevel:      v.RiskLevel,
		Advice:         v.Advice,
		KeyFactors:     append([]string(nil), v.KeyFactors...),
		BetSuggestions: suggestions,
		RiskDisplay:    riskDisplayToDTO(v.RiskDisplay),
		Degraded:       v.Degraded,
	}
}

func riskDisplayToDTO(v *analysis.RiskDisplay) *riskDisplayDTO {
	if v == nil {
		return nil
	}
	return &riskDisplayDTO{Label: v.Label, Color: v.Color}
}
