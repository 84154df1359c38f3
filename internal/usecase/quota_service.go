package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	"github.com/matchmindhq/matchmind/internal/domain/quota"
	"github.com/matchmindhq/matchmind/internal/platform/logging"
)

// QuotaService enforces the per-identity daily analysis allowance. A
// fixture the identity already spent quota on that day is free to revisit;
// only first requests for new fixtures consume the allowance.
type QuotaService struct {
	repo   quota.Repository
	logger *logging.Logger
	now    NowFunc
}

func NewQuotaService(repo quota.Repository, logger *logging.Logger) *QuotaService {
	if logger == nil {
		logger = logging.Default()
	}

	return &QuotaService{
		repo:   repo,
		logger: logger,
		now:    defaultNow,
	}
}

// CheckAndAdmit decides whether the request may proceed and records the
// grant when it spends quota. Repository failures deny the request: quota
// accounting must not be bypassed when storage is down.
func (s *QuotaService) CheckAndAdmit(ctx context.Context, identity string, fixtureID int64, scope string, dailyLimit int) (quota.Decision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuotaService.CheckAndAdmit")
	defer span.End()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return quota.Decision{}, fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}
	if fixtureID <= 0 {
		return quota.Decision{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}
	if !analysis.ValidScope(scope) {
		return quota.Decision{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, scope)
	}
	if dailyLimit <= 0 {
		return quota.Decision{}, fmt.Errorf("%w: daily limit must be positive", ErrInvalidInput)
	}

	now := s.now()
	day := quota.DayOf(now)
	resetsAt := quota.NextReset(now)

	_, exists, err := s.repo.GetGrant(ctx, identity, fixtureID, scope, day)
	if err != nil {
		return quota.Decision{}, fmt.Errorf("%w: get quota grant: %v", ErrDependencyUnavailable, err)
	}

	used, err := s.repo.CountGrants(ctx, identity, scope, day)
	if err != nil {
		return quota.Decision{}, fmt.Errorf("%w: count quota grants: %v", ErrDependencyUnavailable, err)
	}

	if exists {
		return quota.Decision{
			Admitted:  true,
			Remaining: remainingAfter(dailyLimit, used),
			ResetsAt:  resetsAt,
		}, nil
	}

	if used >= dailyLimit {
		s.logger.InfoContext(ctx, "quota exhausted",
			"identity", identity,
			"scope", scope,
			"used", used,
			"daily_limit", dailyLimit,
		)
		return quota.Decision{
			Admitted:  false,
			Remaining: 0,
			ResetsAt:  resetsAt,
		}, nil
	}

	grant := quota.Grant{
		Identity:  identity,
		FixtureID: fixtureID,
		Scope:     scope,
		Day:       day,
		GrantedAt: now,
	}
	if err := s.repo.CreateGrant(ctx, grant); err != nil {
		// A concurrent request won the insert; the fixture is granted
		// either way, so admit without charging twice.
		if errors.Is(err, quota.ErrDuplicateGrant) {
			return quota.Decision{
				Admitted:  true,
				Remaining: remainingAfter(dailyLimit, used),
				ResetsAt:  resetsAt,
			}, nil
		}
		return quota.Decision{}, fmt.Errorf("%w: create quota grant: %v", ErrDependencyUnavailable, err)
	}

	return quota.Decision{
		Admitted:  true,
		FirstSeen: true,
		Remaining: remainingAfter(dailyLimit, used+1),
		ResetsAt:  resetsAt,
	}, nil
}

// Usage reports current consumption for the identity and scope without
// spending quota.
func (s *QuotaService) Usage(ctx context.Context, identity, scope string, dailyLimit int) (QuotaUsage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.QuotaService.Usage")
	defer span.End()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return QuotaUsage{}, fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}
	if !analysis.ValidScope(scope) {
		return QuotaUsage{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, scope)
	}
	if dailyLimit <= 0 {
		return QuotaUsage{}, fmt.Errorf("%w: daily limit must be positive", ErrInvalidInput)
	}

	now := s.now()
	used, err := s.repo.CountGrants(ctx, identity, scope, quota.DayOf(now))
	if err != nil {
		return QuotaUsage{}, fmt.Errorf("%w: count quota grants: %v", ErrDependencyUnavailable, err)
	}

	return QuotaUsage{
		Scope:     scope,
		Limit:     dailyLimit,
		Used:      used,
		Remaining: remainingAfter(dailyLimit, used),
		ResetsAt:  quota.NextReset(now),
	}, nil
}

type QuotaUsage struct {
	Scope     string
	Limit     int
	Used      int
	Remaining int
	ResetsAt  time.Time
}

func remainingAfter(limit, used int) int {
	remaining := limit - used
	if remaining < 0 {
		return 0
	}
	return remaining
}
