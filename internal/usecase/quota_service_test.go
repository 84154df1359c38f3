package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	"github.com/matchmindhq/matchmind/internal/domain/quota"
)

type fakeQuotaRepo struct {
	grants map[string]quota.Grant

	getErr    error
	countErr  error
	createErr error
}

func newFakeQuotaRepo() *fakeQuotaRepo {
	return &fakeQuotaRepo{grants: make(map[string]quota.Grant)}
}

func quotaKey(identity string, fixtureID int64, scope string, day time.Time) string {
	return fmt.Sprintf("%s|%d|%s|%s", identity, fixtureID, scope, day.Format("2006-01-02"))
}

func (r *fakeQuotaRepo) GetGrant(_ context.Context, identity string, fixtureID int64, scope string, day time.Time) (quota.Grant, bool, error) {
	if r.getErr != nil {
		return quota.Grant{}, false, r.getErr
	}
	grant, ok := r.grants[quotaKey(identity, fixtureID, scope, day)]
	return grant, ok, nil
}

func (r *fakeQuotaRepo) CountGrants(_ context.Context, identity, scope string, day time.Time) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	count := 0
	for _, grant := range r.grants {
		if grant.Identity == identity && grant.Scope == scope && grant.Day.Equal(day) {
			count++
		}
	}
	return count, nil
}

func (r *fakeQuotaRepo) CreateGrant(_ context.Context, grant quota.Grant) error {
	if r.createErr != nil {
		return r.createErr
	}
	key := quotaKey(grant.Identity, grant.FixtureID, grant.Scope, grant.Day)
	if _, exists := r.grants[key]; exists {
		return quota.ErrDuplicateGrant
	}
	r.grants[key] = grant
	return nil
}

func TestQuotaServiceDailyWindow(t *testing.T) {
	repo := newFakeQuotaRepo()
	svc := NewQuotaService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	}

	fixtureIDs := []int64{10, 10, 20, 30, 40}
	wantAdmitted := []bool{true, true, true, true, false}
	wantRemaining := []int{2, 2, 1, 0, 0}

	for i, fixtureID := range fixtureIDs {
		decision, err := svc.CheckAndAdmit(t.Context(), "203.0.113.7", fixtureID, analysis.ScopeAnalysis, 3)
		if err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
		if decision.Admitted != wantAdmitted[i] {
			t.Fatalf("request %d (fixture %d): admitted = %v, want %v", i, fixtureID, decision.Admitted, wantAdmitted[i])
		}
		if decision.Remaining != wantRemaining[i] {
			t.Fatalf("request %d (fixture %d): remaining = %d, want %d", i, fixtureID, decision.Remaining, wantRemaining[i])
		}
	}
}

func TestQuotaServiceRepeatIsIdempotent(t *testing.T) {
	repo := newFakeQuotaRepo()
	svc := NewQuotaService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	}

	for i := 0; i < 5; i++ {
		decision, err := svc.CheckAndAdmit(t.Context(), "client-a", 77, analysis.ScopePredictions, 3)
		if err != nil {
			t.Fatalf("attempt %d: unexpected error: %v", i, err)
		}
		if !decision.Admitted {
			t.Fatalf("attempt %d: expected admission", i)
		}
		if decision.Remaining != 2 {
			t.Fatalf("attempt %d: remaining = %d, want 2", i, decision.Remaining)
		}
	}
	if len(repo.grants) != 1 {
		t.Fatalf("expected a single grant, got %d", len(repo.grants))
	}
}

func TestQuotaServiceResetsNextDay(t *testing.T) {
	repo := newFakeQuotaRepo()
	svc := NewQuotaService(repo, nil)

	day := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day }

	for _, fixtureID := range []int64{1, 2, 3} {
		if _, err := svc.CheckAndAdmit(t.Context(), "client-a", fixtureID, analysis.ScopeAnalysis, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	decision, err := svc.CheckAndAdmit(t.Context(), "client-a", 4, analysis.ScopeAnalysis, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Admitted {
		t.Fatalf("expected rejection at the limit")
	}
	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !decision.ResetsAt.Equal(wantReset) {
		t.Fatalf("resets at = %s, want %s", decision.ResetsAt, wantReset)
	}

	svc.now = func() time.Time { return day.Add(2 * time.Hour) }
	decision, err = svc.CheckAndAdmit(t.Context(), "client-a", 4, analysis.ScopeAnalysis, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Admitted || decision.Remaining != 2 {
		t.Fatalf("expected fresh window after midnight, got %+v", decision)
	}
}

func TestQuotaServiceScopesAreIndependent(t *testing.T) {
	repo := newFakeQuotaRepo()
	svc := NewQuotaService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	}

	for _, fixtureID := range []int64{1, 2, 3} {
		if _, err := svc.CheckAndAdmit(t.Context(), "client-a", fixtureID, analysis.ScopeAnalysis, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	decision, err := svc.CheckAndAdmit(t.Context(), "client-a", 9, analysis.ScopePredictions, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Admitted || decision.Remaining != 2 {
		t.Fatalf("predictions scope should have its own window, got %+v", decision)
	}
}

func TestQuotaServiceFailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*fakeQuotaRepo)
	}{
		{name: "get fails", mutate: func(r *fakeQuotaRepo) { r.getErr = errors.New("connection refused") }},
		{name: "count fails", mutate: func(r *fakeQuotaRepo) { r.countErr = errors.New("connection refused") }},
		{name: "create fails", mutate: func(r *fakeQuotaRepo) { r.createErr = errors.New("connection refused") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeQuotaRepo()
			tc.mutate(repo)
			svc := NewQuotaService(repo, nil)

			_, err := svc.CheckAndAdmit(t.Context(), "client-a", 1, analysis.ScopeAnalysis, 3)
			if !errors.Is(err, ErrDependencyUnavailable) {
				t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
			}
		})
	}
}

func TestQuotaServiceAdmitsOnDuplicateRace(t *testing.T) {
	repo := newFakeQuotaRepo()
	repo.createErr = quota.ErrDuplicateGrant
	svc := NewQuotaService(repo, nil)

	decision, err := svc.CheckAndAdmit(t.Context(), "client-a", 1, analysis.ScopeAnalysis, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Admitted {
		t.Fatalf("losing a create race must still admit")
	}
}

func TestQuotaServiceValidation(t *testing.T) {
	svc := NewQuotaService(newFakeQuotaRepo(), nil)

	tests := []struct {
		name      string
		identity  string
		fixtureID int64
		scope     string
		limit     int
	}{
		{name: "empty identity", identity: "", fixtureID: 1, scope: analysis.ScopeAnalysis, limit: 3},
		{name: "zero fixture", identity: "a", fixtureID: 0, scope: analysis.ScopeAnalysis, limit: 3},
		{name: "bad scope", identity: "a", fixtureID: 1, scope: "highlights", limit: 3},
		{name: "zero limit", identity: "a", fixtureID: 1, scope: analysis.ScopeAnalysis, limit: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CheckAndAdmit(t.Context(), tc.identity, tc.fixtureID, tc.scope, tc.limit)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestQuotaServiceUsageDoesNotSpendQuota(t *testing.T) {
	repo := newFakeQuotaRepo()
	svc := NewQuotaService(repo, nil)
	svc.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	}

	for _, fixtureID := range []int64{10, 20} {
		if _, err := svc.CheckAndAdmit(t.Context(), "client-a", fixtureID, analysis.ScopeAnalysis, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	usage, err := svc.Usage(t.Context(), "client-a", analysis.ScopeAnalysis, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.Used != 2 || usage.Remaining != 1 {
		t.Fatalf("usage = %+v, want used=2 remaining=1", usage)
	}
	wantReset := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !usage.ResetsAt.Equal(wantReset) {
		t.Fatalf("resetsAt = %v, want %v", usage.ResetsAt, wantReset)
	}

	again, err := svc.Usage(t.Context(), "client-a", analysis.ScopeAnalysis, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Used != usage.Used {
		t.Fatalf("reading usage must not change consumption: %d -> %d", usage.Used, again.Used)
	}
}
