package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatalf("expected true for sql.ErrNoRows")
	}
	if isNotFound(errors.New("pq: connection refused")) {
		t.Fatalf("expected false for unrelated error")
	}
}

func TestNullInt64Conversions(t *testing.T) {
	if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("expected nil for null value, got %v", *got)
	}
	if got := nullInt64ToIntPtr(sql.NullInt64{Int64: 3, Valid: true}); got == nil || *got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}

	if got := intPtrToNullInt64(nil); got.Valid {
		t.Fatalf("expected invalid for nil pointer")
	}
	score := 2
	if got := intPtrToNullInt64(&score); !got.Valid || got.Int64 != 2 {
		t.Fatalf("expected valid 2, got %+v", got)
	}
}

func TestNullTimeToTimePtr(t *testing.T) {
	if got := nullTimeToTimePtr(sql.NullTime{}); got != nil {
		t.Fatalf("expected nil for null time")
	}
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	got := nullTimeToTimePtr(sql.NullTime{Time: now, Valid: true})
	if got == nil || !got.Equal(now) {
		t.Fatalf("expected %s, got %v", now, got)
	}
}
