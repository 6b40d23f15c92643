package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("expected true for sql.ErrNoRows")
	}
	if !isNotFound(fmt.Errorf("get row: %w", sql.ErrNoRows)) {
		t.Fatal("expected true for wrapped sql.ErrNoRows")
	}
	if isNotFound(errors.New("connection refused")) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"topics_slug_key\""}
	if !isUniqueViolation(dup) {
		t.Fatal("expected true for 23505")
	}
	if !isUniqueViolation(fmt.Errorf("insert topic: %w", dup)) {
		t.Fatal("expected true for wrapped 23505")
	}

	fk := &pq.Error{Code: "23503", Message: "foreign key violation"}
	if isUniqueViolation(fk) {
		t.Fatal("expected false for non-unique constraint code")
	}
	if isUniqueViolation(errors.New("duplicate-looking plain error")) {
		t.Fatal("expected false for non-pq error")
	}
}

func TestNullConversions(t *testing.T) {
	at := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)

	if got := nullTimeToTimePtr(sql.NullTime{Time: at, Valid: true}); got == nil || !got.Equal(at) {
		t.Fatalf("nullTimeToTimePtr valid = %v", got)
	}
	if got := nullTimeToTimePtr(sql.NullTime{}); got != nil {
		t.Fatalf("nullTimeToTimePtr invalid = %v", got)
	}

	if got := nullStringToString(sql.NullString{String: "67'", Valid: true}); got != "67'" {
		t.Fatalf("nullStringToString valid = %q", got)
	}
	if got := nullStringToString(sql.NullString{}); got != "" {
		t.Fatalf("nullStringToString invalid = %q", got)
	}

	two := 2
	if got := intPtrToNullInt(&two); !got.Valid || got.Int64 != 2 {
		t.Fatalf("intPtrToNullInt = %+v", got)
	}
	if got := intPtrToNullInt(nil); got.Valid {
		t.Fatalf("intPtrToNullInt(nil) = %+v", got)
	}
	if got := nullIntToIntPtr(sql.NullInt64{Int64: 3, Valid: true}); got == nil || *got != 3 {
		t.Fatalf("nullIntToIntPtr valid = %v", got)
	}
	if got := nullIntToIntPtr(sql.NullInt64{}); got != nil {
		t.Fatalf("nullIntToIntPtr invalid = %v", got)
	}
}
