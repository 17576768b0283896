package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"not_found", gorm.ErrRecordNotFound, ErrNotFound},
		{"pg_unique", &pgconn.PgError{Code: "23505", Message: "duplicate key value"}, ErrConflict},
		{"pg_deadlock", &pgconn.PgError{Code: "40P01"}, ErrRetryable},
		{"sqlite_unique", errors.New("UNIQUE constraint failed: user.email"), ErrConflict},
		{"wrapped_not_found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.in)
			if !errors.Is(got, tc.want) {
				t.Fatalf("MapError(%v)=%v want %v", tc.in, got, tc.want)
			}
			if !errors.Is(got, tc.in) {
				t.Fatalf("original error dropped from chain: %v", got)
			}
		})
	}
}

func TestMapError_Passthrough(t *testing.T) {
	if MapError("op", nil) != nil {
		t.Fatal("nil must stay nil")
	}
	plain := errors.New("boom")
	got := MapError("op", plain)
	if IsNotFound(got) || IsConflict(got) {
		t.Fatalf("plain error was tagged: %v", got)
	}
	if !errors.Is(got, plain) {
		t.Fatalf("plain error lost: %v", got)
	}
}
