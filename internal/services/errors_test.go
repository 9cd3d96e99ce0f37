package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "users_username_key"}
	if !isUniqueViolation(unique) {
		t.Error("23505 should be detected as a unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert failed: %w", unique)) {
		t.Error("wrapped unique violations should still be detected")
	}

	for _, err := range []error{
		nil,
		errors.New("plain error"),
		&pq.Error{Code: "23503"}, // foreign key violation
	} {
		if isUniqueViolation(err) {
			t.Errorf("%v should not be detected as a unique violation", err)
		}
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	kinds := []error{ErrNotFound, ErrForbidden, ErrConflict, ErrInvalidInput, ErrUnauthorized}
	for i, a := range kinds {
		for j, b := range kinds {
			if (i == j) != errors.Is(fmt.Errorf("ctx: %w", a), b) {
				t.Errorf("error kind %v vs %v: wrong identity", a, b)
			}
		}
	}
}
