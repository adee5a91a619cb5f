package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	all := []error{ErrNotFound, ErrConstraintViolation, ErrInvalidInput, ErrUserExists, ErrInvalidCredentials, ErrUnauthorized}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d is nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}

func TestWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("habit %s: %w", "abc", ErrNotFound)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(%v, ErrNotFound) = false, want true", err)
	}
}
