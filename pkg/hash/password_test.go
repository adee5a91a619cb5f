package hash

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestComparePassword(t *testing.T) {
	hashed, err := HashPasswordWithCost("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPasswordWithCost() error = %v", err)
	}

	if err := ComparePassword(hashed, "correct horse"); err != nil {
		t.Errorf("ComparePassword(match) error = %v", err)
	}
	if err := ComparePassword(hashed, "wrong"); !errors.Is(err, ErrMismatch) {
		t.Errorf("ComparePassword(mismatch) error = %v, want ErrMismatch", err)
	}
	if err := ComparePassword("not-a-hash", "x"); err == nil || errors.Is(err, ErrMismatch) {
		t.Errorf("ComparePassword(bad hash) error = %v, want wrapped bcrypt error", err)
	}
}
