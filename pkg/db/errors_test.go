package db

import (
	"errors"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error should not match")
	}
	err := errors.New(`ERROR: duplicate key value violates unique constraint "receipts_number_key"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic duplicate key match")
	}
	if !IsUniqueViolation(err, "receipts_number_key") {
		t.Fatal("expected constraint name match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("unexpected match for unrelated constraint")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: receipts.number"), "") {
		t.Fatal("expected sqlite unique violation match")
	}
}
