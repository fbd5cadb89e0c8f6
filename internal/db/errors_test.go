package db

import (
	"errors"
	"testing"
)

func TestError_WrapsAndUnwraps(t *testing.T) {
	inner := errors.New("connection reset")
	err := error(&Error{Op: OpSet, Err: inner})

	if err.Error() != "SET: connection reset" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach the wrapped error")
	}

	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpSet {
		t.Errorf("expected *Error with op SET, got %v", err)
	}
}
