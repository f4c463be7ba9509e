package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name      string
		err       error
		kind      Kind
		retryable bool
	}{
		{"validation", Validationf("bad input %d", 7), KindValidation, false},
		{"not found", NotFoundf("link %s not found", "x"), KindNotFound, false},
		{"fetch", FetchErr("listing links", cause), KindFetch, true},
		{"persist", PersistErr("creating link", cause), KindPersist, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !IsKind(tt.err, tt.kind) {
				t.Errorf("KindOf = %q, want %q", KindOf(tt.err), tt.kind)
			}
			if Retryable(tt.err) != tt.retryable {
				t.Errorf("Retryable = %v, want %v", Retryable(tt.err), tt.retryable)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := PersistErr("creating link", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable through errors.Is")
	}
	// Wrapping a domain error keeps its kind visible.
	wrapped := fmt.Errorf("request failed: %w", err)
	if !IsKind(wrapped, KindPersist) {
		t.Errorf("KindOf(wrapped) = %q, want persist", KindOf(wrapped))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("non-domain error reported a kind")
	}
}
