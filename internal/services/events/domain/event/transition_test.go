package event

import (
	"errors"
	"testing"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
)

func TestValidateTransitionTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"draft to published", StatusDraft, StatusPublished, true},
		{"draft to cancelled", StatusDraft, StatusCancelled, true},
		{"published to cancelled", StatusPublished, StatusCancelled, true},
		{"published back to draft", StatusPublished, StatusDraft, false},
		{"cancelled to draft", StatusCancelled, StatusDraft, false},
		{"cancelled to published", StatusCancelled, StatusPublished, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateTransition(tt.from, tt.to)
			if tt.allowed && err != nil {
				t.Fatalf("expected %s -> %s to be allowed, got %v", tt.from, tt.to, err)
			}
			if !tt.allowed {
				var appErr *apperrors.Error
				if !errors.As(err, &appErr) {
					t.Fatalf("expected domain error for %s -> %s, got %v", tt.from, tt.to, err)
				}
				if appErr.Code != apperrors.CodeInvalidTransition {
					t.Fatalf("code = %q, want %q", appErr.Code, apperrors.CodeInvalidTransition)
				}
				if len(appErr.Details) != 1 || appErr.Details[0].Field != "status" {
					t.Fatalf("expected one status detail, got %+v", appErr.Details)
				}
			}
		})
	}
}

func TestValidateTransitionSameStatusIsNoOp(t *testing.T) {
	t.Parallel()

	// A same-status change is never evaluated against the table, so even
	// CANCELLED -> CANCELLED succeeds.
	for _, status := range []Status{StatusDraft, StatusPublished, StatusCancelled} {
		if err := ValidateTransition(status, status); err != nil {
			t.Errorf("same-status %s: %v", status, err)
		}
	}
}

func TestCancelledIsTerminal(t *testing.T) {
	t.Parallel()

	for _, target := range []Status{StatusDraft, StatusPublished} {
		if err := ValidateTransition(StatusCancelled, target); err == nil {
			t.Errorf("expected CANCELLED -> %s to be forbidden", target)
		}
	}
}
