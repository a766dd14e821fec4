package event

import (
	"fmt"

	apperrors "github.com/louisbranch/eventdesk/internal/platform/errors"
)

// forbiddenTransitions maps each status to the targets it may not move to.
// Kept as data so the state machine stays auditable in one place: drafts may
// move anywhere, published events may not return to draft, and cancellation
// is terminal.
var forbiddenTransitions = map[Status][]Status{
	StatusDraft:     {},
	StatusPublished: {StatusDraft},
	StatusCancelled: {StatusDraft, StatusPublished},
}

// ValidateTransition checks the status change against the transition table.
// A same-status change is a no-op, never evaluated against the table.
func ValidateTransition(from, to Status) error {
	if from == to {
		return nil
	}
	for _, forbidden := range forbiddenTransitions[from] {
		if to == forbidden {
			return apperrors.WithDetails(
				apperrors.CodeInvalidTransition,
				fmt.Sprintf("Cannot transition from %s to %s", from, to),
				[]apperrors.FieldViolation{
					{Field: "status", Message: fmt.Sprintf("Cannot move from %s back to %s", from, to)},
				},
			)
		}
	}
	return nil
}
