package workflow

import (
	"github.com/sangkips/laundry-api/internal/domain/enum"
	"github.com/sangkips/laundry-api/pkg/apperror"
)

// CanStart returns AlreadyStarted unless the section has not been started. A missing
// record and a notes-only record both count as not started.
func CanStart(current enum.WorkflowStatus) error {
	if current == "" || current == enum.WorkflowStatusNotStarted {
		return nil
	}
	return apperror.ErrAlreadyStarted.With("status", current.String())
}

// CanComplete returns NotStarted unless work is in progress.
func CanComplete(current enum.WorkflowStatus) error {
	if current == enum.WorkflowStatusInProgress {
		return nil
	}
	status := current.String()
	if status == "" {
		status = enum.WorkflowStatusNotStarted.String()
	}
	return apperror.ErrNotStarted.With("status", status)
}

// CheckOrder returns SectionOrderViolation when enforcement is on and the previous
// section has not been completed. previous is "" when there is no previous section.
func CheckOrder(enforce bool, previousCode string, previous enum.WorkflowStatus) error {
	if !enforce || previousCode == "" {
		return nil
	}
	if previous != enum.WorkflowStatusCompleted {
		return apperror.ErrSectionOrderViolation.With("previous_section", previousCode)
	}
	return nil
}

// IsPending reports whether an invoice still has work left in a section.
func IsPending(current enum.WorkflowStatus) bool {
	return current != enum.WorkflowStatusCompleted
}
