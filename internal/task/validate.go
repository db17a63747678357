package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/scholarsync/service-api-go/internal/task/entity"
)

// sentinel errors for validation and lookup failures
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidEnumValue   = errors.New("invalid enum value")
	ErrDueDateNotInFuture = errors.New("due date must be in the future")
	ErrGradeOutOfRange    = errors.New("grade must be between 0 and 100")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")
	ErrTitleRequired      = errors.New("title must not be empty")
	ErrSubjectRequired    = errors.New("subject must not be empty")
)

// NewTask is the validated creation payload. Description may be empty;
// a nil EstimatedHours or Grade means the field was not supplied.
type NewTask struct {
	Title          string
	Subject        string
	Description    string
	DueDate        time.Time
	AssignmentType string
	Priority       string
	EstimatedHours *int
	Grade          *float64
}

func validateNew(in *NewTask, now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(in.Subject) == "" {
		return ErrSubjectRequired
	}
	if !in.DueDate.After(now) {
		return ErrDueDateNotInFuture
	}
	if !entity.AssignmentType(in.AssignmentType).Valid() {
		return fmt.Errorf("%w: assignment_type %q", ErrInvalidEnumValue, in.AssignmentType)
	}
	if !entity.Priority(in.Priority).Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidEnumValue, in.Priority)
	}
	if in.Grade != nil && (*in.Grade < 0 || *in.Grade > 100) {
		return ErrGradeOutOfRange
	}
	return nil
}

// validateChangeset checks only the fields the update actually sets. The due
// date rule applies solely when a new due date is supplied; a stored past due
// date is never retroactively rejected.
func validateChangeset(cs *entity.Changeset, now time.Time) error {
	if cs.Empty() {
		return ErrNoFieldsToUpdate
	}
	if cs.DueDate != nil && !cs.DueDate.Time.After(now) {
		return ErrDueDateNotInFuture
	}
	if cs.AssignmentType != nil && !entity.AssignmentType(*cs.AssignmentType).Valid() {
		return fmt.Errorf("%w: assignment_type %q", ErrInvalidEnumValue, *cs.AssignmentType)
	}
	if cs.Priority != nil && !entity.Priority(*cs.Priority).Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidEnumValue, *cs.Priority)
	}
	if cs.Status != nil && !entity.Status(*cs.Status).Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidEnumValue, *cs.Status)
	}
	if cs.Grade != nil && (*cs.Grade < 0 || *cs.Grade > 100) {
		return ErrGradeOutOfRange
	}
	return nil
}
