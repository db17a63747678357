package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status is the task lifecycle state. Transitions are client-driven; no
// ordering is enforced between states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type AssignmentType string

const (
	TypeExam         AssignmentType = "exam"
	TypePresentation AssignmentType = "presentation"
	TypeHomework     AssignmentType = "homework"
	TypeProject      AssignmentType = "project"
	TypeQuiz         AssignmentType = "quiz"
	TypeAssignment   AssignmentType = "assignment"
	TypeOther        AssignmentType = "other"
)

func (t AssignmentType) Valid() bool {
	switch t {
	case TypeExam, TypePresentation, TypeHomework, TypeProject, TypeQuiz, TypeAssignment, TypeOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a row in the `tasks` table. UserID is immutable after
// creation, as is Title.
type Task struct {
	ID             string         `db:"id" json:"id"`
	UserID         string         `db:"user_id" json:"user_id"`
	Title          string         `db:"title" json:"title"`
	Subject        string         `db:"subject" json:"subject"`
	Description    string         `db:"description" json:"description"`
	DueDate        time.Time      `db:"due_date" json:"due_date"`
	AssignmentType AssignmentType `db:"assignment_type" json:"assignment_type"`
	Priority       Priority       `db:"priority" json:"priority"`
	Status         Status         `db:"status" json:"status"`
	EstimatedHours *int           `db:"estimated_hours" json:"estimated_hours"`
	Grade          *float64       `db:"grade" json:"grade"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

var dueDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDueDate accepts RFC 3339 timestamps as well as timezone-naive
// "2006-01-02T15:04:05" and bare-date inputs. Naive inputs are treated as UTC.
func ParseDueDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}

// DueDate wraps time.Time with the lenient parsing above for request payloads.
type DueDate struct{ time.Time }

func (d *DueDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := ParseDueDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d DueDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Changeset carries a partial task update. A nil field was omitted from the
// payload and must be left untouched; this keeps "field omitted" distinct
// from "field explicitly cleared". Title and UserID are not updatable.
type Changeset struct {
	Subject        *string  `json:"subject"`
	Description    *string  `json:"description"`
	DueDate        *DueDate `json:"due_date"`
	AssignmentType *string  `json:"assignment_type"`
	Priority       *string  `json:"priority"`
	Status         *string  `json:"status"`
	EstimatedHours *int     `json:"estimated_hours"`
	Grade          *float64 `json:"grade"`
}

// Empty reports whether the changeset sets no fields at all.
func (c *Changeset) Empty() bool {
	return c.Subject == nil && c.Description == nil && c.DueDate == nil &&
		c.AssignmentType == nil && c.Priority == nil && c.Status == nil &&
		c.EstimatedHours == nil && c.Grade == nil
}
