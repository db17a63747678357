package task

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scholarsync/service-api-go/internal/task/entity"
	taskrepo "github.com/scholarsync/service-api-go/internal/task/repo"
	"github.com/scholarsync/service-api-go/pkg/utilities"
)

// Service enforces task field invariants and ownership, delegating persistence
// to the repo. It holds no mutable state; each call is independent.
type Service struct {
	repo *taskrepo.TaskRepo
	now  func() time.Time
}

func NewService(db *sqlx.DB, r *taskrepo.TaskRepo) *Service {
	if r == nil {
		r = taskrepo.NewTaskRepo(db)
	}
	return &Service{repo: r, now: time.Now}
}

// EnsureSchema creates the tasks table if needed.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	return taskrepo.NewTaskRepo(db).EnsureTable(ctx)
}

// Create validates and persists a new task. Status always starts at pending.
func (s *Service) Create(ctx context.Context, userID string, in NewTask) (*entity.Task, error) {
	if err := validateNew(&in, s.now()); err != nil {
		return nil, err
	}
	t := &entity.Task{
		ID:             utilities.NewEntityID(),
		UserID:         userID,
		Title:          strings.TrimSpace(in.Title),
		Subject:        strings.TrimSpace(in.Subject),
		Description:    in.Description,
		DueDate:        in.DueDate,
		AssignmentType: entity.AssignmentType(in.AssignmentType),
		Priority:       entity.Priority(in.Priority),
		Status:         entity.StatusPending,
		EstimatedHours: in.EstimatedHours,
		Grade:          in.Grade,
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all tasks owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]*entity.Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one task. A task owned by another user surfaces as
// ErrTaskNotFound, never as a permission error.
func (s *Service) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	t, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update validates and applies a partial update. Only fields present in the
// changeset change; due-date validation runs only when a new due date is set.
func (s *Service) Update(ctx context.Context, userID, id string, cs *entity.Changeset) (*entity.Task, error) {
	if err := validateChangeset(cs, s.now()); err != nil {
		return nil, err
	}
	t, err := s.repo.Update(ctx, id, userID, cs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete removes a task owned by userID.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	ok, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}
	return nil
}

// Analytics is the per-user task summary.
type Analytics struct {
	TotalTasks      int            `json:"total_tasks"`
	CompletedTasks  int            `json:"completed_tasks"`
	PendingTasks    int            `json:"pending_tasks"`
	InProgressTasks int            `json:"in_progress_tasks"`
	CompletionRate  float64        `json:"completion_rate"`
	AssignmentTypes map[string]int `json:"assignment_types"`
	Priorities      map[string]int `json:"priorities"`
}

// Summarize aggregates a task list into analytics counters. Completion rate
// is a percentage rounded to one decimal.
func Summarize(tasks []*entity.Task) *Analytics {
	a := &Analytics{
		TotalTasks:      len(tasks),
		AssignmentTypes: map[string]int{},
		Priorities:      map[string]int{},
	}
	for _, t := range tasks {
		switch t.Status {
		case entity.StatusCompleted:
			a.CompletedTasks++
		case entity.StatusPending:
			a.PendingTasks++
		case entity.StatusInProgress:
			a.InProgressTasks++
		}
		a.AssignmentTypes[string(t.AssignmentType)]++
		a.Priorities[string(t.Priority)]++
	}
	if a.TotalTasks > 0 {
		rate := float64(a.CompletedTasks) / float64(a.TotalTasks) * 100
		a.CompletionRate = math.Round(rate*10) / 10
	}
	return a
}

// Analytics computes the summary for a user's tasks.
func (s *Service) Analytics(ctx context.Context, userID string) (*Analytics, error) {
	tasks, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Summarize(tasks), nil
}
