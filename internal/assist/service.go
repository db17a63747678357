package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scholarsync/service-api-go/pkg/utilities"
)

// Request is the assistance payload for one task.
type Request struct {
	TaskID          string `json:"task_id"`
	Subject         string `json:"subject"`
	Description     string `json:"description"`
	AssignmentType  string `json:"assignment_type"`
	DifficultyLevel string `json:"difficulty_level"`
	DueDate         string `json:"due_date"`
}

// Resource is one recommended resource or tool.
type Resource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Step is one item of the step-by-step guidance.
type Step struct {
	Order  int    `json:"order"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// TimeManagement is the suggested pacing for the task.
type TimeManagement struct {
	UrgencyLevel         string `json:"urgency_level"`
	SuggestedSessions    int    `json:"suggested_sessions"`
	SessionLengthMinutes int    `json:"session_length_minutes"`
}

// Response is the structured study-assistance document.
type Response struct {
	ID                  string         `json:"id"`
	TaskID              string         `json:"task_id"`
	RecommendedApproach string         `json:"recommended_approach"`
	ResourcesAndTools   []Resource     `json:"resources_and_tools"`
	StepByStepGuidance  []Step         `json:"step_by_step_guidance"`
	TipsAndStrategies   []string       `json:"tips_and_strategies"`
	TimeManagement      TimeManagement `json:"time_management"`
	SuccessMetrics      []string       `json:"success_metrics"`
	RelatedSkills       []string       `json:"related_skills"`
	CreatedAt           time.Time      `json:"created_at"`
}

// Service builds assistance documents. With a Generator configured the
// recommended approach comes from the upstream model; without one a
// deterministic rule-based plan is produced so the endpoint still works in
// unconfigured environments.
type Service struct {
	gen Generator
	now func() time.Time
}

func NewService(gen Generator) *Service {
	return &Service{gen: gen, now: time.Now}
}

// urgencyLevel buckets a due date by days remaining.
func urgencyLevel(dueDate string, now time.Time) string {
	if dueDate == "" {
		return "low"
	}
	due, err := time.ParseInLocation("2006-01-02", dueDate[:min(10, len(dueDate))], time.UTC)
	if err != nil {
		return "low"
	}
	days := int(due.Sub(now.UTC().Truncate(24*time.Hour)).Hours() / 24)
	switch {
	case days < 0:
		return "overdue"
	case days <= 1:
		return "critical"
	case days <= 3:
		return "high"
	case days <= 7:
		return "medium"
	default:
		return "low"
	}
}

func buildPrompt(req *Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an academic study assistant. Recommend an approach for the following %s task.\n", req.AssignmentType)
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject)
	if req.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", req.Description)
	}
	if req.DueDate != "" {
		fmt.Fprintf(&b, "Due date: %s\n", req.DueDate)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", req.DifficultyLevel)
	b.WriteString("Respond with a concise study plan in plain prose.")
	return b.String()
}

// Generate produces an assistance document for the request. Upstream failures
// surface as ErrUnavailable; validation of plan entitlement happens in the
// handler, not here.
func (s *Service) Generate(ctx context.Context, req *Request) (*Response, error) {
	now := s.now()
	urgency := urgencyLevel(req.DueDate, now)

	resp := s.ruleBased(req, urgency, now)
	if s.gen != nil {
		text, err := s.gen.Generate(ctx, buildPrompt(req))
		if err != nil {
			return nil, err
		}
		resp.RecommendedApproach = text
	}
	return resp, nil
}

// ruleBased assembles a deterministic plan keyed off the assignment type.
func (s *Service) ruleBased(req *Request, urgency string, now time.Time) *Response {
	sessions, length := 3, 45
	switch urgency {
	case "critical", "overdue":
		sessions, length = 2, 90
	case "high":
		sessions, length = 3, 60
	}

	var approach string
	var steps []Step
	switch req.AssignmentType {
	case "exam", "quiz":
		approach = fmt.Sprintf("Review the %s material in focused passes: survey the syllabus, drill weak areas with practice questions, then simulate test conditions.", req.Subject)
		steps = []Step{
			{1, "Collect materials", "Gather notes, past papers and the syllabus outline."},
			{2, "Identify weak areas", "Self-test each topic and rank by confidence."},
			{3, "Targeted practice", "Work practice questions on the lowest-confidence topics first."},
			{4, "Mock test", "Complete a timed practice run under test conditions."},
		}
	case "presentation":
		approach = fmt.Sprintf("Build the %s presentation outline first, then slides, then rehearse aloud at least twice.", req.Subject)
		steps = []Step{
			{1, "Outline", "Draft the narrative arc: hook, three key points, conclusion."},
			{2, "Slides", "One idea per slide; visuals over text."},
			{3, "Rehearse", "Practice aloud with a timer; trim to fit the slot."},
		}
	case "project":
		approach = fmt.Sprintf("Break the %s project into milestones and schedule them backwards from the due date.", req.Subject)
		steps = []Step{
			{1, "Scope", "Write down the deliverables and acceptance criteria."},
			{2, "Milestones", "Split the work into weekly milestones with buffers."},
			{3, "Execute", "Work the earliest milestone; review progress after each."},
			{4, "Polish", "Reserve the final session for review and presentation."},
		}
	default:
		approach = fmt.Sprintf("Work through the %s task in short focused sessions: understand the requirements, draft, then revise.", req.Subject)
		steps = []Step{
			{1, "Understand", "Restate the requirements in your own words."},
			{2, "Draft", "Produce a complete rough version without polishing."},
			{3, "Revise", "Review against the requirements and refine."},
		}
	}

	return &Response{
		ID:                  utilities.NewSnowflakeID(),
		TaskID:              req.TaskID,
		RecommendedApproach: approach,
		ResourcesAndTools: []Resource{
			{Name: "Course notes", Description: "Primary reference for " + req.Subject},
			{Name: "Pomodoro timer", Description: "Keeps sessions focused and bounded"},
		},
		StepByStepGuidance: steps,
		TipsAndStrategies: []string{
			"Start with the hardest part while energy is highest.",
			"End each session by writing the first action for the next one.",
		},
		TimeManagement: TimeManagement{
			UrgencyLevel:         urgency,
			SuggestedSessions:    sessions,
			SessionLengthMinutes: length,
		},
		SuccessMetrics: []string{
			"All guidance steps completed before the due date",
			"Self-assessed confidence raised on the weakest topic",
		},
		RelatedSkills: []string{"time management", "active recall", req.Subject},
		CreatedAt:     now,
	}
}
