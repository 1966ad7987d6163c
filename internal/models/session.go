package models

import "time"

// Kind distinguishes focus intervals from breaks.
type Kind string

const (
	KindFocus Kind = "focus"
	KindBreak Kind = "break"
)

// SessionType classifies the nature of a focus session.
type SessionType string

const (
	SessionTypeDeepWork    SessionType = "deep-work"
	SessionTypeShallowWork SessionType = "shallow-work"
	SessionTypeMeeting     SessionType = "meeting"
)

// CategoryUncategorized is the bucket used for sessions without a category.
const CategoryUncategorized = "uncategorized"

// Session is one completed focus or break interval. Sessions are created
// only by the timer at finish time and are never mutated afterwards.
type Session struct {
	ID              string      `json:"id,omitempty"`
	StartTime       time.Time   `json:"startTime"`
	EndTime         time.Time   `json:"endTime"`
	Duration        int         `json:"duration"`        // actual seconds
	PlannedDuration int         `json:"plannedDuration"` // seconds
	Kind            Kind        `json:"kind"`
	SessionType     SessionType `json:"sessionType,omitempty"`
	CategoryID      string      `json:"categoryId,omitempty"`
	Note            string      `json:"note,omitempty"`
	Completed       bool        `json:"completed"`
}

// Category returns the session's category, defaulting to the
// uncategorized bucket when none was set.
func (s *Session) Category() string {
	if s.CategoryID == "" {
		return CategoryUncategorized
	}
	return s.CategoryID
}

// MinSessionSeconds is the shortest run worth recording. Finishes below
// this are discarded, never stored.
const MinSessionSeconds = 60
