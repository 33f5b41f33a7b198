// Package board turns a raw Notion batch into the three dashboard views:
// overdue, active P0/P1 and the rest of the active work, plus summary counts.
// Every stage is a pure function of its input and a single captured "today".
package board

import (
	"encoding/json"
	"time"
)

// Untitled is the name given to tasks without a title.
const Untitled = "Untitled"

// DefaultDoneStatus is the status label that marks a task as completed.
const DefaultDoneStatus = "Done"

// Task is a normalized task. Nil pointer fields mean the upstream value was
// absent.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      *string    `json:"status"`
	Priority    Priority   `json:"priority"`
	Due         *Date      `json:"due"`
	Project     []string   `json:"project"`
	LastTouched *time.Time `json:"lastTouched"`
	Source      *string    `json:"source"`
}

// MarshalJSON writes an absent LastTouched as "" rather than null.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	lastTouched := ""
	if t.LastTouched != nil {
		lastTouched = t.LastTouched.Format(time.RFC3339Nano)
	}
	return json.Marshal(struct {
		plain
		LastTouched string `json:"lastTouched"`
	}{plain(t), lastTouched})
}

// UnmarshalJSON accepts the form written by MarshalJSON.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	aux := struct {
		*plain
		LastTouched string `json:"lastTouched"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.LastTouched = nil
	if aux.LastTouched != "" {
		ts, err := time.Parse(time.RFC3339Nano, aux.LastTouched)
		if err != nil {
			return err
		}
		t.LastTouched = &ts
	}
	return nil
}

// StatusLabel returns the status, or "" when absent.
func (t Task) StatusLabel() string {
	if t.Status == nil {
		return ""
	}
	return *t.Status
}

// SourceLabel returns the source tag, or "" when absent.
func (t Task) SourceLabel() string {
	if t.Source == nil {
		return ""
	}
	return *t.Source
}

// HasStatus reports whether the task's status equals label.
func (t Task) HasStatus(label string) bool {
	return t.Status != nil && *t.Status == label
}

// Stats are the summary counters of a board. The dimensions overlap: a done,
// overdue P0 task counts towards Overdue, P0 and Done.
type Stats struct {
	Total   int `json:"total"`
	Overdue int `json:"overdue"`
	P0      int `json:"p0"`
	P1      int `json:"p1"`
	P2      int `json:"p2"`
	Done    int `json:"done"`
}
