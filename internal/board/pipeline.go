package board

import (
	"time"

	"github.com/Jayphen/opsboard/internal/logging"
	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/Jayphen/opsboard/internal/project"
)

// Board is the fully classified and ordered result of one pipeline run.
type Board struct {
	Today              Date   `json:"today"`
	Stats              Stats  `json:"stats"`
	Overdue            []Task `json:"overdue"`
	ActiveHighPriority []Task `json:"activeHighPriority"`
	ActiveOther        []Task `json:"activeOther"`
}

// IsOverdue evaluates t against the board's reference date.
func (b Board) IsOverdue(t Task) bool {
	return EvaluatorFor(b.Today).IsOverdue(t.Due)
}

// DaysOverdue returns the days t is overdue, or 0 when it is not overdue.
func (b Board) DaysOverdue(t Task) int {
	eval := EvaluatorFor(b.Today)
	if !eval.IsOverdue(t.Due) {
		return 0
	}
	return eval.DaysOverdue(*t.Due)
}

// OtherPreview returns at most limit ActiveOther tasks and how many were cut.
// A limit <= 0 returns everything.
func (b Board) OtherPreview(limit int) ([]Task, int) {
	if limit <= 0 || len(b.ActiveOther) <= limit {
		return b.ActiveOther, 0
	}
	return b.ActiveOther[:limit], len(b.ActiveOther) - limit
}

// Pipeline maps a raw batch and builds a Board from it.
type Pipeline struct {
	projects   *project.Registry
	loc        *time.Location
	doneStatus string
	now        func() time.Time
	mapper     *Mapper
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLocation sets the reference time zone for "today" and due timestamps.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithDoneStatus sets the status label that marks a task completed.
func WithDoneStatus(label string) Option {
	return func(p *Pipeline) {
		if label != "" {
			p.doneStatus = label
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPipeline creates a Pipeline. A nil registry resolves every project to
// project.Fallback.
func NewPipeline(projects *project.Registry, opts ...Option) *Pipeline {
	p := &Pipeline{
		projects:   projects,
		loc:        time.Local,
		doneStatus: DefaultDoneStatus,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.mapper = NewMapper(p.projects, p.loc)
	return p
}

// Location returns the reference time zone.
func (p *Pipeline) Location() *time.Location {
	return p.loc
}

// Map normalizes a raw batch without classifying it.
func (p *Pipeline) Map(batch *notion.QueryResult) []Task {
	return p.mapper.MapAll(batch)
}

// Run maps batch and builds the board. The clock is read once.
func (p *Pipeline) Run(batch *notion.QueryResult) Board {
	return p.Build(p.Map(batch))
}

// Build classifies and sorts already normalized tasks.
func (p *Pipeline) Build(tasks []Task) Board {
	eval := NewEvaluator(p.now(), p.loc)
	stats, buckets := Classify(tasks, eval, p.doneStatus)

	b := Board{
		Today:              eval.Today(),
		Stats:              stats,
		Overdue:            SortByDue(buckets.Overdue),
		ActiveHighPriority: SortByPriority(buckets.ActiveHighPriority),
		ActiveOther:        SortByLastTouched(buckets.ActiveOther),
	}

	logging.WithFields(map[string]interface{}{
		"today":   b.Today.String(),
		"total":   stats.Total,
		"overdue": stats.Overdue,
	}).Debug("board built")

	return b
}
