package board

import (
	"time"

	"github.com/Jayphen/opsboard/internal/logging"
	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/Jayphen/opsboard/internal/project"
)

// Mapper converts raw Notion pages into Tasks. Map never fails: each field
// falls back to its own default when the upstream path is missing or malformed.
type Mapper struct {
	projects *project.Registry
	loc      *time.Location
}

// NewMapper creates a Mapper resolving project relations through projects and
// reading due timestamps in loc.
func NewMapper(projects *project.Registry, loc *time.Location) *Mapper {
	if loc == nil {
		loc = time.Local
	}
	return &Mapper{projects: projects, loc: loc}
}

// MapAll maps every page of a batch, preserving order. A nil or empty batch
// yields an empty slice.
func (m *Mapper) MapAll(batch *notion.QueryResult) []Task {
	if batch == nil {
		return []Task{}
	}
	tasks := make([]Task, 0, len(batch.Results))
	for _, page := range batch.Results {
		tasks = append(tasks, m.Map(page))
	}
	return tasks
}

// Map converts one page.
func (m *Mapper) Map(page notion.Page) Task {
	props := page.Properties

	return Task{
		ID:          page.ID,
		Name:        titleOf(props.Name),
		Status:      selectName(props.Status),
		Priority:    m.priorityOf(page.ID, props.Priority),
		Due:         m.dueOf(page.ID, props.Due),
		Project:     m.projectsOf(props.Project),
		LastTouched: lastTouchedOf(page.ID, props.LastTouched),
		Source:      selectName(props.Source),
	}
}

func titleOf(p *notion.TitleProperty) string {
	if p == nil || len(p.Title) == 0 || p.Title[0].PlainText == "" {
		return Untitled
	}
	return p.Title[0].PlainText
}

func selectName(p *notion.SelectProperty) *string {
	if p == nil || p.Select == nil || p.Select.Name == "" {
		return nil
	}
	name := p.Select.Name
	return &name
}

func (m *Mapper) priorityOf(pageID string, p *notion.SelectProperty) Priority {
	label := selectName(p)
	if label == nil {
		return PriorityNone
	}
	priority := ParsePriority(*label)
	if !priority.IsSet() {
		logging.WithField("page_id", pageID).Debugf("unknown priority label %q, treating as unset", *label)
	}
	return priority
}

func (m *Mapper) dueOf(pageID string, p *notion.DateProperty) *Date {
	if p == nil || p.Date == nil || p.Date.Start == "" {
		return nil
	}
	due, ok := ParseDate(p.Date.Start, m.loc)
	if !ok {
		logging.WithField("page_id", pageID).Debugf("unparseable due date %q, treating as unset", p.Date.Start)
		return nil
	}
	return &due
}

func (m *Mapper) projectsOf(p *notion.RelationProperty) []string {
	if p == nil {
		return []string{}
	}
	names := make([]string, 0, len(p.Relation))
	for _, rel := range p.Relation {
		names = append(names, m.projects.Resolve(rel.ID))
	}
	return names
}

func lastTouchedOf(pageID string, p *notion.LastEditedTimeProperty) *time.Time {
	if p == nil || p.LastEditedTime == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, p.LastEditedTime)
	if err != nil {
		logging.WithField("page_id", pageID).Debugf("unparseable last edited time %q", p.LastEditedTime)
		return nil
	}
	return &t
}
