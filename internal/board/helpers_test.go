package board

import (
	"time"

	"github.com/Jayphen/opsboard/internal/notion"
)

func strPtr(s string) *string { return &s }

func datePtr(d Date) *Date { return &d }

func timePtr(t time.Time) *time.Time { return &t }

func selectProp(name string) *notion.SelectProperty {
	return &notion.SelectProperty{Select: &notion.SelectOption{Name: name}}
}

// pageOpts describes a raw page in tests; empty fields are omitted entirely.
type pageOpts struct {
	id          string
	title       string
	status      string
	priority    string
	due         string
	projects    []string
	lastTouched string
	source      string
}

func makePage(o pageOpts) notion.Page {
	page := notion.Page{ID: o.id}
	props := &page.Properties

	if o.title != "" {
		props.Name = &notion.TitleProperty{Title: []notion.RichText{{PlainText: o.title}}}
	}
	if o.status != "" {
		props.Status = selectProp(o.status)
	}
	if o.priority != "" {
		props.Priority = selectProp(o.priority)
	}
	if o.due != "" {
		props.Due = &notion.DateProperty{Date: &notion.DateValue{Start: o.due}}
	}
	if o.projects != nil {
		rel := &notion.RelationProperty{Relation: []notion.Relation{}}
		for _, id := range o.projects {
			rel.Relation = append(rel.Relation, notion.Relation{ID: id})
		}
		props.Project = rel
	}
	if o.lastTouched != "" {
		props.LastTouched = &notion.LastEditedTimeProperty{LastEditedTime: o.lastTouched}
	}
	if o.source != "" {
		props.Source = selectProp(o.source)
	}
	return page
}

func ids(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
