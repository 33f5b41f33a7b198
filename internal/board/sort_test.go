package board

import (
	"testing"
	"time"
)

func TestSortByDue(t *testing.T) {
	base := NewDate(2026, time.October, 1)
	tasks := []Task{
		{ID: "c", Due: datePtr(base.AddDays(5))},
		{ID: "a1", Due: datePtr(base)},
		{ID: "none", Due: nil},
		{ID: "b", Due: datePtr(base.AddDays(2))},
		{ID: "a2", Due: datePtr(base)},
	}

	got := ids(SortByDue(tasks))
	want := []string{"a1", "a2", "b", "c", "none"}
	if !equalIDs(got, want) {
		t.Errorf("SortByDue = %v, want %v", got, want)
	}

	if tasks[0].ID != "c" {
		t.Error("SortByDue must not reorder its input")
	}
}

func TestSortByPriority(t *testing.T) {
	tasks := []Task{
		{ID: "p1-a", Priority: PriorityP1},
		{ID: "none", Priority: PriorityNone},
		{ID: "p0-a", Priority: PriorityP0},
		{ID: "p3", Priority: PriorityP3},
		{ID: "p1-b", Priority: PriorityP1},
		{ID: "p2", Priority: PriorityP2},
		{ID: "p0-b", Priority: PriorityP0},
	}

	got := ids(SortByPriority(tasks))
	want := []string{"p0-a", "p0-b", "p1-a", "p1-b", "p2", "p3", "none"}
	if !equalIDs(got, want) {
		t.Errorf("SortByPriority = %v, want %v", got, want)
	}
}

func TestSortByLastTouched(t *testing.T) {
	ts := func(s string) *time.Time {
		v, err := time.Parse(time.RFC3339, s)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", s, err)
		}
		return &v
	}

	tasks := []Task{
		{ID: "empty-1"},
		{ID: "old", LastTouched: ts("2026-01-01T00:00:00Z")},
		{ID: "new", LastTouched: ts("2026-10-18T12:00:00Z")},
		{ID: "empty-2"},
		{ID: "mid-a", LastTouched: ts("2026-06-01T00:00:00Z")},
		{ID: "mid-b", LastTouched: ts("2026-06-01T09:00:00+09:00")},
	}

	got := ids(SortByLastTouched(tasks))
	want := []string{"new", "mid-a", "mid-b", "old", "empty-1", "empty-2"}
	if !equalIDs(got, want) {
		t.Errorf("SortByLastTouched = %v, want %v", got, want)
	}
}

func TestSortersOnEmptyInput(t *testing.T) {
	for name, sorter := range map[string]func([]Task) []Task{
		"due":         SortByDue,
		"priority":    SortByPriority,
		"lastTouched": SortByLastTouched,
	} {
		t.Run(name, func(t *testing.T) {
			got := sorter(nil)
			if got == nil || len(got) != 0 {
				t.Errorf("%s sorter on nil = %#v, want empty slice", name, got)
			}
		})
	}
}
