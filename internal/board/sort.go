package board

import "sort"

// Each sorter returns a sorted copy and leaves its input untouched. All of
// them are stable.

// SortByDue orders tasks by due date, earliest first. Tasks without a due
// date go last.
func SortByDue(tasks []Task) []Task {
	out := cloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Due, out[j].Due
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.Before(*b)
	})
	return out
}

// SortByPriority orders tasks P0, P1, P2, P3, then unset.
func SortByPriority(tasks []Task) []Task {
	out := cloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return ComparePriority(out[i].Priority, out[j].Priority) < 0
	})
	return out
}

// SortByLastTouched orders tasks most recently edited first. Tasks without a
// timestamp sort after every task that has one.
func SortByLastTouched(tasks []Task) []Task {
	out := cloneTasks(tasks)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastTouched, out[j].LastTouched
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	return out
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
