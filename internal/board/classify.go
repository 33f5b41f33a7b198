package board

// Buckets are the three unordered dashboard views.
//
// Overdue and ActiveHighPriority are evaluated independently, so an overdue
// P0/P1 task that is not done appears in both. ActiveOther excludes overdue
// tasks and is disjoint from the other two.
type Buckets struct {
	Overdue            []Task
	ActiveHighPriority []Task
	ActiveOther        []Task
}

// Classify computes the stats and buckets of tasks in a single pass.
func Classify(tasks []Task, eval Evaluator, doneStatus string) (Stats, Buckets) {
	stats := Stats{Total: len(tasks)}
	buckets := Buckets{
		Overdue:            []Task{},
		ActiveHighPriority: []Task{},
		ActiveOther:        []Task{},
	}

	for _, t := range tasks {
		overdue := eval.IsOverdue(t.Due)
		done := t.HasStatus(doneStatus)

		if overdue {
			stats.Overdue++
		}
		switch t.Priority {
		case PriorityP0:
			stats.P0++
		case PriorityP1:
			stats.P1++
		case PriorityP2:
			stats.P2++
		}
		if done {
			stats.Done++
		}

		if overdue {
			buckets.Overdue = append(buckets.Overdue, t)
		}
		if t.Priority.IsHigh() && !done {
			buckets.ActiveHighPriority = append(buckets.ActiveHighPriority, t)
		}
		if !done && !overdue && !t.Priority.IsHigh() {
			buckets.ActiveOther = append(buckets.ActiveOther, t)
		}
	}

	return stats, buckets
}
