package board

import "time"

// Evaluator answers overdue questions against a fixed "today". Build one per
// classification pass so every task shares the same boundary.
type Evaluator struct {
	today Date
}

// NewEvaluator captures today as the calendar date of now in loc.
func NewEvaluator(now time.Time, loc *time.Location) Evaluator {
	if loc == nil {
		loc = time.Local
	}
	return Evaluator{today: DateOf(now.In(loc))}
}

// EvaluatorFor returns an Evaluator for an explicit date.
func EvaluatorFor(today Date) Evaluator {
	return Evaluator{today: today}
}

// Today returns the captured reference date.
func (e Evaluator) Today() Date {
	return e.today
}

// IsOverdue reports whether due is strictly before today. An absent due date
// is never overdue, and a task due today is not overdue yet.
func (e Evaluator) IsOverdue(due *Date) bool {
	if due == nil {
		return false
	}
	return due.Before(e.today)
}

// DaysOverdue returns how many calendar days due lies before today. Only
// meaningful when IsOverdue(&due) holds, in which case it is at least 1.
func (e Evaluator) DaysOverdue(due Date) int {
	return due.DaysUntil(e.today)
}
