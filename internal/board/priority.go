package board

import "encoding/json"

// Priority is a task's priority tier. The zero value is PriorityNone, and the
// ordering used for sorting is P0 < P1 < P2 < P3 < PriorityNone.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityP0
	PriorityP1
	PriorityP2
	PriorityP3
)

var priorityLabels = map[string]Priority{
	"P0": PriorityP0,
	"P1": PriorityP1,
	"P2": PriorityP2,
	"P3": PriorityP3,
}

// ParsePriority maps a select label to a tier. Unknown labels are PriorityNone.
func ParsePriority(label string) Priority {
	if p, ok := priorityLabels[label]; ok {
		return p
	}
	return PriorityNone
}

// String returns the tier label, or "" for PriorityNone.
func (p Priority) String() string {
	switch p {
	case PriorityP0:
		return "P0"
	case PriorityP1:
		return "P1"
	case PriorityP2:
		return "P2"
	case PriorityP3:
		return "P3"
	default:
		return ""
	}
}

// IsSet reports whether p is one of P0-P3.
func (p Priority) IsSet() bool {
	return p >= PriorityP0 && p <= PriorityP3
}

// IsHigh reports whether p is P0 or P1.
func (p Priority) IsHigh() bool {
	return p == PriorityP0 || p == PriorityP1
}

func (p Priority) rank() int {
	if !p.IsSet() {
		return 4
	}
	return int(p - PriorityP0)
}

// ComparePriority orders a before b when a is more urgent.
func ComparePriority(a, b Priority) int {
	return a.rank() - b.rank()
}

// MarshalJSON writes the label, or null for PriorityNone.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON reads a label or null.
func (p *Priority) UnmarshalJSON(b []byte) error {
	var label *string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	if label == nil {
		*p = PriorityNone
		return nil
	}
	*p = ParsePriority(*label)
	return nil
}
