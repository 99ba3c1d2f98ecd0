package habit

// Status is the completion state of one habit on one date.
type Status string

const (
	StatusIncomplete    Status = "incomplete"
	StatusPartial       Status = "partial"
	StatusComplete      Status = "complete"
	StatusNotApplicable Status = "not_applicable"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", &ValidationError{Field: "status", Value: s, Reason: "must be one of incomplete, partial, complete, not_applicable"}
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusIncomplete, StatusPartial, StatusComplete, StatusNotApplicable:
		return true
	}
	return false
}

// Next is the toggle transition used when no explicit status is requested:
// complete goes back to incomplete, anything else becomes complete.
func (s Status) Next() Status {
	if s == StatusComplete {
		return StatusIncomplete
	}
	return StatusComplete
}

// Counts reports whether the status takes part in completion-rate and streak
// arithmetic. not_applicable is excluded from both.
func (s Status) Counts() bool {
	return s != StatusNotApplicable
}

// ResolveStatus picks the status to store for a write. An explicit request
// wins; otherwise the existing status is cycled; a first toggle with no
// existing row marks the day complete.
func ResolveStatus(existing, requested *Status) Status {
	if requested != nil {
		return *requested
	}
	if existing != nil {
		return existing.Next()
	}
	return StatusComplete
}
