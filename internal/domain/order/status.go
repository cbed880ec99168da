package order

// Status is the closed set of order states. The original system used
// free-form strings and carried both "Completed" and "PROCESSED" as
// fulfilled terminals; both literals are kept and treated identically.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusCompleted  Status = "Completed"
	StatusProcessed  Status = "PROCESSED"
	StatusCancelled  Status = "Cancelled"
)

// transitions is the set of legal status moves. Cancelled is reachable
// from any non-terminal state; fulfilled and cancelled states are
// terminal.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusProcessed, StatusCancelled},
}

// Valid reports whether s is a known status literal.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusProcessed, StatusCancelled:
		return true
	}
	return false
}

// Fulfilled reports whether s is a done state that counts toward
// revenue and stamps the processed date.
func (s Status) Fulfilled() bool {
	return s == StatusCompleted || s == StatusProcessed
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s.Fulfilled() || s == StatusCancelled
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}
