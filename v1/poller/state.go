package poller

import "time"

// State is the position of a run in the poll state machine.
type State int

const (
	Polling State = iota
	Succeeded
	TimedOut
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Polling:
		return "Polling"
	case Succeeded:
		return "Succeeded"
	case TimedOut:
		return "TimedOut"
	case Cancelled:
		return "Cancelled"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions can happen from s.
func (s State) Terminal() bool {
	return s != Polling
}

// Result is the terminal snapshot of a run.
type Result struct {
	State State

	// Cycles counts status checks, not sleeps.
	Cycles int

	// Elapsed is measured from the first check.
	Elapsed time.Duration
}

// cycle is the scratch state of one in-flight run.
type cycle struct {
	state    State
	start    time.Time
	elapsed  time.Duration
	deadline time.Duration
	checks   int
}

func (c *cycle) result() Result {
	return Result{State: c.state, Cycles: c.checks, Elapsed: c.elapsed}
}

func (c *cycle) expired() bool {
	return c.elapsed > c.deadline
}
