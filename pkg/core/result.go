package core

import (
	"time"

	"github.com/arthur-debert/dotinstall/pkg/plan"
	"github.com/arthur-debert/dotinstall/pkg/types"
)

// Result is what happened to one step
type Result struct {
	Step    plan.Step
	Outcome types.Outcome

	// Version is the installed version when the handler reports one
	Version string

	// Err is set for failed steps
	Err error

	Duration time.Duration
}

// Summary collects the results of a run
type Summary struct {
	Plan    *plan.Plan
	Results []Result
}

// Count returns how many steps ended with outcome
func (s *Summary) Count(outcome types.Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// Failed returns the failed results in run order
func (s *Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Outcome.IsFailure() {
			out = append(out, r)
		}
	}
	return out
}

// OK reports whether every step was installed, present, planned or skipped
func (s *Summary) OK() bool {
	return len(s.Failed()) == 0
}
