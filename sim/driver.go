// sim/driver.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/qtree-sim/sim/trace"
)

// State is the lifecycle state of a Resolution.
type State int

const (
	// Running: the frontier still holds unqueried prefixes.
	Running State = iota
	// Done: the frontier is empty and every tag has been identified.
	Done
)

func (s State) String() string {
	if s == Done {
		return "done"
	}
	return "running"
}

// RunResult summarizes one resolution run.
// Queries is the protocol cost: one query is one unit of reader time.
type RunResult struct {
	Tags         int `json:"tags"`
	Bits         int `json:"bits"`
	Queries      int `json:"queries"`
	IdleQueries  int `json:"idle_queries"`
	Identified   int `json:"identified"`
	Collisions   int `json:"collisions"`
	MaxPrefixLen int `json:"max_prefix_len"`
	MaxFrontier  int `json:"max_frontier"`
}

// Efficiency returns identified tags per query as a percentage.
func (r RunResult) Efficiency() float64 {
	if r.Queries == 0 {
		return 0
	}
	return float64(r.Tags) / float64(r.Queries) * 100
}

// Resolution is one run of the Query Tree protocol over a population.
// It is single-goroutine: the frontier is only touched by Step.
type Resolution struct {
	pop      *Population
	frontier *Frontier
	result   RunResult
	trace    *trace.Trace // nil disables recording
}

// NewResolution returns a Running resolution with the root prefix on the frontier.
// tr may be nil.
func NewResolution(pop *Population, tr *trace.Trace) *Resolution {
	return &Resolution{
		pop:      pop,
		frontier: NewFrontier(),
		result:   RunResult{Tags: pop.Len(), Bits: pop.Bits(), MaxFrontier: 1},
		trace:    tr,
	}
}

// State reports whether the run has finished.
func (r *Resolution) State() State {
	if r.frontier.Empty() {
		return Done
	}
	return Running
}

// Queries returns the number of queries issued so far.
func (r *Resolution) Queries() int {
	return r.result.Queries
}

// Frontier exposes the pending prefixes for inspection.
func (r *Resolution) Frontier() *Frontier {
	return r.frontier
}

// Step pops one prefix, queries it and, on a collision, pushes both child
// prefixes. The 0-child is pushed first so the 1-branch is explored first.
// Step on a Done resolution is a no-op returning false.
func (r *Resolution) Step() bool {
	p, ok := r.frontier.Pop()
	if !ok {
		return false
	}

	response := Query(p, r.pop)
	r.result.Queries++
	outcome := Classify(response)
	if p.Len() > r.result.MaxPrefixLen {
		r.result.MaxPrefixLen = p.Len()
	}
	logrus.Tracef("query %d: prefix=%v replies=%d outcome=%v", r.result.Queries, p, len(response), outcome)

	rec := trace.QueryRecord{
		Step:     r.result.Queries,
		Prefix:   string(p),
		Replies:  len(response),
		Outcome:  outcome.String(),
		Resolved: -1,
	}

	switch outcome {
	case Idle:
		r.result.IdleQueries++
	case Success:
		r.result.Identified++
		idx, known := r.pop.IndexOf(response[0])
		if !known {
			panic(fmt.Sprintf("Step: reply %s is not in the population", response[0]))
		}
		rec.Resolved = idx
	case Collision:
		r.result.Collisions++
		zero, one := Split(p, response)
		r.frontier.Push(zero)
		r.frontier.Push(one)
		if r.frontier.Len() > r.result.MaxFrontier {
			r.result.MaxFrontier = r.frontier.Len()
		}
		rec.Children = []string{string(zero), string(one)}
		logrus.Debugf("collision of %d tags on %v, split at bit %d", len(response), p, zero.Len()-1)
	}

	if r.trace != nil {
		r.trace.RecordQuery(rec)
	}
	return true
}

// Run steps until the frontier is exhausted and returns the result.
func (r *Resolution) Run() RunResult {
	for r.Step() {
	}
	return r.result
}

// Result returns the counters accumulated so far.
func (r *Resolution) Result() RunResult {
	return r.result
}

// Resolve runs the protocol to completion over pop.
// The root query is always issued, so an empty population costs one query.
func Resolve(pop *Population) RunResult {
	return NewResolution(pop, nil).Run()
}

// ResolveAll validates ids and returns the number of queries the reader
// needs to identify every tag. It is deterministic in the order of ids.
func ResolveAll(ids []Identifier) (int, error) {
	pop, err := NewPopulation(ids)
	if err != nil {
		return 0, err
	}
	return Resolve(pop).Queries, nil
}
