package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// ChainStep is one step of an exploit chain.
type ChainStep struct {
	Order       int    `json:"order"`
	Description string `json:"description"`
	Endpoint    string `json:"endpoint,omitempty"`
	Method      string `json:"method,omitempty"`
}

// Chain is an ordered sequence of steps that combines several findings.
type Chain struct {
	Title             string      `json:"title,omitempty"`
	Severity          Severity    `json:"severity"`
	Steps             []ChainStep `json:"steps"`
	AffectedEndpoints []string    `json:"affectedEndpoints"`
	FindingRefs       []string    `json:"findingRefs"`
}

// Statistics are derived deterministically from the accepted chains and the finding set.
// FindingsInChains and Isolated partition the finding ids.
type Statistics struct {
	TotalFindings    int      `json:"totalFindings"`
	ChainCount       int      `json:"chainCount"`
	FindingsInChains []string `json:"findingsInChains"`
	Isolated         []string `json:"isolated"`
	ChainedCount     int      `json:"chainedCount"`
	IsolatedCount    int      `json:"isolatedCount"`
	Score            int      `json:"score"`
}

// AnalysisResult is the outcome of an analysis. It is treated as a value: Clone it
// before handing it to another owner.
type AnalysisResult struct {
	Chains         []Chain    `json:"chains"`
	Stats          Statistics `json:"statistics"`
	Degraded       bool       `json:"degraded"`
	DegradedReason string     `json:"degradedReason,omitempty"`
}

// Clone returns a deep copy of the result.
func (r AnalysisResult) Clone() AnalysisResult {
	out := r
	out.Chains = slices.Clone(r.Chains)
	for i, c := range out.Chains {
		c.Steps = slices.Clone(c.Steps)
		c.AffectedEndpoints = slices.Clone(c.AffectedEndpoints)
		c.FindingRefs = slices.Clone(c.FindingRefs)
		out.Chains[i] = c
	}
	out.Stats.FindingsInChains = slices.Clone(r.Stats.FindingsInChains)
	out.Stats.Isolated = slices.Clone(r.Stats.Isolated)
	return out
}

// AnalysisState is a stage of an analysis run.
type AnalysisState uint8

const (
	// StateCold is the initial state of every run.
	StateCold AnalysisState = iota
	// StateTriagePending means the triage request is in flight.
	StateTriagePending
	// StateTriageDone means triage returned a usable subset.
	StateTriageDone
	// StateDeepPending means the deep request is in flight.
	StateDeepPending
	// StateDone is terminal: a result is available.
	StateDone
	// StateDegraded means a stage failed and a statistics-only result was produced.
	StateDegraded
	// StateFailed is terminal: no result is possible.
	StateFailed
)

var stateNames = [...]string{
	StateCold:          "COLD",
	StateTriagePending: "TRIAGE_PENDING",
	StateTriageDone:    "TRIAGE_DONE",
	StateDeepPending:   "DEEP_PENDING",
	StateDone:          "DONE",
	StateDegraded:      "DEGRADED",
	StateFailed:        "FAILED",
}

// String returns the upper-case state name.
func (s AnalysisState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "UNKNOWN"
}

// MarshalText implements encoding.TextMarshaler.
func (s AnalysisState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var transitions = map[AnalysisState][]AnalysisState{
	StateCold:          {StateTriagePending, StateDone, StateFailed},
	StateTriagePending: {StateTriageDone, StateDegraded, StateFailed},
	StateTriageDone:    {StateDeepPending, StateDone},
	StateDeepPending:   {StateDone, StateDegraded, StateFailed},
	StateDegraded:      {StateDone},
}

// CanTransition reports whether a run in state s may move to next.
func (s AnalysisState) CanTransition(next AnalysisState) bool {
	return slices.Contains(transitions[s], next)
}

// IsTerminal reports whether no further transition is possible.
func (s AnalysisState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// StateTrail records the states an analysis run passed through.
type StateTrail struct {
	states []AnalysisState
}

// NewStateTrail starts a trail in StateCold.
func NewStateTrail() *StateTrail {
	return &StateTrail{states: []AnalysisState{StateCold}}
}

// Current returns the latest state.
func (t *StateTrail) Current() AnalysisState {
	return t.states[len(t.states)-1]
}

// Advance moves the trail to next, rejecting transitions the state machine forbids.
func (t *StateTrail) Advance(next AnalysisState) error {
	current := t.Current()
	if !current.CanTransition(next) {
		err := zerr.With(ErrInvalidTransition, "from", current.String())
		return zerr.With(err, "to", next.String())
	}
	t.states = append(t.states, next)
	return nil
}

// States returns a copy of the recorded states.
func (t *StateTrail) States() []AnalysisState {
	return slices.Clone(t.states)
}
