package desire

import (
	"fmt"

	"github.com/talgya/wellbeing/internal/needs"
)

// Gate names one admissibility check.
type Gate string

const (
	GateExistence      Gate = "existence"
	GateRationality    Gate = "rationality"
	GateReasonableness Gate = "reasonableness"
)

// Reason tags the gate a rejected desire failed.
type Reason string

const (
	ExistenceTestFailure     Reason = "ExistenceTestFailure"
	RationalityTestFailure   Reason = "RationalityTestFailure"
	ReasonabilityTestFailure Reason = "ReasonabilityTestFailure"
)

// Stage is a position in the validation pipeline:
// START → EXISTENCE → RATIONALITY → REASONABLENESS → ADMITTED, or REJECTED
// from any gate.
type Stage string

const (
	StageStart          Stage = "START"
	StageExistence      Stage = "EXISTENCE"
	StageRationality    Stage = "RATIONALITY"
	StageReasonableness Stage = "REASONABLENESS"
	StageAdmitted       Stage = "ADMITTED"
	StageRejected       Stage = "REJECTED"
)

// Desire pairs the subject's current state with the state they wish for.
type Desire struct {
	Current *State `json:"current"`
	Wished  *State `json:"wished"`
}

// Verdict is the outcome of one evaluation. A rejection is an ordinary
// outcome, not an error.
type Verdict struct {
	Admitted bool   `json:"admitted"`
	Reason   Reason `json:"reason,omitempty"`
	Detail   string `json:"detail,omitempty"`

	// Need is the first regressing need, for rationality and reasonableness
	// failures caused by one.
	Need needs.Need `json:"need,omitempty"`
	// Other is the index of the first disadvantaged third party.
	Other *int `json:"other,omitempty"`

	// At is the stage that rejected the desire.
	At Stage `json:"at,omitempty"`
	// Passed lists the gates cleared before the verdict, in order.
	Passed []Gate `json:"passed"`
}

// Stage returns the terminal pipeline stage of the verdict.
func (v Verdict) Stage() Stage {
	if v.Admitted {
		return StageAdmitted
	}
	return StageRejected
}

// gate is one pipeline step. It returns nil on pass.
type gate struct {
	name  Gate
	stage Stage
	check func(current, wished *State) *Verdict
}

var pipeline = []gate{
	{GateExistence, StageExistence, existence},
	{GateRationality, StageRationality, rationality},
	{GateReasonableness, StageReasonableness, reasonableness},
}

// Evaluate runs (current, wished) through the existence, rationality and
// reasonableness gates in order, stopping at the first failure.
func Evaluate(current, wished *State) Verdict {
	passed := make([]Gate, 0, len(pipeline))
	for _, g := range pipeline {
		if v := g.check(current, wished); v != nil {
			v.At = g.stage
			v.Passed = passed
			return *v
		}
		passed = append(passed, g.name)
	}
	return Verdict{Admitted: true, Passed: passed}
}

// EvaluateAll evaluates each desire independently.
func EvaluateAll(desires []Desire) []Verdict {
	out := make([]Verdict, len(desires))
	for i, d := range desires {
		out[i] = Evaluate(d.Current, d.Wished)
	}
	return out
}

// Admissible returns the desires that pass every gate, in input order.
func Admissible(desires []Desire) []Desire {
	var out []Desire
	for _, d := range desires {
		if Evaluate(d.Current, d.Wished).Admitted {
			out = append(out, d)
		}
	}
	return out
}

// existence checks that both ends of the desire are real, coherent states.
func existence(current, wished *State) *Verdict {
	if err := wellFormed(current); err != nil {
		return &Verdict{Reason: ExistenceTestFailure, Detail: "current: " + err.Error()}
	}
	if err := wellFormed(wished); err != nil {
		return &Verdict{Reason: ExistenceTestFailure, Detail: "wished: " + err.Error()}
	}
	return nil
}

// rationality checks the desire against the subject alone: their future
// options must not shrink and no basic need may regress.
func rationality(current, wished *State) *Verdict {
	if have, want := len(current.PotentialDesires), len(wished.PotentialDesires); want < have {
		return &Verdict{
			Reason: RationalityTestFailure,
			Detail: fmt.Sprintf("potential desires drop from %d to %d", have, want),
		}
	}
	if n, ok := needs.FirstRegression(current.Needs, wished.Needs); ok {
		return &Verdict{
			Reason: RationalityTestFailure,
			Detail: fmt.Sprintf("%s regresses from %v to %v", n, current.Needs[n], wished.Needs[n]),
			Need:   n,
		}
	}
	return nil
}

// reasonableness checks the desire against everyone it touches: no affected
// third party may lose on any basic need. With nobody affected it passes.
func reasonableness(_, wished *State) *Verdict {
	for i := range wished.AffectedOthersCurrent {
		before, after := wished.AffectedOthersCurrent[i], wished.AffectedOthersResult[i]
		if n, ok := needs.FirstRegression(before.Needs, after.Needs); ok {
			idx := i
			return &Verdict{
				Reason: ReasonabilityTestFailure,
				Detail: fmt.Sprintf("affected other %d: %s regresses from %v to %v",
					i, n, before.Needs[n], after.Needs[n]),
				Need:  n,
				Other: &idx,
			}
		}
	}
	return nil
}
