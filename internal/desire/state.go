// Package desire decides whether a desire, a transition from a current state
// of the world to a wished-for one, is permissible for the subject holding it.
package desire

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/wellbeing/internal/needs"
)

// ErrUnpairedOthers is returned by NewStrictState when the before and after
// lists of affected third parties differ in length.
var ErrUnpairedOthers = errors.New("affected others not paired")

// State is a snapshot of the world centered on one subject: their needs, the
// desires still open to them, and the before/after states of every third
// party the desire causally touches. Index i of AffectedOthersCurrent and
// AffectedOthersResult denotes the same third party.
//
// Third parties are read from the wished snapshot only: put the before/after
// pairs a desire causes on the wished State. The lists on the current State
// are checked for shape but never compared.
//
// A State is a value: build a new one for every snapshot, never mutate one.
type State struct {
	PotentialDesires      []string      `json:"potential_desires"`
	Needs                 needs.Mapping `json:"needs"`
	AffectedOthersCurrent []*State      `json:"affected_others_current"`
	AffectedOthersResult  []*State      `json:"affected_others_result"`

	// missing names the first field absent from decoded JSON.
	missing string
}

// NewState builds a State from copies of its arguments. Needs that fail
// validation are replaced by needs.Default() rather than rejected.
func NewState(potentialDesires []string, m needs.Mapping, othersCurrent, othersResult []*State) *State {
	valid, err := needs.Validate(m)
	if err != nil {
		slog.Debug("state needs replaced by defaults", "error", err)
		valid = needs.Default()
	}
	return &State{
		PotentialDesires:      append([]string{}, potentialDesires...),
		Needs:                 valid.Clone(),
		AffectedOthersCurrent: append([]*State{}, othersCurrent...),
		AffectedOthersResult:  append([]*State{}, othersResult...),
	}
}

// NewStrictState is NewState without the silent fallback: invalid needs and
// unpaired third-party lists are reported as errors.
func NewStrictState(potentialDesires []string, m needs.Mapping, othersCurrent, othersResult []*State) (*State, error) {
	if _, err := needs.Validate(m); err != nil {
		return nil, err
	}
	if len(othersCurrent) != len(othersResult) {
		return nil, fmt.Errorf("%w: %d current, %d result",
			ErrUnpairedOthers, len(othersCurrent), len(othersResult))
	}
	return NewState(potentialDesires, m, othersCurrent, othersResult), nil
}

// wellFormed reports whether s carries everything the gates read. The error
// names the first missing piece.
func wellFormed(s *State) error {
	if s == nil {
		return errors.New("state is nil")
	}
	if s.missing != "" {
		return fmt.Errorf("missing %s", s.missing)
	}
	if _, err := needs.Validate(s.Needs); err != nil {
		return err
	}
	if len(s.AffectedOthersCurrent) != len(s.AffectedOthersResult) {
		return fmt.Errorf("%w: %d current, %d result",
			ErrUnpairedOthers, len(s.AffectedOthersCurrent), len(s.AffectedOthersResult))
	}
	for i := range s.AffectedOthersCurrent {
		if s.AffectedOthersCurrent[i] == nil || s.AffectedOthersResult[i] == nil {
			return fmt.Errorf("affected other %d is nil", i)
		}
		if m := s.AffectedOthersCurrent[i].missing; m != "" {
			return fmt.Errorf("affected other %d before: missing %s", i, m)
		}
		if m := s.AffectedOthersResult[i].missing; m != "" {
			return fmt.Errorf("affected other %d after: missing %s", i, m)
		}
		if _, err := needs.Validate(s.AffectedOthersCurrent[i].Needs); err != nil {
			return fmt.Errorf("affected other %d before: %w", i, err)
		}
		if _, err := needs.Validate(s.AffectedOthersResult[i].Needs); err != nil {
			return fmt.Errorf("affected other %d after: %w", i, err)
		}
	}
	return nil
}
