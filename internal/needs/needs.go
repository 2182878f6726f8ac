// Package needs implements the basic-needs model a state of the world is built on.
// Every subject carries a satisfaction level for each of the five basic needs.
package needs

import (
	"errors"
	"fmt"
	"math"
)

// Need names one basic need.
type Need string

const (
	Hunger   Need = "hunger"
	Thirst   Need = "thirst"
	Health   Need = "health"
	Security Need = "security"
	Housing  Need = "housing"
)

// Satisfaction bounds. 0 is complete deprivation, 10 full satisfaction.
const (
	MinSatisfaction     = 0.0
	MaxSatisfaction     = 10.0
	NeutralSatisfaction = 5.0
)

// Basic is the canonical set of needs, in evaluation order.
// Lower indices are more fundamental: a starving subject doesn't care about housing.
var Basic = [...]Need{Hunger, Thirst, Health, Security, Housing}

// ErrInvalidNeeds is returned when a mapping lacks a basic need or holds an
// out-of-range value.
var ErrInvalidNeeds = errors.New("invalid needs")

// Mapping holds a satisfaction level per need. Keys outside Basic are allowed
// and carried along, but nothing in the model reads them.
type Mapping map[Need]float64

// Default returns a fresh mapping with every basic need at the neutral level.
func Default() Mapping {
	m := make(Mapping, len(Basic))
	for _, n := range Basic {
		m[n] = NeutralSatisfaction
	}
	return m
}

// Validate returns m unchanged if every basic need is present with a value in
// [MinSatisfaction, MaxSatisfaction]. Otherwise it returns ErrInvalidNeeds
// naming the first offending need.
func Validate(m Mapping) (Mapping, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: mapping is nil", ErrInvalidNeeds)
	}
	for _, n := range Basic {
		v, ok := m[n]
		if !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrInvalidNeeds, n)
		}
		if math.IsNaN(v) || v < MinSatisfaction || v > MaxSatisfaction {
			return nil, fmt.Errorf("%w: %q = %v outside [%v, %v]",
				ErrInvalidNeeds, n, v, MinSatisfaction, MaxSatisfaction)
		}
	}
	return m, nil
}

// Valid reports whether Validate would accept m.
func Valid(m Mapping) bool {
	_, err := Validate(m)
	return err == nil
}

// Clone returns a copy of m, extra keys included.
func (m Mapping) Clone() Mapping {
	if m == nil {
		return nil
	}
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// FirstRegression returns the first basic need whose value in next is lower
// than in prev. ok is false when no need regressed.
func FirstRegression(prev, next Mapping) (need Need, ok bool) {
	for _, n := range Basic {
		if next[n] < prev[n] {
			return n, true
		}
	}
	return "", false
}

// Priority returns the most deprived basic need.
// Ties go to the more fundamental need.
func (m Mapping) Priority() Need {
	best := Basic[0]
	for _, n := range Basic[1:] {
		if m[n] < m[best] {
			best = n
		}
	}
	return best
}

// OverallSatisfaction returns a weighted average of the basic needs on the
// same 0–10 scale, with the more fundamental needs weighted more heavily.
func (m Mapping) OverallSatisfaction() float64 {
	// Weights: hunger matters most, housing least
	var sum, weights float64
	for i, n := range Basic {
		w := float64(len(Basic) - i)
		sum += m[n] * w
		weights += w
	}
	return sum / weights
}
