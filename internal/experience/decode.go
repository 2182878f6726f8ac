package experience

import (
	"encoding/json"
	"fmt"
)

// shape mirrors the experience JSON object with every field optional, so a
// missing field can be told apart from a zero.
type shape struct {
	Pain *struct {
		Quantity *float64 `json:"quantity"`
	} `json:"pain"`
	Pleasure *struct {
		Quantity *float64 `json:"quantity"`
		Quality  *float64 `json:"quality"`
	} `json:"pleasure"`
}

// Decode reads an experience-shaped JSON object as is, without clamping.
// Any object exposing pain.quantity, pleasure.quantity and pleasure.quality is
// accepted; anything else yields ErrInvalidExperience.
func Decode(data []byte) (Experience, error) {
	var s shape
	if err := json.Unmarshal(data, &s); err != nil {
		return Experience{}, fmt.Errorf("%w: %v", ErrInvalidExperience, err)
	}
	switch {
	case s.Pain == nil || s.Pain.Quantity == nil:
		return Experience{}, fmt.Errorf("%w: missing pain.quantity", ErrInvalidExperience)
	case s.Pleasure == nil || s.Pleasure.Quantity == nil:
		return Experience{}, fmt.Errorf("%w: missing pleasure.quantity", ErrInvalidExperience)
	case s.Pleasure.Quality == nil:
		return Experience{}, fmt.Errorf("%w: missing pleasure.quality", ErrInvalidExperience)
	}
	return Experience{
		Pain:     Pain{Quantity: *s.Pain.Quantity},
		Pleasure: Pleasure{Quantity: *s.Pleasure.Quantity, Quality: *s.Pleasure.Quality},
	}, nil
}
