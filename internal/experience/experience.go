// Package experience scores a subject's momentary well-being from reported
// pain and pleasure, following Mill's qualitative hedonism.
package experience

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Limit caps every hedonic magnitude.
const Limit = 10.0

var (
	// ErrInvalidInput is returned by New for a non-finite argument.
	ErrInvalidInput = errors.New("invalid experience input")
	// ErrInvalidExperience is returned when a value lacks the experience shape.
	ErrInvalidExperience = errors.New("experience doesn't enter the model")
)

// Pain holds the pain side of an experience.
type Pain struct {
	Quantity float64 `json:"quantity"`
}

// Pleasure holds the pleasure side of an experience. Quality weights
// higher-order pleasures over lower-order ones.
type Pleasure struct {
	Quantity float64 `json:"quantity"`
	Quality  float64 `json:"quality"`
}

// Experience is one subject's hedonic state at one instant.
// All fields lie in [0, Limit] when built through New.
type Experience struct {
	Pain     Pain     `json:"pain"`
	Pleasure Pleasure `json:"pleasure"`
}

// Hedonic is anything that exposes the three magnitudes WellBeing needs.
type Hedonic interface {
	PainQuantity() float64
	PleasureQuantity() float64
	PleasureQuality() float64
}

func (e Experience) PainQuantity() float64     { return e.Pain.Quantity }
func (e Experience) PleasureQuantity() float64 { return e.Pleasure.Quantity }
func (e Experience) PleasureQuality() float64  { return e.Pleasure.Quality }

// Clamp maps a raw magnitude onto [0, Limit]: sign is discarded, excess is cut.
func Clamp(x float64) float64 {
	return math.Min(math.Abs(x), Limit)
}

// New builds an Experience, clamping each input.
func New(pain, pleasureQuantity, pleasureQuality float64) (Experience, error) {
	for _, arg := range []struct {
		name string
		v    float64
	}{
		{"pain", pain},
		{"pleasure quantity", pleasureQuantity},
		{"pleasure quality", pleasureQuality},
	} {
		if math.IsNaN(arg.v) || math.IsInf(arg.v, 0) {
			return Experience{}, fmt.Errorf("%w: %s is %v", ErrInvalidInput, arg.name, arg.v)
		}
	}
	return Experience{
		Pain:     Pain{Quantity: Clamp(pain)},
		Pleasure: Pleasure{Quantity: Clamp(pleasureQuantity), Quality: Clamp(pleasureQuality)},
	}, nil
}

// WellBeing returns the signed well-being score of h.
//
// When pleasure strictly outweighs pain, the quality of the pleasure is the
// score. Otherwise the score is pleasure minus pain (never positive): avoiding
// pain comes before any quality bonus, and a tie scores 0.
func WellBeing(h Hedonic) (float64, error) {
	if isNil(h) {
		return 0, ErrInvalidExperience
	}
	pain, quantity := h.PainQuantity(), h.PleasureQuantity()
	if quantity > pain {
		return h.PleasureQuality(), nil
	}
	return quantity - pain, nil
}

func isNil(h Hedonic) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
