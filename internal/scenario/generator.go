// Package scenario generates deterministic sample experiences and desires.
// Smooth noise keeps neighboring samples related, so a batch reads like the
// history of one small community rather than white noise.
package scenario

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/wellbeing/internal/desire"
	"github.com/talgya/wellbeing/internal/experience"
	"github.com/talgya/wellbeing/internal/needs"
)

// RawSpan bounds raw hedonic samples to [-RawSpan, RawSpan], wider than
// experience.Limit so clamping is exercised.
const RawSpan = 15.0

// Generator produces samples from a seed. Same seed, same samples.
type Generator struct {
	hedonic opensimplex.Noise
	needs   opensimplex.Noise
	shift   opensimplex.Noise
}

// New creates a generator. Independent noise layers drive the hedonic
// magnitudes, the need levels and the shift a desire brings.
func New(seed int64) *Generator {
	return &Generator{
		hedonic: opensimplex.NewNormalized(seed),
		needs:   opensimplex.NewNormalized(seed + 1),
		shift:   opensimplex.NewNormalized(seed + 2),
	}
}

// Raw returns the unclamped pain, pleasure quantity and pleasure quality of
// sample i.
func (g *Generator) Raw(i int) (pain, quantity, quality float64) {
	x := float64(i) * 0.37
	sample := func(row float64) float64 {
		return octaveNoise(g.hedonic, x, row, 3, 1.0, 0.5)*2*RawSpan - RawSpan
	}
	return sample(0), sample(7.3), sample(14.6)
}

// Experience returns sample i, clamped through experience.New.
func (g *Generator) Experience(i int) experience.Experience {
	pain, quantity, quality := g.Raw(i)
	// Noise output is always finite.
	e, _ := experience.New(pain, quantity, quality)
	return e
}

// Needs returns a valid needs mapping for subject i, in half-point steps.
func (g *Generator) Needs(i int) needs.Mapping {
	m := make(needs.Mapping, len(needs.Basic))
	for k, n := range needs.Basic {
		v := octaveNoise(g.needs, float64(i)*0.53, float64(k)*3.1, 2, 1.0, 0.5)
		m[n] = bound(halfStep(v * needs.MaxSatisfaction))
	}
	return m
}

// Desire returns a (current, wished) pair for subject i touching `others`
// third parties. Some needs rise and some may fall, so the batch mixes
// admitted and rejected desires.
func (g *Generator) Desire(i, others int) desire.Desire {
	options := g.options(i, 0)
	current := g.Needs(i)

	currentOthers := make([]*desire.State, others)
	resultOthers := make([]*desire.State, others)
	for j := range others {
		id := i*31 + j + 1
		before := g.Needs(id)
		currentOthers[j] = desire.NewState(g.options(id, 0), before, nil, nil)
		resultOthers[j] = desire.NewState(g.options(id, 0), g.shifted(before, id), nil, nil)
	}

	return desire.Desire{
		Current: desire.NewState(options, current, nil, nil),
		Wished: desire.NewState(g.options(i, 1), g.shifted(current, i),
			currentOthers, resultOthers),
	}
}

// Batch returns n desires for consecutive subjects, each touching between 0
// and 2 third parties.
func (g *Generator) Batch(n int) []desire.Desire {
	out := make([]desire.Desire, n)
	for i := range n {
		out[i] = g.Desire(i, i%3)
	}
	return out
}

// options returns the potential desires of subject i. step 1 is after the
// desire is satisfied and may hold one fewer or one more option.
func (g *Generator) options(i, step int) []string {
	base := 1 + int(octaveNoise(g.needs, float64(i)*0.71, 40, 1, 1.0, 0.5)*4)
	if step > 0 {
		d := octaveNoise(g.shift, float64(i)*0.71, 40, 1, 1.0, 0.5)
		switch {
		case d < 0.3:
			base--
		case d > 0.6:
			base++
		}
	}
	out := make([]string, 0, base)
	for k := range base {
		out = append(out, fmt.Sprintf("desire-%d-%d", i, k))
	}
	return out
}

// shifted moves each need of m by a noise-driven delta in [-1.5, 3.5].
func (g *Generator) shifted(m needs.Mapping, i int) needs.Mapping {
	out := m.Clone()
	for k, n := range needs.Basic {
		d := octaveNoise(g.shift, float64(i)*0.53, float64(k)*3.1, 2, 1.0, 0.5)*5 - 1.5
		out[n] = bound(halfStep(m[n] + d))
	}
	return out
}

// octaveNoise generates fractal noise by layering multiple frequencies.
// Output stays in [0, 1] for normalized noise.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func halfStep(v float64) float64 {
	return math.Round(v*2) / 2
}

func bound(v float64) float64 {
	return math.Max(needs.MinSatisfaction, math.Min(needs.MaxSatisfaction, v))
}
