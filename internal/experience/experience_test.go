package experience

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{3.5, 3.5},
		{10, 10},
		{-4, 4},
		{11, 10},
		{-250, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.in), "Clamp(%v)", tt.in)
	}
}

func TestClamp_Properties(t *testing.T) {
	for x := -30.0; x <= 30; x += 0.25 {
		c := Clamp(x)
		assert.GreaterOrEqual(t, c, 0.0)
		assert.LessOrEqual(t, c, Limit)
		assert.Equal(t, c, Clamp(-x))
		if x >= 0 && x <= Limit {
			assert.Equal(t, x, c)
		}
	}
}

func TestNew_ClampsEveryField(t *testing.T) {
	e, err := New(-3, 42, -12)

	require.NoError(t, err)
	assert.Equal(t, 3.0, e.Pain.Quantity)
	assert.Equal(t, Limit, e.Pleasure.Quantity)
	assert.Equal(t, Limit, e.Pleasure.Quality)
}

func TestNew_RejectsNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := New(1, bad, 1)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestWellBeing_PleasureDominates(t *testing.T) {
	e, err := New(0, 1, 1)
	require.NoError(t, err)

	got, err := WellBeing(e)

	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestWellBeing_PainDominates(t *testing.T) {
	e, err := New(5, 1, 1)
	require.NoError(t, err)

	got, err := WellBeing(e)

	require.NoError(t, err)
	assert.Equal(t, -4.0, got)
}

func TestWellBeing_TieIsNeutral(t *testing.T) {
	e, err := New(4, 4, 9)
	require.NoError(t, err)

	got, err := WellBeing(e)

	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestWellBeing_QualityMonotonicWhenPleasureDominates(t *testing.T) {
	prev := math.Inf(-1)
	for q := 0.0; q <= Limit; q++ {
		e, err := New(2, 6, q)
		require.NoError(t, err)
		got, err := WellBeing(e)
		require.NoError(t, err)
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestWellBeing_QualityIgnoredWhenPainNotDominated(t *testing.T) {
	low, _ := New(6, 2, 0)
	high, _ := New(6, 2, 10)

	a, err := WellBeing(low)
	require.NoError(t, err)
	b, err := WellBeing(high)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, -4.0, a)
}

type shaped struct{ pain, quantity, quality float64 }

func (s shaped) PainQuantity() float64     { return s.pain }
func (s shaped) PleasureQuantity() float64 { return s.quantity }
func (s shaped) PleasureQuality() float64  { return s.quality }

func TestWellBeing_AcceptsAnyShapedValue(t *testing.T) {
	got, err := WellBeing(shaped{pain: 1, quantity: 3, quality: 7})

	require.NoError(t, err)
	assert.Equal(t, 7.0, got)
}

func TestWellBeing_RejectsNil(t *testing.T) {
	_, err := WellBeing(nil)
	assert.ErrorIs(t, err, ErrInvalidExperience)

	var e *Experience
	_, err = WellBeing(e)
	assert.ErrorIs(t, err, ErrInvalidExperience)
}

func TestDecode(t *testing.T) {
	e, err := Decode([]byte(`{"pain":{"quantity":5},"pleasure":{"quantity":1,"quality":1}}`))
	require.NoError(t, err)

	got, err := WellBeing(e)
	require.NoError(t, err)
	assert.Equal(t, -4.0, got)
}

func TestDecode_RejectsMissingShape(t *testing.T) {
	for _, in := range []string{
		`{}`,
		`null`,
		`[]`,
		`{"pain":{"quantity":1}}`,
		`{"pain":{},"pleasure":{"quantity":1,"quality":1}}`,
		`{"pain":{"quantity":1},"pleasure":{"quantity":1}}`,
	} {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidExperience, "input %s", in)
	}
}

func TestRegister(t *testing.T) {
	var r Register
	assert.Equal(t, 0.0, r.Value)

	e, _ := New(0, 3, 8)
	v, err := r.Record(e)
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)
	assert.Equal(t, 1, r.Recorded)

	_, err = r.Record(nil)
	assert.ErrorIs(t, err, ErrInvalidExperience)
	assert.Equal(t, 8.0, r.Value)
	assert.Equal(t, 1, r.Recorded)

	r.Reset()
	assert.Equal(t, Register{}, r)
}
