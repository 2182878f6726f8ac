package desire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/wellbeing/internal/needs"
)

const neutral = `{"hunger":5,"thirst":5,"health":5,"security":5,"housing":5}`

func decodeDesire(t *testing.T, in string) Desire {
	t.Helper()
	var d Desire
	require.NoError(t, json.Unmarshal([]byte(in), &d))
	return d
}

func TestState_UnmarshalAppliesDefaultNeeds(t *testing.T) {
	var s State
	require.NoError(t, json.Unmarshal([]byte(`{
		"potential_desires": ["a"],
		"needs": {"hunger": 2},
		"affected_others_current": [],
		"affected_others_result": []
	}`), &s))

	assert.Equal(t, []string{"a"}, s.PotentialDesires)
	assert.Equal(t, needs.Default(), s.Needs)
	assert.NoError(t, wellFormed(&s))
}

func TestDesire_UnmarshalEmptyStatesFailExistence(t *testing.T) {
	for _, in := range []string{
		`{"current":{},"wished":{}}`,
		`{"current":{"bogus":1},"wished":{"also":"junk"}}`,
	} {
		d := decodeDesire(t, in)

		v := Evaluate(d.Current, d.Wished)

		assert.False(t, v.Admitted, in)
		assert.Equal(t, ExistenceTestFailure, v.Reason, in)
		assert.Contains(t, v.Detail, "missing potential_desires", in)
	}
}

func TestDesire_UnmarshalMissingAffectedOthers(t *testing.T) {
	d := decodeDesire(t, `{
		"current": {"potential_desires": [], "needs": `+neutral+`, "affected_others_current": [], "affected_others_result": []},
		"wished":  {"potential_desires": [], "needs": `+neutral+`, "affected_others_current": []}
	}`)

	v := Evaluate(d.Current, d.Wished)

	assert.Equal(t, ExistenceTestFailure, v.Reason)
	assert.Equal(t, "wished: missing affected_others_result", v.Detail)
}

func TestDesire_UnmarshalCompleteStatesAdmitted(t *testing.T) {
	d := decodeDesire(t, `{
		"current": {"potential_desires": ["a"], "needs": `+neutral+`, "affected_others_current": [], "affected_others_result": []},
		"wished":  {"potential_desires": ["a"], "needs": `+neutral+`, "affected_others_current": [], "affected_others_result": []}
	}`)

	assert.True(t, Evaluate(d.Current, d.Wished).Admitted)
}

func TestDesire_UnmarshalNested(t *testing.T) {
	other := `{"potential_desires": [], "needs": ` + neutral + `, "affected_others_current": [], "affected_others_result": []}`
	d := decodeDesire(t, `{
		"current": {"potential_desires": [], "needs": {"hunger":4,"thirst":4,"health":4,"security":4,"housing":4},
			"affected_others_current": [], "affected_others_result": []},
		"wished": {"potential_desires": [], "needs": `+neutral+`,
			"affected_others_current": [`+other+`, null],
			"affected_others_result": [`+other+`, `+other+`]}
	}`)

	require.NotNil(t, d.Current)
	assert.Equal(t, 4.0, d.Current.Needs[needs.Hunger])
	require.Len(t, d.Wished.AffectedOthersCurrent, 2)
	assert.Equal(t, needs.Default(), d.Wished.AffectedOthersCurrent[0].Needs)
	assert.Nil(t, d.Wished.AffectedOthersCurrent[1])

	v := Evaluate(d.Current, d.Wished)
	assert.Equal(t, ExistenceTestFailure, v.Reason)
	assert.Equal(t, "wished: affected other 1 is nil", v.Detail)
}

func TestDesire_UnmarshalShapelessAffectedOther(t *testing.T) {
	other := `{"potential_desires": [], "needs": ` + neutral + `, "affected_others_current": [], "affected_others_result": []}`
	d := decodeDesire(t, `{
		"current": `+other+`,
		"wished": {"potential_desires": [], "needs": `+neutral+`,
			"affected_others_current": [`+other+`],
			"affected_others_result": [{}]}
	}`)

	v := Evaluate(d.Current, d.Wished)

	assert.Equal(t, ExistenceTestFailure, v.Reason)
	assert.Equal(t, "wished: affected other 0 after: missing potential_desires", v.Detail)
}

func TestDesire_UnmarshalNullWished(t *testing.T) {
	d := decodeDesire(t, `{"current": {}}`)

	assert.Nil(t, d.Wished)
	assert.Equal(t, ExistenceTestFailure, Evaluate(d.Current, d.Wished).Reason)
}
