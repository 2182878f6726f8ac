package desire

import (
	"encoding/json"

	"github.com/talgya/wellbeing/internal/needs"
)

// stateFields are the keys a decoded state must carry, in check order.
var stateFields = []string{
	"potential_desires",
	"needs",
	"affected_others_current",
	"affected_others_result",
}

// UnmarshalJSON decodes a state through NewState, so invalid needs get the
// same fallback as a state built in code. A key absent from the object is
// remembered and fails the existence gate. Affected others decode the same
// way; a null entry stays nil.
func (s *State) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}

	var raw struct {
		PotentialDesires      []string      `json:"potential_desires"`
		Needs                 needs.Mapping `json:"needs"`
		AffectedOthersCurrent []*State      `json:"affected_others_current"`
		AffectedOthersResult  []*State      `json:"affected_others_result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = *NewState(raw.PotentialDesires, raw.Needs, raw.AffectedOthersCurrent, raw.AffectedOthersResult)
	for _, k := range stateFields {
		if _, ok := keys[k]; !ok {
			s.missing = k
			break
		}
	}
	return nil
}
