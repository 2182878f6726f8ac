package experience

// Register keeps the latest well-being score of one subject.
// Without any recorded experience the subject is neutral (0).
type Register struct {
	Value    float64 `json:"value"`
	Recorded int     `json:"recorded"`
}

// Record scores h and makes it the current value.
// On error the register is left untouched.
func (r *Register) Record(h Hedonic) (float64, error) {
	v, err := WellBeing(h)
	if err != nil {
		return r.Value, err
	}
	r.Value = v
	r.Recorded++
	return v, nil
}

// Reset returns the register to neutral.
func (r *Register) Reset() {
	*r = Register{}
}
