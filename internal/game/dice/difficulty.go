package dice

import "fmt"

// Difficulty selects the die used for flee attempts. Harder difficulties use
// dice with more sides, so the single winning face comes up less often.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Normal, Hard:
		return d, nil
	default:
		return "", fmt.Errorf("difficulty must be one of [easy, normal, hard], got %q", s)
	}
}

// Sides returns the number of faces of the difficulty die: 3, 6 or 9.
func (d Difficulty) Sides() int {
	switch d {
	case Easy:
		return 3
	case Hard:
		return 9
	default:
		return 6
	}
}

// Expression returns the difficulty die as a dice expression, e.g. "1d6".
func (d Difficulty) Expression() Expression {
	return MustParse(fmt.Sprintf("1d%d", d.Sides()))
}

// Throw rolls the difficulty die once with r and reports whether it landed on
// its highest face.
//
// Postcondition: succeeds with probability 1/Sides().
func (d Difficulty) Throw(r *Roller) (RollResult, bool) {
	res := r.Roll(d.Expression())
	return res, res.Total() == d.Sides()
}
