package combat

// Source is the subset of dice.Source used for evasion draws.
type Source interface {
	Intn(n int) int
}

// Evader decides whether an incoming attack is evaded.
type Evader interface {
	Evade(attackerDex, defenderDex int) bool
}

// DexterityEvader evades with probability defender / (defender + attacker).
//
// The ratio is realised exactly with one integer draw r in [0, defender+attacker):
// the attack is evaded iff r < defender. When the dexterity sum is not positive
// nothing is evaded.
type DexterityEvader struct {
	src Source
}

// NewDexterityEvader returns an Evader drawing from src.
//
// Precondition: src must be non-nil.
func NewDexterityEvader(src Source) *DexterityEvader {
	return &DexterityEvader{src: src}
}

// Evade implements Evader.
func (d *DexterityEvader) Evade(attackerDex, defenderDex int) bool {
	if attackerDex < 0 {
		attackerDex = 0
	}
	if defenderDex <= 0 {
		return false
	}
	return d.src.Intn(addSat(attackerDex, defenderDex)) < defenderDex
}

// EvasionChance returns the probability DexterityEvader evades, in [0, 1].
func EvasionChance(attackerDex, defenderDex int) float64 {
	if attackerDex < 0 {
		attackerDex = 0
	}
	if defenderDex <= 0 {
		return 0
	}
	return float64(defenderDex) / float64(attackerDex+defenderDex)
}

// FixedEvader always returns its own value: true evades everything, false nothing.
type FixedEvader bool

// Evade implements Evader.
func (f FixedEvader) Evade(int, int) bool { return bool(f) }
