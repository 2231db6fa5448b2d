package combat

// ResultKind classifies the outcome of a single attack.
type ResultKind int

const (
	// Miss means the defender evaded, or the attack could not land at all.
	Miss ResultKind = iota
	// Hit means damage was applied and the target survived.
	Hit
	// TargetDefeated means the damage brought the target to zero life points.
	TargetDefeated
)

// String returns a human-readable result label.
func (k ResultKind) String() string {
	switch k {
	case Miss:
		return "miss"
	case Hit:
		return "hit"
	case TargetDefeated:
		return "defeated"
	default:
		return "unknown"
	}
}

// AttackResult holds the outcome of one attack.
type AttackResult struct {
	Kind ResultKind
	// Amount is the damage actually absorbed by the target; 0 on Miss. For
	// TargetDefeated it is clamped to the life points the target had left.
	Amount   int
	Attacker string
	Target   string
}

// Attack resolves one attack of attacker against target. The defender's
// evasion check runs first; an evaded attack deals no damage.
//
// An attack by a dead attacker or against a dead target is ineffective: it
// reports Miss without consulting ev and without mutating target.
//
// Precondition: attacker, target and ev must be non-nil.
// Postcondition: target.LifePoints decreases by exactly result.Amount.
func Attack(attacker Combatant, target *Entity, ev Evader) AttackResult {
	self := attacker.Entity()
	result := AttackResult{Kind: Miss, Attacker: self.Name, Target: target.Name}
	if !self.IsAlive() || !target.IsAlive() {
		return result
	}
	if ev.Evade(self.Dexterity, target.Dexterity) {
		return result
	}
	result.Amount = target.TakeDamage(attacker.AttackDamage())
	if target.IsAlive() {
		result.Kind = Hit
	} else {
		result.Kind = TargetDefeated
	}
	return result
}
