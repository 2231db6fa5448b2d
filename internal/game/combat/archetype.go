package combat

// EnduranceCoefficient is the melee damage a Fighter gains per point of endurance.
const EnduranceCoefficient = 1

// Fighter is a melee archetype whose endurance strengthens every attack.
type Fighter struct {
	Stats     Entity `json:"entity" yaml:"entity"`
	Endurance int    `json:"endurance" yaml:"endurance"`
}

// NewFighter returns a Fighter owning entity.
func NewFighter(entity Entity, endurance int) *Fighter {
	return &Fighter{Stats: entity, Endurance: endurance}
}

// Entity returns the fighter's stat block.
func (f *Fighter) Entity() *Entity { return &f.Stats }

// Archetype returns ArchetypeFighter.
func (f *Fighter) Archetype() Archetype { return ArchetypeFighter }

// AttackDamage adds EnduranceCoefficient per endurance point to the default formula.
// Endurance below zero contributes nothing.
//
// Postcondition: non-decreasing in Endurance with strength and weapon fixed.
func (f *Fighter) AttackDamage() int {
	endurance := f.Endurance
	if endurance < 0 {
		endurance = 0
	}
	return addSat(BaseDamage(&f.Stats), mulSat(EnduranceCoefficient, endurance))
}

// Mage is a spell-casting archetype. Its attacks are driven by magic power and
// the equipped weapon's spell power; strength plays no part.
type Mage struct {
	Stats      Entity `json:"entity" yaml:"entity"`
	MagicPower int    `json:"magic_power" yaml:"magic_power"`
}

// NewMage returns a Mage owning entity.
func NewMage(entity Entity, magicPower int) *Mage {
	return &Mage{Stats: entity, MagicPower: magicPower}
}

// Entity returns the mage's stat block.
func (m *Mage) Entity() *Entity { return &m.Stats }

// Archetype returns ArchetypeMage.
func (m *Mage) Archetype() Archetype { return ArchetypeMage }

// AttackDamage returns spell power plus magic power.
//
// Postcondition: Returns Weapon.BonusSpellDamage() + MagicPower, independent of Strength.
func (m *Mage) AttackDamage() int {
	return addSat(m.Stats.Weapon.BonusSpellDamage(), max(m.MagicPower, 0))
}

// HealAmount is the life points a self-heal restores: magic power times spell power.
//
// Postcondition: Returns 0 without a weapon; saturates at math.MaxInt.
func (m *Mage) HealAmount() int {
	return mulSat(m.MagicPower, m.Stats.Weapon.BonusSpellDamage())
}

// Heal restores HealAmount life points to the mage.
//
// Postcondition: Returns the life points restored; 0 when the mage is dead.
func (m *Mage) Heal() int {
	return m.Stats.Heal(m.HealAmount())
}

// Monster is the enemy combatant: a bare Entity with the default attack formula.
type Monster struct {
	Stats Entity `json:"entity" yaml:"entity"`
}

// NewMonster returns a Monster owning entity.
func NewMonster(entity Entity) *Monster {
	return &Monster{Stats: entity}
}

// Entity returns the monster's stat block.
func (m *Monster) Entity() *Entity { return &m.Stats }

// Archetype returns ArchetypeMonster.
func (m *Monster) Archetype() Archetype { return ArchetypeMonster }

// AttackDamage applies the default formula.
func (m *Monster) AttackDamage() int { return BaseDamage(&m.Stats) }
