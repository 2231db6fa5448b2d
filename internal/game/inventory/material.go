// Package inventory provides the equippable weapons carried by duel combatants.
package inventory

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Material is the substance a weapon is forged from. Wood is the weakest and
// Diamond the strongest material.
type Material int

const (
	MaterialUnknown Material = iota // zero value; intentionally invalid
	Wood
	Stone
	Iron
	Gold
	MagicOre
	Diamond
)

var materialNames = map[Material]string{
	Wood:     "Wood",
	Stone:    "Stone",
	Iron:     "Iron",
	Gold:     "Gold",
	MagicOre: "MagicOre",
	Diamond:  "Diamond",
}

var materialBonus = map[Material]int{
	Wood:     2,
	Stone:    5,
	Iron:     10,
	Gold:     12,
	MagicOre: 15,
	Diamond:  20,
}

// Materials returns every valid material, weakest first.
func Materials() []Material {
	return []Material{Wood, Stone, Iron, Gold, MagicOre, Diamond}
}

// ParseMaterial resolves a material from its canonical name, e.g. "MagicOre".
//
// Postcondition: Returns a valid Material or a non-nil error.
func ParseMaterial(name string) (Material, error) {
	for m, n := range materialNames {
		if n == name {
			return m, nil
		}
	}
	return MaterialUnknown, fmt.Errorf("unknown material %q", name)
}

// Valid reports whether m is one of the known materials.
func (m Material) Valid() bool {
	_, ok := materialNames[m]
	return ok
}

// Bonus returns the fixed physical damage bonus of the material.
//
// Postcondition: Returns 0 for invalid materials, > 0 otherwise.
func (m Material) Bonus() int {
	return materialBonus[m]
}

// String returns the canonical material name.
func (m Material) String() string {
	if n, ok := materialNames[m]; ok {
		return n
	}
	return "Unknown"
}

// MarshalJSON encodes the material as its canonical name.
func (m Material) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid material %d", int(m))
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a material from its canonical name.
func (m *Material) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("material must be a string: %w", err)
	}
	parsed, err := ParseMaterial(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// UnmarshalYAML decodes a material from its canonical name in YAML documents.
func (m *Material) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseMaterial(name)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
