package game

import (
	"fmt"
	"math"
	"math/rand"

	"gopkg.in/yaml.v3"
)

// --- Initiative ---

// Initiative is the attack resolution tier within a tick.
type Initiative int

const (
	InitiativeFirst Initiative = iota
	InitiativeRegular
	InitiativeLast
	initiativeCount // sentinel
)

func (i Initiative) String() string {
	switch i {
	case InitiativeFirst:
		return "first"
	case InitiativeRegular:
		return "regular"
	case InitiativeLast:
		return "last"
	default:
		return "unknown"
	}
}

// ParseInitiative converts a config string into an Initiative.
// The empty string reads as the regular tier.
func ParseInitiative(s string) (Initiative, error) {
	switch s {
	case "first":
		return InitiativeFirst, nil
	case "regular", "":
		return InitiativeRegular, nil
	case "last":
		return InitiativeLast, nil
	default:
		return InitiativeRegular, fmt.Errorf("unknown initiative %q", s)
	}
}

// UnmarshalYAML parses the tier from its config string form.
func (i *Initiative) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseInitiative(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// --- Archetype ---

// Ability tags recognised by the combat loop.
const (
	TagRage   = "rage"   // standing attack boost while below half hp
	TagCharge = "charge" // one-shot attack boost, restored by completing a move
)

// Archetype is an immutable unit template shared by many unit instances.
type Archetype struct {
	ID          string     `yaml:"id"`
	HP          int        `yaml:"hp"`
	Attack      int        `yaml:"attack"`
	Defense     int        `yaml:"defense"`
	MoveSpeed   float64    `yaml:"move_speed"`   // tiles per tick
	AttackSpeed float64    `yaml:"attack_speed"` // attacks per tick while attacking
	Initiative  Initiative `yaml:"initiative"`
	AttackRange int        `yaml:"attack_range"` // 1 = melee
	CritChance  float64    `yaml:"crit_chance"`
	CritDamage  float64    `yaml:"crit_damage"`  // damage multiplier on crit
	Vision      float64    `yaml:"vision"`       // radius in tiles
	AttackDelay int        `yaml:"attack_delay"` // ticks spent setting before an attack
	Size        int        `yaml:"size"`         // footprint width in tiles, 1 or 2
	Lifesteal   float64    `yaml:"lifesteal"`    // fraction of dealt damage healed
	Tags        []string   `yaml:"tags"`
}

// HasTag reports whether the archetype carries an ability tag.
func (a *Archetype) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Ranged reports whether the archetype attacks through projectiles.
func (a *Archetype) Ranged() bool {
	return a.AttackRange > 1
}

// builtinArchetypes returns the compiled-in roster.
// Config may replace this list wholesale.
func builtinArchetypes() []*Archetype {
	return []*Archetype{
		{ID: "soldier", HP: 100, Attack: 10, Defense: 4, MoveSpeed: 1, AttackSpeed: 1,
			Initiative: InitiativeRegular, AttackRange: 1, CritChance: 0.10, CritDamage: 1.5,
			Vision: 6, AttackDelay: 1, Size: 1},
		{ID: "berserker", HP: 120, Attack: 14, Defense: 2, MoveSpeed: 1, AttackSpeed: 1,
			Initiative: InitiativeRegular, AttackRange: 1, CritChance: 0.15, CritDamage: 1.5,
			Vision: 6, AttackDelay: 1, Size: 1, Tags: []string{TagRage}},
		{ID: "lancer", HP: 110, Attack: 12, Defense: 3, MoveSpeed: 2, AttackSpeed: 1,
			Initiative: InitiativeFirst, AttackRange: 1, CritChance: 0.10, CritDamage: 1.5,
			Vision: 7, AttackDelay: 1, Size: 2, Tags: []string{TagCharge}},
		{ID: "vampire", HP: 90, Attack: 11, Defense: 2, MoveSpeed: 1, AttackSpeed: 1,
			Initiative: InitiativeRegular, AttackRange: 1, CritChance: 0.10, CritDamage: 1.5,
			Vision: 6, AttackDelay: 1, Size: 1, Lifesteal: 0.5},
		{ID: "archer", HP: 70, Attack: 9, Defense: 1, MoveSpeed: 1, AttackSpeed: 1,
			Initiative: InitiativeLast, AttackRange: 5, CritChance: 0.20, CritDamage: 1.8,
			Vision: 8, AttackDelay: 2, Size: 1},
		{ID: "mage", HP: 60, Attack: 16, Defense: 0, MoveSpeed: 1, AttackSpeed: 0.5,
			Initiative: InitiativeLast, AttackRange: 4, CritChance: 0.05, CritDamage: 2.0,
			Vision: 7, AttackDelay: 3, Size: 1},
	}
}

// --- Damage resolution ---

// AttackModifier is one multiplicative adjustment applied to the effective
// attack of a single resolution. Modifier lists are built fresh per attack
// and never mutate the archetype template.
type AttackModifier struct {
	Label string
	Mul   float64
}

const (
	attackVarianceMin = 0.9
	attackVarianceMax = 1.1
	chargeAttackMul   = 1.2
	rageAttackMul     = 1.5
	rageHPFraction    = 0.5
)

// RollEffectiveAttack applies the uniform attack variance roll and the
// ordered modifier list, rounding to an integer effective attack.
func RollEffectiveAttack(rng *rand.Rand, attack int, mods []AttackModifier) int {
	v := attackVarianceMin + rng.Float64()*(attackVarianceMax-attackVarianceMin)
	eff := float64(attack) * v
	for _, m := range mods {
		eff *= m.Mul
	}
	return int(math.Round(eff))
}

// RollCrit rolls an independent critical hit check.
func RollCrit(rng *rand.Rand, chance float64) bool {
	return chance > 0 && rng.Float64() < chance
}

// ResolveDamage computes final damage from an effective attack.
// Damage is never zero or negative, however negative effAttack-defense gets.
func ResolveDamage(effAttack, defense int, crit bool, critDamage float64) int {
	raw := effAttack - defense
	if crit {
		raw = int(math.Floor(float64(raw) * critDamage))
	}
	if raw < 1 {
		raw = 1
	}
	return raw
}

// LifestealHeal returns the hit points healed by a lifesteal attacker.
func LifestealHeal(damage int, fraction float64) int {
	if fraction <= 0 {
		return 0
	}
	return int(math.Floor(float64(damage) * fraction))
}
