package game

import (
	"math/rand"
	"testing"
)

func TestResolveDamageSubtractsDefense(t *testing.T) {
	if got := ResolveDamage(10, 4, false, 1.5); got != 6 {
		t.Fatalf("damage = %d, want 6", got)
	}
}

func TestResolveDamageCritMultiplies(t *testing.T) {
	// floor((10-4) * 1.5) = 9
	if got := ResolveDamage(10, 4, true, 1.5); got != 9 {
		t.Fatalf("crit damage = %d, want 9", got)
	}
}

func TestResolveDamageNeverBelowOne(t *testing.T) {
	if got := ResolveDamage(3, 10, false, 1.5); got != 1 {
		t.Fatalf("overdefended damage = %d, want 1", got)
	}
	if got := ResolveDamage(0, 0, true, 2.0); got != 1 {
		t.Fatalf("zero-attack crit = %d, want 1", got)
	}
}

func TestRollEffectiveAttackStaysInVarianceBand(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		eff := RollEffectiveAttack(rng, 100, nil)
		if eff < 90 || eff > 110 {
			t.Fatalf("effective attack %d outside [90,110]", eff)
		}
	}
}

func TestRollEffectiveAttackAppliesModifiersInOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	mods := []AttackModifier{
		{Label: TagCharge, Mul: chargeAttackMul},
		{Label: TagRage, Mul: rageAttackMul},
	}
	for i := 0; i < 200; i++ {
		eff := RollEffectiveAttack(rng, 100, mods)
		lo := int(90 * chargeAttackMul * rageAttackMul)
		hi := int(110*chargeAttackMul*rageAttackMul) + 1
		if eff < lo || eff > hi {
			t.Fatalf("modified attack %d outside [%d,%d]", eff, lo, hi)
		}
	}
}

func TestRollCritZeroChanceNeverCrits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		if RollCrit(rng, 0) {
			t.Fatalf("crit rolled at zero chance")
		}
	}
}

func TestLifestealHealFloors(t *testing.T) {
	if got := LifestealHeal(7, 0.5); got != 3 {
		t.Fatalf("lifesteal heal = %d, want 3", got)
	}
	if got := LifestealHeal(7, 0); got != 0 {
		t.Fatalf("no-lifesteal heal = %d, want 0", got)
	}
}

func TestParseInitiative(t *testing.T) {
	cases := []struct {
		in   string
		want Initiative
	}{
		{"first", InitiativeFirst},
		{"regular", InitiativeRegular},
		{"last", InitiativeLast},
		{"", InitiativeRegular},
	}
	for _, c := range cases {
		got, err := ParseInitiative(c.in)
		if err != nil || got != c.want {
			t.Fatalf("ParseInitiative(%q) = %v, %v", c.in, got, err)
		}
	}
	if _, err := ParseInitiative("sometime"); err == nil {
		t.Fatalf("expected error for unknown initiative")
	}
}

func TestArchetypeTags(t *testing.T) {
	var lancer *Archetype
	for _, a := range builtinArchetypes() {
		if a.ID == "lancer" {
			lancer = a
		}
	}
	if lancer == nil {
		t.Fatalf("lancer missing from builtin roster")
	}
	if !lancer.HasTag(TagCharge) || lancer.HasTag(TagRage) {
		t.Fatalf("lancer tags = %v", lancer.Tags)
	}
	if lancer.Ranged() {
		t.Fatalf("lancer is melee")
	}
}
