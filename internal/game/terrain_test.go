package game

import "testing"

func TestBuiltinTerrainCoefficients(t *testing.T) {
	bf := NewBattlefield(8, 10)

	mud := bf.Kind("mud")
	if mud.MovementPenalty != 0.5 || mud.MeleePenalty != 0.25 {
		t.Fatalf("mud penalties = %v/%v, want 0.5/0.25", mud.MovementPenalty, mud.MeleePenalty)
	}
	forest := bf.Kind("forest")
	if !forest.BlocksVision || !forest.BlocksProjectiles {
		t.Fatalf("forest should block vision and projectiles")
	}
	if bf.Kind("water").Walkable {
		t.Fatalf("water should not be walkable")
	}
	fence := bf.Kind("fence")
	if fence.BlocksVision || fence.BlocksProjectiles {
		t.Fatalf("fence should block neither vision nor projectiles")
	}
	if !fence.Destructible || fence.HP != 30 {
		t.Fatalf("fence = %+v, want destructible with 30 hp", fence)
	}
}

func TestKindAtDefaultsToGround(t *testing.T) {
	bf := NewBattlefield(4, 4)
	if got := bf.KindAt(2, 2).ID; got != TerrainGround {
		t.Fatalf("unpainted tile = %q, want ground", got)
	}
	if got := bf.KindAt(-1, 99).ID; got != TerrainGround {
		t.Fatalf("out-of-range tile = %q, want ground", got)
	}
	if bf.IsWalkable(-1, 0) {
		t.Fatalf("out-of-range tile should not be walkable")
	}
}

func TestSetKindPaintsTile(t *testing.T) {
	bf := NewBattlefield(4, 4)
	bf.SetKind(1, 2, "wall")
	if got := bf.KindAt(1, 2).ID; got != "wall" {
		t.Fatalf("painted tile = %q, want wall", got)
	}
	if bf.IsWalkable(1, 2) {
		t.Fatalf("wall tile should not be walkable")
	}
	if got := bf.TerrainHP(1, 2); got != 100 {
		t.Fatalf("wall hp = %d, want 100", got)
	}
}

func TestRegisterKindOverride(t *testing.T) {
	bf := NewBattlefield(4, 4)
	bf.RegisterKind(TerrainKind{ID: "mud", Walkable: true, MovementPenalty: 0.8})
	if got := bf.Kind("mud").MovementPenalty; got != 0.8 {
		t.Fatalf("overridden mud penalty = %v, want 0.8", got)
	}
}

func TestDamageTerrainRevertsToGround(t *testing.T) {
	bf := NewBattlefield(4, 4)
	bf.SetKind(0, 0, "fence")

	bf.DamageTerrain(0, 0, 10)
	if got := bf.TerrainHP(0, 0); got != 20 {
		t.Fatalf("fence hp after 10 damage = %d, want 20", got)
	}
	bf.DamageTerrain(0, 0, 25)
	if got := bf.KindAt(0, 0).ID; got != TerrainGround {
		t.Fatalf("destroyed fence = %q, want ground", got)
	}
	if !bf.IsWalkable(0, 0) {
		t.Fatalf("destroyed fence tile should be walkable")
	}
}

func TestDamageTerrainIgnoresIndestructible(t *testing.T) {
	bf := NewBattlefield(4, 4)
	bf.SetKind(0, 0, "forest")
	bf.DamageTerrain(0, 0, 1000)
	if got := bf.KindAt(0, 0).ID; got != "forest" {
		t.Fatalf("forest after damage = %q, want forest", got)
	}
}
