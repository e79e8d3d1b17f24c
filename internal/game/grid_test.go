package game

import "testing"

func unitAt(id int, archetypeID string, side Side, x, y int) *Unit {
	for _, a := range builtinArchetypes() {
		if a.ID == archetypeID {
			return NewUnit(id, a, side, x, y)
		}
	}
	panic("unknown archetype " + archetypeID)
}

func TestFootprintTiles(t *testing.T) {
	tiles := FootprintTiles(3, 5, 2)
	want := []Point{{3, 5}, {4, 5}}
	if len(tiles) != 2 || tiles[0] != want[0] || tiles[1] != want[1] {
		t.Fatalf("footprint = %v, want %v", tiles, want)
	}
	if got := FootprintTiles(0, 0, 0); got != nil {
		t.Fatalf("zero-size footprint = %v, want nil", got)
	}
}

func TestUnitDistanceAdjacencyIsZero(t *testing.T) {
	a := unitAt(0, "soldier", SidePlayer, 3, 4)
	b := unitAt(1, "soldier", SideEnemy, 4, 4)
	if got := UnitDistance(a, b); got != 0 {
		t.Fatalf("adjacent distance = %d, want 0", got)
	}
}

func TestUnitDistanceMultiTileUsesNearestEdge(t *testing.T) {
	// Lancer footprint covers (2,4) and (3,4); a soldier at (4,4) touches it.
	lancer := unitAt(0, "lancer", SidePlayer, 2, 4)
	soldier := unitAt(1, "soldier", SideEnemy, 4, 4)
	if got := UnitDistance(lancer, soldier); got != 0 {
		t.Fatalf("edge distance = %d, want 0", got)
	}
	far := unitAt(2, "soldier", SideEnemy, 6, 7)
	// X gap from footprint edge 3 to 6 is 2, Y gap from 4 to 7 is 2.
	if got := UnitDistance(lancer, far); got != 4 {
		t.Fatalf("edge distance = %d, want 4", got)
	}
}

func TestMeleeRangeReachesAdjacentTarget(t *testing.T) {
	a := unitAt(0, "soldier", SidePlayer, 3, 4)
	b := unitAt(1, "soldier", SideEnemy, 4, 4)
	if !inAttackRange(a, b) {
		t.Fatalf("adjacent melee attack should be in range")
	}
	c := unitAt(2, "soldier", SideEnemy, 5, 4)
	if inAttackRange(a, c) {
		t.Fatalf("one tile of gap should be out of melee range")
	}
}

func TestCanFitAtRejectsOverlapAndBounds(t *testing.T) {
	blocker := unitAt(0, "soldier", SideEnemy, 4, 4)
	units := []*Unit{blocker}

	if CanFitAt(1, 4, 4, 8, 10, units, nil) {
		t.Fatalf("occupied tile should not fit")
	}
	if !CanFitAt(1, 5, 4, 8, 10, units, nil) {
		t.Fatalf("adjacent free tile should fit")
	}
	if CanFitAt(2, 3, 4, 8, 10, units, nil) {
		t.Fatalf("size-2 footprint overlapping (4,4) should not fit")
	}
	if CanFitAt(2, 7, 0, 8, 10, nil, nil) {
		t.Fatalf("size-2 footprint hanging off the right edge should not fit")
	}
	if !CanFitAt(1, 4, 4, 8, 10, units, blocker) {
		t.Fatalf("a unit should fit on its own tile when excluded")
	}
}

func TestIsTileOccupied(t *testing.T) {
	lancer := unitAt(0, "lancer", SidePlayer, 3, 4) // covers (3,4) and (4,4)
	units := []*Unit{lancer}

	if !IsTileOccupied(4, 4, units, nil) {
		t.Fatalf("footprint tail tile should read occupied")
	}
	if IsTileOccupied(5, 4, units, nil) {
		t.Fatalf("tile past the footprint should read free")
	}
	if IsTileOccupied(4, 4, units, lancer) {
		t.Fatalf("excluded unit should not occupy")
	}
}

func TestCanFitAtIgnoresDead(t *testing.T) {
	corpse := unitAt(0, "soldier", SideEnemy, 4, 4)
	corpse.HP = 0
	if !CanFitAt(1, 4, 4, 8, 10, []*Unit{corpse}, nil) {
		t.Fatalf("dead units should not block placement")
	}
}

func TestCanFitOnTerrainRequiresWalkableTiles(t *testing.T) {
	bf := NewBattlefield(8, 10)
	bf.SetKind(5, 4, "water")
	if CanFitOnTerrain(bf, 2, 4, 4, nil, nil) {
		t.Fatalf("footprint covering water should not fit")
	}
	if !CanFitOnTerrain(bf, 2, 2, 4, nil, nil) {
		t.Fatalf("footprint on ground should fit")
	}
}
