package game

// TerrainKind describes the gameplay coefficients of one terrain type.
// Kinds are immutable once registered; combat never mutates a kind.
type TerrainKind struct {
	ID                string  `yaml:"id"`
	Walkable          bool    `yaml:"walkable"`
	MovementPenalty   float64 `yaml:"movement_penalty"` // [0,1) fraction of move speed lost on this tile
	MeleePenalty      float64 `yaml:"melee_penalty"`    // [0,1) fraction of melee attack lost when standing here
	BlocksVision      bool    `yaml:"blocks_vision"`
	BlocksProjectiles bool    `yaml:"blocks_projectiles"`
	Destructible      bool    `yaml:"destructible"`
	HP                int     `yaml:"hp"` // starting hit points for destructible kinds, 0 otherwise
}

// TerrainGround is the kind every out-of-range or unknown lookup falls back to.
const TerrainGround = "ground"

// builtinTerrains returns the compiled-in terrain registry.
// Config may override coefficients or add new kinds on top of these.
func builtinTerrains() map[string]TerrainKind {
	kinds := []TerrainKind{
		{ID: TerrainGround, Walkable: true},
		{ID: "road", Walkable: true},
		{ID: "mud", Walkable: true, MovementPenalty: 0.5, MeleePenalty: 0.25},
		{ID: "forest", Walkable: true, MovementPenalty: 0.3, MeleePenalty: 0.15, BlocksVision: true, BlocksProjectiles: true},
		{ID: "water", Walkable: false},
		{ID: "wall", Walkable: false, BlocksVision: true, BlocksProjectiles: true, Destructible: true, HP: 100},
		{ID: "fence", Walkable: false, Destructible: true, HP: 30},
	}
	m := make(map[string]TerrainKind, len(kinds))
	for _, k := range kinds {
		m[k.ID] = k
	}
	return m
}

// Battlefield is the authoritative terrain grid: a width x height array of
// terrain kind ids plus the kind registry they resolve against.
// All lookups are total; out-of-range coordinates read as "ground".
type Battlefield struct {
	Width  int
	Height int
	kinds  map[string]TerrainKind
	cells  []string // row-major kind ids; "" reads as ground
	hp     []int    // remaining hit points for destructible tiles
}

// NewBattlefield creates an all-ground battlefield with the builtin kinds.
func NewBattlefield(width, height int) *Battlefield {
	return &Battlefield{
		Width:  width,
		Height: height,
		kinds:  builtinTerrains(),
		cells:  make([]string, width*height),
		hp:     make([]int, width*height),
	}
}

// RegisterKind adds or replaces a terrain kind in the registry.
func (bf *Battlefield) RegisterKind(k TerrainKind) {
	bf.kinds[k.ID] = k
}

// Kind resolves a terrain id against the registry, defaulting to ground.
func (bf *Battlefield) Kind(id string) TerrainKind {
	if k, ok := bf.kinds[id]; ok {
		return k
	}
	return bf.kinds[TerrainGround]
}

func (bf *Battlefield) inBounds(x, y int) bool {
	return x >= 0 && x < bf.Width && y >= 0 && y < bf.Height
}

// KindAt returns the terrain kind at (x, y), ground when out of range.
func (bf *Battlefield) KindAt(x, y int) TerrainKind {
	if !bf.inBounds(x, y) {
		return bf.kinds[TerrainGround]
	}
	id := bf.cells[y*bf.Width+x]
	if id == "" {
		return bf.kinds[TerrainGround]
	}
	return bf.Kind(id)
}

// SetKind paints a tile with a terrain id, initialising destructible hp.
// Out-of-range coordinates are ignored.
func (bf *Battlefield) SetKind(x, y int, id string) {
	if !bf.inBounds(x, y) {
		return
	}
	bf.cells[y*bf.Width+x] = id
	bf.hp[y*bf.Width+x] = bf.Kind(id).HP
}

// IsWalkable returns true if a unit can stand on (x, y).
func (bf *Battlefield) IsWalkable(x, y int) bool {
	if !bf.inBounds(x, y) {
		return false
	}
	return bf.KindAt(x, y).Walkable
}

// MovementPenalty returns the move speed fraction lost on (x, y).
func (bf *Battlefield) MovementPenalty(x, y int) float64 {
	return bf.KindAt(x, y).MovementPenalty
}

// MeleeAttackPenalty returns the melee attack fraction lost when standing on (x, y).
func (bf *Battlefield) MeleeAttackPenalty(x, y int) float64 {
	return bf.KindAt(x, y).MeleePenalty
}

// BlocksVision returns true if (x, y) blocks sight lines.
func (bf *Battlefield) BlocksVision(x, y int) bool {
	return bf.KindAt(x, y).BlocksVision
}

// BlocksProjectiles returns true if (x, y) blocks ranged attack paths.
func (bf *Battlefield) BlocksProjectiles(x, y int) bool {
	return bf.KindAt(x, y).BlocksProjectiles
}

// IsDestructible returns true if the tile's kind can be destroyed.
func (bf *Battlefield) IsDestructible(x, y int) bool {
	return bf.KindAt(x, y).Destructible
}

// TerrainHP returns the remaining hit points of a destructible tile, 0 otherwise.
func (bf *Battlefield) TerrainHP(x, y int) int {
	if !bf.inBounds(x, y) || !bf.IsDestructible(x, y) {
		return 0
	}
	return bf.hp[y*bf.Width+x]
}

// DamageTerrain reduces a destructible tile's hit points, reverting it to
// ground at zero. The combat loop never calls this; wall destruction is
// exposed for collaborators but not wired into damage application.
func (bf *Battlefield) DamageTerrain(x, y, dmg int) {
	if !bf.inBounds(x, y) || !bf.IsDestructible(x, y) || dmg <= 0 {
		return
	}
	i := y*bf.Width + x
	bf.hp[i] -= dmg
	if bf.hp[i] <= 0 {
		bf.hp[i] = 0
		bf.cells[i] = TerrainGround
	}
}
