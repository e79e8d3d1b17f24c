package game

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GridConfig sets the battlefield dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the full battle definition as loaded from YAML. Zero-value
// sections fall back to the compiled-in defaults, so a config file only
// states what it changes.
type Config struct {
	Grid       GridConfig        `yaml:"grid"`
	Terrain    []TerrainKind     `yaml:"terrain"`    // kind overrides and additions
	Layout     []string          `yaml:"layout"`     // one string per row, top row first
	Legend     map[string]string `yaml:"legend"`     // layout rune -> terrain id
	Archetypes []*Archetype      `yaml:"archetypes"` // replaces the builtin roster when set
	Phases     []DeployPhase     `yaml:"phases"`
	PlayerPool map[string]int    `yaml:"player_pool"`
	EnemyPool  map[string]int    `yaml:"enemy_pool"`
}

// DefaultConfig returns the standard skirmish setup: an 8x10 ground field,
// the builtin roster, and a two-phase deployment schedule.
func DefaultConfig() *Config {
	pool := map[string]int{
		"soldier": 3, "berserker": 2, "lancer": 1,
		"vampire": 1, "archer": 2, "mage": 1,
	}
	enemy := make(map[string]int, len(pool))
	for id, n := range pool {
		enemy[id] = n
	}
	return &Config{
		Grid: GridConfig{Width: 8, Height: 10},
		Phases: []DeployPhase{
			{TriggerTick: 0, MaxUnits: 4},
			{TriggerTick: 20, MaxUnits: 2},
		},
		PlayerPool: pool,
		EnemyPool:  enemy,
	}
}

// LoadConfig reads a YAML battle definition layered over the defaults and
// validates it. Loading fails fast: a config error aborts before any battle
// state exists.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	cfg.merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays the sections a file declares onto the defaults. Declared
// sections replace wholesale rather than mixing with default entries.
func (c *Config) merge(o *Config) {
	if o.Grid.Width > 0 || o.Grid.Height > 0 {
		c.Grid = o.Grid
	}
	if o.Terrain != nil {
		c.Terrain = o.Terrain
	}
	if o.Layout != nil {
		c.Layout = o.Layout
	}
	if o.Legend != nil {
		c.Legend = o.Legend
	}
	if o.Archetypes != nil {
		c.Archetypes = o.Archetypes
	}
	if o.Phases != nil {
		c.Phases = o.Phases
	}
	if o.PlayerPool != nil {
		c.PlayerPool = o.PlayerPool
	}
	if o.EnemyPool != nil {
		c.EnemyPool = o.EnemyPool
	}
}

// Roster returns the archetypes in play: the config's own list, or the
// builtin roster when none is declared.
func (c *Config) Roster() []*Archetype {
	if len(c.Archetypes) > 0 {
		return c.Archetypes
	}
	return builtinArchetypes()
}

// Validate rejects malformed configs before any battle state is built.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	for _, k := range c.Terrain {
		if k.ID == "" {
			return fmt.Errorf("terrain kind with empty id")
		}
		if k.MovementPenalty < 0 || k.MovementPenalty >= 1 {
			return fmt.Errorf("terrain %q: movement penalty %v outside [0,1)", k.ID, k.MovementPenalty)
		}
		if k.MeleePenalty < 0 || k.MeleePenalty >= 1 {
			return fmt.Errorf("terrain %q: melee penalty %v outside [0,1)", k.ID, k.MeleePenalty)
		}
	}
	if len(c.Layout) > 0 {
		if len(c.Layout) != c.Grid.Height {
			return fmt.Errorf("layout has %d rows, grid height is %d", len(c.Layout), c.Grid.Height)
		}
		known := c.terrainIDs()
		for y, row := range c.Layout {
			if len([]rune(row)) != c.Grid.Width {
				return fmt.Errorf("layout row %d has %d tiles, grid width is %d", y, len([]rune(row)), c.Grid.Width)
			}
			for _, r := range row {
				if r == '.' || r == ' ' {
					continue
				}
				id, ok := c.Legend[string(r)]
				if !ok {
					return fmt.Errorf("layout row %d: rune %q missing from legend", y, r)
				}
				if !known[id] {
					return fmt.Errorf("legend %q: unknown terrain id %q", string(r), id)
				}
			}
		}
	}

	roster := make(map[string]bool)
	for _, a := range c.Roster() {
		if a.ID == "" {
			return fmt.Errorf("archetype with empty id")
		}
		if roster[a.ID] {
			return fmt.Errorf("duplicate archetype id %q", a.ID)
		}
		roster[a.ID] = true
		if a.HP <= 0 {
			return fmt.Errorf("archetype %q: hp must be positive", a.ID)
		}
		if a.Size != 1 && a.Size != 2 {
			return fmt.Errorf("archetype %q: size must be 1 or 2, got %d", a.ID, a.Size)
		}
		if a.AttackRange < 1 {
			return fmt.Errorf("archetype %q: attack range must be at least 1", a.ID)
		}
		if a.AttackSpeed <= 0 {
			return fmt.Errorf("archetype %q: attack speed must be positive", a.ID)
		}
		if a.CritChance < 0 || a.CritChance > 1 {
			return fmt.Errorf("archetype %q: crit chance %v outside [0,1]", a.ID, a.CritChance)
		}
		if a.Lifesteal < 0 || a.Lifesteal > 1 {
			return fmt.Errorf("archetype %q: lifesteal %v outside [0,1]", a.ID, a.Lifesteal)
		}
		if a.AttackDelay < 0 {
			return fmt.Errorf("archetype %q: attack delay must not be negative", a.ID)
		}
	}
	for id := range c.PlayerPool {
		if !roster[id] {
			return fmt.Errorf("player pool: unknown archetype %q", id)
		}
	}
	for id := range c.EnemyPool {
		if !roster[id] {
			return fmt.Errorf("enemy pool: unknown archetype %q", id)
		}
	}

	if len(c.Phases) > 0 {
		if c.Phases[0].TriggerTick != 0 {
			return fmt.Errorf("first deployment phase must trigger at tick 0, got %d", c.Phases[0].TriggerTick)
		}
		for i, p := range c.Phases {
			if p.MaxUnits <= 0 {
				return fmt.Errorf("phase %d: max units must be positive", i)
			}
			if i > 0 && p.TriggerTick <= c.Phases[i-1].TriggerTick {
				return fmt.Errorf("phase %d: trigger tick %d not after previous phase", i, p.TriggerTick)
			}
		}
		if c.Grid.Height < 2*DeployZoneDepth {
			return fmt.Errorf("grid height %d too small for two deployment zones", c.Grid.Height)
		}
	}
	return nil
}

// terrainIDs collects every terrain id resolvable in this config: the
// builtins plus declared overrides.
func (c *Config) terrainIDs() map[string]bool {
	ids := make(map[string]bool)
	for id := range builtinTerrains() {
		ids[id] = true
	}
	for _, k := range c.Terrain {
		ids[k.ID] = true
	}
	return ids
}

// buildField materialises the battlefield: register kind overrides, then
// paint the layout. Assumes Validate has passed.
func (c *Config) buildField() *Battlefield {
	bf := NewBattlefield(c.Grid.Width, c.Grid.Height)
	for _, k := range c.Terrain {
		bf.RegisterKind(k)
	}
	for y, row := range c.Layout {
		for x, r := range []rune(row) {
			if r == '.' || r == ' ' {
				continue
			}
			bf.SetKind(x, y, c.Legend[string(r)])
		}
	}
	return bf
}
