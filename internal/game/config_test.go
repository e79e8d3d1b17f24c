package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejectsBadGrid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("zero-width grid accepted")
	}
}

func TestValidateRejectsBadPenalty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Terrain = []TerrainKind{{ID: "swamp", Walkable: true, MovementPenalty: 1.0}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("movement penalty of 1.0 accepted")
	}
}

func TestValidateRejectsBadArchetype(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Archetypes = []*Archetype{
		{ID: "giant", HP: 500, Attack: 30, MoveSpeed: 1, AttackSpeed: 1,
			AttackRange: 1, Vision: 6, Size: 3, CritDamage: 1.5},
	}
	cfg.PlayerPool = map[string]int{"giant": 1}
	cfg.EnemyPool = map[string]int{"giant": 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("size-3 archetype accepted")
	}
}

func TestValidateRejectsUnknownPoolEntry(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PlayerPool["dragon"] = 1
	if err := cfg.Validate(); err == nil {
		t.Fatalf("pool entry for unknown archetype accepted")
	}
}

func TestValidateRejectsBadPhaseSchedule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Phases = []DeployPhase{{TriggerTick: 5, MaxUnits: 2}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("first phase not at tick 0 accepted")
	}
	cfg.Phases = []DeployPhase{{TriggerTick: 0, MaxUnits: 2}, {TriggerTick: 0, MaxUnits: 1}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("non-ascending phase schedule accepted")
	}
}

func TestValidateRejectsLayoutMismatch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = []string{"........"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("layout with wrong row count accepted")
	}
}

func TestValidateRejectsUnknownLegendRune(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = make([]string, cfg.Grid.Height)
	for i := range cfg.Layout {
		cfg.Layout[i] = "........"
	}
	cfg.Layout[5] = "...#...."
	if err := cfg.Validate(); err == nil {
		t.Fatalf("layout rune without legend entry accepted")
	}
	cfg.Legend = map[string]string{"#": "wall"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("legend-resolved layout rejected: %v", err)
	}
}

func TestBuildFieldPaintsLayout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Layout = make([]string, cfg.Grid.Height)
	for i := range cfg.Layout {
		cfg.Layout[i] = "........"
	}
	cfg.Layout[5] = "..~~...."
	cfg.Legend = map[string]string{"~": "water"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	bf := cfg.buildField()
	if got := bf.KindAt(2, 5).ID; got != "water" {
		t.Fatalf("tile (2,5) = %q, want water", got)
	}
	if got := bf.KindAt(0, 5).ID; got != TerrainGround {
		t.Fatalf("tile (0,5) = %q, want ground", got)
	}
}

func TestLoadConfigLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.yaml")
	data := []byte("grid:\n  width: 12\n  height: 14\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Grid.Width != 12 || cfg.Grid.Height != 14 {
		t.Fatalf("grid = %dx%d, want 12x14", cfg.Grid.Width, cfg.Grid.Height)
	}
	// Untouched sections keep their defaults.
	if len(cfg.Phases) != 2 || cfg.PlayerPool["soldier"] != 3 {
		t.Fatalf("defaults lost: phases=%v pool=%v", cfg.Phases, cfg.PlayerPool)
	}
}

func TestLoadConfigFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.yaml")
	if err := os.WriteFile(path, []byte("grid: [not a map]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

func TestArchetypeYAMLInitiative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.yaml")
	data := []byte(`archetypes:
  - id: pikeman
    hp: 80
    attack: 9
    move_speed: 1
    attack_speed: 1
    attack_range: 1
    vision: 6
    size: 1
    crit_damage: 1.5
    initiative: first
player_pool:
  pikeman: 2
enemy_pool:
  pikeman: 2
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Archetypes) != 1 || cfg.Archetypes[0].Initiative != InitiativeFirst {
		t.Fatalf("archetypes = %+v, want one first-tier pikeman", cfg.Archetypes)
	}
}
