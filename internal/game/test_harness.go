package game

import "testing"

// TestSim is a battle harness for tests: a deployment-free battle built
// from ordered options, so scenarios read as a short declarative list.
type TestSim struct {
	T      *testing.T
	Battle *Battle
}

// SimOption configures a TestSim. Options carry an ordering key so the
// battlefield exists before terrain is painted and terrain before units
// are placed, regardless of the order the caller writes them in.
type SimOption struct {
	order int
	apply func(s *TestSim, b *simBuilder)
}

const (
	optOrderWorld = iota
	optOrderArchetype
	optOrderTerrain
	optOrderUnit
)

type simBuilder struct {
	width, height int
	seed          int64
	archetypes    []*Archetype
}

// WithGridSize sets the battlefield dimensions. Defaults to 8x10.
func WithGridSize(width, height int) SimOption {
	return SimOption{order: optOrderWorld, apply: func(_ *TestSim, b *simBuilder) {
		b.width, b.height = width, height
	}}
}

// WithSeed fixes the battle's random source. Defaults to 1.
func WithSeed(seed int64) SimOption {
	return SimOption{order: optOrderWorld, apply: func(_ *TestSim, b *simBuilder) {
		b.seed = seed
	}}
}

// WithArchetype adds or replaces an archetype in the roster.
func WithArchetype(a *Archetype) SimOption {
	return SimOption{order: optOrderArchetype, apply: func(_ *TestSim, b *simBuilder) {
		for i, existing := range b.archetypes {
			if existing.ID == a.ID {
				b.archetypes[i] = a
				return
			}
		}
		b.archetypes = append(b.archetypes, a)
	}}
}

// WithTerrain paints one tile with a terrain kind id.
func WithTerrain(x, y int, id string) SimOption {
	return SimOption{order: optOrderTerrain, apply: func(s *TestSim, _ *simBuilder) {
		s.Battle.Field.SetKind(x, y, id)
	}}
}

// WithPlayerUnit spawns a player unit, failing the test on an illegal spot.
func WithPlayerUnit(archetypeID string, x, y int) SimOption {
	return withUnit(archetypeID, SidePlayer, x, y)
}

// WithEnemyUnit spawns an enemy unit, failing the test on an illegal spot.
func WithEnemyUnit(archetypeID string, x, y int) SimOption {
	return withUnit(archetypeID, SideEnemy, x, y)
}

func withUnit(archetypeID string, side Side, x, y int) SimOption {
	return SimOption{order: optOrderUnit, apply: func(s *TestSim, _ *simBuilder) {
		if _, err := s.Battle.SpawnUnit(archetypeID, side, x, y); err != nil {
			s.T.Fatalf("spawn %s %s at (%d,%d): %v", side, archetypeID, x, y, err)
		}
	}}
}

// NewTestSim builds a battle from the given options. The battle starts
// fighting immediately with no deployment phases.
func NewTestSim(t *testing.T, opts ...SimOption) *TestSim {
	t.Helper()
	b := &simBuilder{width: 8, height: 10, seed: 1, archetypes: builtinArchetypes()}
	s := &TestSim{T: t}

	for pass := optOrderWorld; pass <= optOrderUnit; pass++ {
		if pass == optOrderTerrain {
			cfg := &Config{
				Grid:       GridConfig{Width: b.width, Height: b.height},
				Archetypes: b.archetypes,
			}
			battle, err := NewBattle(cfg, b.seed)
			if err != nil {
				t.Fatalf("new battle: %v", err)
			}
			s.Battle = battle
		}
		for _, opt := range opts {
			if opt.order == pass {
				opt.apply(s, b)
			}
		}
	}
	return s
}

// Unit returns the i-th spawned unit, in option order.
func (s *TestSim) Unit(i int) *Unit {
	s.T.Helper()
	if i < 0 || i >= len(s.Battle.Units) {
		s.T.Fatalf("unit %d out of range, roster has %d", i, len(s.Battle.Units))
	}
	return s.Battle.Units[i]
}

// RunTicks advances the battle n ticks or until it ends.
func (s *TestSim) RunTicks(n int) {
	for i := 0; i < n && s.Battle.Status == StatusFighting; i++ {
		s.Battle.Step()
	}
}

// RunUntilEnd steps to resolution and returns the winner.
func (s *TestSim) RunUntilEnd() Side {
	return s.Battle.RunToCompletion()
}

// Events returns the battle's event log.
func (s *TestSim) Events() *EventLog {
	return s.Battle.Events
}
