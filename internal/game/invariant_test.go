package game

import "testing"

// Whole-battle checks run over full exhibitions across several seeds:
// footprints never overlap, positions stay in bounds, dead units stay
// dead, and every battle terminates.

func checkRosterInvariants(t *testing.T, b *Battle, seed int64) {
	t.Helper()
	living := make([]*Unit, 0, len(b.Units))
	for _, u := range b.Units {
		if !u.Alive() {
			continue
		}
		living = append(living, u)
		if u.X < 0 || u.Y < 0 || u.X+u.Size()-1 >= b.Field.Width || u.Y >= b.Field.Height {
			t.Fatalf("seed %d tick %d: unit %d out of bounds at (%d,%d)", seed, b.Tick, u.ID, u.X, u.Y)
		}
		for i := 0; i < u.Size(); i++ {
			if !b.Field.IsWalkable(u.X+i, u.Y) {
				t.Fatalf("seed %d tick %d: unit %d standing on unwalkable (%d,%d)", seed, b.Tick, u.ID, u.X+i, u.Y)
			}
		}
	}
	for i := 0; i < len(living); i++ {
		for j := i + 1; j < len(living); j++ {
			a, c := living[i], living[j]
			if footprintsOverlap(a.X, a.Y, a.Size(), c.X, c.Y, c.Size()) {
				t.Fatalf("seed %d tick %d: units %d and %d overlap", seed, b.Tick, a.ID, c.ID)
			}
		}
	}
}

func TestExhibitionBattlesHoldInvariants(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 17, 99} {
		b, err := NewExhibition(DefaultConfig(), seed)
		if err != nil {
			t.Fatalf("seed %d: new exhibition: %v", seed, err)
		}
		checkRosterInvariants(t, b, seed)

		prevPlayer, prevEnemy := b.aliveCounts()
		deadIDs := make(map[int]bool)
		for b.Status == StatusFighting {
			b.Step()
			checkRosterInvariants(t, b, seed)

			player, enemy := b.aliveCounts()
			if player > prevPlayer || enemy > prevEnemy {
				t.Fatalf("seed %d tick %d: alive count increased", seed, b.Tick)
			}
			prevPlayer, prevEnemy = player, enemy

			for _, u := range b.Units {
				if deadIDs[u.ID] && u.Alive() {
					t.Fatalf("seed %d tick %d: unit %d resurrected", seed, b.Tick, u.ID)
				}
				if !u.Alive() {
					deadIDs[u.ID] = true
				}
			}
		}

		if b.Tick > MaxBattleTicks {
			t.Fatalf("seed %d: battle ran past the tick cap to %d", seed, b.Tick)
		}
		ended, ok := b.Events.Ended()
		if !ok || ended.Winner != b.Winner {
			t.Fatalf("seed %d: end event %+v does not match winner %v", seed, ended, b.Winner)
		}
	}
}

func TestDeployedBattlesTerminate(t *testing.T) {
	for _, seed := range []int64{4, 8, 15} {
		b, err := NewBattle(DefaultConfig(), seed)
		if err != nil {
			t.Fatalf("seed %d: new battle: %v", seed, err)
		}
		for b.Status != StatusEnded {
			if b.Status == StatusDeploying {
				if err := b.AutoDeploy(); err != nil {
					t.Fatalf("seed %d: auto deploy: %v", seed, err)
				}
				continue
			}
			b.Step()
		}
		if b.Winner != SidePlayer && b.Winner != SideEnemy && b.Winner != SideNone {
			t.Fatalf("seed %d: winner unset", seed)
		}
	}
}

func TestDamageEventsMatchHPLoss(t *testing.T) {
	// Lifesteal decouples damage sums from hp loss, so run without it.
	cfg := DefaultConfig()
	cfg.PlayerPool, cfg.EnemyPool = nil, nil
	for _, a := range builtinArchetypes() {
		if a.Lifesteal == 0 {
			cfg.Archetypes = append(cfg.Archetypes, a)
		}
	}
	b, err := NewExhibition(cfg, 5)
	if err != nil {
		t.Fatalf("new exhibition: %v", err)
	}
	b.RunToCompletion()

	dealt := make(map[int]int)
	for _, a := range b.Events.Attacks() {
		dealt[a.DefenderID] += a.Damage
	}
	for _, u := range b.Units {
		lost := u.MaxHP() - u.HP
		got := dealt[u.ID]
		if u.Alive() && got != lost {
			t.Fatalf("unit %d lost %d hp but events account for %d", u.ID, lost, got)
		}
		if !u.Alive() && got < u.MaxHP() {
			t.Fatalf("unit %d died on %d recorded damage, max hp %d", u.ID, got, u.MaxHP())
		}
	}
}
