package server

import (
	"testing"

	"github.com/proterg/RogueHeroes-sub000/internal/game"
)

func TestStateMessageSnapshotsDeployment(t *testing.T) {
	b, err := game.NewBattle(game.DefaultConfig(), 1)
	if err != nil {
		t.Fatalf("new battle: %v", err)
	}

	msg := stateMessage(b)
	if msg.Type != "state" || msg.Status != "deploying" {
		t.Fatalf("message = %+v, want a deploying state", msg)
	}
	if msg.Budget != 4 {
		t.Fatalf("budget = %d, want the first phase budget of 4", msg.Budget)
	}
	if msg.Pool["soldier"] != 3 {
		t.Fatalf("pool = %v, want the untouched default pool", msg.Pool)
	}
	// The enemy only deploys once the player confirms the phase.
	if len(msg.Units) != 0 {
		t.Fatalf("units at phase open = %d, want an empty field", len(msg.Units))
	}

	if err := b.ConfirmPhase(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	after := stateMessage(b)
	if after.Status != "fighting" || len(after.Units) == 0 {
		t.Fatalf("post-confirm message = %+v, want fighting with the enemy fielded", after)
	}
}

func TestStateMessageDrainsEventsOnce(t *testing.T) {
	cfg := game.DefaultConfig()
	b, err := game.NewExhibition(cfg, 3)
	if err != nil {
		t.Fatalf("new exhibition: %v", err)
	}
	for i := 0; i < 5; i++ {
		b.Step()
	}

	first := stateMessage(b)
	if len(first.Events) == 0 {
		t.Fatalf("no events after five ticks")
	}
	second := stateMessage(b)
	if len(second.Events) != 0 {
		t.Fatalf("drained events reappeared: %v", second.Events)
	}
}

func TestViewEventsMapsTypes(t *testing.T) {
	events := []game.Event{
		game.UnitMoved{Tick: 1, ID: 2, FromX: 0, FromY: 0, ToX: 0, ToY: 1},
		game.UnitAttacked{Tick: 2, AttackerID: 2, DefenderID: 3, Damage: 7, Crit: true},
		game.UnitDied{Tick: 2, ID: 3},
		game.CombatEnded{Tick: 3, Winner: game.SidePlayer},
	}
	views := viewEvents(events)
	if len(views) != 4 {
		t.Fatalf("views = %d, want 4", len(views))
	}
	want := []string{"unit_moved", "unit_attacked", "unit_died", "combat_ended"}
	for i, v := range views {
		if v.Type != want[i] {
			t.Fatalf("view %d type = %q, want %q", i, v.Type, want[i])
		}
	}
	if views[1].Damage != 7 || !views[1].Crit {
		t.Fatalf("attack view = %+v", views[1])
	}
	if views[3].Winner != "player" {
		t.Fatalf("winner = %q, want player", views[3].Winner)
	}
}
