package server

import (
	"github.com/proterg/RogueHeroes-sub000/internal/game"
)

// Command is one JSON message from a client. Type selects the action; the
// remaining fields are read per type.
type Command struct {
	Type      string `json:"type"` // start, select, place, remove, confirm, auto, state
	Seed      int64  `json:"seed,omitempty"`
	Archetype string `json:"archetype,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// UnitView is the wire form of one unit.
type UnitView struct {
	ID        int    `json:"id"`
	Archetype string `json:"archetype"`
	Side      string `json:"side"`
	HP        int    `json:"hp"`
	MaxHP     int    `json:"max_hp"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Size      int    `json:"size"`
	State     string `json:"state"`
}

// EventView flattens the typed event union for the wire. Only the fields
// relevant to Type are set.
type EventView struct {
	Type       string         `json:"type"`
	Tick       int            `json:"tick"`
	UnitID     int            `json:"unit_id,omitempty"`
	FromX      int            `json:"from_x,omitempty"`
	FromY      int            `json:"from_y,omitempty"`
	ToX        int            `json:"to_x,omitempty"`
	ToY        int            `json:"to_y,omitempty"`
	AttackerID int            `json:"attacker_id,omitempty"`
	DefenderID int            `json:"defender_id,omitempty"`
	Damage     int            `json:"damage"`
	Crit       bool           `json:"crit,omitempty"`
	Winner     string         `json:"winner,omitempty"`
	Phase      int            `json:"phase,omitempty"`
	MaxUnits   int            `json:"max_units,omitempty"`
	Deployed   int            `json:"deployed,omitempty"`
	Remaining  map[string]int `json:"remaining,omitempty"`
}

// Message is one server push: a state snapshot or a command error.
type Message struct {
	Type   string         `json:"type"` // state, error
	Tick   int            `json:"tick"`
	Status string         `json:"status,omitempty"`
	Winner string         `json:"winner,omitempty"`
	Units  []UnitView     `json:"units,omitempty"`
	Events []EventView    `json:"events,omitempty"`
	Pool   map[string]int `json:"pool,omitempty"`
	Budget int            `json:"budget,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func viewUnits(b *game.Battle) []UnitView {
	out := make([]UnitView, 0, len(b.Units))
	for _, u := range b.Units {
		out = append(out, UnitView{
			ID:        u.ID,
			Archetype: u.Archetype.ID,
			Side:      u.Side.String(),
			HP:        u.HP,
			MaxHP:     u.MaxHP(),
			X:         u.X,
			Y:         u.Y,
			Size:      u.Size(),
			State:     u.State.String(),
		})
	}
	return out
}

func viewEvents(events []game.Event) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		switch ev := e.(type) {
		case game.UnitMoved:
			out = append(out, EventView{Type: "unit_moved", Tick: ev.Tick, UnitID: ev.ID,
				FromX: ev.FromX, FromY: ev.FromY, ToX: ev.ToX, ToY: ev.ToY})
		case game.UnitAttacked:
			out = append(out, EventView{Type: "unit_attacked", Tick: ev.Tick,
				AttackerID: ev.AttackerID, DefenderID: ev.DefenderID, Damage: ev.Damage, Crit: ev.Crit})
		case game.UnitDied:
			out = append(out, EventView{Type: "unit_died", Tick: ev.Tick, UnitID: ev.ID})
		case game.DeploymentStateChanged:
			out = append(out, EventView{Type: "deployment", Tick: ev.Tick, Phase: ev.Phase,
				MaxUnits: ev.MaxUnits, Deployed: ev.Deployed, Remaining: ev.Remaining})
		case game.CombatEnded:
			out = append(out, EventView{Type: "combat_ended", Tick: ev.Tick, Winner: ev.Winner.String()})
		}
	}
	return out
}

// stateMessage snapshots the battle plus the undrained event batch.
func stateMessage(b *game.Battle) Message {
	msg := Message{
		Type:   "state",
		Tick:   b.Tick,
		Status: b.Status.String(),
		Units:  viewUnits(b),
		Events: viewEvents(b.Events.Drain()),
	}
	if b.Status == game.StatusEnded {
		msg.Winner = b.Winner.String()
	}
	if b.Status == game.StatusDeploying && b.Deployment != nil {
		msg.Pool = b.Deployment.PoolRemaining()
		msg.Budget = b.Deployment.BudgetRemaining()
	}
	return msg
}
