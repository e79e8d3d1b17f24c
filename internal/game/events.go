package game

// Outbound simulation events. The battle owns a typed queue that the
// presentation layer drains once per tick. There is no global bus.

// Event is one outbound simulation event.
type Event interface {
	EventTick() int
}

// UnitMoved reports a completed move.
type UnitMoved struct {
	Tick         int
	ID           int
	FromX, FromY int
	ToX, ToY     int
}

// UnitAttacked reports a resolved attack. Damage is 0 when a ranged attack's
// projectile path was blocked by terrain.
type UnitAttacked struct {
	Tick       int
	AttackerID int
	DefenderID int
	Damage     int
	Crit       bool
}

// UnitDied reports a unit dropping to zero hit points. The unit stays in the
// roster as a battlefield artifact but leaves occupancy, vision, and
// targeting.
type UnitDied struct {
	Tick int
	ID   int
}

// DeploymentStateChanged reports a deployment phase opening, a placement, a
// retraction, or a confirmation.
type DeploymentStateChanged struct {
	Tick      int
	Phase     int
	MaxUnits  int
	Deployed  int
	Remaining map[string]int // per-archetype pool left for the player side
}

// CombatEnded reports battle resolution. Winner is SideNone on a draw.
type CombatEnded struct {
	Tick   int
	Winner Side
}

func (e UnitMoved) EventTick() int              { return e.Tick }
func (e UnitAttacked) EventTick() int           { return e.Tick }
func (e UnitDied) EventTick() int               { return e.Tick }
func (e DeploymentStateChanged) EventTick() int { return e.Tick }
func (e CombatEnded) EventTick() int            { return e.Tick }

// EventLog is the typed outbound event queue owned by a battle. Events are
// appended in resolution order; Drain hands the pending batch to the
// presentation collaborator while the full history stays queryable for
// tests and reports.
type EventLog struct {
	events []Event
	cursor int // start of the undrained batch
}

// NewEventLog creates an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) add(e Event) {
	l.events = append(l.events, e)
}

// Drain returns the events emitted since the last Drain and marks them
// consumed. Fire-and-forget: draining never blocks the loop.
func (l *EventLog) Drain() []Event {
	batch := l.events[l.cursor:]
	l.cursor = len(l.events)
	return batch
}

// Pending returns how many events await draining.
func (l *EventLog) Pending() int {
	return len(l.events) - l.cursor
}

// History returns every event emitted so far, drained or not.
func (l *EventLog) History() []Event {
	return l.events
}

// Moves returns all UnitMoved events in emission order.
func (l *EventLog) Moves() []UnitMoved {
	var out []UnitMoved
	for _, e := range l.events {
		if m, ok := e.(UnitMoved); ok {
			out = append(out, m)
		}
	}
	return out
}

// Attacks returns all UnitAttacked events in emission order.
func (l *EventLog) Attacks() []UnitAttacked {
	var out []UnitAttacked
	for _, e := range l.events {
		if a, ok := e.(UnitAttacked); ok {
			out = append(out, a)
		}
	}
	return out
}

// Deaths returns all UnitDied events in emission order.
func (l *EventLog) Deaths() []UnitDied {
	var out []UnitDied
	for _, e := range l.events {
		if d, ok := e.(UnitDied); ok {
			out = append(out, d)
		}
	}
	return out
}

// Ended returns the CombatEnded event if the battle has resolved.
func (l *EventLog) Ended() (CombatEnded, bool) {
	for _, e := range l.events {
		if c, ok := e.(CombatEnded); ok {
			return c, true
		}
	}
	return CombatEnded{}, false
}
