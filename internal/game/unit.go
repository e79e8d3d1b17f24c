package game

// Side identifies which roster a unit fights for.
type Side int

const (
	SideNone Side = iota // no winner / unaffiliated
	SidePlayer
	SideEnemy
)

func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "none"
	}
}

// Opponent returns the other fighting side.
func (s Side) Opponent() Side {
	switch s {
	case SidePlayer:
		return SideEnemy
	case SideEnemy:
		return SidePlayer
	default:
		return SideNone
	}
}

// BehaviorState is the unit state machine position.
// Units cycle moving -> setting -> attacking and back to moving whenever the
// locked target dies or leaves attack range. No unit starts in attacking.
type BehaviorState int

const (
	StateMoving BehaviorState = iota
	StateSetting
	StateAttacking
)

func (s BehaviorState) String() string {
	switch s {
	case StateMoving:
		return "moving"
	case StateSetting:
		return "setting"
	case StateAttacking:
		return "attacking"
	default:
		return "unknown"
	}
}

// NoTarget marks an empty target reference.
const NoTarget = -1

// Unit is a mutable battlefield entity. Dead units stay in the roster as
// battlefield artifacts but are excluded from occupancy, vision, and
// targeting by the Alive guard.
type Unit struct {
	ID        int
	Archetype *Archetype
	Side      Side
	HP        int
	X, Y      int // top-left tile of the footprint

	State      BehaviorState
	SetCounter int
	// TargetID is a weak reference: re-resolved by id every tick and
	// cleared when the target dies or leaves range. Never an owning pointer.
	TargetID    int
	ChargeReady bool

	moveBudget   float64 // fractional tiles banked toward the next step
	attackBudget float64 // fractional attacks banked toward the next swing
}

// NewUnit creates a live unit of the given archetype at (x, y).
func NewUnit(id int, a *Archetype, side Side, x, y int) *Unit {
	return &Unit{
		ID:          id,
		Archetype:   a,
		Side:        side,
		HP:          a.HP,
		X:           x,
		Y:           y,
		State:       StateMoving,
		TargetID:    NoTarget,
		ChargeReady: a.HasTag(TagCharge),
	}
}

// Alive reports whether the unit still participates in combat.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

// MaxHP returns the archetype hit point ceiling.
func (u *Unit) MaxHP() int {
	return u.Archetype.HP
}

// Size returns the footprint width in tiles.
func (u *Unit) Size() int {
	return u.Archetype.Size
}

// Footprint returns the tiles this unit occupies.
func (u *Unit) Footprint() []Point {
	return FootprintTiles(u.X, u.Y, u.Size())
}

// RageActive reports whether the standing rage bonus applies right now.
func (u *Unit) RageActive() bool {
	if !u.Archetype.HasTag(TagRage) {
		return false
	}
	return float64(u.HP) < rageHPFraction*float64(u.MaxHP())
}

// forward is the advance direction toward the enemy baseline.
func (u *Unit) forward() int {
	if u.Side == SidePlayer {
		return 1
	}
	return -1
}

// resetToMoving returns the unit to the moving state with cleared target
// and counters. Used when a target dies, leaves range, or a contested move
// is lost.
func (u *Unit) resetToMoving() {
	u.State = StateMoving
	u.TargetID = NoTarget
	u.SetCounter = 0
	u.attackBudget = 0
}
