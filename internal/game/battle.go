package game

import (
	"fmt"
	"math/rand"
	"time"
)

// BattleStatus is the lifecycle position of an encounter.
type BattleStatus int

const (
	StatusDeploying BattleStatus = iota // paused, deployment controller owns the roster
	StatusFighting                      // loop owns the roster, ticks advance
	StatusEnded
)

func (s BattleStatus) String() string {
	switch s {
	case StatusDeploying:
		return "deploying"
	case StatusFighting:
		return "fighting"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// MaxBattleTicks caps runaway stalemates: hitting it ends the battle as a
// draw (SideNone).
const MaxBattleTicks = 1000

// NominalTickDuration is the presentation pacing for one tick. The core is
// tick-driven, not time-driven; this is only a hint for external schedulers.
const NominalTickDuration = 500 * time.Millisecond

// Battle is a single combat encounter: the terrain grid, the unit roster,
// and the tick loop that resolves them. The battle owns both exclusively
// while fighting; the deployment controller is the only other writer, and
// only while the loop is paused.
type Battle struct {
	Field      *Battlefield
	Units      []*Unit
	Tick       int
	Status     BattleStatus
	Winner     Side
	Events     *EventLog
	Deployment *DeploymentController

	archetypes map[string]*Archetype
	byID       map[int]*Unit
	rng        *rand.Rand
	nextID     int
}

// NewBattle builds a battle from config. With deployment phases configured
// the battle starts paused in the first phase; without phases it starts
// fighting with an empty roster that callers fill via SpawnUnit.
func NewBattle(cfg *Config, seed int64) (*Battle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &Battle{
		Field:      cfg.buildField(),
		Status:     StatusFighting,
		Winner:     SideNone,
		Events:     NewEventLog(),
		archetypes: make(map[string]*Archetype),
		byID:       make(map[int]*Unit),
		rng:        rand.New(rand.NewSource(seed)),
	}
	for _, a := range cfg.Roster() {
		b.archetypes[a.ID] = a
	}
	if len(cfg.Phases) > 0 {
		b.Deployment = newDeploymentController(cfg)
		b.Deployment.openPhase(b)
	}
	return b, nil
}

// NewExhibition builds a non-interactive battle with one unit of every
// archetype pre-placed on each side. No deployment phases run. Construction
// fails if any archetype cannot be placed in its side's half of the field.
func NewExhibition(cfg *Config, seed int64) (*Battle, error) {
	stripped := *cfg
	stripped.Phases = nil
	b, err := NewBattle(&stripped, seed)
	if err != nil {
		return nil, err
	}
	for _, side := range []Side{SidePlayer, SideEnemy} {
		for _, a := range cfg.Roster() {
			if err := b.spawnFirstFit(a, side); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// spawnFirstFit places one unit at the first free, walkable anchor in the
// side's half of the field, scanning rows outward from that side's baseline.
func (b *Battle) spawnFirstFit(a *Archetype, side Side) error {
	half := b.Field.Height / 2
	for i := 0; i < half; i++ {
		y := i
		if side == SideEnemy {
			y = b.Field.Height - 1 - i
		}
		for x := 0; x+a.Size <= b.Field.Width; x++ {
			if _, err := b.SpawnUnit(a.ID, side, x, y); err == nil {
				return nil
			}
		}
	}
	return fmt.Errorf("exhibition: no room for %q on the %s side", a.ID, side)
}

// Archetype looks up an archetype by id.
func (b *Battle) Archetype(id string) (*Archetype, bool) {
	a, ok := b.archetypes[id]
	return a, ok
}

// UnitByID resolves a unit id, nil when unknown.
func (b *Battle) UnitByID(id int) *Unit {
	return b.byID[id]
}

// UnitAt returns the living unit whose footprint covers (x, y), nil if none.
func (b *Battle) UnitAt(x, y int) *Unit {
	for _, u := range b.Units {
		if !u.Alive() {
			continue
		}
		if footprintsOverlap(u.X, u.Y, u.Size(), x, y, 1) {
			return u
		}
	}
	return nil
}

// SpawnUnit creates a unit at a validated empty, walkable position and adds
// it to the roster.
func (b *Battle) SpawnUnit(archetypeID string, side Side, x, y int) (*Unit, error) {
	a, ok := b.archetypes[archetypeID]
	if !ok {
		return nil, fmt.Errorf("spawn: %w: %q", ErrUnknownArchetype, archetypeID)
	}
	if !CanFitOnTerrain(b.Field, a.Size, x, y, b.Units, nil) {
		return nil, fmt.Errorf("spawn %q at (%d,%d): %w", archetypeID, x, y, ErrBlockedTile)
	}
	u := NewUnit(b.nextID, a, side, x, y)
	b.nextID++
	b.Units = append(b.Units, u)
	b.byID[u.ID] = u
	return u, nil
}

// removeUnit drops a unit from the roster entirely (deployment retraction).
func (b *Battle) removeUnit(u *Unit) {
	delete(b.byID, u.ID)
	for i, v := range b.Units {
		if v == u {
			b.Units = append(b.Units[:i], b.Units[i+1:]...)
			return
		}
	}
}

// aliveCounts tallies living units per side.
func (b *Battle) aliveCounts() (player, enemy int) {
	for _, u := range b.Units {
		if !u.Alive() {
			continue
		}
		switch u.Side {
		case SidePlayer:
			player++
		case SideEnemy:
			enemy++
		}
	}
	return player, enemy
}

// terminal reports whether the encounter is over and who won.
func (b *Battle) terminal() (Side, bool) {
	player, enemy := b.aliveCounts()
	switch {
	case player == 0 && enemy == 0:
		return SideNone, true
	case player == 0:
		return SideEnemy, true
	case enemy == 0:
		return SidePlayer, true
	case b.Tick >= MaxBattleTicks:
		return SideNone, true
	}
	return SideNone, false
}

func (b *Battle) end(winner Side) {
	b.Status = StatusEnded
	b.Winner = winner
	b.Events.add(CombatEnded{Tick: b.Tick, Winner: winner})
}

// Step advances the simulation by exactly one fully-resolved tick. It does
// nothing while the battle is paused for deployment or already ended, so an
// external scheduler may call it unconditionally.
func (b *Battle) Step() {
	if b.Status != StatusFighting {
		return
	}
	// Terminal check comes before any other per-tick work.
	if winner, over := b.terminal(); over {
		b.end(winner)
		return
	}
	// Mid-combat deployment phases trigger purely by tick number.
	if b.Deployment != nil && b.Deployment.dueAt(b.Tick+1) {
		b.Deployment.openPhase(b)
		return
	}
	b.Tick++

	intents := b.collectIntents()
	b.resolveMovement(intents)
	b.resolveAttacks(intents)
}

// RunToCompletion steps until the battle ends and returns the winner.
func (b *Battle) RunToCompletion() Side {
	for b.Status == StatusFighting {
		b.Step()
	}
	return b.Winner
}

// --- Intent collection ---

type intentKind int

const (
	intentNone intentKind = iota
	intentMove
	intentAttack
)

// intent is one unit's proposal for the current tick: exactly one of
// attack, move, or nothing. Proposals are collected for every living unit
// before any is resolved; the loop never interleaves one unit's full turn
// with another's.
type intent struct {
	unit     *Unit
	kind     intentKind
	toX, toY int // move destination
	targetID int // attack target
}

func (b *Battle) collectIntents() []intent {
	intents := make([]intent, 0, len(b.Units))
	for _, u := range b.Units {
		if !u.Alive() {
			continue
		}
		intents = append(intents, b.propose(u))
	}
	return intents
}

// validTarget re-resolves the unit's locked target id. A stale id (removed,
// dead, or friendly) is cleared and reads as no target, a recoverable
// condition, never a tick failure.
func (b *Battle) validTarget(u *Unit) *Unit {
	if u.TargetID == NoTarget {
		return nil
	}
	t := b.byID[u.TargetID]
	if t == nil || !t.Alive() || t.Side == u.Side {
		u.TargetID = NoTarget
		return nil
	}
	return t
}

// inAttackRange uses edge-to-edge distance: adjacent footprints measure 0,
// so range r reaches targets at UnitDistance < r.
func inAttackRange(u, t *Unit) bool {
	return UnitDistance(u, t) < u.Archetype.AttackRange
}

func (b *Battle) propose(u *Unit) intent {
	if u.State == StateSetting {
		tgt := b.validTarget(u)
		if tgt == nil || !inAttackRange(u, tgt) {
			u.resetToMoving()
		} else {
			u.SetCounter++
			if u.SetCounter < u.Archetype.AttackDelay {
				return intent{unit: u, kind: intentNone}
			}
			// Attack readied: swing on the tick the counter completes.
			u.State = StateAttacking
			u.SetCounter = 0
			u.attackBudget = 1
		}
	}
	if u.State == StateAttacking {
		if it, ok := b.proposeFromAttacking(u); ok {
			return it
		}
		// Target gone: fall through to moving this same tick.
	}
	return b.proposeFromMoving(u)
}

// proposeFromAttacking re-validates the attack each tick. Ranged units
// re-acquire the closest visible target every tick; melee units keep their
// locked target until it dies or leaves range.
func (b *Battle) proposeFromAttacking(u *Unit) (intent, bool) {
	var tgt *Unit
	if u.Archetype.Ranged() {
		tgt = NearestVisibleEnemy(b.Field, u, b.Units)
		if tgt != nil && !inAttackRange(u, tgt) {
			tgt = nil
		}
		if tgt != nil {
			u.TargetID = tgt.ID
		}
	} else {
		tgt = b.validTarget(u)
		if tgt != nil && !inAttackRange(u, tgt) {
			tgt = nil
		}
	}
	if tgt == nil {
		u.resetToMoving()
		return intent{}, false
	}
	u.attackBudget += u.Archetype.AttackSpeed
	if u.attackBudget < 1 {
		return intent{unit: u, kind: intentNone}, true
	}
	u.attackBudget -= 1
	return intent{unit: u, kind: intentAttack, targetID: tgt.ID}, true
}

// proposeFromMoving picks a target if one is visible and in range, else a
// movement destination.
func (b *Battle) proposeFromMoving(u *Unit) intent {
	tgt := NearestVisibleEnemy(b.Field, u, b.Units)
	if tgt != nil && inAttackRange(u, tgt) {
		u.TargetID = tgt.ID
		if u.Archetype.HasTag(TagCharge) && u.ChargeReady {
			// A standing charge attacks immediately, skipping the set delay.
			u.State = StateAttacking
			u.attackBudget = 0
			return intent{unit: u, kind: intentAttack, targetID: tgt.ID}
		}
		if u.Archetype.AttackDelay > 0 {
			u.State = StateSetting
			u.SetCounter = 0
			return intent{unit: u, kind: intentNone}
		}
		u.State = StateAttacking
		u.attackBudget = 0
		return intent{unit: u, kind: intentAttack, targetID: tgt.ID}
	}

	// Movement: bank fractional speed, slowed by the terrain underfoot.
	u.moveBudget += u.Archetype.MoveSpeed * (1 - b.Field.MovementPenalty(u.X, u.Y))
	steps := int(u.moveBudget)
	if steps <= 0 {
		return intent{unit: u, kind: intentNone}
	}
	u.moveBudget -= float64(steps)

	nx, ny := u.X, u.Y
	for i := 0; i < steps; i++ {
		var sx, sy int
		var ok bool
		if tgt == nil {
			sx, sy, ok = b.advanceStep(u, nx, ny)
		} else {
			sx, sy, ok = b.interceptStep(u, nx, ny, tgt)
		}
		if !ok {
			break
		}
		nx, ny = sx, sy
	}
	if nx == u.X && ny == u.Y {
		return intent{unit: u, kind: intentNone}
	}
	return intent{unit: u, kind: intentMove, toX: nx, toY: ny}
}

// advanceStep computes one forward advance step toward the enemy baseline:
// straight ahead first, then the diagonals, then lateral. The left/right
// preference is randomised so opposing lines do not mirror each other.
func (b *Battle) advanceStep(u *Unit, x, y int) (int, int, bool) {
	f := u.forward()
	lat := 1
	if b.rng.Intn(2) == 0 {
		lat = -1
	}
	candidates := [5][2]int{{0, f}, {lat, f}, {-lat, f}, {lat, 0}, {-lat, 0}}
	for _, c := range candidates {
		nx, ny := x+c[0], y+c[1]
		if CanFitOnTerrain(b.Field, u.Size(), nx, ny, b.Units, u) {
			return nx, ny, true
		}
	}
	return 0, 0, false
}

// interceptStep computes one step toward a visible enemy, preferring the
// axis with the larger remaining distance.
func (b *Battle) interceptStep(u *Unit, x, y int, tgt *Unit) (int, int, bool) {
	dx := tgt.X - x
	dy := tgt.Y - y
	sx, sy := sign(dx), sign(dy)

	var candidates [2][2]int
	if abs(dx) > abs(dy) {
		candidates = [2][2]int{{sx, 0}, {0, sy}}
	} else {
		candidates = [2][2]int{{0, sy}, {sx, 0}}
	}
	for _, c := range candidates {
		if c[0] == 0 && c[1] == 0 {
			continue
		}
		nx, ny := x+c[0], y+c[1]
		if CanFitOnTerrain(b.Field, u.Size(), nx, ny, b.Units, u) {
			return nx, ny, true
		}
	}
	return 0, 0, false
}

// --- Movement resolution ---

// resolveMovement arbitrates all move proposals together. A destination
// overlapping a unit that stands still this tick is rejected outright; a
// destination contested by other movers goes to exactly one winner chosen
// uniformly at random, and every loser reverts to moving with cleared
// target and counters.
func (b *Battle) resolveMovement(intents []intent) {
	var movers []intent
	moving := make(map[int]bool)
	for _, it := range intents {
		if it.kind == intentMove && it.unit.Alive() {
			movers = append(movers, it)
			moving[it.unit.ID] = true
		}
	}
	if len(movers) == 0 {
		return
	}

	// (a) Rejected outright: destination overlaps a stationary unit.
	kept := movers[:0]
	for _, it := range movers {
		blocked := false
		for _, other := range b.Units {
			if other == it.unit || !other.Alive() || moving[other.ID] {
				continue
			}
			if footprintsOverlap(other.X, other.Y, other.Size(), it.toX, it.toY, it.unit.Size()) {
				blocked = true
				break
			}
		}
		if !blocked {
			kept = append(kept, it)
		}
	}

	// (b) Contested destinations: group movers whose destination footprints
	// overlap and keep one winner per group.
	winners := b.pickMoveWinners(kept)

	// Apply in passes so follow-the-leader chains resolve: a move lands once
	// its destination is clear of every unit's current footprint.
	applied := make([]bool, len(winners))
	for progress := true; progress; {
		progress = false
		for i, it := range winners {
			if applied[i] {
				continue
			}
			if CanFitAt(it.unit.Size(), it.toX, it.toY, b.Field.Width, b.Field.Height, b.Units, it.unit) {
				b.applyMove(it.unit, it.toX, it.toY)
				applied[i] = true
				progress = true
			}
		}
	}
	// Anything still unapplied was waiting on a tile that never cleared:
	// silently dropped for this tick, the unit stays in moving.
}

// pickMoveWinners partitions move intents into destination-overlap groups
// and keeps exactly one random winner per group. Losers reset to moving.
func (b *Battle) pickMoveWinners(movers []intent) []intent {
	n := len(movers)
	compID := make([]int, n)
	for i := range compID {
		compID[i] = -1
	}
	ncomp := 0
	for i := 0; i < n; i++ {
		if compID[i] != -1 {
			continue
		}
		queue := []int{i}
		compID[i] = ncomp
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for j := 0; j < n; j++ {
				if compID[j] != -1 {
					continue
				}
				if footprintsOverlap(
					movers[cur].toX, movers[cur].toY, movers[cur].unit.Size(),
					movers[j].toX, movers[j].toY, movers[j].unit.Size()) {
					compID[j] = ncomp
					queue = append(queue, j)
				}
			}
		}
		ncomp++
	}

	winners := make([]intent, 0, ncomp)
	for c := 0; c < ncomp; c++ {
		var members []intent
		for i, it := range movers {
			if compID[i] == c {
				members = append(members, it)
			}
		}
		if len(members) == 1 {
			winners = append(winners, members[0])
			continue
		}
		w := b.rng.Intn(len(members))
		for k, m := range members {
			if k == w {
				winners = append(winners, m)
			} else {
				m.unit.resetToMoving()
			}
		}
	}
	return winners
}

func (b *Battle) applyMove(u *Unit, toX, toY int) {
	fromX, fromY := u.X, u.Y
	u.X, u.Y = toX, toY
	// Completing a move restores a spent charge.
	if u.Archetype.HasTag(TagCharge) {
		u.ChargeReady = true
	}
	b.Events.add(UnitMoved{Tick: b.Tick, ID: u.ID, FromX: fromX, FromY: fromY, ToX: toX, ToY: toY})
}

// --- Attack resolution ---

// resolveAttacks executes attack proposals grouped by initiative tier, in
// input order within a tier. A unit killed in an earlier tier loses its
// attack; a unit killed within its own tier still resolves an already
// queued attack. Target liveness is checked immediately before each attack
// executes, so order-dependent kills within a tier are possible.
func (b *Battle) resolveAttacks(intents []intent) {
	var tiers [initiativeCount][]intent
	for _, it := range intents {
		if it.kind != intentAttack {
			continue
		}
		tier := it.unit.Archetype.Initiative
		tiers[tier] = append(tiers[tier], it)
	}

	for _, tier := range tiers {
		if len(tier) == 0 {
			continue
		}
		aliveAtStart := make(map[int]bool, len(b.Units))
		for _, u := range b.Units {
			if u.Alive() {
				aliveAtStart[u.ID] = true
			}
		}
		for _, it := range tier {
			attacker := it.unit
			if !aliveAtStart[attacker.ID] {
				continue
			}
			target := b.byID[it.targetID]
			if target == nil || !target.Alive() {
				// Target died before this attack executed.
				attacker.resetToMoving()
				continue
			}
			b.executeAttack(attacker, target)
		}
	}
}

// executeAttack resolves one attack: archetype modifiers, variance, crit,
// defense, lifesteal, and death bookkeeping, all within the current tick.
func (b *Battle) executeAttack(attacker, target *Unit) {
	// A blocked projectile path resolves the attack for zero damage.
	if attacker.Archetype.Ranged() && !projectilePathBetween(b.Field, attacker, target) {
		b.Events.add(UnitAttacked{
			Tick: b.Tick, AttackerID: attacker.ID, DefenderID: target.ID,
		})
		return
	}

	mods := make([]AttackModifier, 0, 3)
	if attacker.Archetype.HasTag(TagCharge) && attacker.ChargeReady {
		mods = append(mods, AttackModifier{Label: TagCharge, Mul: chargeAttackMul})
		attacker.ChargeReady = false // consumed on use
	}
	if attacker.RageActive() {
		mods = append(mods, AttackModifier{Label: TagRage, Mul: rageAttackMul})
	}
	if !attacker.Archetype.Ranged() {
		if p := b.Field.MeleeAttackPenalty(attacker.X, attacker.Y); p > 0 {
			mods = append(mods, AttackModifier{Label: "terrain", Mul: 1 - p})
		}
	}

	eff := RollEffectiveAttack(b.rng, attacker.Archetype.Attack, mods)
	crit := RollCrit(b.rng, attacker.Archetype.CritChance)
	damage := ResolveDamage(eff, target.Archetype.Defense, crit, attacker.Archetype.CritDamage)

	target.HP -= damage
	if target.HP < 0 {
		target.HP = 0
	}
	if heal := LifestealHeal(damage, attacker.Archetype.Lifesteal); heal > 0 && attacker.Alive() {
		attacker.HP += heal
		if attacker.HP > attacker.MaxHP() {
			attacker.HP = attacker.MaxHP()
		}
	}

	b.Events.add(UnitAttacked{
		Tick: b.Tick, AttackerID: attacker.ID, DefenderID: target.ID,
		Damage: damage, Crit: crit,
	})
	if !target.Alive() {
		b.Events.add(UnitDied{Tick: b.Tick, ID: target.ID})
	}
}
