package game

import (
	"errors"
	"fmt"
	"sort"
)

// Deployment command errors. All are recoverable: a failed command leaves
// the battle unchanged and the caller retries with different input.
var (
	ErrNotDeploying     = errors.New("battle is not in a deployment phase")
	ErrNoSelection      = errors.New("no archetype selected")
	ErrUnknownArchetype = errors.New("unknown archetype")
	ErrPoolEmpty        = errors.New("archetype pool exhausted")
	ErrBudgetSpent      = errors.New("phase unit budget spent")
	ErrOutOfZone        = errors.New("tile outside the deployment zone")
	ErrBlockedTile      = errors.New("tile blocked")
	ErrNoUnitAt         = errors.New("no retractable unit at tile")
)

// DeployZoneDepth is how many rows deep each side's deployment zone extends from
// its own baseline.
const DeployZoneDepth = 3

// DeployPhase schedules one deployment window: the tick it pauses the
// battle at and how many units each side may field during it.
type DeployPhase struct {
	TriggerTick int `yaml:"trigger_tick"`
	MaxUnits    int `yaml:"max_units"`
}

// DeploymentController runs the paused deployment windows. It mediates all
// roster changes while the battle is deploying; placement legality itself is
// still the battle's spawn validation.
type DeploymentController struct {
	phases   []DeployPhase
	phaseIdx int

	pool   map[string]int // player archetype budget across the whole battle
	aiPool map[string]int

	selected   string
	placed     []*Unit // player units placed this phase, retractable
	deployed   int     // player units placed this phase, net of retractions
	aiUsedRows map[int]bool
}

func newDeploymentController(cfg *Config) *DeploymentController {
	c := &DeploymentController{
		phases:     append([]DeployPhase(nil), cfg.Phases...),
		phaseIdx:   -1,
		pool:       make(map[string]int, len(cfg.PlayerPool)),
		aiPool:     make(map[string]int, len(cfg.EnemyPool)),
		aiUsedRows: make(map[int]bool),
	}
	for id, n := range cfg.PlayerPool {
		c.pool[id] = n
	}
	for id, n := range cfg.EnemyPool {
		c.aiPool[id] = n
	}
	return c
}

// Phase returns the current phase index, -1 before the first opens.
func (c *DeploymentController) Phase() int {
	return c.phaseIdx
}

// PoolRemaining returns a copy of the player's remaining archetype pool.
func (c *DeploymentController) PoolRemaining() map[string]int {
	out := make(map[string]int, len(c.pool))
	for id, n := range c.pool {
		out[id] = n
	}
	return out
}

// BudgetRemaining returns how many more units the player may place in the
// current phase.
func (c *DeploymentController) BudgetRemaining() int {
	if c.phaseIdx < 0 || c.phaseIdx >= len(c.phases) {
		return 0
	}
	return c.phases[c.phaseIdx].MaxUnits - c.deployed
}

// dueAt reports whether the next phase triggers at the given tick.
func (c *DeploymentController) dueAt(tick int) bool {
	next := c.phaseIdx + 1
	return next < len(c.phases) && c.phases[next].TriggerTick == tick
}

// openPhase pauses the battle for the next deployment window. The player's
// window stays open until ConfirmPhase; the enemy side deploys on confirm.
func (c *DeploymentController) openPhase(b *Battle) {
	c.phaseIdx++
	c.selected = ""
	c.placed = nil
	c.deployed = 0
	b.Status = StatusDeploying
	c.emitState(b)
}

// playerZone reports whether a footprint anchored at (x, y) lies entirely
// inside the player's deployment rows.
func (c *DeploymentController) playerZone(b *Battle, y int) bool {
	return y >= 0 && y < DeployZoneDepth && DeployZoneDepth <= b.Field.Height
}

// SelectArchetype marks which archetype subsequent placements use.
func (b *Battle) SelectArchetype(id string) error {
	c := b.Deployment
	if c == nil || b.Status != StatusDeploying {
		return ErrNotDeploying
	}
	if _, ok := b.archetypes[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownArchetype, id)
	}
	if c.pool[id] <= 0 {
		return fmt.Errorf("%w: %q", ErrPoolEmpty, id)
	}
	c.selected = id
	return nil
}

// PlaceAt places one unit of the selected archetype at (x, y) inside the
// player's deployment zone.
func (b *Battle) PlaceAt(x, y int) error {
	c := b.Deployment
	if c == nil || b.Status != StatusDeploying {
		return ErrNotDeploying
	}
	if c.selected == "" {
		return ErrNoSelection
	}
	if c.deployed >= c.phases[c.phaseIdx].MaxUnits {
		return ErrBudgetSpent
	}
	if c.pool[c.selected] <= 0 {
		return fmt.Errorf("%w: %q", ErrPoolEmpty, c.selected)
	}
	if !c.playerZone(b, y) {
		return fmt.Errorf("place at (%d,%d): %w", x, y, ErrOutOfZone)
	}
	u, err := b.SpawnUnit(c.selected, SidePlayer, x, y)
	if err != nil {
		return err
	}
	c.pool[c.selected]--
	c.deployed++
	c.placed = append(c.placed, u)
	c.emitState(b)
	return nil
}

// RemoveAt retracts a unit placed earlier in the current phase, refunding
// its pool entry and budget slot. Units from previous phases are committed
// and cannot be retracted.
func (b *Battle) RemoveAt(x, y int) error {
	c := b.Deployment
	if c == nil || b.Status != StatusDeploying {
		return ErrNotDeploying
	}
	u := b.UnitAt(x, y)
	if u == nil || u.Side != SidePlayer {
		return fmt.Errorf("remove at (%d,%d): %w", x, y, ErrNoUnitAt)
	}
	idx := -1
	for i, p := range c.placed {
		if p == u {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("remove at (%d,%d): %w", x, y, ErrNoUnitAt)
	}
	c.placed = append(c.placed[:idx], c.placed[idx+1:]...)
	c.pool[u.Archetype.ID]++
	c.deployed--
	b.removeUnit(u)
	c.emitState(b)
	return nil
}

// ConfirmPhase commits the player's placements, deploys the enemy side up
// to its own phase budget, and resumes combat. An unspent budget is
// forfeit, not carried forward.
func (b *Battle) ConfirmPhase() error {
	c := b.Deployment
	if c == nil || b.Status != StatusDeploying {
		return ErrNotDeploying
	}
	budget := c.phases[c.phaseIdx].MaxUnits
	for i := 0; i < budget; i++ {
		if !c.aiPlaceOne(b) {
			break
		}
	}
	c.selected = ""
	c.placed = nil
	b.Status = StatusFighting
	c.emitState(b)
	return nil
}

// AutoDeploy fills the player's budget for the current phase with random
// legal placements and confirms. Used by headless runs and tests.
func (b *Battle) AutoDeploy() error {
	c := b.Deployment
	if c == nil || b.Status != StatusDeploying {
		return ErrNotDeploying
	}
	for c.deployed < c.phases[c.phaseIdx].MaxUnits {
		if !c.randomPlace(b, SidePlayer, c.pool, 0, DeployZoneDepth-1) {
			break
		}
		c.deployed++
	}
	return b.ConfirmPhase()
}

// aiPlaceOne places one enemy unit in the enemy zone, preferring rows it
// has not used yet so the line spreads out.
func (c *DeploymentController) aiPlaceOne(b *Battle) bool {
	loRow := b.Field.Height - DeployZoneDepth
	hiRow := b.Field.Height - 1
	for y := loRow; y <= hiRow; y++ {
		if c.aiUsedRows[y] {
			continue
		}
		if c.randomPlace(b, SideEnemy, c.aiPool, y, y) {
			c.aiUsedRows[y] = true
			return true
		}
	}
	return c.randomPlace(b, SideEnemy, c.aiPool, loRow, hiRow)
}

// randomPlace spawns one unit of a random pooled archetype somewhere in the
// row band [loRow, hiRow], trying random anchors before falling back to an
// exhaustive scan. Decrements the pool on success.
func (c *DeploymentController) randomPlace(b *Battle, side Side, pool map[string]int, loRow, hiRow int) bool {
	ids := make([]string, 0, len(pool))
	for id, n := range pool {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return false
	}
	sort.Strings(ids)
	id := ids[b.rng.Intn(len(ids))]

	for attempt := 0; attempt < 16; attempt++ {
		x := b.rng.Intn(b.Field.Width)
		y := loRow + b.rng.Intn(hiRow-loRow+1)
		if _, err := b.SpawnUnit(id, side, x, y); err == nil {
			pool[id]--
			return true
		}
	}
	for y := loRow; y <= hiRow; y++ {
		for x := 0; x < b.Field.Width; x++ {
			if _, err := b.SpawnUnit(id, side, x, y); err == nil {
				pool[id]--
				return true
			}
		}
	}
	return false
}

func (c *DeploymentController) emitState(b *Battle) {
	b.Events.add(DeploymentStateChanged{
		Tick:      b.Tick,
		Phase:     c.phaseIdx,
		MaxUnits:  c.phases[c.phaseIdx].MaxUnits,
		Deployed:  c.deployed,
		Remaining: c.PoolRemaining(),
	})
}
