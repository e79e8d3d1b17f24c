package game

// visionFadeTiles is the soft edge past the vision radius: visibility fades
// linearly from 1.0 at the radius to 0.0 at radius + visionFadeTiles.
const visionFadeTiles = 1.5

// Visibility returns how well the observer sees the target, in [0, 1].
// Full visibility inside the vision radius, a linear fade across the soft
// edge, and 0 beyond it or when terrain blocks every sight line. A target is
// considered visible for targeting purposes at any non-zero visibility.
func Visibility(bf *Battlefield, observer, target *Unit) float64 {
	if target == nil || !target.Alive() {
		return 0
	}
	d := float64(unitChebyshev(observer, target))
	radius := observer.Archetype.Vision

	var vis float64
	switch {
	case d <= radius:
		vis = 1
	case d < radius+visionFadeTiles:
		vis = (radius + visionFadeTiles - d) / visionFadeTiles
	default:
		return 0
	}
	if !sightLineBetween(bf, observer, target) {
		return 0
	}
	return vis
}

// sightLineBetween reports whether any tile of the target footprint is in
// clear sight of the observer anchor.
func sightLineBetween(bf *Battlefield, observer, target *Unit) bool {
	for _, t := range target.Footprint() {
		if ClearSightLine(bf, observer.X, observer.Y, t.X, t.Y) {
			return true
		}
	}
	return false
}

// projectilePathBetween reports whether a ranged attack from the observer
// anchor can reach any tile of the target footprint.
func projectilePathBetween(bf *Battlefield, attacker, target *Unit) bool {
	for _, t := range target.Footprint() {
		if ClearProjectilePath(bf, attacker.X, attacker.Y, t.X, t.Y) {
			return true
		}
	}
	return false
}

// NearestVisibleEnemy returns the closest living enemy with non-zero
// visibility, measured by UnitDistance. Ties keep the earlier unit in input
// order, which keeps targeting deterministic for a fixed roster.
func NearestVisibleEnemy(bf *Battlefield, u *Unit, units []*Unit) *Unit {
	var best *Unit
	bestDist := 0
	for _, other := range units {
		if other == u || !other.Alive() || other.Side == u.Side {
			continue
		}
		if Visibility(bf, u, other) <= 0 {
			continue
		}
		d := UnitDistance(u, other)
		if best == nil || d < bestDist {
			best = other
			bestDist = d
		}
	}
	return best
}
