package game

// ClearSightLine reports whether no intermediate tile between (x0, y0) and
// (x1, y1) blocks vision. Both endpoints are excluded from the walk.
func ClearSightLine(bf *Battlefield, x0, y0, x1, y1 int) bool {
	return traceLine(bf, x0, y0, x1, y1, TerrainKind.blocksVision)
}

// ClearProjectilePath reports whether a ranged attack can travel between
// (x0, y0) and (x1, y1) without hitting projectile-blocking terrain.
func ClearProjectilePath(bf *Battlefield, x0, y0, x1, y1 int) bool {
	return traceLine(bf, x0, y0, x1, y1, TerrainKind.blocksProjectiles)
}

func (k TerrainKind) blocksVision() bool      { return k.BlocksVision }
func (k TerrainKind) blocksProjectiles() bool { return k.BlocksProjectiles }

// traceLine walks the Bresenham line between two tile centers, excluding
// both endpoints, and returns false as soon as an intermediate tile is
// blocked. Called every tick for every live unit pair: it is total and
// never faults on out-of-range input (such tiles read as ground).
func traceLine(bf *Battlefield, x0, y0, x1, y1 int, blocked func(TerrainKind) bool) bool {
	x, y := x0, y0
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)
	err := dx + dy

	for {
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == x1 && y == y1 {
			return true // endpoint is not tested
		}
		if blocked(bf.KindAt(x, y)) {
			return false
		}
	}
}
