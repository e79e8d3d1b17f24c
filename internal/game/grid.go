package game

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// FootprintTiles returns the tiles covered by a footprint of the given size
// anchored at (x, y). A unit of size s occupies [x, x+s-1] x [y].
// Malformed sizes yield an empty footprint.
func FootprintTiles(x, y, size int) []Point {
	if size < 1 {
		return nil
	}
	tiles := make([]Point, size)
	for i := 0; i < size; i++ {
		tiles[i] = Point{X: x + i, Y: y}
	}
	return tiles
}

// footprintsOverlap reports whether two footprints share any tile.
func footprintsOverlap(ax, ay, asize, bx, by, bsize int) bool {
	if ay != by {
		return false
	}
	return ax <= bx+bsize-1 && bx <= ax+asize-1
}

// IsTileOccupied reports whether any living unit's footprint covers (x, y).
// exclude may be nil.
func IsTileOccupied(x, y int, units []*Unit, exclude *Unit) bool {
	for _, u := range units {
		if u == exclude || !u.Alive() {
			continue
		}
		if footprintsOverlap(u.X, u.Y, u.Size(), x, y, 1) {
			return true
		}
	}
	return false
}

// CanFitAt reports whether a footprint of the given size fits at (x, y)
// inside a width x height grid without overlapping a living unit.
func CanFitAt(size, x, y, width, height int, units []*Unit, exclude *Unit) bool {
	if size < 1 {
		return false
	}
	if x < 0 || y < 0 || x+size-1 >= width || y >= height {
		return false
	}
	for _, u := range units {
		if u == exclude || !u.Alive() {
			continue
		}
		if footprintsOverlap(u.X, u.Y, u.Size(), x, y, size) {
			return false
		}
	}
	return true
}

// CanFitOnTerrain is CanFitAt with terrain awareness: every footprint tile
// must also be walkable.
func CanFitOnTerrain(bf *Battlefield, size, x, y int, units []*Unit, exclude *Unit) bool {
	if !CanFitAt(size, x, y, bf.Width, bf.Height, units, exclude) {
		return false
	}
	for i := 0; i < size; i++ {
		if !bf.IsWalkable(x+i, y) {
			return false
		}
	}
	return true
}

// axisGap returns the number of tiles strictly between the ranges
// [alo, ahi] and [blo, bhi]; overlapping or touching ranges contribute 0.
func axisGap(alo, ahi, blo, bhi int) int {
	if ahi < blo {
		return blo - ahi - 1
	}
	if bhi < alo {
		return alo - bhi - 1
	}
	return 0
}

// UnitDistance is the edge-to-edge Manhattan distance between two unit
// footprints: the tiles a unit must cross along each cardinal axis to become
// adjacent. Adjacent footprints measure 0, so an attack of range r is legal
// when UnitDistance < r.
func UnitDistance(a, b *Unit) int {
	dx := axisGap(a.X, a.X+a.Size()-1, b.X, b.X+b.Size()-1)
	dy := axisGap(a.Y, a.Y, b.Y, b.Y)
	return dx + dy
}

// ChebyshevDistance is the radius-style tile distance between two points.
func ChebyshevDistance(x0, y0, x1, y1 int) int {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	if dx > dy {
		return dx
	}
	return dy
}

// unitChebyshev is the edge-to-edge Chebyshev distance between footprints,
// used for radius checks such as vision.
func unitChebyshev(a, b *Unit) int {
	dx := axisGap(a.X, a.X+a.Size()-1, b.X, b.X+b.Size()-1)
	dy := axisGap(a.Y, a.Y, b.Y, b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
