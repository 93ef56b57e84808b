package game

import (
	"errors"
	"time"
)

// ErrNoSpace is returned when no free cell exists in the requested region.
var ErrNoSpace = errors.New("game: no free cell available")

type occupancy map[Cell]struct{}

func (o occupancy) has(c Cell) bool {
	_, ok := o[c]
	return ok
}

// occupancy collects walls and every snake segment, plus active power-ups
// when withPowerUps is set.
func (w *World) occupancy(withPowerUps bool, now time.Time) occupancy {
	occ := make(occupancy, len(w.wallSet)+len(w.powerUps)+4*len(w.snakes))
	for c := range w.wallSet {
		occ[c] = struct{}{}
	}
	for _, s := range w.snakes {
		for _, seg := range s.Body {
			occ[seg] = struct{}{}
		}
	}
	if withPowerUps {
		for _, p := range w.powerUps {
			if p.Active(now) {
				occ[p.Pos] = struct{}{}
			}
		}
	}
	return occ
}

// PlaceItem finds a free interior cell for food or a power-up.
func (w *World) PlaceItem(now time.Time) (Cell, error) {
	return w.sample(w.occupancy(true, now), itemInset)
}

// PlaceSpawn finds a starting cell for a new snake. The four quadrant anchors
// are tried first, in order top-left, top-right, bottom-left, bottom-right.
func (w *World) PlaceSpawn() (Cell, error) {
	occ := w.occupancy(false, time.Time{})
	for _, c := range w.spawnAnchors() {
		if w.Grid.Contains(c) && !occ.has(c) {
			return c, nil
		}
	}
	return w.sample(occ, spawnInset)
}

func (w *World) spawnAnchors() []Cell {
	right := w.Grid.Width - 1 - spawnInset
	bottom := w.Grid.Height - 1 - spawnInset
	return []Cell{
		{X: spawnInset, Y: spawnInset},
		{X: right, Y: spawnInset},
		{X: spawnInset, Y: bottom},
		{X: right, Y: bottom},
	}
}

// sample draws uniformly from the region inset cells away from every edge.
// After maxPlacementAttempts misses it scans the region and picks among the
// free cells, so a packed board yields ErrNoSpace instead of spinning.
func (w *World) sample(occ occupancy, inset int) (Cell, error) {
	spanX := w.Grid.Width - 2*inset
	spanY := w.Grid.Height - 2*inset
	if spanX <= 0 || spanY <= 0 {
		return Cell{}, ErrNoSpace
	}

	for i := 0; i < maxPlacementAttempts; i++ {
		c := Cell{X: w.rng.Intn(spanX) + inset, Y: w.rng.Intn(spanY) + inset}
		if !occ.has(c) {
			return c, nil
		}
	}

	var free []Cell
	for y := inset; y < inset+spanY; y++ {
		for x := inset; x < inset+spanX; x++ {
			c := Cell{X: x, Y: y}
			if !occ.has(c) {
				free = append(free, c)
			}
		}
	}
	if len(free) == 0 {
		return Cell{}, ErrNoSpace
	}
	return free[w.rng.Intn(len(free))], nil
}
