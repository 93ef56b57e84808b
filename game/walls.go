package game

import "math/rand"

// GenerateWalls lays out the static walls for a difficulty level. Level 1 is
// an empty board; 2 adds a gapped center row, 3 a bordered room with door
// gaps and 5 scatters maze pillars at random.
func GenerateWalls(g Grid, level int, rng *rand.Rand) []Cell {
	seen := make(map[Cell]struct{})
	var walls []Cell
	add := func(c Cell) {
		if !g.Contains(c) {
			return
		}
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		walls = append(walls, c)
	}

	if level >= 2 {
		centerY := g.Height / 2
		for x := g.Width/2 - 8; x < g.Width/2+8; x++ {
			if x%4 != 0 {
				add(Cell{X: x, Y: centerY})
			}
		}
	}

	if level >= 3 {
		for x := 0; x < g.Width; x++ {
			if x%8 != 0 {
				add(Cell{X: x, Y: 0})
				add(Cell{X: x, Y: g.Height - 1})
			}
		}
		for y := 0; y < g.Height; y++ {
			if y%8 != 0 {
				add(Cell{X: 0, Y: y})
				add(Cell{X: g.Width - 1, Y: y})
			}
		}
	}

	if level == 5 {
		for x := 5; x < g.Width-5; x += 10 {
			for y := 5; y < g.Height-5; y += 8 {
				if rng.Float64() > 0.5 {
					add(Cell{X: x, Y: y})
				}
			}
		}
	}

	return walls
}
