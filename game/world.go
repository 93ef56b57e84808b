package game

import (
	"fmt"
	"math/rand"
	"time"
)

// Options configures a new World.
type Options struct {
	Grid  Grid
	Level int
	Rand  *rand.Rand
	Now   time.Time
}

// World is the complete simulation state of one arena. It is not safe for
// concurrent use; a single owner drives it.
type World struct {
	Grid  Grid
	Level int
	Tick  uint64

	Food               Cell
	LastFoodSpawn      time.Time
	LastPowerUpAttempt time.Time

	snakes   map[string]*Snake
	order    []string
	walls    []Cell
	wallSet  map[Cell]struct{}
	powerUps []*PowerUp
	rng      *rand.Rand

	// foodStale is set while the food could not be moved after being eaten.
	foodStale bool
}

// NewWorld generates the walls for opts.Level and places the first food.
func NewWorld(opts Options) (*World, error) {
	if opts.Grid.Width <= 0 || opts.Grid.Height <= 0 {
		return nil, fmt.Errorf("game: invalid grid %dx%d", opts.Grid.Width, opts.Grid.Height)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}
	level := opts.Level
	if level < 1 {
		level = 1
	}

	w := &World{
		Grid:               opts.Grid,
		Level:              level,
		LastFoodSpawn:      opts.Now,
		LastPowerUpAttempt: opts.Now,
		snakes:             make(map[string]*Snake),
		wallSet:            make(map[Cell]struct{}),
		rng:                rng,
	}
	w.walls = GenerateWalls(w.Grid, level, rng)
	for _, c := range w.walls {
		w.wallSet[c] = struct{}{}
	}

	food, err := w.PlaceItem(opts.Now)
	if err != nil {
		return nil, fmt.Errorf("game: place initial food: %w", err)
	}
	w.Food = food
	return w, nil
}

// IsWall reports whether c is a wall cell.
func (w *World) IsWall(c Cell) bool {
	_, ok := w.wallSet[c]
	return ok
}

// Walls returns the static wall cells.
func (w *World) Walls() []Cell {
	return w.walls
}

// PowerUps returns the power-ups currently on the board, expired ones included
// until the next purge.
func (w *World) PowerUps() []*PowerUp {
	return w.powerUps
}

// Snake looks up a snake by id.
func (w *World) Snake(id string) (*Snake, bool) {
	s, ok := w.snakes[id]
	return s, ok
}

// Snakes returns every snake, dead or alive, in join order.
func (w *World) Snakes() []*Snake {
	out := make([]*Snake, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.snakes[id])
	}
	return out
}

// NumSnakes is the size of the player set.
func (w *World) NumSnakes() int {
	return len(w.snakes)
}

// Spawn places a new snake through the placement oracle and adds it.
func (w *World) Spawn(id, name, color string) (*Snake, error) {
	if _, exists := w.snakes[id]; exists {
		return nil, fmt.Errorf("game: snake %s already exists", id)
	}
	pos, err := w.PlaceSpawn()
	if err != nil {
		return nil, err
	}
	s := NewSnake(id, name, color, pos)
	w.snakes[id] = s
	w.order = append(w.order, id)
	return s, nil
}

// Remove deletes a snake entirely. Removing an unknown or dead snake is safe.
func (w *World) Remove(id string) bool {
	if _, ok := w.snakes[id]; !ok {
		return false
	}
	delete(w.snakes, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

func (w *World) liveSnakes() []*Snake {
	out := make([]*Snake, 0, len(w.order))
	for _, id := range w.order {
		if s := w.snakes[id]; s.Alive {
			out = append(out, s)
		}
	}
	return out
}
