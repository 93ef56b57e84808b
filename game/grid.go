package game

// Cell is a single grid coordinate.
type Cell struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// Direction is a unit step along one axis.
type Direction struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

var (
	Up    = Direction{X: 0, Y: -1}
	Down  = Direction{X: 0, Y: 1}
	Left  = Direction{X: -1, Y: 0}
	Right = Direction{X: 1, Y: 0}
)

// Valid reports whether d is one of Up, Down, Left or Right.
func (d Direction) Valid() bool {
	return d == Up || d == Down || d == Left || d == Right
}

// Opposite reports whether o points exactly against d.
func (d Direction) Opposite(o Direction) bool {
	return d.X == -o.X && d.Y == -o.Y
}

// Grid is a toroidal board: stepping off one edge lands on the opposite edge.
type Grid struct {
	Width  int `json:"width" msgpack:"width"`
	Height int `json:"height" msgpack:"height"`
}

// Contains reports whether c lies inside [0,Width) x [0,Height).
func (g Grid) Contains(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// Wrap folds any coordinate back onto the board.
func (g Grid) Wrap(c Cell) Cell {
	return Cell{X: mod(c.X, g.Width), Y: mod(c.Y, g.Height)}
}

// Step returns the cell one move from c along d.
func (g Grid) Step(c Cell, d Direction) Cell {
	return g.Wrap(Cell{X: c.X + d.X, Y: c.Y + d.Y})
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
