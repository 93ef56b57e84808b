package game

import (
	"math/rand"
	"testing"
	"time"
)

var epoch = time.Unix(1_700_000_000, 0)

func newTestWorld(t *testing.T, level int) *World {
	t.Helper()
	w, err := NewWorld(Options{
		Grid:  Grid{Width: 53, Height: 40},
		Level: level,
		Rand:  rand.New(rand.NewSource(42)),
		Now:   epoch,
	})
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

// putSnake adds a live snake with an explicit body and heading.
func putSnake(w *World, id string, dir Direction, body ...Cell) *Snake {
	s := NewSnake(id, id, "#FFFFFF", body[0])
	s.Body = append([]Cell(nil), body...)
	s.Direction = dir
	w.snakes[id] = s
	w.order = append(w.order, id)
	return s
}

func line(head Cell, tailward Direction, n int) []Cell {
	body := make([]Cell, n)
	for i := range body {
		body[i] = Cell{X: head.X + i*tailward.X, Y: head.Y + i*tailward.Y}
	}
	return body
}
