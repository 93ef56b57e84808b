package game

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Snake is one player's entity. Body[0] is the head.
type Snake struct {
	ID        string
	Name      string
	Color     string
	Body      []Cell
	Direction Direction
	Alive     bool
	Score     int

	SpeedBoost       bool
	BoostExpiry      time.Time
	Invincible       bool
	InvincibleExpiry time.Time

	// pending holds the latest accepted direction request until the next move.
	pending    Direction
	hasPending bool
}

// NewSnake creates a live, length-1 snake heading right.
func NewSnake(id, name, color string, spawn Cell) *Snake {
	return &Snake{
		ID:        id,
		Name:      name,
		Color:     color,
		Body:      []Cell{spawn},
		Direction: Right,
		Alive:     true,
	}
}

// Head returns the head cell.
func (s *Snake) Head() Cell {
	return s.Body[0]
}

// Len is the number of body segments.
func (s *Snake) Len() int {
	return len(s.Body)
}

// Occupies reports whether any segment, head included, lies on c.
func (s *Snake) Occupies(c Cell) bool {
	for _, seg := range s.Body {
		if seg == c {
			return true
		}
	}
	return false
}

// BodyHits reports whether a non-head segment lies on c.
func (s *Snake) BodyHits(c Cell) bool {
	for _, seg := range s.Body[1:] {
		if seg == c {
			return true
		}
	}
	return false
}

// SetDirection buffers a direction change for the next move. Invalid vectors
// and the exact reverse of the current heading are rejected.
func (s *Snake) SetDirection(d Direction) bool {
	if !d.Valid() || s.Direction.Opposite(d) {
		return false
	}
	s.pending = d
	s.hasPending = true
	return true
}

// PendingDirection returns the buffered direction, if any.
func (s *Snake) PendingDirection() (Direction, bool) {
	return s.pending, s.hasPending
}

// SetName trims and truncates name to MaxNameRunes. Empty names are ignored.
func (s *Snake) SetName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if utf8.RuneCountInString(name) > MaxNameRunes {
		name = string([]rune(name)[:MaxNameRunes])
	}
	s.Name = name
	return true
}

// Move advances the head one cell and drops the tail.
func (s *Snake) Move(g Grid, now time.Time) {
	if !s.Alive {
		return
	}
	s.expire(now)

	if s.hasPending {
		s.Direction = s.pending
		s.hasPending = false
	}

	head := g.Step(s.Head(), s.Direction)
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = head
}

func (s *Snake) expire(now time.Time) {
	if s.SpeedBoost && now.After(s.BoostExpiry) {
		s.SpeedBoost = false
	}
	if s.Invincible && now.After(s.InvincibleExpiry) {
		s.Invincible = false
	}
}

// Grow appends a copy of the tail and awards GrowScore.
func (s *Snake) Grow() {
	if !s.Alive {
		return
	}
	s.Body = append(s.Body, s.Body[len(s.Body)-1])
	s.Score += GrowScore
}

// ActivateSpeedBoost raises the speed flag for SpeedBoostDuration.
func (s *Snake) ActivateSpeedBoost(now time.Time) {
	s.SpeedBoost = true
	s.BoostExpiry = now.Add(SpeedBoostDuration)
}

// ActivateInvincibility makes s immune to collisions for InvincibleDuration.
func (s *Snake) ActivateInvincibility(now time.Time) {
	s.Invincible = true
	s.InvincibleExpiry = now.Add(InvincibleDuration)
}
