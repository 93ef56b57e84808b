package game

import (
	"math/rand"
	"time"
)

// PowerUpKind selects the effect applied on pickup.
type PowerUpKind string

const (
	PowerUpFood       PowerUpKind = "food"
	PowerUpSpeed      PowerUpKind = "speed"
	PowerUpInvincible PowerUpKind = "invincible"
)

var powerUpKinds = []PowerUpKind{PowerUpFood, PowerUpSpeed, PowerUpInvincible}

// PowerUp is a time-limited pickup.
type PowerUp struct {
	Kind      PowerUpKind
	Pos       Cell
	SpawnTime time.Time
	Duration  time.Duration
}

// NewPowerUp creates a power-up of uniformly random kind at pos.
func NewPowerUp(rng *rand.Rand, pos Cell, now time.Time) *PowerUp {
	return &PowerUp{
		Kind:      powerUpKinds[rng.Intn(len(powerUpKinds))],
		Pos:       pos,
		SpawnTime: now,
		Duration:  PowerUpLifetime,
	}
}

// Active reports whether the power-up is still within its lifetime.
func (p *PowerUp) Active(now time.Time) bool {
	return now.Sub(p.SpawnTime) < p.Duration
}

// Apply grants the power-up's effect to s.
func (p *PowerUp) Apply(s *Snake, now time.Time) {
	switch p.Kind {
	case PowerUpFood:
		s.Grow()
		s.Grow()
	case PowerUpSpeed:
		s.ActivateSpeedBoost(now)
	case PowerUpInvincible:
		s.ActivateInvincibility(now)
	}
}
