package game

import "time"

// Scoring and timing rules of the simulation.
const (
	GrowScore    = 100
	HeadOnBonus  = 500
	MaxNameRunes = 15

	SpeedBoostDuration   = 5 * time.Second
	InvincibleDuration   = 3 * time.Second
	PowerUpLifetime      = 8 * time.Second
	PowerUpSpawnCooldown = 15 * time.Second
	PowerUpSpawnChance   = 0.3

	spawnInset           = 5
	itemInset            = 1
	maxPlacementAttempts = 1000
)
