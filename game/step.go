package game

import "time"

// StepReport summarises what happened during one tick.
type StepReport struct {
	Tick           uint64
	Deaths         []Death
	FoodEaten      []string
	Claims         []Claim
	Purged         int
	SpawnedPowerUp *PowerUp
	// PlacementErrs holds placement failures; the tick still completes.
	PlacementErrs []error
}

// Step advances the world by one tick at time now: movement, collision
// resolution, food and power-up pickups, purge of expired power-ups and the
// power-up spawn attempt.
func (w *World) Step(now time.Time) StepReport {
	w.Tick++
	report := StepReport{Tick: w.Tick}

	live := w.liveSnakes()
	for _, s := range live {
		s.Move(w.Grid, now)
	}

	collisions := ResolveCollisions(live, w.wallSet)
	report.Deaths = collisions.Deaths

	eaters, err := w.resolveFood(now)
	report.FoodEaten = eaters
	if err != nil {
		report.PlacementErrs = append(report.PlacementErrs, err)
	}

	report.Claims = w.resolvePowerUps(now)
	report.Purged = w.purgePowerUps(now)

	spawned, err := w.trySpawnPowerUp(now)
	report.SpawnedPowerUp = spawned
	if err != nil {
		report.PlacementErrs = append(report.PlacementErrs, err)
	}

	return report
}
