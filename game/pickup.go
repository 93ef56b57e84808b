package game

import "time"

// Claim records a power-up picked up by a snake.
type Claim struct {
	SnakeID string
	Kind    PowerUpKind
	Pos     Cell
}

// resolveFood grows every live snake whose head sits on the food and moves
// the food elsewhere. If no free cell exists the food is marked stale: it
// cannot be eaten, and relocation is retried at the start of every later
// tick until a cell frees up.
func (w *World) resolveFood(now time.Time) ([]string, error) {
	if w.foodStale {
		if err := w.relocateFood(now); err != nil {
			return nil, err
		}
	}

	var eaters []string
	for _, s := range w.liveSnakes() {
		if s.Head() != w.Food {
			continue
		}
		s.Grow()
		eaters = append(eaters, s.ID)
	}
	if len(eaters) == 0 {
		return nil, nil
	}
	return eaters, w.relocateFood(now)
}

func (w *World) relocateFood(now time.Time) error {
	pos, err := w.PlaceItem(now)
	if err != nil {
		w.foodStale = true
		return err
	}
	w.Food = pos
	w.LastFoodSpawn = now
	w.foodStale = false
	return nil
}

// FoodStale reports whether the food is waiting for a free cell.
func (w *World) FoodStale() bool {
	return w.foodStale
}

// resolvePowerUps hands each active power-up to the first live snake whose
// head covers it and removes it from the board.
func (w *World) resolvePowerUps(now time.Time) []Claim {
	var claims []Claim
	live := w.liveSnakes()
	kept := w.powerUps[:0]
	for _, p := range w.powerUps {
		claimed := false
		if p.Active(now) {
			for _, s := range live {
				if s.Head() == p.Pos {
					p.Apply(s, now)
					claims = append(claims, Claim{SnakeID: s.ID, Kind: p.Kind, Pos: p.Pos})
					claimed = true
					break
				}
			}
		}
		if !claimed {
			kept = append(kept, p)
		}
	}
	w.powerUps = kept
	return claims
}

// purgePowerUps drops power-ups whose lifetime has elapsed.
func (w *World) purgePowerUps(now time.Time) int {
	kept := w.powerUps[:0]
	for _, p := range w.powerUps {
		if p.Active(now) {
			kept = append(kept, p)
		}
	}
	purged := len(w.powerUps) - len(kept)
	w.powerUps = kept
	return purged
}

// trySpawnPowerUp runs the spawn attempt once the cooldown has elapsed. The
// cooldown restarts on every attempt, successful or not.
func (w *World) trySpawnPowerUp(now time.Time) (*PowerUp, error) {
	if now.Sub(w.LastPowerUpAttempt) <= PowerUpSpawnCooldown {
		return nil, nil
	}
	w.LastPowerUpAttempt = now
	if w.rng.Float64() >= PowerUpSpawnChance {
		return nil, nil
	}
	pos, err := w.PlaceItem(now)
	if err != nil {
		return nil, err
	}
	p := NewPowerUp(w.rng, pos, now)
	w.powerUps = append(w.powerUps, p)
	return p, nil
}
