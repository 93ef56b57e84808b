package game

// DeathCause names what killed a snake.
type DeathCause string

const (
	CauseWall   DeathCause = "wall"
	CauseSelf   DeathCause = "self"
	CauseSnake  DeathCause = "snake"
	CauseHeadOn DeathCause = "head-on"
)

// Death records one snake killed during a tick. KillerID is empty for wall
// and self collisions, and for equal-length head-on clashes.
type Death struct {
	SnakeID  string
	Cause    DeathCause
	KillerID string
}

// CollisionReport is the outcome of one resolution pass.
type CollisionReport struct {
	Deaths  []Death
	Bonuses map[string]int
}

// ResolveCollisions checks every live snake's head against walls, its own
// body and every other live snake. All checks read the post-move positions;
// deaths and bonuses are applied only after the whole scan, so the order in
// which snakes are visited never changes who was hit.
func ResolveCollisions(live []*Snake, walls map[Cell]struct{}) CollisionReport {
	report := CollisionReport{Bonuses: make(map[string]int)}
	dead := make(map[string]bool)
	headOn := make(map[[2]string]bool)

	kill := func(s *Snake, cause DeathCause, killer string) {
		if dead[s.ID] {
			return
		}
		dead[s.ID] = true
		report.Deaths = append(report.Deaths, Death{SnakeID: s.ID, Cause: cause, KillerID: killer})
	}

	for _, a := range live {
		head := a.Head()

		if _, hit := walls[head]; hit && !a.Invincible {
			kill(a, CauseWall, "")
			continue
		}
		if a.BodyHits(head) && !a.Invincible {
			kill(a, CauseSelf, "")
			continue
		}

		for _, b := range live {
			if a == b || !b.Occupies(head) {
				continue
			}

			switch {
			case a.Invincible && b.Invincible:
			case a.Invincible:
				kill(b, CauseSnake, a.ID)
			case b.Invincible:
				kill(a, CauseSnake, b.ID)
			case head == b.Head():
				key := pairKey(a.ID, b.ID)
				if headOn[key] {
					break
				}
				headOn[key] = true
				switch {
				case a.Len() > b.Len():
					kill(b, CauseHeadOn, a.ID)
					report.Bonuses[a.ID] += HeadOnBonus
				case a.Len() < b.Len():
					kill(a, CauseHeadOn, b.ID)
					report.Bonuses[b.ID] += HeadOnBonus
				default:
					kill(a, CauseHeadOn, "")
					kill(b, CauseHeadOn, "")
				}
			default:
				kill(a, CauseSnake, b.ID)
			}
			break
		}
	}

	for _, s := range live {
		if dead[s.ID] {
			s.Alive = false
		}
		s.Score += report.Bonuses[s.ID]
	}
	return report
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}
