package game

import "time"

// Snapshot is the full replicated state sent to clients after every tick.
type Snapshot struct {
	Tick     uint64                 `json:"tick" msgpack:"tick"`
	Grid     Grid                   `json:"grid" msgpack:"grid"`
	Level    int                    `json:"level" msgpack:"level"`
	Players  map[string]PlayerState `json:"players" msgpack:"players"`
	Food     Cell                   `json:"food" msgpack:"food"`
	Walls    []Cell                 `json:"walls" msgpack:"walls"`
	PowerUps []PowerUpState         `json:"powerups" msgpack:"powerups"`
}

// PlayerState is one snake as seen by clients.
type PlayerState struct {
	ID         string    `json:"id" msgpack:"id"`
	Name       string    `json:"name" msgpack:"name"`
	Color      string    `json:"color" msgpack:"color"`
	Body       []Cell    `json:"body" msgpack:"body"`
	Direction  Direction `json:"direction" msgpack:"direction"`
	Alive      bool      `json:"alive" msgpack:"alive"`
	Score      int       `json:"score" msgpack:"score"`
	SpeedBoost bool      `json:"speedBoost" msgpack:"speedBoost"`
	Invincible bool      `json:"invincible" msgpack:"invincible"`
}

// PowerUpState is one active power-up as seen by clients.
type PowerUpState struct {
	Type      PowerUpKind `json:"type" msgpack:"type"`
	Pos       Cell        `json:"pos" msgpack:"pos"`
	ExpiresIn float64     `json:"expiresIn" msgpack:"expiresIn"` // seconds
}

// State copies s into its client-facing form as of now. Timed flags past
// their expiry read false even if no move has cleared them yet.
func (s *Snake) State(now time.Time) PlayerState {
	body := make([]Cell, len(s.Body))
	copy(body, s.Body)
	return PlayerState{
		ID:         s.ID,
		Name:       s.Name,
		Color:      s.Color,
		Body:       body,
		Direction:  s.Direction,
		Alive:      s.Alive,
		Score:      s.Score,
		SpeedBoost: s.SpeedBoost && !now.After(s.BoostExpiry),
		Invincible: s.Invincible && !now.After(s.InvincibleExpiry),
	}
}

// Snapshot captures the complete world. The result shares no memory with w.
func (w *World) Snapshot(now time.Time) Snapshot {
	snap := Snapshot{
		Tick:     w.Tick,
		Grid:     w.Grid,
		Level:    w.Level,
		Players:  make(map[string]PlayerState, len(w.snakes)),
		Food:     w.Food,
		Walls:    make([]Cell, len(w.walls)),
		PowerUps: make([]PowerUpState, 0, len(w.powerUps)),
	}
	copy(snap.Walls, w.walls)
	for id, s := range w.snakes {
		snap.Players[id] = s.State(now)
	}
	for _, p := range w.powerUps {
		if !p.Active(now) {
			continue
		}
		snap.PowerUps = append(snap.PowerUps, PowerUpState{
			Type:      p.Kind,
			Pos:       p.Pos,
			ExpiresIn: (p.Duration - now.Sub(p.SpawnTime)).Seconds(),
		})
	}
	return snap
}
