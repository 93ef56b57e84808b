package server

import (
	"snake-server/config"
)

// Spectator receives one JSON-encoded snapshot per tick without controlling a
// snake. C is closed when the spectator is unsubscribed or the arena stops.
type Spectator struct {
	C chan []byte
}

// Subscribe registers a new spectator.
func (a *Arena) Subscribe() (*Spectator, error) {
	sub := &Spectator{C: make(chan []byte, config.SpectatorBuffer)}
	if err := a.submit(subscribeCmd{sub: sub}); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe detaches sub. Its channel is closed by the arena.
func (a *Arena) Unsubscribe(sub *Spectator) {
	_ = a.submit(unsubscribeCmd{sub: sub})
}
