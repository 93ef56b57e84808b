package server

import (
	"fmt"
	"sort"
	"sync"

	"snake-server/config"
	"snake-server/logger"
)

// ArenaManager owns every configured arena.
type ArenaManager struct {
	arenas    map[string]*Arena
	defaultID string
	mu        sync.RWMutex
}

// NewArenaManager builds one arena per config entry. The first entry is the
// default arena for clients that do not name one.
func NewArenaManager(cfgs []config.ArenaConfig, opts ...ArenaOption) (*ArenaManager, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("server: no arenas configured")
	}
	m := &ArenaManager{arenas: make(map[string]*Arena, len(cfgs)), defaultID: cfgs[0].ID}
	for _, cfg := range cfgs {
		if _, dup := m.arenas[cfg.ID]; dup {
			return nil, fmt.Errorf("server: duplicate arena %q", cfg.ID)
		}
		a, err := NewArena(cfg, opts...)
		if err != nil {
			return nil, err
		}
		m.arenas[cfg.ID] = a
	}
	return m, nil
}

// Start launches every arena loop.
func (m *ArenaManager) Start() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.arenas {
		go a.Run()
	}
	logger.Log.WithField("arenas", len(m.arenas)).Info("Arenas started")
}

// Get returns the arena with id, or the default arena when id is empty.
func (m *ArenaManager) Get(id string) (*Arena, error) {
	if id == "" {
		id = m.defaultID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.arenas[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownArena, id)
	}
	return a, nil
}

// Arenas returns all arenas ordered by id.
func (m *ArenaManager) Arenas() []*Arena {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Arena, 0, len(m.arenas))
	for _, a := range m.arenas {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Stats collects the latest stats of every arena.
func (m *ArenaManager) Stats() []ArenaStats {
	arenas := m.Arenas()
	out := make([]ArenaStats, len(arenas))
	for i, a := range arenas {
		out[i] = a.Stats()
	}
	return out
}

// StopAll stops every arena loop.
func (m *ArenaManager) StopAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.arenas {
		a.Stop()
	}
	logger.Log.Info("All arenas stopped")
}
