package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"snake-server/config"
	"snake-server/game"
	"snake-server/logger"
	"snake-server/protocol"
)

var (
	ErrArenaClosed  = errors.New("server: arena closed")
	ErrUnknownArena = errors.New("server: unknown arena")
)

// ArenaStats is a point-in-time view of an arena, refreshed after every tick.
type ArenaStats struct {
	ID               string        `json:"id"`
	Level            int           `json:"level"`
	Tick             uint64        `json:"tick"`
	Players          int           `json:"players"`
	Alive            int           `json:"alive"`
	PowerUps         int           `json:"powerups"`
	Spectators       int           `json:"spectators"`
	Deaths           uint64        `json:"deaths"`
	DroppedFrames    uint64        `json:"dropped_frames"`
	LastTickDuration time.Duration `json:"last_tick_ns"`
	StartedAt        time.Time     `json:"started_at"`
}

// Arena is one running game. A single goroutine (Run) owns the world: client
// intents, joins and leaves arrive through the inbox and are applied between
// ticks, so the simulation never observes a half-applied change.
type Arena struct {
	ID    string
	Level int

	world      *game.World
	inbox      chan any
	clients    map[string]*WebSocketClient
	spectators map[*Spectator]struct{}
	joined     int
	deaths     uint64
	dropped    uint64

	interval time.Duration
	clock    func() time.Time
	rng      *rand.Rand

	done      chan struct{}
	closeOnce sync.Once

	statsMu sync.RWMutex
	stats   ArenaStats

	log *logrus.Entry
}

// ArenaOption customises a new Arena.
type ArenaOption func(*Arena)

// WithClock replaces time.Now as the simulation clock.
func WithClock(clock func() time.Time) ArenaOption {
	return func(a *Arena) { a.clock = clock }
}

// WithRand seeds wall, food and power-up randomness.
func WithRand(rng *rand.Rand) ArenaOption {
	return func(a *Arena) { a.rng = rng }
}

// WithTickInterval overrides config.TICK_INTERVAL.
func WithTickInterval(d time.Duration) ArenaOption {
	return func(a *Arena) { a.interval = d }
}

// NewArena builds the world for cfg. Call Run to start ticking.
func NewArena(cfg config.ArenaConfig, opts ...ArenaOption) (*Arena, error) {
	a := &Arena{
		ID:         cfg.ID,
		Level:      cfg.Level,
		inbox:      make(chan any, config.ArenaInboxSize),
		clients:    make(map[string]*WebSocketClient),
		spectators: make(map[*Spectator]struct{}),
		interval:   config.TICK_INTERVAL,
		clock:      time.Now,
		done:       make(chan struct{}),
		log:        logger.Log.WithField("arena", cfg.ID),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	now := a.clock()
	world, err := game.NewWorld(game.Options{
		Grid:  game.Grid{Width: config.GRID_WIDTH, Height: config.GRID_HEIGHT},
		Level: cfg.Level,
		Rand:  a.rng,
		Now:   now,
	})
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", cfg.ID, err)
	}
	a.world = world
	a.stats = ArenaStats{ID: a.ID, Level: world.Level, StartedAt: now}
	a.log.WithFields(logrus.Fields{"level": world.Level, "walls": len(world.Walls())}).Info("Arena initialized")
	return a, nil
}

// Run ticks the arena until Stop is called. The next tick is only taken
// after the previous one has fully completed.
func (a *Arena) Run() {
	ticker := time.NewTicker(a.interval)
	defer func() {
		ticker.Stop()
		a.shutdown()
		a.log.Info("Arena loop stopped")
	}()

	for {
		select {
		case <-a.done:
			return
		case cmd := <-a.inbox:
			a.handle(cmd)
		case <-ticker.C:
			a.tick(a.clock())
		}
	}
}

// Stop ends the tick loop. It is safe to call more than once.
func (a *Arena) Stop() {
	a.closeOnce.Do(func() { close(a.done) })
}

// Stats returns the figures recorded after the latest tick.
func (a *Arena) Stats() ArenaStats {
	a.statsMu.RLock()
	defer a.statsMu.RUnlock()
	return a.stats
}

// Commands handled by the arena goroutine.
type (
	joinCmd struct {
		client *WebSocketClient
		reply  chan joinResult
	}
	joinResult struct {
		playerID string
		err      error
	}
	leaveCmd struct {
		playerID string
	}
	directionCmd struct {
		playerID string
		dir      game.Direction
	}
	renameCmd struct {
		playerID string
		name     string
	}
	subscribeCmd struct {
		sub *Spectator
	}
	unsubscribeCmd struct {
		sub *Spectator
	}
)

func (a *Arena) submit(cmd any) error {
	select {
	case <-a.done:
		return ErrArenaClosed
	default:
	}
	select {
	case a.inbox <- cmd:
		return nil
	case <-a.done:
		return ErrArenaClosed
	}
}

// Join spawns a snake for client and returns its player id. The init
// message is queued on the client before Join returns.
func (a *Arena) Join(ctx context.Context, client *WebSocketClient) (string, error) {
	reply := make(chan joinResult, 1)
	if err := a.submit(joinCmd{client: client, reply: reply}); err != nil {
		return "", err
	}
	select {
	case res := <-reply:
		return res.playerID, res.err
	case <-ctx.Done():
		// The arena may still accept the join after we give up.
		go func() {
			select {
			case res := <-reply:
				if res.err == nil {
					a.Leave(res.playerID)
				}
			case <-a.done:
			}
		}()
		return "", ctx.Err()
	case <-a.done:
		return "", ErrArenaClosed
	}
}

// Leave removes the player's snake and notifies the remaining clients.
func (a *Arena) Leave(playerID string) {
	_ = a.submit(leaveCmd{playerID: playerID})
}

// SetDirection buffers a direction change for the player's next move.
func (a *Arena) SetDirection(playerID string, dir game.Direction) {
	_ = a.submit(directionCmd{playerID: playerID, dir: dir})
}

// SetName renames the player.
func (a *Arena) SetName(playerID, name string) {
	_ = a.submit(renameCmd{playerID: playerID, name: name})
}

func (a *Arena) handle(cmd any) {
	switch c := cmd.(type) {
	case joinCmd:
		id, err := a.handleJoin(c.client)
		c.reply <- joinResult{playerID: id, err: err}
	case leaveCmd:
		a.handleLeave(c.playerID)
	case directionCmd:
		s, ok := a.world.Snake(c.playerID)
		if !ok {
			return
		}
		if !s.SetDirection(c.dir) {
			a.log.WithFields(logrus.Fields{"player": c.playerID, "direction": c.dir}).Debug("Direction change rejected")
		}
	case renameCmd:
		a.handleRename(c.playerID, c.name)
	case subscribeCmd:
		a.spectators[c.sub] = struct{}{}
	case unsubscribeCmd:
		if _, ok := a.spectators[c.sub]; ok {
			delete(a.spectators, c.sub)
			close(c.sub.C)
		}
	default:
		a.log.Warnf("Unknown arena command %T", cmd)
	}
}

func (a *Arena) handleJoin(client *WebSocketClient) (string, error) {
	n := a.joined + 1
	id := uuid.New().String()
	name := fmt.Sprintf("Player %d", n)
	color := config.PlayerColors[(n-1)%len(config.PlayerColors)]

	snake, err := a.world.Spawn(id, name, color)
	if err != nil {
		a.log.WithError(err).Warn("Could not place new player")
		return "", fmt.Errorf("arena %s: spawn: %w", a.ID, err)
	}
	a.joined = n
	client.playerID = id
	a.clients[id] = client

	now := a.clock()
	a.sendTo(client, protocol.Init{
		Type:       protocol.MsgInit,
		PlayerID:   id,
		PlayerName: name,
		Color:      color,
		GameState:  a.world.Snapshot(now),
	})
	a.broadcast(protocol.PlayerJoined{
		Type:       protocol.MsgPlayerJoined,
		PlayerID:   id,
		PlayerName: name,
		Color:      color,
		Position:   snake.Head(),
	}, id)

	a.log.WithFields(logrus.Fields{"player": id, "name": name, "spawn": snake.Head()}).Info("Player joined")
	return id, nil
}

func (a *Arena) handleLeave(playerID string) {
	if c, ok := a.clients[playerID]; ok {
		delete(a.clients, playerID)
		close(c.send)
	}
	if !a.world.Remove(playerID) {
		return
	}
	a.broadcast(protocol.PlayerLeft{Type: protocol.MsgPlayerLeft, PlayerID: playerID}, "")
	a.log.WithField("player", playerID).Info("Player left")
}

func (a *Arena) handleRename(playerID, name string) {
	s, ok := a.world.Snake(playerID)
	if !ok || !s.SetName(name) {
		return
	}
	a.broadcast(protocol.PlayerRenamed{
		Type:       protocol.MsgPlayerRenamed,
		PlayerID:   playerID,
		PlayerName: s.Name,
	}, "")
}

// tick runs one simulation step and publishes the result.
func (a *Arena) tick(now time.Time) {
	start := time.Now()
	report := a.world.Step(now)

	for _, d := range report.Deaths {
		a.log.WithFields(logrus.Fields{"player": d.SnakeID, "cause": d.Cause, "killer": d.KillerID, "tick": report.Tick}).Info("Snake died")
	}
	for _, err := range report.PlacementErrs {
		a.log.WithError(err).WithField("tick", report.Tick).Warn("Placement failed, no free cell")
	}
	if p := report.SpawnedPowerUp; p != nil {
		a.log.WithFields(logrus.Fields{"kind": p.Kind, "pos": p.Pos}).Debug("Power-up spawned")
	}
	a.deaths += uint64(len(report.Deaths))

	a.publish(now)
	a.recordStats(time.Since(start))
}

// publish sends the full snapshot to every client and spectator. Sends never
// block: a receiver with a full buffer misses this frame.
func (a *Arena) publish(now time.Time) {
	snap := a.world.Snapshot(now)
	if len(a.clients) > 0 {
		a.broadcast(protocol.GameUpdate{Type: protocol.MsgGameUpdate, GameState: snap}, "")
	}
	if len(a.spectators) == 0 {
		return
	}
	data, err := protocol.JSON.Marshal(snap)
	if err != nil {
		a.log.WithError(err).Error("Failed to marshal spectator snapshot")
		return
	}
	for sub := range a.spectators {
		select {
		case sub.C <- data:
		default:
			a.dropped++
		}
	}
}

// broadcast encodes msg once per codec in use and queues it on every client
// except skipID.
func (a *Arena) broadcast(msg any, skipID string) {
	encoded := make(map[protocol.Codec][]byte, len(protocol.Codecs))
	for id, c := range a.clients {
		if id == skipID {
			continue
		}
		data, ok := encoded[c.codec]
		if !ok {
			var err error
			data, err = c.codec.Marshal(msg)
			if err != nil {
				a.log.WithError(err).Errorf("Failed to marshal %T", msg)
				return
			}
			encoded[c.codec] = data
		}
		a.enqueue(c, data)
	}
}

func (a *Arena) sendTo(c *WebSocketClient, msg any) {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		a.log.WithError(err).Errorf("Failed to marshal %T", msg)
		return
	}
	a.enqueue(c, data)
}

func (a *Arena) enqueue(c *WebSocketClient, data []byte) {
	select {
	case c.send <- data:
	default:
		a.dropped++
		a.log.WithField("player", c.playerID).Debug("Client send buffer full, frame dropped")
	}
}

func (a *Arena) recordStats(took time.Duration) {
	alive := 0
	for _, s := range a.world.Snakes() {
		if s.Alive {
			alive++
		}
	}
	a.statsMu.Lock()
	a.stats.Tick = a.world.Tick
	a.stats.Players = a.world.NumSnakes()
	a.stats.Alive = alive
	a.stats.PowerUps = len(a.world.PowerUps())
	a.stats.Spectators = len(a.spectators)
	a.stats.Deaths = a.deaths
	a.stats.DroppedFrames = a.dropped
	a.stats.LastTickDuration = took
	a.statsMu.Unlock()
}

// shutdown closes every client and spectator channel so their writers exit.
func (a *Arena) shutdown() {
	for id, c := range a.clients {
		close(c.send)
		delete(a.clients, id)
	}
	for sub := range a.spectators {
		close(sub.C)
		delete(a.spectators, sub)
	}
}
