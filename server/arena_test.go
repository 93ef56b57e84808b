package server

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"snake-server/config"
	"snake-server/game"
	"snake-server/protocol"
)

var epoch = time.Unix(1_700_000_000, 0)

func newTestArena(t *testing.T) *Arena {
	t.Helper()
	a, err := NewArena(config.ArenaConfig{ID: "test", Level: 1},
		WithRand(rand.New(rand.NewSource(7))),
		WithClock(func() time.Time { return epoch }),
	)
	if err != nil {
		t.Fatalf("NewArena: %v", err)
	}
	return a
}

func fakeClient(codec protocol.Codec, buffer int) *WebSocketClient {
	return &WebSocketClient{send: make(chan []byte, buffer), codec: codec, done: make(chan struct{})}
}

// next pops one queued frame and decodes it as a generic message.
func next(t *testing.T, c *WebSocketClient) map[string]any {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if !ok {
			t.Fatal("send channel closed")
		}
		var msg map[string]any
		if err := c.codec.Unmarshal(data, &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return msg
	default:
		t.Fatal("no message queued")
	}
	return nil
}

func expectEmpty(t *testing.T, c *WebSocketClient) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message %s", data)
	default:
	}
}

func join(t *testing.T, a *Arena, c *WebSocketClient) string {
	t.Helper()
	id, err := a.handleJoin(c)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	return id
}

func TestJoinSendsInitAndAnnounces(t *testing.T) {
	a := newTestArena(t)
	c1 := fakeClient(protocol.JSON, 8)
	c2 := fakeClient(protocol.JSON, 8)

	id1 := join(t, a, c1)
	initMsg := next(t, c1)
	if initMsg["type"] != protocol.MsgInit || initMsg["playerId"] != id1 {
		t.Fatalf("initMsg = %v", initMsg)
	}
	if initMsg["playerName"] != "Player 1" || initMsg["color"] != config.PlayerColors[0] {
		t.Fatalf("initMsg identity = %v/%v", initMsg["playerName"], initMsg["color"])
	}
	if _, ok := initMsg["gameState"].(map[string]any); !ok {
		t.Fatalf("initMsg without gameState: %v", initMsg)
	}

	id2 := join(t, a, c2)
	if id1 == id2 {
		t.Fatal("player ids must be unique")
	}
	if got := next(t, c2); got["type"] != protocol.MsgInit || got["color"] != config.PlayerColors[1] {
		t.Fatalf("second initMsg = %v", got)
	}
	joined := next(t, c1)
	if joined["type"] != protocol.MsgPlayerJoined || joined["playerId"] != id2 || joined["playerName"] != "Player 2" {
		t.Fatalf("playerJoined = %v", joined)
	}
	expectEmpty(t, c2)
	if c2.PlayerID() != id2 {
		t.Fatalf("client id = %q, want %q", c2.PlayerID(), id2)
	}
}

func TestLeaveClosesSendAndNotifies(t *testing.T) {
	a := newTestArena(t)
	c1 := fakeClient(protocol.JSON, 8)
	c2 := fakeClient(protocol.JSON, 8)
	id1 := join(t, a, c1)
	join(t, a, c2)
	next(t, c1)
	next(t, c1)
	next(t, c2)

	a.handle(leaveCmd{playerID: id1})

	if _, ok := <-c1.send; ok {
		t.Fatal("leaving client's send channel should be closed")
	}
	left := next(t, c2)
	if left["type"] != protocol.MsgPlayerLeft || left["playerId"] != id1 {
		t.Fatalf("playerLeft = %v", left)
	}
	if _, ok := a.world.Snake(id1); ok {
		t.Fatal("snake still in world after leave")
	}

	// A second leave for the same id is a no-op.
	a.handle(leaveCmd{playerID: id1})
	expectEmpty(t, c2)
}

func TestRenameIsTrimmedTruncatedAndBroadcast(t *testing.T) {
	a := newTestArena(t)
	c := fakeClient(protocol.JSON, 8)
	id := join(t, a, c)
	next(t, c)

	a.handle(renameCmd{playerID: id, name: "  abcdefghijklmnopqrst  "})
	msg := next(t, c)
	if msg["type"] != protocol.MsgPlayerRenamed || msg["playerName"] != "abcdefghijklmno" {
		t.Fatalf("playerRenamed = %v", msg)
	}

	a.handle(renameCmd{playerID: id, name: "   "})
	expectEmpty(t, c)
	s, _ := a.world.Snake(id)
	if s.Name != "abcdefghijklmno" {
		t.Fatalf("name = %q", s.Name)
	}
}

func TestDirectionIsBufferedUntilNextMove(t *testing.T) {
	a := newTestArena(t)
	c := fakeClient(protocol.JSON, 8)
	id := join(t, a, c)
	s, _ := a.world.Snake(id)

	a.handle(directionCmd{playerID: id, dir: game.Left})
	if _, ok := s.PendingDirection(); ok {
		t.Fatal("reversal should be rejected")
	}

	a.handle(directionCmd{playerID: id, dir: game.Down})
	if d, ok := s.PendingDirection(); !ok || d != game.Down {
		t.Fatalf("pending = %v, %v", d, ok)
	}
	if s.Direction != game.Right {
		t.Fatalf("direction changed before tick: %v", s.Direction)
	}

	a.tick(epoch)
	if s.Direction != game.Down {
		t.Fatalf("direction after tick = %v, want down", s.Direction)
	}
}

func TestTickPublishesPerCodec(t *testing.T) {
	a := newTestArena(t)
	jc := fakeClient(protocol.JSON, 8)
	mc := fakeClient(protocol.Msgpack, 8)
	join(t, a, jc)
	join(t, a, mc)
	next(t, jc)
	next(t, jc)
	next(t, mc)

	a.tick(epoch)

	var update protocol.GameUpdate
	if err := json.Unmarshal(<-jc.send, &update); err != nil {
		t.Fatalf("json: %v", err)
	}
	if update.Type != protocol.MsgGameUpdate || update.GameState.Tick != 1 || len(update.GameState.Players) != 2 {
		t.Fatalf("json update = %+v", update)
	}
	update = protocol.GameUpdate{}
	if err := msgpack.Unmarshal(<-mc.send, &update); err != nil {
		t.Fatalf("msgpack: %v", err)
	}
	if update.Type != protocol.MsgGameUpdate || update.GameState.Tick != 1 {
		t.Fatalf("msgpack update = %+v", update)
	}

	st := a.Stats()
	if st.Tick != 1 || st.Players != 2 || st.Alive != 2 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestPublishDropsFramesForSlowClients(t *testing.T) {
	a := newTestArena(t)
	slow := fakeClient(protocol.JSON, 1)
	join(t, a, slow) // initMsg fills the buffer

	a.tick(epoch)
	a.tick(epoch.Add(100 * time.Millisecond))

	if got := a.Stats().DroppedFrames; got != 2 {
		t.Fatalf("dropped = %d, want 2", got)
	}
	if msg := next(t, slow); msg["type"] != protocol.MsgInit {
		t.Fatalf("buffered frame = %v", msg)
	}
}

func TestSpectatorReceivesSnapshots(t *testing.T) {
	a := newTestArena(t)
	sub := &Spectator{C: make(chan []byte, 4)}
	a.handle(subscribeCmd{sub: sub})

	a.tick(epoch)
	var snap game.Snapshot
	if err := json.Unmarshal(<-sub.C, &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Tick != 1 || snap.Grid.Width != config.GRID_WIDTH {
		t.Fatalf("snapshot = %+v", snap)
	}
	if a.Stats().Spectators != 1 {
		t.Fatalf("spectators = %d", a.Stats().Spectators)
	}

	a.handle(unsubscribeCmd{sub: sub})
	if _, ok := <-sub.C; ok {
		t.Fatal("spectator channel should be closed")
	}
}

func TestRunJoinAndStop(t *testing.T) {
	a, err := NewArena(config.ArenaConfig{ID: "live", Level: 2}, WithTickInterval(5*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	exited := make(chan struct{})
	go func() {
		a.Run()
		close(exited)
	}()

	c := fakeClient(protocol.JSON, 64)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	id, err := a.Join(ctx, c)
	if err != nil || id == "" {
		t.Fatalf("Join = %q, %v", id, err)
	}
	if msg := next(t, c); msg["type"] != protocol.MsgInit {
		t.Fatalf("first frame = %v", msg)
	}

	deadline := time.After(2 * time.Second)
	for a.Stats().Tick < 3 {
		select {
		case <-deadline:
			t.Fatal("arena did not tick")
		case <-time.After(5 * time.Millisecond):
		}
	}

	a.Stop()
	a.Stop()
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	for range c.send {
	}
	if _, err := a.Join(ctx, fakeClient(protocol.JSON, 1)); !errors.Is(err, ErrArenaClosed) {
		t.Fatalf("Join after stop = %v, want ErrArenaClosed", err)
	}
	if _, err := a.Subscribe(); !errors.Is(err, ErrArenaClosed) {
		t.Fatalf("Subscribe after stop = %v", err)
	}
}
