package multiplayer

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/core"
	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// fakeTicker only fires when the test says so.
type fakeTicker struct {
	period time.Duration
	ch     chan time.Time

	mu      sync.Mutex
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeTicker) Stopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

// fakeClock records every ticker the coordinator creates.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{period: d, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

// byPeriod returns every ticker created with period d, oldest first.
func (c *fakeClock) byPeriod(d time.Duration) []*fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTicker
	for _, t := range c.tickers {
		if t.period == d {
			out = append(out, t)
		}
	}
	return out
}

type harness struct {
	t      *testing.T
	clock  *fakeClock
	coord  *Coordinator
	cancel context.CancelFunc
}

const simPeriod = time.Second / 15

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{}
	cfg := DefaultCoordinatorConfig()
	cfg.NewTicker = clock.NewTicker
	cfg.Logger = log.New(io.Discard)

	world := snake.NewWorld(snake.DefaultSettings(), core.NewRandomSource(1))
	round := snake.NewRound(5, 60)
	coord := NewCoordinator(cfg, world, round, NewSessionRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	go coord.Run(ctx)

	h := &harness{t: t, clock: clock, coord: coord, cancel: cancel}
	t.Cleanup(func() {
		cancel()
		<-coord.Done()
	})
	h.sync()
	return h
}

// sync waits until every message queued so far has been handled.
func (h *harness) sync() Stats {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s, err := h.coord.Stats(ctx)
	if err != nil {
		h.t.Fatalf("Stats() failed: %v", err)
	}
	return s
}

func (h *harness) connect(id string) *ChannelSession {
	s := NewChannelSession(SessionID(id), 1024)
	h.coord.Send(ConnectMsg{Session: s})
	return s
}

func (h *harness) fire(tk *fakeTicker) {
	h.t.Helper()
	select {
	case tk.ch <- time.Time{}:
	case <-time.After(time.Second):
		h.t.Fatalf("ticker (period %v) not being read", tk.period)
	}
}

func (h *harness) simTicker() *fakeTicker {
	h.t.Helper()
	ts := h.clock.byPeriod(simPeriod)
	if len(ts) != 1 {
		h.t.Fatalf("expected one simulation ticker, got %d", len(ts))
	}
	return ts[0]
}

// phaseTicker returns the most recent phase ticker, which must still be armed.
func (h *harness) phaseTicker() *fakeTicker {
	h.t.Helper()
	ts := h.clock.byPeriod(time.Second)
	if len(ts) == 0 {
		h.t.Fatal("no phase ticker armed")
	}
	tk := ts[len(ts)-1]
	if tk.Stopped() {
		h.t.Fatal("latest phase ticker is stopped")
	}
	return tk
}

func drain(s *ChannelSession) []SessionEvent {
	var out []SessionEvent
	for {
		select {
		case e := <-s.Events():
			out = append(out, e)
		default:
			return out
		}
	}
}

func count(events []SessionEvent, name string) int {
	n := 0
	for _, e := range events {
		if e.Name() == name {
			n++
		}
	}
	return n
}

func TestConnectSendsInit(t *testing.T) {
	h := newHarness(t)
	s := h.connect("a")
	stats := h.sync()

	if stats.Players != 1 || stats.Phase != "idle" {
		t.Errorf("stats = %+v, expected 1 idle player", stats)
	}
	events := drain(s)
	if len(events) != 1 {
		t.Fatalf("got %d events, expected just init", len(events))
	}
	ev, ok := events[0].(InitEvent)
	if !ok {
		t.Fatalf("first event = %T, expected InitEvent", events[0])
	}
	if _, ok := ev.State.Players["a"]; !ok {
		t.Error("init snapshot missing the joining player")
	}
}

func TestTwoPlayersReadyStartsRoundOnce(t *testing.T) {
	h := newHarness(t)
	a := h.connect("A")
	b := h.connect("B")
	h.coord.Send(UpdateMouseMsg{SessionID: "A", X: 400, Y: 300})
	h.sync()
	h.fire(h.simTicker())

	h.coord.Send(PlayerReadyMsg{SessionID: "A"})
	if s := h.sync(); s.Phase != "idle" {
		t.Fatalf("phase = %s after one ready, expected idle", s.Phase)
	}
	h.coord.Send(PlayerReadyMsg{SessionID: "B"})
	if s := h.sync(); s.Phase != "countdown" {
		t.Fatalf("phase = %s after both ready, expected countdown", s.Phase)
	}

	countdownTicker := h.phaseTicker()
	for i := 0; i < 5; i++ {
		h.fire(countdownTicker)
	}
	if s := h.sync(); s.Phase != "active" {
		t.Fatalf("phase = %s after 5 seconds, expected active", s.Phase)
	}
	if !countdownTicker.Stopped() {
		t.Error("countdown ticker still running after the round started")
	}

	for _, s := range []*ChannelSession{a, b} {
		events := drain(s)
		if n := count(events, "gameStart"); n != 1 {
			t.Errorf("session %s saw gameStart %d times, expected 1", s.ID(), n)
		}
		if n := count(events, "countdown"); n != 6 {
			t.Errorf("session %s saw %d countdown events, expected 6", s.ID(), n)
		}
	}

	// Chains were reset to a single head
	spec := NewChannelSession("watcher", 8)
	h.coord.Send(SpectateMsg{Session: spec})
	h.sync()
	snap := (<-spec.Events()).(InitEvent)
	for id, p := range snap.State.Players {
		if len(p.SnakeBody) != 1 || p.Score != 0 {
			t.Errorf("player %s: len=%d score=%d after start", id, len(p.SnakeBody), p.Score)
		}
	}
	if snap.State.Phase != "active" || !snap.State.TimerRunning {
		t.Errorf("snapshot phase = %s timerRunning=%v", snap.State.Phase, snap.State.TimerRunning)
	}
}

func TestRoundEndsAndStopsTimers(t *testing.T) {
	h := newHarness(t)
	a := h.connect("a")
	h.coord.Send(PlayerReadyMsg{SessionID: "a"})
	h.sync()

	for i := 0; i < 5; i++ {
		h.fire(h.phaseTicker())
	}
	h.sync()
	active := h.phaseTicker()
	for i := 0; i < 60; i++ {
		h.fire(active)
	}
	stats := h.sync()

	if stats.Phase != "ended" {
		t.Fatalf("phase = %s after 60 seconds, expected ended", stats.Phase)
	}
	phaseTickers := h.clock.byPeriod(time.Second)
	if len(phaseTickers) != 2 {
		t.Errorf("armed %d phase tickers, expected 2 (countdown and round)", len(phaseTickers))
	}
	for i, tk := range phaseTickers {
		if !tk.Stopped() {
			t.Errorf("phase ticker %d left running after the round ended", i)
		}
	}

	events := drain(a)
	if n := count(events, "gameOver"); n != 1 {
		t.Fatalf("gameOver seen %d times, expected 1", n)
	}
	if n := count(events, "timerUpdate"); n != 61 {
		t.Errorf("timerUpdate seen %d times, expected 61 (60..0)", n)
	}
	last := events[len(events)-1].(GameOverEvent)
	if len(last.Results) != 1 || last.Results[0].ID != "a" {
		t.Errorf("gameOver results = %+v", last.Results)
	}
}

func TestReadyDuringRoundDoesNotRestart(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.coord.Send(PlayerReadyMsg{SessionID: "a"})
	h.sync()
	h.coord.Send(PlayerReadyMsg{SessionID: "a"})
	h.coord.Send(PlayerReadyMsg{SessionID: "a"})
	h.sync()

	if n := len(h.clock.byPeriod(time.Second)); n != 1 {
		t.Errorf("repeated ready armed %d phase tickers, expected 1", n)
	}
}

func TestCapacityRejectsFifthPlayer(t *testing.T) {
	h := newHarness(t)
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		h.connect(id)
	}
	fifth := h.connect("p5")
	watcher := NewChannelSession("watcher", 64)
	h.coord.Send(SpectateMsg{Session: watcher})
	stats := h.sync()

	if stats.Players != 4 || stats.Spectators != 1 {
		t.Errorf("stats = %+v, expected 4 players and 1 spectator", stats)
	}

	events := drain(fifth)
	if len(events) != 1 {
		t.Fatalf("fifth session got %d events, expected serverFull only", len(events))
	}
	full, ok := events[0].(ServerFullEvent)
	if !ok || full.Capacity != 4 {
		t.Errorf("fifth session got %#v, expected ServerFullEvent{4}", events[0])
	}

	drain(watcher)
	h.fire(h.simTicker())
	h.sync()

	for _, e := range drain(watcher) {
		su, ok := e.(StateUpdateEvent)
		if !ok {
			continue
		}
		if len(su.State.Players) != 4 {
			t.Errorf("stateUpdate has %d players, expected 4", len(su.State.Players))
		}
		for _, p := range su.State.Players {
			if p.ID == "p5" {
				t.Error("rejected player appears in stateUpdate")
			}
		}
	}
	if len(drain(fifth)) != 0 {
		t.Error("rejected session still receives broadcasts")
	}
}

func TestDisconnectFreesSeat(t *testing.T) {
	h := newHarness(t)
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		h.connect(id)
	}
	h.coord.Send(SessionDisconnectedMsg{SessionID: "p2"})
	h.coord.Send(SessionDisconnectedMsg{SessionID: "ghost"})
	late := h.connect("p5")
	stats := h.sync()

	if stats.Players != 4 {
		t.Errorf("players = %d, expected 4", stats.Players)
	}
	events := drain(late)
	if len(events) != 1 || events[0].Name() != "init" {
		t.Errorf("late joiner events = %v, expected init", events)
	}
}

func TestSteeringOntoFoodScores(t *testing.T) {
	h := newHarness(t)
	a := h.connect("a")
	h.sync()
	drain(a)

	// Initial food sits at (300,300); the head reaches it within a dozen ticks
	h.coord.Send(UpdateMouseMsg{SessionID: "a", X: 300, Y: 300})
	for i := 0; i < 40; i++ {
		h.fire(h.simTicker())
	}
	h.sync()

	var last StateUpdateEvent
	for _, e := range drain(a) {
		if su, ok := e.(StateUpdateEvent); ok {
			last = su
		}
	}
	if len(last.State.Players) != 1 || last.State.Players[0].Score < 1 {
		t.Errorf("steering onto the food should score, got %+v", last.State.Players)
	}
	if last.Tick != 40 {
		t.Errorf("tick = %d, expected 40", last.Tick)
	}
}

func TestUnknownSessionMessagesIgnored(t *testing.T) {
	h := newHarness(t)
	h.coord.Send(PlayerReadyMsg{SessionID: "ghost"})
	h.coord.Send(UpdateMouseMsg{SessionID: "ghost", X: 1, Y: 1})
	stats := h.sync()

	if stats.Phase != "idle" || stats.Players != 0 {
		t.Errorf("stats = %+v, expected untouched idle arena", stats)
	}
}

func TestRunStopsTickersOnCancel(t *testing.T) {
	h := newHarness(t)
	h.connect("a")
	h.coord.Send(PlayerReadyMsg{SessionID: "a"})
	h.sync()

	h.cancel()
	select {
	case <-h.coord.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if !h.simTicker().Stopped() {
		t.Error("simulation ticker left running")
	}
	for _, tk := range h.clock.byPeriod(time.Second) {
		if !tk.Stopped() {
			t.Error("phase ticker left running")
		}
	}

	// Send after shutdown must not block
	h.coord.Send(PlayerReadyMsg{SessionID: "a"})
}

func TestTickInterval(t *testing.T) {
	tests := []struct {
		rate int
		want time.Duration
	}{
		{15, time.Second / 15},
		{60, time.Second / 60},
		{1, time.Second},
		{0, time.Second},
	}
	for _, tc := range tests {
		if got := TickInterval(tc.rate); got != tc.want {
			t.Errorf("TickInterval(%d) = %v, expected %v", tc.rate, got, tc.want)
		}
	}
}
