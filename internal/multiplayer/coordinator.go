package multiplayer

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	TickRate    int           // Simulation + broadcast rate (Hz)
	PhasePeriod time.Duration // Round lifecycle step, one second in production
	MsgBuffer   int           // Inbound message queue length
	NewTicker   TickerFunc    // nil means RealTicker
	Logger      *log.Logger   // nil means log.Default()
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		TickRate:    15,
		PhasePeriod: time.Second,
		MsgBuffer:   256,
	}
}

// Coordinator is the single owner of the arena state. Every mutation of the
// World and Round happens on the goroutine running Run.
type Coordinator struct {
	config   CoordinatorConfig
	world    *snake.World
	round    *snake.Round
	sessions *SessionRegistry
	logger   *log.Logger

	newTicker TickerFunc
	phase     *phaseTimer
	tick      uint64

	msgChan chan CoordinatorMessage
	done    chan struct{}
}

// NewCoordinator creates a coordinator around an existing world and round.
func NewCoordinator(cfg CoordinatorConfig, world *snake.World, round *snake.Round, sessions *SessionRegistry) *Coordinator {
	if cfg.NewTicker == nil {
		cfg.NewTicker = RealTicker
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.PhasePeriod <= 0 {
		cfg.PhasePeriod = time.Second
	}
	if cfg.MsgBuffer < 1 {
		cfg.MsgBuffer = 256
	}
	return &Coordinator{
		config:    cfg,
		world:     world,
		round:     round,
		sessions:  sessions,
		logger:    cfg.Logger,
		newTicker: cfg.NewTicker,
		phase:     newPhaseTimer(cfg.NewTicker, cfg.PhasePeriod),
		msgChan:   make(chan CoordinatorMessage, cfg.MsgBuffer),
		done:      make(chan struct{}),
	}
}

// Send queues a message for the coordinator. It never blocks after Run has returned.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.done:
	}
}

// Done is closed once Run has returned.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Stats asks the coordinator for a snapshot of its counters.
func (c *Coordinator) Stats(ctx context.Context) (Stats, error) {
	reply := make(chan Stats, 1)
	select {
	case c.msgChan <- StatsMsg{Reply: reply}:
	case <-c.done:
		return Stats{}, errors.New("multiplayer: coordinator stopped")
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-c.done:
		return Stats{}, errors.New("multiplayer: coordinator stopped")
	case <-ctx.Done():
		return Stats{}, ctx.Err()
	}
}

// Run processes messages and drives the simulation until ctx is cancelled.
// All tickers are stopped before it returns.
func (c *Coordinator) Run(ctx context.Context) {
	sim := c.newTicker(TickInterval(c.config.TickRate))
	defer close(c.done)
	defer sim.Stop()
	defer c.phase.Stop()

	c.logger.Info("coordinator started", "tick_rate", c.config.TickRate, "capacity", c.world.Settings().Capacity)

	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-sim.C():
			c.simTick()
		case <-c.phase.C():
			c.phaseTick()
		case <-ctx.Done():
			c.logger.Info("coordinator stopped", "ticks", c.tick)
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case ConnectMsg:
		c.handleConnect(m)
	case SpectateMsg:
		c.handleSpectate(m)
	case PlayerReadyMsg:
		c.handlePlayerReady(m)
	case UpdateMouseMsg:
		c.handleUpdateMouse(m)
	case SessionDisconnectedMsg:
		c.handleSessionDisconnected(m)
	case StatsMsg:
		c.handleStats(m)
	}
}

func (c *Coordinator) handleConnect(msg ConnectMsg) {
	id := msg.Session.ID()
	if _, err := c.world.AddPlayer(string(id)); err != nil {
		if errors.Is(err, snake.ErrArenaFull) {
			c.logger.Info("arena full, rejecting", "id", id, "capacity", c.world.Settings().Capacity)
			msg.Session.Send(ServerFullEvent{Capacity: c.world.Settings().Capacity})
			return
		}
		c.logger.Warn("connect rejected", "id", id, "err", err)
		return
	}

	c.sessions.Register(msg.Session, RolePlayer)
	c.logger.Info("player connected", "id", id, "players", c.world.Len())
	msg.Session.Send(InitEvent{State: c.world.GameState(c.round)})
}

func (c *Coordinator) handleSpectate(msg SpectateMsg) {
	c.sessions.Register(msg.Session, RoleSpectator)
	c.logger.Info("spectator joined", "id", msg.Session.ID())
	msg.Session.Send(InitEvent{State: c.world.GameState(c.round)})
}

func (c *Coordinator) handlePlayerReady(msg PlayerReadyMsg) {
	if !c.world.SetReady(string(msg.SessionID)) {
		c.logger.Debug("ready from unknown player", "id", msg.SessionID)
		return
	}

	prev := c.round.Phase()
	emissions, started := c.round.TryStart(c.world)
	if !started {
		return
	}
	c.logger.Info("countdown started", "players", c.world.Len())
	c.broadcastEmissions(emissions)
	c.syncPhaseTimer(prev)
}

func (c *Coordinator) handleUpdateMouse(msg UpdateMouseMsg) {
	id := string(msg.SessionID)
	if !c.world.UpdatePointer(id, msg.X, msg.Y) {
		c.logger.Debug("pointer update ignored", "id", msg.SessionID)
		return
	}
	c.world.CheckFood(id)
}

func (c *Coordinator) handleSessionDisconnected(msg SessionDisconnectedMsg) {
	role, ok := c.sessions.Unregister(msg.SessionID)
	if !ok {
		c.logger.Debug("disconnect from unknown session", "id", msg.SessionID)
		return
	}
	if role == RolePlayer {
		c.world.RemovePlayer(string(msg.SessionID))
	}
	c.logger.Info("session disconnected", "id", msg.SessionID, "role", role, "players", c.world.Len())
}

func (c *Coordinator) handleStats(msg StatsMsg) {
	select {
	case msg.Reply <- c.stats():
	default:
	}
}

func (c *Coordinator) stats() Stats {
	return Stats{
		Players:    c.world.Len(),
		Spectators: c.sessions.Count(RoleSpectator),
		Phase:      c.round.Phase().String(),
		Tick:       c.tick,
	}
}

// simTick moves every snake, resolves food and broadcasts the new state.
func (c *Coordinator) simTick() {
	c.world.Step()
	c.tick++
	c.sessions.Broadcast(StateUpdateEvent{Tick: c.tick, State: c.world.StateUpdate()})
}

// phaseTick advances the round lifecycle by one step.
func (c *Coordinator) phaseTick() {
	prev := c.round.Phase()
	c.broadcastEmissions(c.round.Advance(c.world))
	c.syncPhaseTimer(prev)
}

// syncPhaseTimer re-arms the phase ticker whenever the phase changed since prev.
func (c *Coordinator) syncPhaseTimer(prev snake.Phase) {
	cur := c.round.Phase()
	if cur == prev {
		return
	}
	c.phase.Stop()
	if c.round.Timed() {
		c.phase.Arm()
	}
	c.logger.Debug("phase changed", "from", prev, "to", cur)
	if cur == snake.PhaseEnded {
		c.logger.Info("round over", "results", len(c.round.LastResults()))
	}
}

func (c *Coordinator) broadcastEmissions(emissions []snake.Emission) {
	for _, e := range emissions {
		evt, ok := eventFromEmission(e)
		if !ok {
			c.logger.Warn("dropping unknown emission", "event", e.Event)
			continue
		}
		c.sessions.Broadcast(evt)
	}
}
