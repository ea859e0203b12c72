package multiplayer

import (
	"testing"

	"github.com/vovakirdan/snake-arena/internal/games/snake"
	"github.com/vovakirdan/snake-arena/internal/protocol"
)

func TestChannelSessionDropsOldest(t *testing.T) {
	s := NewChannelSession("a", 2)
	s.Send(CountdownEvent{Seconds: 3})
	s.Send(CountdownEvent{Seconds: 2})
	s.Send(CountdownEvent{Seconds: 1})

	first := (<-s.Events()).(CountdownEvent)
	second := (<-s.Events()).(CountdownEvent)
	if first.Seconds != 2 || second.Seconds != 1 {
		t.Errorf("buffered = %d,%d, expected 2,1", first.Seconds, second.Seconds)
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, expected 1", s.Dropped())
	}
}

func TestChannelSessionClosed(t *testing.T) {
	s := NewChannelSession("a", 4)
	s.Close()
	s.Close()

	s.Send(GameStartEvent{})
	select {
	case e := <-s.Events():
		t.Errorf("closed session received %v", e)
	default:
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed")
	}
}

func TestSessionRegistryRoles(t *testing.T) {
	r := NewSessionRegistry()
	a := NewChannelSession("a", 4)
	b := NewChannelSession("b", 4)
	w := NewChannelSession("w", 4)
	r.Register(a, RolePlayer)
	r.Register(b, RolePlayer)
	r.Register(w, RoleSpectator)

	if r.Count(RolePlayer) != 2 || r.Count(RoleSpectator) != 1 {
		t.Errorf("counts = %d/%d, expected 2/1", r.Count(RolePlayer), r.Count(RoleSpectator))
	}

	r.Broadcast(GameStartEvent{})
	for _, s := range []*ChannelSession{a, b, w} {
		if len(drain(s)) != 1 {
			t.Errorf("session %s missed the broadcast", s.ID())
		}
	}

	role, ok := r.Unregister("w")
	if !ok || role != RoleSpectator {
		t.Errorf("Unregister(w) = %v, %v", role, ok)
	}
	if _, ok := r.Unregister("w"); ok {
		t.Error("second Unregister should report false")
	}
	if got := r.Count(RolePlayer); got != 2 {
		t.Errorf("players after spectator left = %d, want 2", got)
	}
}

func TestEventWireNames(t *testing.T) {
	tests := []struct {
		evt     SessionEvent
		name    string
		payload any
	}{
		{CountdownEvent{Seconds: 4}, protocol.EventCountdown, 4},
		{GameStartEvent{}, protocol.EventGameStart, nil},
		{TimerUpdateEvent{Remaining: 59}, protocol.EventTimerUpdate, 59},
		{ServerFullEvent{Capacity: 4}, protocol.EventServerFull, protocol.ServerFull{Capacity: 4}},
	}
	for _, tc := range tests {
		if tc.evt.Name() != tc.name {
			t.Errorf("%T.Name() = %q, expected %q", tc.evt, tc.evt.Name(), tc.name)
		}
		if tc.evt.Payload() != tc.payload {
			t.Errorf("%T.Payload() = %v, expected %v", tc.evt, tc.evt.Payload(), tc.payload)
		}
	}
}

func TestEventFromEmission(t *testing.T) {
	results := []protocol.ScoreEntry{{ID: "a", Score: 2}}
	tests := []struct {
		in   snake.Emission
		want string
	}{
		{snake.Emission{Event: protocol.EventCountdown, Data: 5}, protocol.EventCountdown},
		{snake.Emission{Event: protocol.EventGameStart}, protocol.EventGameStart},
		{snake.Emission{Event: protocol.EventTimerUpdate, Data: 60}, protocol.EventTimerUpdate},
		{snake.Emission{Event: protocol.EventGameOver, Data: results}, protocol.EventGameOver},
	}
	for _, tc := range tests {
		evt, ok := eventFromEmission(tc.in)
		if !ok || evt.Name() != tc.want {
			t.Errorf("eventFromEmission(%s) = %v, %v", tc.in.Event, evt, ok)
		}
	}

	if _, ok := eventFromEmission(snake.Emission{Event: "bogus"}); ok {
		t.Error("unknown emission should not convert")
	}
	over, _ := eventFromEmission(snake.Emission{Event: protocol.EventGameOver, Data: results})
	if got := over.(GameOverEvent).Results; len(got) != 1 || got[0].Score != 2 {
		t.Errorf("gameOver results = %+v", got)
	}
}
