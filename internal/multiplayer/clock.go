package multiplayer

import "time"

// Ticker is the part of *time.Ticker the coordinator uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFunc creates a ticker firing every d.
// Tests inject fakes to drive time by hand.
type TickerFunc func(d time.Duration) Ticker

// RealTicker is the production TickerFunc backed by time.NewTicker.
func RealTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }
