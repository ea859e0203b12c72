package multiplayer

import "time"

// TickInterval converts a tick rate in Hz into a ticker period.
func TickInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = 1
	}
	return time.Second / time.Duration(rate)
}

// phaseTimer owns the single ticker of the current timed round phase.
// At most one ticker is armed at a time; arming always stops the previous one.
type phaseTimer struct {
	newTicker TickerFunc
	period    time.Duration
	current   Ticker
}

func newPhaseTimer(newTicker TickerFunc, period time.Duration) *phaseTimer {
	return &phaseTimer{newTicker: newTicker, period: period}
}

// C returns the armed ticker's channel, or nil so a select never fires on it.
func (p *phaseTimer) C() <-chan time.Time {
	if p.current == nil {
		return nil
	}
	return p.current.C()
}

// Arm stops any running ticker and starts a fresh one.
func (p *phaseTimer) Arm() {
	p.Stop()
	p.current = p.newTicker(p.period)
}

// Stop stops the running ticker, if any. Safe to call repeatedly.
func (p *phaseTimer) Stop() {
	if p.current == nil {
		return
	}
	p.current.Stop()
	p.current = nil
}
