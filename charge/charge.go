// Package charge integrates detector pulses into deposited charge.
package charge

import (
	"github.com/pkg/errors"
)

// TerminalResistance is the input termination of the digitizer in ohm.
const TerminalResistance = 50.0

var (
	ErrInvalidArgument = errors.New("charge: invalid argument")
	ErrInvalidChannel  = errors.New("charge: channel not present")
)

// Params controls pulse integration. Times are in ns and levels in V.
type Params struct {
	TriggerLevel float64
	// NegOffset is how far before the trigger crossing integration starts.
	NegOffset float64
	// Window is the integration length.
	Window float64
	// RisingEdge selects positive pulses; the default is negative pulses
	// that cross TriggerLevel from above.
	RisingEdge bool
}

// DefaultParams match negative PMT pulses on a DRS4 board.
var DefaultParams = Params{
	TriggerLevel: -0.01,
	NegOffset:    5,
	Window:       100,
}

// Deposit integrates the pulse in v sampled at times t and returns the
// charge -sum(v*dt)/R. It returns 0 when the signal never crosses the
// trigger level.
func Deposit(t, v []float64, p Params) (float64, error) {
	n := len(v)
	if n != len(t) {
		return 0, errors.Wrapf(ErrInvalidArgument, "%d times for %d samples", len(t), n)
	}
	if n < 2 {
		return 0, errors.Wrapf(ErrInvalidArgument, "need at least 2 samples, got %d", n)
	}

	sign := 1.0
	if p.RisingEdge {
		sign = -1
	}

	trig := -1
	for i := 0; i < n; i++ {
		if sign*v[i] < sign*p.TriggerLevel {
			trig = i
			break
		}
	}
	if trig < 0 {
		return 0, nil
	}

	start := trig
	for i := trig; i > 0; i-- {
		if t[trig]-t[i] > p.NegOffset {
			start = i
			break
		}
	}
	if start < 1 {
		start = 1
	}

	var integral, window float64
	for i := start; i < n && window < p.Window; i++ {
		dt := t[i] - t[i-1]
		window += dt
		integral += v[i] * dt
	}
	return -integral / TerminalResistance, nil
}
