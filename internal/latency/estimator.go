// Package latency measures round-trip time to the server from ping/pong
// exchanges.
package latency

import (
	"time"

	"github.com/vovakirdan/netpong/internal/protocol"
)

// WindowSize is the number of samples kept; older samples are evicted first.
const WindowSize = 20

// Estimator keeps a rolling window of round-trip samples in milliseconds.
// It is owned by the session state machine and is not safe for concurrent use.
type Estimator struct {
	samples []float64
}

// NewEstimator creates an empty estimator.
func NewEstimator() *Estimator {
	return &Estimator{samples: make([]float64, 0, WindowSize)}
}

// Ping builds the outbound ping stamped with now.
func (e *Estimator) Ping(now time.Time) protocol.Ping {
	return protocol.Ping{Timestamp: now.UnixMilli()}
}

// HandlePong records the round trip for p and returns the update reporting
// that single sample to the server.
func (e *Estimator) HandlePong(p protocol.Pong, now time.Time) protocol.LatencyUpdate {
	rtt := float64(now.UnixMilli() - p.ClientTimestamp)
	if rtt < 0 {
		rtt = 0
	}
	if len(e.samples) == WindowSize {
		copy(e.samples, e.samples[1:])
		e.samples = e.samples[:WindowSize-1]
	}
	e.samples = append(e.samples, rtt)
	return protocol.LatencyUpdate{LatencyMs: rtt}
}

// Samples returns a copy of the window, oldest first.
func (e *Estimator) Samples() []float64 {
	out := make([]float64, len(e.samples))
	copy(out, e.samples)
	return out
}

// Latest returns the most recent sample and whether there is one.
func (e *Estimator) Latest() (float64, bool) {
	if len(e.samples) == 0 {
		return 0, false
	}
	return e.samples[len(e.samples)-1], true
}

// Average returns the mean of the window, or 0 when empty.
func (e *Estimator) Average() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range e.samples {
		sum += s
	}
	return sum / float64(len(e.samples))
}

// Reset drops all samples.
func (e *Estimator) Reset() {
	e.samples = e.samples[:0]
}

// Quality is a coarse rating of a latency value.
type Quality int

const (
	QualityGood Quality = iota // under 50ms
	QualityFair                // under 100ms
	QualityPoor                // under 200ms
	QualityBad
)

// Rate maps a latency in milliseconds to its quality band.
func Rate(ms float64) Quality {
	switch {
	case ms < 50:
		return QualityGood
	case ms < 100:
		return QualityFair
	case ms < 200:
		return QualityPoor
	default:
		return QualityBad
	}
}

func (q Quality) String() string {
	switch q {
	case QualityGood:
		return "good"
	case QualityFair:
		return "fair"
	case QualityPoor:
		return "poor"
	default:
		return "bad"
	}
}
