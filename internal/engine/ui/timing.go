package ui

import "time"

// smoothing is the weight of the newest sample in the moving average.
const smoothing = 0.1

// Timing keeps an exponential moving average of frame durations.
type Timing struct {
	now  func() time.Time
	last time.Time
	avg  time.Duration
}

// NewTiming creates a timer using the wall clock.
func NewTiming() *Timing {
	return &Timing{now: time.Now}
}

// Tick records a frame boundary and returns the time since the previous
// one in seconds. The first call returns 0.
func (t *Timing) Tick() float32 {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		return 0
	}
	dt := now.Sub(t.last)
	t.last = now

	if t.avg == 0 {
		t.avg = dt
	} else {
		t.avg += time.Duration(smoothing * float64(dt-t.avg))
	}
	return float32(dt.Seconds())
}

// Milliseconds returns the averaged frame time.
func (t *Timing) Milliseconds() float64 {
	return float64(t.avg) / float64(time.Millisecond)
}

// FPS returns the averaged frame rate.
func (t *Timing) FPS() float64 {
	if t.avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(t.avg)
}
