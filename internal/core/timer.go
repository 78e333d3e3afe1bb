package core

import "time"

// FixedStep paces generation updates at a steady rate independent of the
// frame rate. At most MaxCatchUp steps are granted per call so a slow step
// cannot snowball into an ever growing backlog.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time

	MaxCatchUp int

	now func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting rate steps per second.
func NewFixedStep(rate int) *FixedStep {
	fs := &FixedStep{MaxCatchUp: 4, now: time.Now}
	fs.SetRate(rate)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. Non-positive rates fall back to 30.
func (f *FixedStep) SetRate(rate int) {
	if rate <= 0 {
		rate = 30
	}
	f.step = time.Second / time.Duration(rate)
}

// Rate returns the configured steps per second.
func (f *FixedStep) Rate() int { return int(time.Second / f.step) }

// Due reports how many steps should run now.
func (f *FixedStep) Due() int {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := int(f.accumulator / f.step)
	f.accumulator -= time.Duration(n) * f.step
	if f.MaxCatchUp > 0 && n > f.MaxCatchUp {
		n = f.MaxCatchUp
		f.accumulator = 0
	}
	return n
}
