package gamebase

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Timer counts elapsed time and runs a callback once it passes Limit.
// There is no global timer manager; call Update or Tick once per frame.
type Timer struct {
	// Limit is the number of seconds that must elapse before the callback runs.
	Limit float64
	// Loop restarts the timer after each firing instead of deactivating it.
	Loop bool
	// Callback runs when the elapsed time exceeds Limit. May be nil.
	Callback func()

	active  bool
	elapsed float64
	// progress maps elapsed time to [0, 1] through the timer's easing.
	progress      *gween.Tween
	progressLimit float64
	easing        ease.TweenFunc
}

// NewTimer creates a timer that fires callback after limit seconds.
func NewTimer(limit float64, active bool, callback func(), loop bool) *Timer {
	return &Timer{
		Limit:    limit,
		Loop:     loop,
		Callback: callback,
		active:   active,
		easing:   ease.Linear,
	}
}

// SetEasing changes the curve Progress follows. nil restores linear.
func (t *Timer) SetEasing(fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	t.easing = fn
	t.progress = nil
}

// Active reports whether the timer is counting.
func (t *Timer) Active() bool { return t.active }

// Elapsed returns the seconds accumulated since the last reset or firing.
func (t *Timer) Elapsed() float64 { return t.elapsed }

// Update advances the timer by dt seconds. The callback runs once the
// elapsed time is strictly greater than Limit, after which the elapsed time
// resets to zero and a non-looping timer deactivates.
func (t *Timer) Update(dt float64) {
	if !t.active {
		return
	}
	t.elapsed += dt
	if t.elapsed <= t.Limit {
		return
	}

	if t.Callback != nil {
		t.Callback()
	}
	if !t.Loop {
		t.active = false
	}
	t.elapsed = 0
}

// Tick advances the timer by one Ebitengine tick (1/TPS seconds).
func (t *Timer) Tick() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	t.Update(1 / float64(tps))
}

// Progress returns how far the timer is toward firing in [0, 1], shaped by
// the timer's easing function.
func (t *Timer) Progress() float64 {
	if t.Limit <= 0 {
		return 1
	}
	if t.progress == nil || t.progressLimit != t.Limit {
		t.progress = gween.New(0, 1, float32(t.Limit), t.easing)
		t.progressLimit = t.Limit
	}
	v, _ := t.progress.Set(float32(t.elapsed))
	return clamp01(float64(v))
}

// Pause stops the timer without clearing elapsed time.
func (t *Timer) Pause() { t.active = false }

// Resume continues counting from the current elapsed time.
func (t *Timer) Resume() { t.active = true }

// Toggle flips between paused and running.
func (t *Timer) Toggle() { t.active = !t.active }

// Reset clears elapsed time. It does not change whether the timer is active.
func (t *Timer) Reset() { t.elapsed = 0 }
