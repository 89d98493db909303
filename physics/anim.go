// Package physics drives the pulsegraph simulation: the lifecycle state
// machine, the per-frame motion rules, the glow propagation, and the
// animation engine that advances every in-flight interpolation.
package physics

import (
	"github.com/TFMV/pulsegraph/models"
)

// EaseFunc maps linear progress in [0,1] to eased progress in [0,1].
type EaseFunc func(t float32) float32

// Linear is the identity easing.
func Linear(t float32) float32 { return t }

// EaseInQuad accelerates from zero velocity.
func EaseInQuad(t float32) float32 { return t * t }

// EaseOutQuad decelerates to zero velocity.
func EaseOutQuad(t float32) float32 { return t * (2 - t) }

// EaseInOutQuad accelerates until halfway, then decelerates.
func EaseInOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// Tween is a single in-flight interpolation: elapsed time, duration,
// easing, and an Update callback receiving the eased fraction. All
// tweens in the system are advanced by one Animator once per tick, so
// there is no hidden timer bookkeeping to cancel on teardown.
type Tween struct {
	// Tag groups tweens for cancellation (e.g. all tweens of one pulse).
	Tag string

	Elapsed  float32
	Duration float32
	Ease     EaseFunc

	// Update receives the eased fraction in [0,1]. It is called on
	// every advance, and with exactly 1 when the tween completes.
	Update func(fraction float32)

	// OnComplete, if set, runs once after the final Update.
	OnComplete func()
}

// FloatTween builds a tween writing interpolated values into target.
func FloatTween(tag string, target *float32, from, to, duration float32, ease EaseFunc, onComplete func()) *Tween {
	return &Tween{
		Tag:      tag,
		Duration: duration,
		Ease:     ease,
		Update: func(f float32) {
			*target = from + (to-from)*f
		},
		OnComplete: onComplete,
	}
}

// Vec3Tween builds a tween writing interpolated vectors into target.
func Vec3Tween(tag string, target *models.Vec3, from, to models.Vec3, duration float32, ease EaseFunc, onComplete func()) *Tween {
	return &Tween{
		Tag:      tag,
		Duration: duration,
		Ease:     ease,
		Update: func(f float32) {
			*target = from.Lerp(to, f)
		},
		OnComplete: onComplete,
	}
}

// Animator holds the active tween list and advances it once per tick.
type Animator struct {
	tweens []*Tween
}

// NewAnimator creates an empty animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Add registers a tween. A tween with a non-positive duration completes
// on the next Advance.
func (a *Animator) Add(t *Tween) {
	if t.Ease == nil {
		t.Ease = Linear
	}
	a.tweens = append(a.tweens, t)
}

// Len returns the number of active tweens.
func (a *Animator) Len() int {
	return len(a.tweens)
}

// Advance moves every active tween forward by dt seconds, applying
// eased values and firing completion callbacks. Callbacks may add new
// tweens; those start advancing on the next call.
func (a *Animator) Advance(dt float32) {
	active := a.tweens
	a.tweens = a.tweens[:0]

	var completed []*Tween
	for _, t := range active {
		t.Elapsed += dt
		if t.Elapsed >= t.Duration || t.Duration <= 0 {
			t.Update(1)
			completed = append(completed, t)
			continue
		}
		t.Update(t.Ease(t.Elapsed / t.Duration))
		a.tweens = append(a.tweens, t)
	}

	// Completion callbacks run after the surviving list is rebuilt so
	// that tweens they add are not advanced twice in one tick.
	for _, t := range completed {
		if t.OnComplete != nil {
			t.OnComplete()
		}
	}
}

// CancelTag drops every tween carrying the given tag without firing
// completion callbacks.
func (a *Animator) CancelTag(tag string) {
	kept := a.tweens[:0]
	for _, t := range a.tweens {
		if t.Tag != tag {
			kept = append(kept, t)
		}
	}
	a.tweens = kept
}

// CancelAll drops every tween without firing completion callbacks.
func (a *Animator) CancelAll() {
	a.tweens = a.tweens[:0]
}
