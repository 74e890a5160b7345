// Package progress smooths discrete, coarsely spaced server progress values
// into continuous displayed motion. The server remains authoritative: the
// displayed value only ever eases toward the last reported target, it never
// invents progress past it.
package progress

import (
	"math"
	"sync"
	"time"

	"aria/sched"
)

const (
	// animationWindow is the fixed duration over which a target change is eased
	animationWindow = 300 * time.Millisecond

	// frameInterval approximates a display refresh tick
	frameInterval = 16 * time.Millisecond

	// snapThreshold below which a target change skips animation entirely,
	// avoiding perpetual micro-animation
	snapThreshold = 0.5
)

// Interpolator drives the displayed progress value for a single job. The
// frame callback runs with the interpolator's lock held and therefore must
// not call back into SetTarget or Stop.
type Interpolator struct {
	mu      sync.Mutex
	display float64
	task    *sched.Task
	onFrame func(displayed int)
}

// NewInterpolator returns an interpolator starting at initialProgress. State
// is not persisted across teardowns; a remounted surface starts fresh from
// whatever initial value it is given.
func NewInterpolator(initialProgress int, onFrame func(displayed int)) *Interpolator {
	return &Interpolator{
		display: float64(initialProgress),
		onFrame: onFrame,
	}
}

// SetTarget steers the displayed value toward target. When generating is
// false, or the remaining delta is below the snap threshold, the value snaps
// immediately with no frames scheduled. A target arriving mid-animation
// cancels the in-flight animation and restarts from the current displayed
// value, never from the previous target.
func (in *Interpolator) SetTarget(target int, generating bool) {
	in.cancelTask()

	in.mu.Lock()
	defer in.mu.Unlock()

	start := in.display
	delta := float64(target) - start

	if !generating || math.Abs(delta) < snapThreshold {
		in.display = float64(target)
		if in.onFrame != nil {
			in.onFrame(target)
		}
		return
	}

	begin := time.Now()
	var task *sched.Task
	task = sched.Start(frameInterval, func(now time.Time) bool {
		t := float64(now.Sub(begin)) / float64(animationWindow)
		if t > 1 {
			t = 1
		}
		eased := 1 - math.Pow(1-t, 3)
		value := start + delta*eased

		in.mu.Lock()
		defer in.mu.Unlock()
		if in.task != task {
			// superseded by a newer target or stopped
			return false
		}
		in.display = value
		if in.onFrame != nil {
			in.onFrame(int(math.Round(value)))
		}
		return t < 1
	})
	in.task = task
}

// Stop cancels any in-flight animation. After Stop returns no frame callback
// will fire; safe to call repeatedly.
func (in *Interpolator) Stop() {
	in.cancelTask()
}

// Display returns the currently displayed value, rounded for presentation
func (in *Interpolator) Display() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return int(math.Round(in.display))
}

// cancelTask detaches and stops the running task. The detach under the lock
// makes any still-running frame a recognized stale frame that skips the
// callback, so cancellation never has to block on the frame goroutine.
func (in *Interpolator) cancelTask() {
	in.mu.Lock()
	task := in.task
	in.task = nil
	in.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}
