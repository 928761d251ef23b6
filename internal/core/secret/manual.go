package secret

import (
	"sync"
	"time"
)

// ManualScheduler records timers and runs them only when Expire is called,
// as if the clock jumped past every deadline. Hosts use it to play a hold
// to completion without waiting; tests use it for deterministic timing.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// ManualTimer is a timer created by ManualScheduler.
type ManualTimer struct {
	mu       sync.Mutex
	delay    time.Duration
	callback func()
	stopped  bool
	fired    bool
}

// AfterFunc records callback without starting a real timer.
func (scheduler *ManualScheduler) AfterFunc(delay time.Duration, callback func()) Timer {
	timer := &ManualTimer{delay: delay, callback: callback}
	scheduler.mu.Lock()
	scheduler.timers = append(scheduler.timers, timer)
	scheduler.mu.Unlock()
	return timer
}

// Timers returns every timer armed so far, oldest first.
func (scheduler *ManualScheduler) Timers() []*ManualTimer {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return append([]*ManualTimer(nil), scheduler.timers...)
}

// Expire runs every timer that is neither stopped nor fired and returns how
// many ran. Callbacks run on the caller's goroutine.
func (scheduler *ManualScheduler) Expire() int {
	ran := 0
	for _, timer := range scheduler.Timers() {
		if timer.due() {
			timer.callback()
			ran++
		}
	}
	return ran
}

// Stop cancels the timer. It reports false if the timer already stopped or ran.
func (timer *ManualTimer) Stop() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.stopped || timer.fired {
		return false
	}
	timer.stopped = true
	return true
}

// Delay is the duration the timer was armed with.
func (timer *ManualTimer) Delay() time.Duration {
	return timer.delay
}

// Stopped reports whether Stop cancelled the timer.
func (timer *ManualTimer) Stopped() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.stopped
}

// Fire runs the callback even if the timer was stopped, like a runtime timer
// whose callback was already in flight when Stop was called.
func (timer *ManualTimer) Fire() {
	timer.mu.Lock()
	timer.fired = true
	timer.mu.Unlock()
	timer.callback()
}

func (timer *ManualTimer) due() bool {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	if timer.stopped || timer.fired {
		return false
	}
	timer.fired = true
	return true
}
