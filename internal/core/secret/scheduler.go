package secret

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop cancels the callback. It reports false if it already ran.
	Stop() bool
}

// Scheduler arms one-shot callbacks.
type Scheduler interface {
	AfterFunc(delay time.Duration, callback func()) Timer
}

// RealScheduler schedules callbacks on the runtime timer.
type RealScheduler struct{}

// AfterFunc runs callback on its own goroutine after delay.
func (RealScheduler) AfterFunc(delay time.Duration, callback func()) Timer {
	return time.AfterFunc(delay, callback)
}
