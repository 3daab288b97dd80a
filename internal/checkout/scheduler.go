package checkout

import "time"

// DefaultOrderDelay is how long order processing appears to take.
const DefaultOrderDelay = 2 * time.Second

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// TimerScheduler uses the runtime timers.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
