package widget

import "time"

// Timer is a pending delayed call
type Timer interface {
	// Stop prevents the call from running, it reports
	// false when the call already ran or was stopped
	Stop() bool
}

// Scheduler runs delayed calls. The widget uses it for the
// recorder quiet period and the swap transition.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type clockScheduler struct{}

func (clockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
