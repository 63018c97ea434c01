package service

import (
	"time"

	"github.com/vbrevik/plan-targeting-assessment-sub003/internal/ports"
)

// SystemClock implements ports.Clock with wall time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc schedules f on its own goroutine after d.
func (SystemClock) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}
