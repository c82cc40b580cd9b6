// Package clock provides the wall-clock ports.Scheduler.
package clock

import (
	"time"

	"github.com/tejashwikalptaru/gopraise/internal/ports"
)

// System schedules callbacks with time.AfterFunc.
type System struct{}

// New returns the system scheduler.
func New() System { return System{} }

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// AfterFunc runs f on its own goroutine after d.
func (System) AfterFunc(d time.Duration, f func()) ports.Timer {
	return time.AfterFunc(d, f)
}

var _ ports.Scheduler = System{}
