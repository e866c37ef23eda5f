package temporal

import "time"

// OpenEnd is the close_time sentinel marking the version currently in effect.
// It sorts after any real timestamp the service will ever write, so the open
// version of an entity is always the row whose window closes at this instant.
var OpenEnd = time.Date(2037, time.December, 31, 23, 59, 59, 0, time.UTC)

// IsOpen reports whether a close time marks its version as the one in effect.
func IsOpen(closeTime time.Time) bool {
	return closeTime.Equal(OpenEnd)
}

// Window is the effective-time interval [Start, Close) during which a version
// is authoritative.
type Window struct {
	Start time.Time
	Close time.Time
}

// NewOpenWindow returns a window starting at asOf with no real close time.
func NewOpenWindow(asOf time.Time) Window {
	return Window{Start: asOf, Close: OpenEnd}
}

// Open reports whether the window carries the open sentinel.
func (w Window) Open() bool {
	return IsOpen(w.Close)
}

// Contains reports whether t falls inside the half-open interval.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.Close)
}

// Abuts reports whether next starts exactly where w closes.
func (w Window) Abuts(next Window) bool {
	return w.Close.Equal(next.Start)
}
