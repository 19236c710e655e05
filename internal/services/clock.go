package services

import (
	"time"

	"github.com/diewo77/lens-console/internal/models"
)

// Clock reads the current time in the shop's timezone.
type Clock struct {
	Now func() time.Time
	Loc *time.Location
}

// SystemClock uses the wall clock in loc.
func SystemClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Loc: loc}
}

// FixedClock always returns t, read in t's own location.
func FixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Loc: t.Location()}
}

func (c Clock) now() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	if c.Loc != nil {
		return now().In(c.Loc)
	}
	return now()
}

// Today is the current calendar day in the shop's timezone.
func (c Clock) Today() models.Date {
	return models.NewDate(c.now())
}
