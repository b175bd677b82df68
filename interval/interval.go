package interval

import (
	"fmt"
	"time"

	"github.com/MrEthical07/goStats/stat"
)

// Fixed fires every Period, aligned to midnight in Location.
type Fixed struct {
	Period   time.Duration
	Location *time.Location
}

var _ stat.Interval = Fixed{}

// Every returns a midnight-aligned interval of period d in the local zone.
// A non-positive d yields Never.
func Every(d time.Duration) stat.Interval {
	if d <= 0 {
		return Never()
	}
	return Fixed{Period: d, Location: time.Local}
}

// InLocation returns a copy of a Fixed interval aligned to loc. Other
// intervals are returned unchanged.
func InLocation(iv stat.Interval, loc *time.Location) stat.Interval {
	f, ok := iv.(Fixed)
	if !ok || loc == nil {
		return iv
	}
	f.Location = loc
	return f
}

// Seconds returns an interval of n seconds.
func Seconds(n int) stat.Interval { return Every(time.Duration(n) * time.Second) }

// Minutes returns an interval of n minutes.
func Minutes(n int) stat.Interval { return Every(time.Duration(n) * time.Minute) }

// Hours returns an interval of n hours.
func Hours(n int) stat.Interval { return Every(time.Duration(n) * time.Hour) }

// Hourly fires at the top of every hour.
func Hourly() stat.Interval { return Every(time.Hour) }

// Daily fires at midnight.
func Daily() stat.Interval { return Every(24 * time.Hour) }

// First returns the earliest aligned instant not before now.
func (f Fixed) First(now time.Time) (time.Time, bool) {
	if f.Period <= 0 {
		return time.Time{}, false
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	elapsed := local.Sub(midnight)
	steps := elapsed / f.Period
	first := midnight.Add(steps * f.Period)
	if first.Before(now) {
		first = first.Add(f.Period)
	}
	return first, true
}

// Next returns t advanced by one period.
func (f Fixed) Next(t time.Time) (time.Time, bool) {
	if f.Period <= 0 {
		return time.Time{}, false
	}
	return t.Add(f.Period), true
}

func (f Fixed) String() string {
	return fmt.Sprintf("[every %s]", f.Period)
}

type never struct{}

// Never returns an interval that never fires.
func Never() stat.Interval { return never{} }

func (never) First(time.Time) (time.Time, bool) { return time.Time{}, false }
func (never) Next(time.Time) (time.Time, bool)  { return time.Time{}, false }
func (never) String() string                    { return "[never]" }
