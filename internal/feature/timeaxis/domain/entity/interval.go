// Package entity defines the domain models for the timeaxis feature.
package entity

import "fmt"

// TimeUnit is a calendar or clock granularity.
// The zero value means "no unit".
type TimeUnit string

const (
	UnitMillisecond TimeUnit = "ms"
	UnitSecond      TimeUnit = "second"
	UnitMinute      TimeUnit = "minute"
	UnitHour        TimeUnit = "hour"
	UnitDay         TimeUnit = "day"
	UnitWeek        TimeUnit = "week"
	UnitMonth       TimeUnit = "month"
	UnitQuarter     TimeUnit = "quarter"
	UnitYear        TimeUnit = "year"
)

// IsZero reports whether no unit was given.
func (u TimeUnit) IsZero() bool {
	return u == ""
}

// Interval is Count consecutive Units, e.g. {UnitSecond, 15} is "every 15 seconds".
type Interval struct {
	Unit  TimeUnit
	Count int
}

// String returns a compact form such as "15second" or "1day".
func (i Interval) String() string {
	return fmt.Sprintf("%d%s", i.Count, i.Unit)
}

// Domain is the closed range [Start, End] of an axis in epoch milliseconds.
type Domain struct {
	Start int64
	End   int64
}

// SpanMillis returns End - Start.
func (d Domain) SpanMillis() int64 {
	return d.End - d.Start
}
