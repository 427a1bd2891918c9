package usecase

import (
	"fmt"
	"time"

	"chart_backend/internal/feature/timeaxis/domain/entity"
)

// LabelFormatter returns the tick label format the chart client uses for
// data bucketed by interval. Labels are rendered in loc.
func LabelFormatter(interval entity.Interval, loc *time.Location) func(time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	layout := ""
	switch interval.Unit {
	case entity.UnitMillisecond:
		layout = "15:04:05.000"
	case entity.UnitSecond:
		layout = "15:04:05"
	case entity.UnitMinute, entity.UnitHour:
		layout = "January 2, 2006, 3:04 PM"
	case entity.UnitDay, entity.UnitWeek:
		layout = "January 2, 2006"
	case entity.UnitMonth:
		if interval.Count%3 == 0 {
			return quarterLabel(loc)
		}
		layout = "January 2006"
	case entity.UnitQuarter:
		return quarterLabel(loc)
	default:
		layout = "2006"
	}
	return func(t time.Time) string {
		return t.In(loc).Format(layout)
	}
}

func quarterLabel(loc *time.Location) func(time.Time) string {
	return func(t time.Time) string {
		t = t.In(loc)
		return fmt.Sprintf("Q%d %d", (int(t.Month())-1)/3+1, t.Year())
	}
}
