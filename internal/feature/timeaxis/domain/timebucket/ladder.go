// Package timebucket picks calendar buckets and tick spacing for time axes.
//
// All functions are pure. The interval ladder is built once at package
// initialization and never mutated, so a Bucketer can be shared freely
// between goroutines.
package timebucket

import (
	"fmt"
	"time"

	"chart_backend/internal/feature/timeaxis/domain/entity"
)

// calendarPoint is a timestamp split into calendar fields in a single location.
type calendarPoint struct {
	millisecond int
	second      int
	minute      int
	hour        int
	day         int // day of month, 1-31
	weekday     int // 0 = Sunday
	month       int // 0 = January
	year        int
}

func decompose(t time.Time, loc *time.Location) calendarPoint {
	t = t.In(loc)
	return calendarPoint{
		millisecond: t.Nanosecond() / int(time.Millisecond),
		second:      t.Second(),
		minute:      t.Minute(),
		hour:        t.Hour(),
		day:         t.Day(),
		weekday:     int(t.Weekday()),
		month:       int(t.Month()) - 1,
		year:        t.Year(),
	}
}

// rung is one ladder entry. discriminate returns a value that is constant
// across timestamps which already line up on this interval.
type rung struct {
	interval     entity.Interval
	discriminate func(p calendarPoint) int
	tickDistance int64 // milliseconds from epoch 0 to epoch 0 + interval, UTC
}

// Smaller counts within a unit must divide the larger ones
// (no 2-day rung next to the 7-day week).
var ladder = []rung{
	{interval: entity.Interval{Unit: entity.UnitMillisecond, Count: 1}, discriminate: func(calendarPoint) int { return 0 }},
	{interval: entity.Interval{Unit: entity.UnitSecond, Count: 1}, discriminate: func(p calendarPoint) int { return p.millisecond }},
	{interval: entity.Interval{Unit: entity.UnitSecond, Count: 5}, discriminate: func(p calendarPoint) int { return p.second % 5 }},
	{interval: entity.Interval{Unit: entity.UnitSecond, Count: 15}, discriminate: func(p calendarPoint) int { return p.second % 15 }},
	{interval: entity.Interval{Unit: entity.UnitSecond, Count: 30}, discriminate: func(p calendarPoint) int { return p.second % 30 }},
	{interval: entity.Interval{Unit: entity.UnitMinute, Count: 1}, discriminate: func(p calendarPoint) int { return p.second }},
	{interval: entity.Interval{Unit: entity.UnitMinute, Count: 5}, discriminate: func(p calendarPoint) int { return p.minute % 5 }},
	{interval: entity.Interval{Unit: entity.UnitMinute, Count: 15}, discriminate: func(p calendarPoint) int { return p.minute % 15 }},
	{interval: entity.Interval{Unit: entity.UnitMinute, Count: 30}, discriminate: func(p calendarPoint) int { return p.minute % 30 }},
	{interval: entity.Interval{Unit: entity.UnitHour, Count: 1}, discriminate: func(p calendarPoint) int { return p.minute }},
	{interval: entity.Interval{Unit: entity.UnitHour, Count: 3}, discriminate: func(p calendarPoint) int { return p.hour % 3 }},
	{interval: entity.Interval{Unit: entity.UnitHour, Count: 6}, discriminate: func(p calendarPoint) int { return p.hour % 6 }},
	{interval: entity.Interval{Unit: entity.UnitHour, Count: 12}, discriminate: func(p calendarPoint) int { return p.hour % 12 }},
	{interval: entity.Interval{Unit: entity.UnitDay, Count: 1}, discriminate: func(p calendarPoint) int { return p.hour }},
	{interval: entity.Interval{Unit: entity.UnitWeek, Count: 1}, discriminate: func(p calendarPoint) int { return p.weekday }},
	{interval: entity.Interval{Unit: entity.UnitMonth, Count: 1}, discriminate: func(p calendarPoint) int { return p.day }},
	{interval: entity.Interval{Unit: entity.UnitMonth, Count: 3}, discriminate: func(p calendarPoint) int { return p.month % 3 }},
	{interval: entity.Interval{Unit: entity.UnitYear, Count: 1}, discriminate: func(p calendarPoint) int { return p.month }},
	{interval: entity.Interval{Unit: entity.UnitYear, Count: 5}, discriminate: func(p calendarPoint) int { return p.year % 5 }},
	{interval: entity.Interval{Unit: entity.UnitYear, Count: 10}, discriminate: func(p calendarPoint) int { return p.year % 10 }},
	{interval: entity.Interval{Unit: entity.UnitYear, Count: 50}, discriminate: func(p calendarPoint) int { return p.year % 50 }},
	{interval: entity.Interval{Unit: entity.UnitYear, Count: 100}, discriminate: func(p calendarPoint) int { return p.year % 100 }},
}

// ladderIndexByUnit maps an explicit unit to the rung used for it.
// ms and second are absent on purpose: those are always inferred.
var ladderIndexByUnit = map[entity.TimeUnit]int{
	entity.UnitMinute:  5,
	entity.UnitHour:    9,
	entity.UnitDay:     13,
	entity.UnitWeek:    14,
	entity.UnitMonth:   15,
	entity.UnitQuarter: 16,
	entity.UnitYear:    17,
}

// unitRank orders units from finest to coarsest.
var unitRank = map[entity.TimeUnit]int{
	entity.UnitMillisecond: 0,
	entity.UnitSecond:      1,
	entity.UnitMinute:      2,
	entity.UnitHour:        3,
	entity.UnitDay:         4,
	entity.UnitWeek:        5,
	entity.UnitMonth:       6,
	entity.UnitQuarter:     7,
	entity.UnitYear:        8,
}

var (
	dayIndex  = indexOfUnit(entity.UnitDay)
	weekIndex = indexOfUnit(entity.UnitWeek)
)

func init() {
	epoch := time.UnixMilli(0).UTC()
	for i := range ladder {
		end, err := addUnits(epoch, ladder[i].interval.Unit, ladder[i].interval.Count)
		if err != nil {
			panic(fmt.Sprintf("timebucket: ladder rung %d: %v", i, err))
		}
		ladder[i].tickDistance = end.UnixMilli()
	}
}

func indexOfUnit(u entity.TimeUnit) int {
	for i, r := range ladder {
		if r.interval.Unit == u {
			return i
		}
	}
	return -1
}

// Ladder returns a copy of the interval ladder, finest first.
func Ladder() []entity.Interval {
	out := make([]entity.Interval, len(ladder))
	for i, r := range ladder {
		out[i] = r.interval
	}
	return out
}

// Coarsest returns the last ladder entry (100 years).
func Coarsest() entity.Interval {
	return ladder[len(ladder)-1].interval
}
