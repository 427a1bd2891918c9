package timebucket

import (
	"fmt"
	"strings"
	"time"

	"chart_backend/internal/feature/timeaxis/domain"
	"chart_backend/internal/feature/timeaxis/domain/entity"
)

// ParseUnit converts user input into a TimeUnit.
// An empty string yields the zero unit; anything outside the canonical set is rejected.
func ParseUnit(s string) (entity.TimeUnit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	if s == "millisecond" {
		return entity.UnitMillisecond, nil
	}
	u := entity.TimeUnit(s)
	if _, ok := unitRank[u]; !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedUnit, s)
	}
	return u, nil
}

// ApproximateUnitDuration returns a fixed-length estimate of one unit.
// Months count as 28 days, quarters as 90 and years as 365.
func ApproximateUnitDuration(u entity.TimeUnit) (time.Duration, error) {
	const day = 24 * time.Hour
	switch u {
	case entity.UnitMillisecond:
		return time.Millisecond, nil
	case entity.UnitSecond:
		return time.Second, nil
	case entity.UnitMinute:
		return time.Minute, nil
	case entity.UnitHour:
		return time.Hour, nil
	case entity.UnitDay:
		return day, nil
	case entity.UnitWeek:
		return 7 * day, nil
	case entity.UnitMonth:
		return 28 * day, nil
	case entity.UnitQuarter:
		return 3 * 30 * day, nil
	case entity.UnitYear:
		return 365 * day, nil
	default:
		return 0, fmt.Errorf("%w: %s", domain.ErrUnsupportedUnit, u)
	}
}

// IntervalDuration is the approximate duration of a whole interval.
func IntervalDuration(i entity.Interval) (time.Duration, error) {
	d, err := ApproximateUnitDuration(i.Unit)
	if err != nil {
		return 0, err
	}
	return d * time.Duration(i.Count), nil
}

// PickMinimalUnit returns the finest of units, ignoring zero units.
// Units outside the canonical set rank after every known unit.
// The result is the zero unit only when every input is zero.
func PickMinimalUnit(units ...entity.TimeUnit) entity.TimeUnit {
	var finest entity.TimeUnit
	for _, u := range units {
		if u.IsZero() {
			continue
		}
		if finest.IsZero() || rankOf(u) < rankOf(finest) {
			finest = u
		}
	}
	return finest
}

func rankOf(u entity.TimeUnit) int {
	if r, ok := unitRank[u]; ok {
		return r
	}
	return len(unitRank)
}

// addUnits adds count units to t with calendar arithmetic, so a month
// starting in January is 31 days and a year containing Feb 29 is 366.
func addUnits(t time.Time, u entity.TimeUnit, count int) (time.Time, error) {
	switch u {
	case entity.UnitMillisecond:
		return t.Add(time.Duration(count) * time.Millisecond), nil
	case entity.UnitSecond:
		return t.Add(time.Duration(count) * time.Second), nil
	case entity.UnitMinute:
		return t.Add(time.Duration(count) * time.Minute), nil
	case entity.UnitHour:
		return t.Add(time.Duration(count) * time.Hour), nil
	case entity.UnitDay:
		return t.AddDate(0, 0, count), nil
	case entity.UnitWeek:
		return t.AddDate(0, 0, 7*count), nil
	case entity.UnitMonth:
		return t.AddDate(0, count, 0), nil
	case entity.UnitQuarter:
		return t.AddDate(0, 3*count, 0), nil
	case entity.UnitYear:
		return t.AddDate(count, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedUnit, u)
	}
}
