package cache

import (
	"time"
)

// TimeUntilNext は now から次に loc で hour 時0分になるまでの期間を返します。
// ちょうど hour 時0分の場合は24時間後を次とみなします。
func TimeUntilNext(hour int, loc *time.Location, now time.Time) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
