package timebucket

import (
	"math"
	"time"
	"unicode/utf8"

	"chart_backend/internal/feature/timeaxis/domain/entity"
)

// SelectTickInterval returns the finest ladder interval at or above base
// whose expected tick count over d does not exceed maxTicks.
// An interval missing from the ladder starts the scan at the finest rung.
// When nothing fits, the coarsest interval is returned.
func SelectTickInterval(base entity.Interval, d entity.Domain, maxTicks int) entity.Interval {
	start := 0
	for i, r := range ladder {
		if r.interval == base {
			start = i
			break
		}
	}

	span := d.SpanMillis()
	for _, r := range ladder[start:] {
		if expectedTicks(r, span) <= int64(maxTicks) {
			return r.interval
		}
	}
	return Coarsest()
}

// ExpectedTicks is the number of ticks interval produces over d.
// ok is false for intervals that are not on the ladder.
func ExpectedTicks(interval entity.Interval, d entity.Domain) (ticks int64, ok bool) {
	for _, r := range ladder {
		if r.interval == interval {
			return expectedTicks(r, d.SpanMillis()), true
		}
	}
	return 0, false
}

func expectedTicks(r rung, spanMillis int64) int64 {
	return int64(math.Ceil(float64(spanMillis) / float64(r.tickDistance)))
}

// MaxTicksForWidth estimates how many tick labels fit in pixelWidth without
// overlapping. The estimate formats one fixed date that renders long in most
// layouts. Zero means the axis has no room for labels.
func (b *Bucketer) MaxTicksForWidth(pixelWidth float64, format func(time.Time) string) int {
	if pixelWidth <= 0 || math.IsNaN(pixelWidth) {
		return 0
	}
	label := format(b.RepresentativeDate())
	pixelsPerTick := utf8.RuneCountInString(label)*b.metrics.PixelsPerCharacter + b.metrics.TickBufferPixels
	ticks := math.Floor(pixelWidth / float64(pixelsPerTick))
	// +Inf and very wide charts share one ceiling
	if ticks >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(ticks)
}

// RepresentativeDate is the date formatted to size tick labels: 4 September 2019.
func (b *Bucketer) RepresentativeDate() time.Time {
	return time.Date(2019, time.September, 4, 0, 0, 0, 0, b.loc)
}

// ComputeTicksInterval picks the tick interval for a chart of pixelWidth
// showing d with data bucketed by base.
func (b *Bucketer) ComputeTicksInterval(d entity.Domain, base entity.Interval, pixelWidth float64, format func(time.Time) string) entity.Interval {
	return SelectTickInterval(base, d, b.MaxTicksForWidth(pixelWidth, format))
}

// DomainOf returns the [min, max] domain of values in epoch milliseconds.
func DomainOf(values []time.Time) entity.Domain {
	if len(values) == 0 {
		return entity.Domain{}
	}
	d := entity.Domain{Start: values[0].UnixMilli(), End: values[0].UnixMilli()}
	for _, v := range values[1:] {
		ms := v.UnixMilli()
		if ms < d.Start {
			d.Start = ms
		}
		if ms > d.End {
			d.End = ms
		}
	}
	return d
}
