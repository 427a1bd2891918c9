package timebucket

import (
	"time"

	"chart_backend/internal/feature/timeaxis/domain"
	"chart_backend/internal/feature/timeaxis/domain/entity"
)

// LabelMetrics are the visual tuning values used to estimate how many tick
// labels fit in a given width.
type LabelMetrics struct {
	PixelsPerCharacter int
	TickBufferPixels   int // gap between labels; narrower gaps get the labels hidden client-side
}

// DefaultLabelMetrics match the chart client's default font.
var DefaultLabelMetrics = LabelMetrics{
	PixelsPerCharacter: 7,
	TickBufferPixels:   20,
}

// Bucketer reads calendar fields in one fixed location.
// It holds no mutable state.
type Bucketer struct {
	loc     *time.Location
	metrics LabelMetrics
}

var defaultBucketer = New(time.UTC, DefaultLabelMetrics)

// Default returns the UTC bucketer with default label metrics.
func Default() *Bucketer {
	return defaultBucketer
}

// New returns a Bucketer for loc. A nil loc means UTC and
// non-positive metrics fall back to DefaultLabelMetrics.
func New(loc *time.Location, metrics LabelMetrics) *Bucketer {
	if loc == nil {
		loc = time.UTC
	}
	if metrics.PixelsPerCharacter <= 0 {
		metrics.PixelsPerCharacter = DefaultLabelMetrics.PixelsPerCharacter
	}
	if metrics.TickBufferPixels <= 0 {
		metrics.TickBufferPixels = DefaultLabelMetrics.TickBufferPixels
	}
	return &Bucketer{loc: loc, metrics: metrics}
}

// Location returns the location calendar fields are read in.
func (b *Bucketer) Location() *time.Location {
	return b.loc
}

// PickNaturalInterval returns the ladder interval that best groups values.
//
// An explicit unit with a ladder mapping wins without looking at values.
// A single value always buckets by day. Otherwise the ladder is scanned
// finest-first for the first rung at which the values stop agreeing, and
// the rung before it is returned. Week is skipped when the rung after it
// still agrees, since weeks do not line up with months. Values that agree
// on every rung get the coarsest interval.
func (b *Bucketer) PickNaturalInterval(values []time.Time, explicit entity.TimeUnit) (entity.Interval, error) {
	if i, ok := ladderIndexByUnit[explicit]; ok {
		return ladder[i].interval, nil
	}

	switch len(values) {
	case 0:
		return entity.Interval{}, domain.ErrEmptyValues
	case 1:
		return ladder[dayIndex].interval, nil
	}

	counts := b.distinctCounts(values)

	idx := firstDiscriminating(counts, 0)
	if idx == weekIndex && counts[weekIndex+1] == 1 {
		idx = firstDiscriminating(counts, weekIndex+1)
	}
	if idx < 0 {
		return Coarsest(), nil
	}
	// rung 0 never discriminates, so idx >= 1 here
	return ladder[idx-1].interval, nil
}

// distinctCounts returns, per rung, how many different discriminator values the input produces.
func (b *Bucketer) distinctCounts(values []time.Time) []int {
	seen := make([]map[int]struct{}, len(ladder))
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}
	for _, v := range values {
		p := decompose(v, b.loc)
		for i, r := range ladder {
			seen[i][r.discriminate(p)] = struct{}{}
		}
	}

	counts := make([]int, len(ladder))
	for i, s := range seen {
		counts[i] = len(s)
	}
	return counts
}

// firstDiscriminating returns the first index >= from whose count is not 1, or -1.
func firstDiscriminating(counts []int, from int) int {
	for i := from; i < len(counts); i++ {
		if counts[i] != 1 {
			return i
		}
	}
	return -1
}

// PickNaturalInterval runs the default UTC bucketer.
func PickNaturalInterval(values []time.Time, explicit entity.TimeUnit) (entity.Interval, error) {
	return defaultBucketer.PickNaturalInterval(values, explicit)
}
