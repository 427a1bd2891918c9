package entity

// AxisLayout is the result of laying out a time axis for one chart.
type AxisLayout struct {
	DataInterval Interval // bucket used to group the data
	TickInterval Interval // spacing between rendered ticks
	MaxTicks     int      // tick budget derived from the pixel width
	Domain       Domain
	Timezone     string // IANA name the calendar fields were read in
	LabelSample  string // representative tick label used for the width estimate
}

// ShowTicks reports whether the width leaves room for at least one label.
func (a AxisLayout) ShowTicks() bool {
	return a.MaxTicks > 0
}
