package common

import (
	"net/url"
	"strconv"
	"time"
)

// Timestamp is a point in time expressed in seconds since the epoch
type Timestamp int64

// Time returns the timestamp as a UTC time.Time
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Viewport is the currently displayed time window. Set is false when the full available range should be shown
type Viewport struct {
	Start Timestamp
	End   Timestamp
	Set   bool
}

// NewViewport returns a set viewport spanning [start, end]
func NewViewport(start Timestamp, end Timestamp) Viewport {
	return Viewport{
		Start: start,
		End:   end,
		Set:   true,
	}
}

// Duration returns the width of the window in seconds, 0 for an unset viewport
func (v Viewport) Duration() int64 {
	if !v.Set {
		return 0
	}

	return int64(v.End - v.Start)
}

// DataBounds holds the earliest and latest timestamps available from the data source
type DataBounds struct {
	Minimum Timestamp
	Maximum Timestamp
	Known   bool
}

// Resolution is the sampling granularity in seconds. AutoResolution lets the data source decide
type Resolution int64

// AutoResolution lets the data source pick the sampling granularity
const AutoResolution Resolution = 0

// IsAuto returns true if the resolution is not pinned
func (r Resolution) IsAuto() bool {
	return r <= AutoResolution
}

// Value is a single table cell. Valid is false when the value is absent
type Value struct {
	Number float64
	Valid  bool
}

// NewValue returns a present value
func NewValue(number float64) Value {
	return Value{
		Number: number,
		Valid:  true,
	}
}

// Sample is one row of a series table
type Sample struct {
	Timestamp Timestamp
	Values    []Value
}

// SeriesTable is the table of timestamped rows exchanged between the data source, the controller and the widget
type SeriesTable struct {
	Labels           []string
	Samples          []Sample
	TimeZoneOffset   int64
	ResolutionString string
	Resolution       int64
	ServerMinimum    Timestamp
	ServerMaximum    Timestamp
}

// NumColumns returns the number of value columns
func (t *SeriesTable) NumColumns() int {
	if t == nil {
		return 0
	}

	return len(t.Labels)
}

// QueryParams holds the request parameters sent to the data source
type QueryParams struct {
	View           string
	ExtraPoints    int
	Start          *Timestamp
	End            *Timestamp
	RangeStart     *Timestamp
	RangeEnd       *Timestamp
	Resolution     Resolution
	RealTimeAdjust bool
}

// Values encodes the parameters as URL key/value pairs
func (p QueryParams) Values() url.Values {
	values := url.Values{}
	values.Set("extraPoints", strconv.Itoa(p.ExtraPoints))
	setTimestamp(values, "start", p.Start)
	setTimestamp(values, "end", p.End)
	setTimestamp(values, "rangeStart", p.RangeStart)
	setTimestamp(values, "rangeEnd", p.RangeEnd)
	if !p.Resolution.IsAuto() {
		values.Set("resolution", strconv.FormatInt(int64(p.Resolution), 10))
	}
	if p.RealTimeAdjust {
		values.Set("realTimeAdjust", "yes")
	}

	return values
}

func setTimestamp(values url.Values, key string, ts *Timestamp) {
	if ts == nil {
		return
	}

	values.Set(key, strconv.FormatInt(int64(*ts), 10))
}

// DrawOptions are handed to the widget together with the table
type DrawOptions struct {
	Zoom             Viewport
	View             string
	ValueSuffix      string
	ResolutionString string
	Live             bool
	Min              *float64
	Max              *float64
}

// ErrorEntry is a recorded failure
type ErrorEntry struct {
	Timestamp time.Time
	Message   string
}
