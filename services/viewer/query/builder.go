package query

import (
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// ExtraPoints is the number of samples requested beyond each edge of the visible window
const ExtraPoints = 2

// SentinelEpoch anchors the placeholder window of the very first fetch
const SentinelEpoch common.Timestamp = 0

// State is the controller state the request parameters derive from. Viewport and Bounds are in display clock
type State struct {
	View               string
	Viewport           common.Viewport
	Bounds             common.DataBounds
	Resolution         common.Resolution
	FirstFetch         bool
	PartialRange       bool
	InitialZoomSeconds int64
	TimeZoneOffset     int64
}

// Build derives the data source request parameters from the provided state
func Build(state State) common.QueryParams {
	params := common.QueryParams{
		View:        state.View,
		ExtraPoints: ExtraPoints,
		Resolution:  state.Resolution,
	}
	if state.Resolution.IsAuto() {
		params.Resolution = common.AutoResolution
	}

	if !state.Bounds.Known {
		if state.FirstFetch && !state.Viewport.Set && state.InitialZoomSeconds > 0 {
			start := SentinelEpoch
			end := SentinelEpoch + common.Timestamp(state.InitialZoomSeconds)
			params.Start = &start
			params.End = &end
		}

		return params
	}

	params.RealTimeAdjust = IsLive(state.Viewport, state.Bounds)

	if !state.Viewport.Set {
		return params
	}
	if state.Viewport.Start == state.Bounds.Minimum && state.Viewport.End == state.Bounds.Maximum {
		return params
	}

	offset := common.Timestamp(state.TimeZoneOffset)
	start := state.Viewport.Start - offset
	end := state.Viewport.End - offset
	params.Start = &start
	params.End = &end

	if state.PartialRange {
		width := state.Viewport.End - state.Viewport.Start
		rangeStart := maxTimestamp(state.Viewport.Start-width, state.Bounds.Minimum) - offset
		rangeEnd := minTimestamp(state.Viewport.End+width, state.Bounds.Maximum) - offset
		params.RangeStart = &rangeStart
		params.RangeEnd = &rangeEnd
	}

	return params
}

// IsLive returns true if the viewport tracks the latest available data point
func IsLive(viewport common.Viewport, bounds common.DataBounds) bool {
	if !bounds.Known {
		return false
	}
	if !viewport.Set {
		return true
	}

	return viewport.End >= bounds.Maximum
}

func maxTimestamp(a common.Timestamp, b common.Timestamp) common.Timestamp {
	if a > b {
		return a
	}

	return b
}

func minTimestamp(a common.Timestamp, b common.Timestamp) common.Timestamp {
	if a < b {
		return a
	}

	return b
}
