package transform

import (
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// Options drives the optional steps of the pipeline
type Options struct {
	Delta bool
}

// Result is the display-ready table together with the metadata extracted from the raw response
type Result struct {
	Table            *common.SeriesTable
	Bounds           common.DataBounds
	ResolutionString string
	Resolution       int64
}

// Apply turns a raw data source table into a display-ready one. The raw table is never mutated
func Apply(raw *common.SeriesTable, opts Options) Result {
	if raw == nil {
		return Result{
			Table: &common.SeriesTable{},
		}
	}

	samples := raw.Samples
	if opts.Delta {
		samples = Delta(samples)
	}

	bounds := EffectiveBounds(raw)
	table := &common.SeriesTable{
		Labels:           raw.Labels,
		Samples:          Pad(samples, bounds, len(raw.Labels)),
		TimeZoneOffset:   raw.TimeZoneOffset,
		ResolutionString: raw.ResolutionString,
		Resolution:       raw.Resolution,
		ServerMinimum:    raw.ServerMinimum,
		ServerMaximum:    raw.ServerMaximum,
	}

	return Result{
		Table:            table,
		Bounds:           bounds,
		ResolutionString: raw.ResolutionString,
		Resolution:       raw.Resolution,
	}
}

// Delta replaces every value with its difference from the previous row. The first row becomes zero.
// A value is absent when either of the two readings it derives from is absent
func Delta(samples []common.Sample) []common.Sample {
	if len(samples) < 2 {
		return samples
	}

	result := make([]common.Sample, len(samples))
	for i, sample := range samples {
		values := make([]common.Value, len(sample.Values))
		for col, value := range sample.Values {
			if i == 0 {
				values[col] = zeroLike(value)
				continue
			}

			previous := valueAt(samples[i-1], col)
			if !value.Valid || !previous.Valid {
				continue
			}
			values[col] = common.NewValue(value.Number - previous.Number)
		}

		result[i] = common.Sample{
			Timestamp: sample.Timestamp,
			Values:    values,
		}
	}

	return result
}

func zeroLike(value common.Value) common.Value {
	if !value.Valid {
		return value
	}

	return common.NewValue(0)
}

func valueAt(sample common.Sample, col int) common.Value {
	if col >= len(sample.Values) {
		return common.Value{}
	}

	return sample.Values[col]
}

// EffectiveBounds returns the declared table bounds moved to the display clock, falling back to the first and
// last row timestamps when the declared bounds are missing
func EffectiveBounds(raw *common.SeriesTable) common.DataBounds {
	bounds := common.DataBounds{}
	offset := common.Timestamp(raw.TimeZoneOffset)

	if raw.ServerMinimum != 0 {
		bounds.Minimum = raw.ServerMinimum + offset
		bounds.Known = true
	} else if len(raw.Samples) > 0 {
		bounds.Minimum = raw.Samples[0].Timestamp
		bounds.Known = true
	}

	if raw.ServerMaximum != 0 {
		bounds.Maximum = raw.ServerMaximum + offset
	} else if len(raw.Samples) > 0 {
		bounds.Maximum = raw.Samples[len(raw.Samples)-1].Timestamp
	} else {
		bounds.Maximum = bounds.Minimum
	}

	if bounds.Maximum < bounds.Minimum {
		bounds.Maximum = bounds.Minimum
	}

	return bounds
}

// Pad synthesizes rows at the bounds so the table always spans [minimum, maximum]
func Pad(samples []common.Sample, bounds common.DataBounds, numColumns int) []common.Sample {
	if !bounds.Known {
		return samples
	}

	if len(samples) == 0 {
		result := []common.Sample{emptySample(bounds.Minimum, numColumns)}
		if bounds.Maximum > bounds.Minimum {
			result = append(result, emptySample(bounds.Maximum, numColumns))
		}

		return result
	}

	first := samples[0]
	last := samples[len(samples)-1]

	result := make([]common.Sample, 0, len(samples)+2)
	if bounds.Minimum < first.Timestamp {
		result = append(result, copySample(bounds.Minimum, first))
	}
	result = append(result, samples...)
	if bounds.Maximum > last.Timestamp {
		result = append(result, copySample(bounds.Maximum, last))
	}

	return result
}

func emptySample(timestamp common.Timestamp, numColumns int) common.Sample {
	return common.Sample{
		Timestamp: timestamp,
		Values:    make([]common.Value, numColumns),
	}
}

func copySample(timestamp common.Timestamp, source common.Sample) common.Sample {
	values := make([]common.Value, len(source.Values))
	copy(values, source.Values)

	return common.Sample{
		Timestamp: timestamp,
		Values:    values,
	}
}
