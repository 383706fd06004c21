package series

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("series")

const (
	timeColumnID    = "time"
	timeColumnLabel = "Time"
)

// ArgsTableBuilder is the DTO used to create a new table builder
type ArgsTableBuilder struct {
	Storage        Storage
	NumDataPoints  int64
	MaxDataPoints  int64
	TimeZoneOffset int64
}

type tableBuilder struct {
	storage        Storage
	numDataPoints  int64
	maxDataPoints  int64
	timeZoneOffset int64
}

// NewTableBuilder creates a builder that turns the stored readings into time-series tables
func NewTableBuilder(args ArgsTableBuilder) (*tableBuilder, error) {
	if check.IfNil(args.Storage) {
		return nil, errNilStorage
	}
	if args.NumDataPoints <= 0 {
		return nil, errInvalidNumDataPoints
	}
	if args.MaxDataPoints < args.NumDataPoints {
		return nil, errInvalidMaxDataPoints
	}

	return &tableBuilder{
		storage:        args.Storage,
		numDataPoints:  args.NumDataPoints,
		maxDataPoints:  args.MaxDataPoints,
		timeZoneOffset: args.TimeZoneOffset,
	}, nil
}

// Build returns the table of the view. The rows hold coarse samples over the whole stored range and fine samples
// inside the detail window around the requested one
func (b *tableBuilder) Build(ctx context.Context, view string, req common.TableRequest) (*common.Table, error) {
	columns, found := views[view]
	if !found {
		return nil, common.NewRequestError(common.ReasonUnknownView, fmt.Sprintf("unknown view %s", view))
	}

	bounds, err := b.storage.Bounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read bounds: %w", err)
	}
	channels, err := b.storage.Channels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}

	start, end := bounds.Minimum, bounds.Maximum
	if req.Start != nil {
		start = *req.Start
	}
	if req.End != nil {
		end = *req.End
	}
	shift := int64(0)
	if req.RealTimeAdjust && bounds.HasData {
		shift = bounds.Maximum - end
		start += shift
		end += shift
	}
	if start > end {
		return nil, common.NewRequestError(common.ReasonInvalidRequest, fmt.Sprintf("start %d is after end %d", start, end))
	}
	if req.ExtraPoints < 0 {
		return nil, common.NewRequestError(common.ReasonInvalidRequest, "negative extra points")
	}

	width := end - start
	fine, resolutionString := b.fineResolution(req.Resolution, width)

	rb := newRowsBuilder(channels, columns, b.timeZoneOffset)
	table := &common.Table{
		Cols: rb.columns(),
		P:    b.properties(bounds, fine, resolutionString),
	}
	if !bounds.HasData {
		table.Rows = rb.rows
		return table, nil
	}

	detailStart, detailEnd := start-width, end+width
	if req.RangeStart != nil {
		detailStart = *req.RangeStart + shift
	}
	if req.RangeEnd != nil {
		detailEnd = *req.RangeEnd + shift
	}
	detailStart -= req.ExtraPoints * fine.Seconds
	detailEnd += req.ExtraPoints * fine.Seconds
	if detailStart > detailEnd {
		return nil, common.NewRequestError(common.ReasonInvalidRequest,
			fmt.Sprintf("range start %d is after range end %d", detailStart, detailEnd))
	}

	coarse := resolutionForRange(bounds.Maximum-bounds.Minimum, b.numDataPoints)
	if coarse.Seconds < fine.Seconds {
		coarse = fine
	}

	err = b.appendRange(ctx, rb, coarse, bounds.Minimum, detailStart-1)
	if err != nil {
		return nil, err
	}
	err = b.appendRange(ctx, rb, fine, detailStart, detailEnd)
	if err != nil {
		return nil, err
	}
	err = b.appendTail(ctx, rb, fine, coarse, detailEnd+1, bounds.Maximum)
	if err != nil {
		return nil, err
	}

	table.Rows = rb.rows
	log.Trace("table built", "view", view, "resolution", resolutionString, "rows", len(table.Rows),
		"coarse", coarse.Label, "detail start", detailStart, "detail end", detailEnd)

	return table, nil
}

func (b *tableBuilder) fineResolution(requested int64, width int64) (common.Resolution, string) {
	if requested <= 0 {
		res := resolutionForRange(width, b.numDataPoints)
		return res, res.Label + autoSuffix
	}

	res, capped := resolutionForResAndRange(requested, width, b.maxDataPoints)
	if capped {
		return res, res.Label + cappedSuffix
	}

	return res, res.Label
}

func (b *tableBuilder) properties(bounds common.Bounds, fine common.Resolution, resolutionString string) map[string]string {
	return map[string]string{
		"timeZoneOffset":   strconv.FormatInt(b.timeZoneOffset, 10),
		"resolutionString": resolutionString,
		"resolution":       strconv.FormatInt(fine.Seconds, 10),
		"minimum":          strconv.FormatInt(bounds.Minimum, 10),
		"maximum":          strconv.FormatInt(bounds.Maximum, 10),
	}
}

func (b *tableBuilder) appendRange(ctx context.Context, rb *rowsBuilder, res common.Resolution, start int64, end int64) error {
	readings, err := b.storage.ReadRange(ctx, res.Seconds, start, end)
	if err != nil {
		return fmt.Errorf("failed to read %s samples: %w", res.Label, err)
	}

	rb.append(readings)

	return nil
}

// appendTail covers the range after the detail window, going from the coarse resolution to the fine one. A bucket
// still open at the maximum is left to the finer resolutions
func (b *tableBuilder) appendTail(
	ctx context.Context,
	rb *rowsBuilder,
	fine common.Resolution,
	coarse common.Resolution,
	from int64,
	maximum int64,
) error {
	covered := from
	for _, res := range coarserOrEqual(fine, coarse) {
		if covered > maximum {
			return nil
		}

		readings, err := b.storage.ReadRange(ctx, res.Seconds, covered, maximum)
		if err != nil {
			return fmt.Errorf("failed to read %s samples: %w", res.Label, err)
		}

		isFinest := res.Seconds == fine.Seconds
		complete := readings[:0]
		for _, reading := range readings {
			if !isFinest && reading.Timestamp+res.Seconds > maximum+1 {
				break
			}
			complete = append(complete, reading)
		}
		if len(complete) == 0 {
			continue
		}

		rb.append(complete)
		covered = complete[len(complete)-1].Timestamp + res.Seconds
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (b *tableBuilder) IsInterfaceNil() bool {
	return b == nil
}
