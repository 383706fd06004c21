package series

import (
	"context"
	"errors"
	"testing"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/testsCommon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readRangeCall struct {
	resolution int64
	start      int64
	end        int64
}

func int64Ptr(value int64) *int64 {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}

func createArgs(storage Storage) ArgsTableBuilder {
	return ArgsTableBuilder{
		Storage:       storage,
		NumDataPoints: 1000,
		MaxDataPoints: 5000,
	}
}

func requireRequestError(t *testing.T, err error, reason string) {
	requestErr := &common.RequestError{}
	require.True(t, errors.As(err, &requestErr))
	assert.Equal(t, reason, requestErr.Reason)
}

func TestNewTableBuilder(t *testing.T) {
	t.Parallel()

	t.Run("nil storage should error", func(t *testing.T) {
		t.Parallel()

		builder, err := NewTableBuilder(createArgs(nil))
		assert.Nil(t, builder)
		assert.Equal(t, errNilStorage, err)
	})
	t.Run("invalid number of data points should error", func(t *testing.T) {
		t.Parallel()

		args := createArgs(&testsCommon.StoreStub{})
		args.NumDataPoints = 0
		builder, err := NewTableBuilder(args)
		assert.Nil(t, builder)
		assert.Equal(t, errInvalidNumDataPoints, err)
	})
	t.Run("maximum lower than the number of data points should error", func(t *testing.T) {
		t.Parallel()

		args := createArgs(&testsCommon.StoreStub{})
		args.MaxDataPoints = 10
		builder, err := NewTableBuilder(args)
		assert.Nil(t, builder)
		assert.Equal(t, errInvalidMaxDataPoints, err)
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		builder, err := NewTableBuilder(createArgs(&testsCommon.StoreStub{}))
		assert.NoError(t, err)
		assert.False(t, builder.IsInterfaceNil())
	})
}

func TestResolutionSelection(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1), resolutionForRange(999, 1000).Seconds)
	assert.Equal(t, int64(4), resolutionForRange(1000, 1000).Seconds)
	assert.Equal(t, int64(86400), resolutionForRange(1000000000, 1000).Seconds)

	res, capped := resolutionForResAndRange(60, 1000, 5000)
	assert.Equal(t, int64(60), res.Seconds)
	assert.False(t, capped)

	res, capped = resolutionForResAndRange(30, 1000, 5000)
	assert.Equal(t, int64(60), res.Seconds)
	assert.True(t, capped)

	res, capped = resolutionForResAndRange(1, 10000, 5000)
	assert.Equal(t, int64(4), res.Seconds)
	assert.True(t, capped)

	res, capped = resolutionForResAndRange(86400, 1000000000000, 5000)
	assert.Equal(t, int64(86400), res.Seconds)
	assert.True(t, capped)

	levels := coarserOrEqual(common.Resolutions[0], common.Resolutions[3])
	require.Len(t, levels, 4)
	assert.Equal(t, int64(60), levels[0].Seconds)
	assert.Equal(t, int64(1), levels[3].Seconds)
}

func TestTableBuilder_BuildErrors(t *testing.T) {
	t.Parallel()

	t.Run("unknown view", func(t *testing.T) {
		t.Parallel()

		builder, _ := NewTableBuilder(createArgs(&testsCommon.StoreStub{}))
		table, err := builder.Build(context.Background(), "frequency", common.TableRequest{})
		assert.Nil(t, table)
		requireRequestError(t, err, common.ReasonUnknownView)
	})
	t.Run("start after end", func(t *testing.T) {
		t.Parallel()

		builder, _ := NewTableBuilder(createArgs(&testsCommon.StoreStub{}))
		table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{
			Start: int64Ptr(200),
			End:   int64Ptr(100),
		})
		assert.Nil(t, table)
		requireRequestError(t, err, common.ReasonInvalidRequest)
	})
	t.Run("range start after range end", func(t *testing.T) {
		t.Parallel()

		store := &testsCommon.StoreStub{
			BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
				return common.Bounds{Minimum: 100, Maximum: 200, HasData: true}, nil
			},
		}
		builder, _ := NewTableBuilder(createArgs(store))
		table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{
			RangeStart: int64Ptr(180),
			RangeEnd:   int64Ptr(120),
		})
		assert.Nil(t, table)
		requireRequestError(t, err, common.ReasonInvalidRequest)
	})
	t.Run("storage errors are not request errors", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("expected error")
		store := &testsCommon.StoreStub{
			BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
				return common.Bounds{}, expectedErr
			},
		}
		builder, _ := NewTableBuilder(createArgs(store))
		table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{})
		assert.Nil(t, table)
		assert.ErrorIs(t, err, expectedErr)

		requestErr := &common.RequestError{}
		assert.False(t, errors.As(err, &requestErr))
	})
	t.Run("read range error", func(t *testing.T) {
		t.Parallel()

		expectedErr := errors.New("expected error")
		store := &testsCommon.StoreStub{
			BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
				return common.Bounds{Minimum: 100, Maximum: 200, HasData: true}, nil
			},
			ReadRangeHandler: func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
				return nil, expectedErr
			},
		}
		builder, _ := NewTableBuilder(createArgs(store))
		table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{})
		assert.Nil(t, table)
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestTableBuilder_BuildEmptyStorage(t *testing.T) {
	t.Parallel()

	store := &testsCommon.StoreStub{
		ChannelsHandler: func(ctx context.Context) ([]string, error) {
			return []string{"MTU1"}, nil
		},
		ReadRangeHandler: func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
			require.Fail(t, "should not read samples")
			return nil, nil
		},
	}
	builder, _ := NewTableBuilder(createArgs(store))

	table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{RealTimeAdjust: true})
	require.NoError(t, err)
	require.Len(t, table.Cols, 2)
	assert.Equal(t, timeColumnID, table.Cols[0].ID)
	assert.Equal(t, "MTU1", table.Cols[1].Label)
	assert.NotNil(t, table.Rows)
	assert.Empty(t, table.Rows)
	assert.Equal(t, "0", table.P["minimum"])
	assert.Equal(t, "0", table.P["maximum"])
	assert.Equal(t, `1" (auto)`, table.P["resolutionString"])
}

func TestTableBuilder_BuildCoarseFineAndTail(t *testing.T) {
	t.Parallel()

	calls := make([]readRangeCall, 0)
	store := &testsCommon.StoreStub{
		BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
			return common.Bounds{Minimum: 1000, Maximum: 2000, HasData: true}, nil
		},
		ChannelsHandler: func(ctx context.Context) ([]string, error) {
			return []string{"MTU1"}, nil
		},
		ReadRangeHandler: func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
			calls = append(calls, readRangeCall{resolution: resolution, start: start, end: end})

			switch {
			case resolution == 4 && start == 1000:
				return []common.Reading{{Channel: "MTU1", Timestamp: 1000, Power: 1}}, nil
			case resolution == 1 && start == 1400:
				return []common.Reading{{Channel: "MTU1", Timestamp: 1500, Power: 2}}, nil
			case resolution == 4 && start == 1701:
				return []common.Reading{
					{Channel: "MTU1", Timestamp: 1704, Power: 3},
					{Channel: "MTU1", Timestamp: 2000, Power: 4},
				}, nil
			case resolution == 1 && start == 1708:
				return []common.Reading{
					{Channel: "MTU1", Timestamp: 1999, Power: 5},
					{Channel: "MTU1", Timestamp: 2000, Power: 6},
				}, nil
			}

			return make([]common.Reading, 0), nil
		},
	}
	builder, _ := NewTableBuilder(createArgs(store))

	table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{
		Start: int64Ptr(1500),
		End:   int64Ptr(1600),
	})
	require.NoError(t, err)

	expectedCalls := []readRangeCall{
		{resolution: 4, start: 1000, end: 1399},
		{resolution: 1, start: 1400, end: 1700},
		{resolution: 4, start: 1701, end: 2000},
		{resolution: 1, start: 1708, end: 2000},
	}
	assert.Equal(t, expectedCalls, calls)

	expectedRows := [][]interface{}{
		{int64(1000), 1.0},
		{int64(1500), 2.0},
		{int64(1704), 3.0},
		{int64(1999), 5.0},
		{int64(2000), 6.0},
	}
	require.Len(t, table.Rows, len(expectedRows))
	for i, expected := range expectedRows {
		assert.Equal(t, expected[0], table.Rows[i].C[0].V)
		assert.Equal(t, expected[1], table.Rows[i].C[1].V)
	}

	assert.Equal(t, `1" (auto)`, table.P["resolutionString"])
	assert.Equal(t, "1", table.P["resolution"])
	assert.Equal(t, "1000", table.P["minimum"])
	assert.Equal(t, "2000", table.P["maximum"])
}

func TestTableBuilder_BuildRealTimeAdjustPinnedResolution(t *testing.T) {
	t.Parallel()

	calls := make([]readRangeCall, 0)
	store := &testsCommon.StoreStub{
		BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
			return common.Bounds{Minimum: 1000, Maximum: 2000, HasData: true}, nil
		},
		ReadRangeHandler: func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
			calls = append(calls, readRangeCall{resolution: resolution, start: start, end: end})
			return make([]common.Reading, 0), nil
		},
	}
	builder, _ := NewTableBuilder(createArgs(store))

	table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{
		Start:          int64Ptr(1500),
		End:            int64Ptr(1600),
		Resolution:     60,
		ExtraPoints:    2,
		RealTimeAdjust: true,
	})
	require.NoError(t, err)

	expectedCalls := []readRangeCall{
		{resolution: 60, start: 1000, end: 1679},
		{resolution: 60, start: 1680, end: 2220},
	}
	assert.Equal(t, expectedCalls, calls)
	assert.Equal(t, "1'", table.P["resolutionString"])
	assert.Equal(t, "60", table.P["resolution"])
}

func TestTableBuilder_BuildRealTimeAdjustShouldShiftTheDetailRange(t *testing.T) {
	t.Parallel()

	calls := make([]readRangeCall, 0)
	store := &testsCommon.StoreStub{
		BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
			return common.Bounds{Minimum: 1000, Maximum: 2000, HasData: true}, nil
		},
		ReadRangeHandler: func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
			calls = append(calls, readRangeCall{resolution: resolution, start: start, end: end})
			return make([]common.Reading, 0), nil
		},
	}
	builder, _ := NewTableBuilder(createArgs(store))

	_, err := builder.Build(context.Background(), ViewPower, common.TableRequest{
		Start:          int64Ptr(1500),
		End:            int64Ptr(1600),
		RangeStart:     int64Ptr(1400),
		RangeEnd:       int64Ptr(1700),
		Resolution:     60,
		RealTimeAdjust: true,
	})
	require.NoError(t, err)

	expectedCalls := []readRangeCall{
		{resolution: 60, start: 1000, end: 1799},
		{resolution: 60, start: 1800, end: 2100},
	}
	assert.Equal(t, expectedCalls, calls)
}

func TestTableBuilder_BuildCappedResolution(t *testing.T) {
	t.Parallel()

	store := &testsCommon.StoreStub{
		BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
			return common.Bounds{Minimum: 0, Maximum: 100000, HasData: true}, nil
		},
	}
	builder, _ := NewTableBuilder(createArgs(store))

	table, err := builder.Build(context.Background(), ViewPower, common.TableRequest{Resolution: 1})
	require.NoError(t, err)
	assert.Equal(t, `1' (capped)`, table.P["resolutionString"])
}

func TestTableBuilder_BuildViews(t *testing.T) {
	t.Parallel()

	store := &testsCommon.StoreStub{
		BoundsHandler: func(ctx context.Context) (common.Bounds, error) {
			return common.Bounds{Minimum: 100, Maximum: 100, HasData: true}, nil
		},
		ChannelsHandler: func(ctx context.Context) ([]string, error) {
			return []string{"L1", "L2"}, nil
		},
		ReadRangeHandler: func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
			if start > 100 || end < 100 {
				return make([]common.Reading, 0), nil
			}

			return []common.Reading{
				{Channel: "L1", Timestamp: 100, Power: 3, Voltage: floatPtr(230), VoltAmperes: floatPtr(5)},
				{Channel: "L2", Timestamp: 100, Power: 10, VoltAmperes: floatPtr(8)},
				{Channel: "unknown", Timestamp: 100, Power: 1},
			}, nil
		},
	}
	args := createArgs(store)
	args.TimeZoneOffset = 3600
	builder, _ := NewTableBuilder(args)

	build := func(view string) *common.Table {
		table, err := builder.Build(context.Background(), view, common.TableRequest{})
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, int64(3700), table.Rows[0].C[0].V)
		assert.Equal(t, "3600", table.P["timeZoneOffset"])
		assert.Equal(t, "100", table.P["maximum"])

		return table
	}
	values := func(table *common.Table) []interface{} {
		result := make([]interface{}, 0)
		for _, cell := range table.Rows[0].C[1:] {
			result = append(result, cell.V)
		}

		return result
	}

	table := build(ViewPower)
	assert.Equal(t, []interface{}{3.0, 10.0}, values(table))

	table = build(ViewVoltage)
	assert.Equal(t, []interface{}{230.0, nil}, values(table))

	table = build(ViewVoltAmperes)
	assert.Equal(t, []interface{}{5.0, 8.0}, values(table))

	table = build(ViewVoltAmperesReactive)
	assert.Equal(t, []interface{}{4.0, 0.0}, values(table))

	table = build(ViewPowerFactor)
	assert.Equal(t, []interface{}{0.6, 1.25}, values(table))

	table = build(ViewCombinedPower)
	labels := make([]string, 0)
	for _, col := range table.Cols {
		labels = append(labels, col.Label)
	}
	assert.Equal(t, []string{timeColumnLabel, "L1 W", "L1 VA", "L2 W", "L2 VA"}, labels)
	assert.Equal(t, []interface{}{3.0, 5.0, 10.0, 8.0}, values(table))
}
