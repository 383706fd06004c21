package tui

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/errlog"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/testsCommon"
	"github.com/multiversx/mx-chain-core-go/core/check"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createMockArgsChartWidget() ArgsChartWidget {
	return ArgsChartWidget{
		Screen:      &testsCommon.ScreenStub{},
		ErrorLog:    errlog.NewErrorLog(5),
		ZoomPresets: []int64{3600, 86400},
		HasVoltage:  true,
	}
}

func createWidget(t *testing.T, args ArgsChartWidget) (*chartWidget, *testsCommon.NotifierStub) {
	w, err := NewChartWidget(args)
	require.Nil(t, err)

	notifier := &testsCommon.NotifierStub{}
	require.Nil(t, w.SetNotifier(notifier))

	return w, notifier
}

func createWidgetTable() *common.SeriesTable {
	return &common.SeriesTable{
		Labels: []string{"L1"},
		Samples: []common.Sample{
			{Timestamp: 1000, Values: []common.Value{common.NewValue(10)}},
			{Timestamp: 2000, Values: []common.Value{common.NewValue(20)}},
		},
		Resolution: 60,
	}
}

func keyRune(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestNewChartWidget(t *testing.T) {
	t.Parallel()

	t.Run("nil screen should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsChartWidget()
		args.Screen = nil
		w, err := NewChartWidget(args)
		assert.Equal(t, "nil screen", err.Error())
		assert.True(t, check.IfNil(w))
	})
	t.Run("nil error log should error", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsChartWidget()
		args.ErrorLog = nil
		w, err := NewChartWidget(args)
		assert.Equal(t, "nil error log", err.Error())
		assert.True(t, check.IfNil(w))
	})
	t.Run("should work", func(t *testing.T) {
		t.Parallel()

		w, err := NewChartWidget(createMockArgsChartWidget())
		assert.Nil(t, err)
		assert.False(t, check.IfNil(w))
		assert.NotNil(t, w.Primitive())
		assert.Equal(t, []string{common.ViewPower, common.ViewVoltage}, w.views)
		assert.NotNil(t, w.SetNotifier(nil))
		assert.NotNil(t, w.SetCommands(nil))
	})
}

func TestChartWidget_DrawAndVisibleRange(t *testing.T) {
	t.Parallel()

	t.Run("draw should show the zoom window and signal ready", func(t *testing.T) {
		t.Parallel()

		w, notifier := createWidget(t, createMockArgsChartWidget())
		w.Draw(createWidgetTable(), common.DrawOptions{Zoom: common.NewViewport(1000, 2000), View: common.ViewPower})

		assert.Equal(t, common.NewViewport(1000, 2000), w.VisibleRange())
		assert.Equal(t, []string{"ready"}, notifier.Events())
	})
	t.Run("queued draws should signal ready only once on screen", func(t *testing.T) {
		t.Parallel()

		queued := make([]func(), 0)
		args := createMockArgsChartWidget()
		args.Screen = &testsCommon.ScreenStub{
			QueueUpdateDrawHandler: func(f func()) {
				queued = append(queued, f)
			},
		}
		w, notifier := createWidget(t, args)
		w.Draw(createWidgetTable(), common.DrawOptions{Zoom: common.NewViewport(1000, 2000)})
		assert.Empty(t, notifier.Events())

		queued[0]()
		assert.Equal(t, []string{"ready"}, notifier.Events())
	})
	t.Run("set visible range should signal range changed then ready", func(t *testing.T) {
		t.Parallel()

		w, notifier := createWidget(t, createMockArgsChartWidget())
		w.SetVisibleRange(1500, 2000)

		assert.Equal(t, common.NewViewport(1500, 2000), w.VisibleRange())
		assert.Equal(t, []string{"rangeChanged", "ready"}, notifier.Events())
	})
}

func TestChartWidget_Navigation(t *testing.T) {
	t.Parallel()

	t.Run("moves without a window should be ignored", func(t *testing.T) {
		t.Parallel()

		w, notifier := createWidget(t, createMockArgsChartWidget())
		assert.Nil(t, w.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone)))
		assert.Empty(t, notifier.Events())
		assert.False(t, w.VisibleRange().Set)
	})
	t.Run("arrows should pan by a quarter of the window", func(t *testing.T) {
		t.Parallel()

		w, notifier := createWidget(t, createMockArgsChartWidget())
		w.Draw(createWidgetTable(), common.DrawOptions{Zoom: common.NewViewport(1000, 2000)})

		w.handleKey(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
		assert.Equal(t, common.NewViewport(1250, 2250), w.VisibleRange())

		w.handleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
		w.handleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
		assert.Equal(t, common.NewViewport(750, 1750), w.VisibleRange())
		assert.Equal(t, []string{"ready", "rangeChanged", "rangeChanged", "rangeChanged"}, notifier.Events())
	})
	t.Run("plus and minus should zoom around the window end", func(t *testing.T) {
		t.Parallel()

		w, _ := createWidget(t, createMockArgsChartWidget())
		w.Draw(createWidgetTable(), common.DrawOptions{Zoom: common.NewViewport(1000, 2000)})

		w.handleKey(keyRune('+'))
		assert.Equal(t, common.NewViewport(1500, 2000), w.VisibleRange())

		w.handleKey(keyRune('-'))
		w.handleKey(keyRune('-'))
		assert.Equal(t, common.NewViewport(0, 2000), w.VisibleRange())
	})
	t.Run("zoom in should stop at the minimum span", func(t *testing.T) {
		t.Parallel()

		w, _ := createWidget(t, createMockArgsChartWidget())
		w.Draw(createWidgetTable(), common.DrawOptions{Zoom: common.NewViewport(1900, 2000)})

		w.handleKey(keyRune('+'))
		assert.Equal(t, common.NewViewport(2000-minZoomSpan, 2000), w.VisibleRange())
	})
}

func TestChartWidget_Commands(t *testing.T) {
	t.Parallel()

	t.Run("keys without commands should pass through", func(t *testing.T) {
		t.Parallel()

		w, _ := createWidget(t, createMockArgsChartWidget())
		event := keyRune('n')
		assert.Equal(t, event, w.handleKey(event))
		event = keyRune('1')
		assert.Equal(t, event, w.handleKey(event))
	})
	t.Run("unknown keys should pass through", func(t *testing.T) {
		t.Parallel()

		w, _ := createWidget(t, createMockArgsChartWidget())
		require.Nil(t, w.SetCommands(&testsCommon.CommandsStub{}))
		event := keyRune('x')
		assert.Equal(t, event, w.handleKey(event))
		event = tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)
		assert.Equal(t, event, w.handleKey(event))
	})
	t.Run("command keys should call the controller", func(t *testing.T) {
		t.Parallel()

		zooms := make([]int64, 0)
		numScrolls := 0
		numRequeries := 0
		deltas := make([]bool, 0)
		pinned := make([]common.Resolution, 0)
		commands := &testsCommon.CommandsStub{
			ZoomHandler: func(seconds int64) {
				zooms = append(zooms, seconds)
			},
			ScrollToPresentHandler: func() {
				numScrolls++
			},
			RequeryHandler: func() {
				numRequeries++
			},
			SetDeltaHandler: func(enabled bool) {
				deltas = append(deltas, enabled)
			},
			SetResolutionHandler: func(resolution common.Resolution) {
				pinned = append(pinned, resolution)
			},
		}

		w, _ := createWidget(t, createMockArgsChartWidget())
		require.Nil(t, w.SetCommands(commands))
		w.Draw(createWidgetTable(), common.DrawOptions{Zoom: common.NewViewport(1000, 2000)})

		for _, r := range "2n9rdd][a" {
			w.handleKey(keyRune(r))
		}

		assert.Equal(t, []int64{86400}, zooms)
		assert.Equal(t, 1, numScrolls)
		assert.Equal(t, 1, numRequeries)
		assert.Equal(t, []bool{true, false}, deltas)
		assert.Equal(t, []common.Resolution{240, 15, common.AutoResolution}, pinned)
	})
	t.Run("scale key should toggle the fixed value range", func(t *testing.T) {
		t.Parallel()

		type valueRange struct {
			minimum *float64
			maximum *float64
		}
		ranges := make([]valueRange, 0)
		commands := &testsCommon.CommandsStub{
			SetValueRangeHandler: func(minimum *float64, maximum *float64) {
				ranges = append(ranges, valueRange{minimum: minimum, maximum: maximum})
			},
		}

		w, _ := createWidget(t, createMockArgsChartWidget())
		require.Nil(t, w.SetCommands(commands))
		w.handleKey(keyRune('z'))
		w.handleKey(keyRune('z'))

		require.Len(t, ranges, 2)
		require.NotNil(t, ranges[0].minimum)
		assert.Equal(t, 0.0, *ranges[0].minimum)
		assert.Nil(t, ranges[0].maximum)
		assert.Nil(t, ranges[1].minimum)
		assert.Nil(t, ranges[1].maximum)
	})
	t.Run("configured value range should start fixed", func(t *testing.T) {
		t.Parallel()

		minimum := 100.0
		maximum := 900.0
		args := createMockArgsChartWidget()
		args.ValueMin = &minimum
		args.ValueMax = &maximum

		numCalls := 0
		var lastMin, lastMax *float64
		commands := &testsCommon.CommandsStub{
			SetValueRangeHandler: func(minimum *float64, maximum *float64) {
				numCalls++
				lastMin, lastMax = minimum, maximum
			},
		}

		w, _ := createWidget(t, args)
		require.Nil(t, w.SetCommands(commands))
		assert.Contains(t, w.headerText(common.DrawOptions{Min: &minimum, Max: &maximum}), "Fixed scale")

		w.handleKey(keyRune('z'))
		assert.Nil(t, lastMin)
		assert.Nil(t, lastMax)

		w.handleKey(keyRune('z'))
		assert.Equal(t, 2, numCalls)
		assert.Equal(t, &minimum, lastMin)
		assert.Equal(t, &maximum, lastMax)
	})
	t.Run("configured delta should be the starting state", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsChartWidget()
		args.Delta = true
		deltas := make([]bool, 0)
		commands := &testsCommon.CommandsStub{
			SetDeltaHandler: func(enabled bool) {
				deltas = append(deltas, enabled)
			},
		}

		w, _ := createWidget(t, args)
		require.Nil(t, w.SetCommands(commands))
		assert.Contains(t, w.headerText(common.DrawOptions{}), "Delta")

		w.handleKey(keyRune('d'))
		assert.Equal(t, []bool{false}, deltas)
		assert.NotContains(t, w.headerText(common.DrawOptions{}), "Delta")
	})
	t.Run("view key should cycle through the available views", func(t *testing.T) {
		t.Parallel()

		views := make([]string, 0)
		commands := &testsCommon.CommandsStub{
			SetViewHandler: func(view string) error {
				views = append(views, view)
				if view == common.ViewPower {
					return errors.New("expected error")
				}
				return nil
			},
		}

		w, _ := createWidget(t, createMockArgsChartWidget())
		require.Nil(t, w.SetCommands(commands))

		w.Draw(createWidgetTable(), common.DrawOptions{View: common.ViewPower})
		w.handleKey(keyRune('v'))
		w.Draw(createWidgetTable(), common.DrawOptions{View: common.ViewVoltage})
		w.handleKey(keyRune('v'))

		assert.Equal(t, []string{common.ViewVoltage, common.ViewPower}, views)
	})
	t.Run("error keys should toggle the panel and clear the log", func(t *testing.T) {
		t.Parallel()

		args := createMockArgsChartWidget()
		errorLog := errlog.NewErrorLog(5)
		errorLog.AddError("query power", errors.New("network error"))
		args.ErrorLog = errorLog

		w, _ := createWidget(t, args)
		assert.Contains(t, w.headerText(common.DrawOptions{}), "errors (e)")

		w.handleKey(keyRune('e'))
		assert.True(t, w.showErrors)
		assert.Contains(t, w.errorsView.GetText(true), "query power: network error")

		w.handleKey(keyRune('c'))
		assert.True(t, errorLog.IsEmpty())
		assert.Contains(t, w.errorsView.GetText(true), "No errors")

		w.handleKey(keyRune('e'))
		assert.False(t, w.showErrors)
	})
	t.Run("quit key should call the handler", func(t *testing.T) {
		t.Parallel()

		numQuits := 0
		args := createMockArgsChartWidget()
		args.OnQuit = func() {
			numQuits++
		}

		w, _ := createWidget(t, args)
		assert.Nil(t, w.handleKey(keyRune('q')))
		assert.Equal(t, 1, numQuits)
	})
}
