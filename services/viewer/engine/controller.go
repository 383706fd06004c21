package engine

import (
	"errors"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/config"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/query"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/transform"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("engine")

// ArgsController is the DTO used to create a new controller
type ArgsController struct {
	Config    config.Config
	Requester Requester
	Widget    Widget
	Clock     Clock
	ErrorLog  ErrorLog
}

// Status is a snapshot of the controller, used for display
type Status struct {
	View             string
	Viewport         common.Viewport
	Bounds           common.DataBounds
	Resolution       common.Resolution
	ResolutionString string
	RequestState     RequestState
	DrawState        DrawState
	Live             bool
	Delta            bool
}

// controller keeps the displayed window of the widget synchronized with the data source. All its methods,
// including the timer and fetch callbacks, must run on the same loop goroutine
type controller struct {
	cfg       config.Config
	requester Requester
	widget    Widget
	clock     Clock
	errorLog  ErrorLog

	view         string
	viewport     common.Viewport
	commanded    common.Viewport
	bounds       common.DataBounds
	resolution   common.Resolution
	delta        bool
	valueMin     *float64
	valueMax     *float64
	firstFetch   bool
	requestState RequestState
	drawState    DrawState
	backoff      *backoff

	raw               *common.SeriesTable
	display           *common.SeriesTable
	timeZoneOffset    int64
	resolutionSeconds int64
	resolutionString  string
	lastInteraction   time.Time

	retryTimer    timerSlot
	realTimeTimer timerSlot
	debounceTimer timerSlot
}

// NewController creates a new controller instance
func NewController(args ArgsController) (*controller, error) {
	err := checkArgs(args)
	if err != nil {
		return nil, err
	}

	cfg := args.Config
	cfg.ApplyDefaults()

	c := &controller{
		cfg:           cfg,
		requester:     args.Requester,
		widget:        args.Widget,
		clock:         args.Clock,
		errorLog:      args.ErrorLog,
		view:          cfg.View,
		delta:         cfg.Delta,
		valueMin:      cfg.ValueMin,
		valueMax:      cfg.ValueMax,
		firstFetch:    true,
		backoff:       newBackoff(cfg.Scheduler.MinBackoff(), cfg.Scheduler.MaxBackoff()),
		retryTimer:    timerSlot{name: "retry"},
		realTimeTimer: timerSlot{name: "real time"},
		debounceTimer: timerSlot{name: "debounce"},
	}
	c.lastInteraction = c.clock.Now()

	return c, nil
}

func checkArgs(args ArgsController) error {
	if check.IfNil(args.Requester) {
		return errors.New("nil requester")
	}
	if check.IfNil(args.Widget) {
		return errors.New("nil widget")
	}
	if check.IfNil(args.Clock) {
		return errors.New("nil clock")
	}
	if check.IfNil(args.ErrorLog) {
		return errors.New("nil error log")
	}
	if args.Config.InitialZoomInSeconds < 0 {
		return errors.New("negative initial zoom")
	}

	return common.CheckViewAvailable(viewOrDefault(args.Config.View), args.Config.HasVoltage, args.Config.HasKVA)
}

func viewOrDefault(view string) string {
	if len(view) == 0 {
		return common.ViewPower
	}

	return view
}

// Start issues the first query
func (c *controller) Start() {
	log.Debug("controller started", "view", c.view, "initial zoom", c.cfg.InitialZoomInSeconds,
		"real time", c.cfg.RealTime)
	c.requery()
}

// Stop cancels every scheduled callback. A fetch still in flight will be applied if it returns
func (c *controller) Stop() {
	c.cancel(&c.retryTimer)
	c.cancel(&c.realTimeTimer)
	c.cancel(&c.debounceTimer)
}

// Zoom shows the last seconds of the current window, keeping its end
func (c *controller) Zoom(seconds int64) {
	if !c.bounds.Known {
		log.Debug("zoom ignored before the first fetch", "seconds", seconds)
		return
	}
	if seconds <= 0 {
		return
	}

	end := c.bounds.Maximum
	if c.viewport.Set {
		end = c.viewport.End
	}

	c.resolution = common.AutoResolution
	c.applyCommandedViewport(common.NewViewport(end-common.Timestamp(seconds), end))
}

// ScrollToPresent moves the window so it ends at the latest data point, keeping its width
func (c *controller) ScrollToPresent() {
	if !c.bounds.Known {
		log.Debug("scroll to present ignored before the first fetch")
		return
	}
	if !c.viewport.Set {
		c.markInteraction()
		c.requery()
		return
	}

	width := c.viewport.End - c.viewport.Start
	end := c.bounds.Maximum
	c.applyCommandedViewport(common.NewViewport(end-width, end))
}

// SetResolution pins the sampling granularity. AutoResolution unpins it
func (c *controller) SetResolution(resolution common.Resolution) {
	if !c.bounds.Known {
		log.Debug("set resolution ignored before the first fetch", "resolution", resolution)
		return
	}
	if resolution.IsAuto() {
		resolution = common.AutoResolution
	}

	c.resolution = resolution
	c.markInteraction()
	c.requery()
}

// SetView changes the measured quantity requested from the data source
func (c *controller) SetView(view string) error {
	err := common.CheckViewAvailable(view, c.cfg.HasVoltage, c.cfg.HasKVA)
	if err != nil {
		return err
	}
	if view == c.view {
		return nil
	}

	log.Debug("view changed", "from", c.view, "to", view)
	c.view = view
	c.markInteraction()
	c.requery()

	return nil
}

// SetDelta toggles the delta transform and redraws from the held data
func (c *controller) SetDelta(enabled bool) {
	c.delta = enabled
	c.Redraw()
}

// SetValueRange fixes the vertical scale handed to the widget. Nil values let the widget decide
func (c *controller) SetValueRange(minimum *float64, maximum *float64) {
	c.valueMin = minimum
	c.valueMax = maximum
	c.Redraw()
}

// Redraw re-transforms the held data and draws it. While a query is in flight the redraw waits for it
func (c *controller) Redraw() {
	if c.requestState.InFlight() {
		c.requestState = c.requestState.withPendingDraw()
		log.Trace("redraw deferred until the query completes", "state", c.requestState)
		return
	}

	c.redrawHeld()
}

func (c *controller) redrawHeld() {
	if c.raw == nil {
		return
	}

	result := transform.Apply(c.raw, transform.Options{Delta: c.delta})
	c.display = result.Table
	c.present()
}

// Errors returns the recorded failures, newest first
func (c *controller) Errors() []common.ErrorEntry {
	return c.errorLog.Entries()
}

// ClearErrors empties the error log
func (c *controller) ClearErrors() {
	c.errorLog.Clear()
}

// HasErrors returns true if failures were recorded since the last clear
func (c *controller) HasErrors() bool {
	return !c.errorLog.IsEmpty()
}

// Status returns a snapshot of the controller state
func (c *controller) Status() Status {
	return Status{
		View:             c.view,
		Viewport:         c.viewport,
		Bounds:           c.bounds,
		Resolution:       c.resolution,
		ResolutionString: c.resolutionString,
		RequestState:     c.requestState,
		DrawState:        c.drawState,
		Live:             c.isLive(),
		Delta:            c.delta,
	}
}

func (c *controller) isLive() bool {
	return query.IsLive(c.viewport, c.bounds)
}

func (c *controller) markInteraction() {
	c.lastInteraction = c.clock.Now()
}

func (c *controller) queryState() query.State {
	return query.State{
		View:               c.view,
		Viewport:           c.viewport,
		Bounds:             c.bounds,
		Resolution:         c.resolution,
		FirstFetch:         c.firstFetch,
		PartialRange:       c.cfg.PartialRange,
		InitialZoomSeconds: c.cfg.InitialZoomInSeconds,
		TimeZoneOffset:     c.timeZoneOffset,
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (c *controller) IsInterfaceNil() bool {
	return c == nil
}
