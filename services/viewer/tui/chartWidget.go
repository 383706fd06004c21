package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/rivo/tview"
)

var log = logger.GetOrCreate("tui")

const (
	panDivider  = 4
	zoomFactor  = 2
	minZoomSpan = 60
	footerText  = "←/→ pan  +/- zoom  1-9 presets  n now  r reload  d delta  z scale  v view  [/] resolution  a auto  e errors  c clear  q quit"
)

// resolutions that can be pinned from the keyboard, in seconds
var resolutions = []common.Resolution{1, 4, 15, 60, 240, 900, 3600, 10800, 28800, 86400}

// ArgsChartWidget is the DTO used to create a new chart widget
type ArgsChartWidget struct {
	Screen      Screen
	ErrorLog    ErrorLog
	ZoomPresets []int64
	HasVoltage  bool
	HasKVA      bool
	Delta       bool
	ValueMin    *float64
	ValueMax    *float64
	OnQuit      func()
}

type chartWidget struct {
	screen      Screen
	errorLog    ErrorLog
	zoomPresets []int64
	views       []string
	onQuit      func()
	fixedMin    *float64
	fixedMax    *float64

	header     *tview.TextView
	chart      *tview.TextView
	errorsView *tview.TextView
	footer     *tview.TextView
	layout     *tview.Flex

	mut        sync.RWMutex
	notifier   Notifier
	commands   Commands
	table      *common.SeriesTable
	opts       common.DrawOptions
	visible    common.Viewport
	delta      bool
	fixedScale bool
	showErrors bool
}

// NewChartWidget creates a terminal chart widget
func NewChartWidget(args ArgsChartWidget) (*chartWidget, error) {
	if args.Screen == nil {
		return nil, errors.New("nil screen")
	}
	if check.IfNil(args.ErrorLog) {
		return nil, errors.New("nil error log")
	}

	w := &chartWidget{
		screen:      args.Screen,
		errorLog:    args.ErrorLog,
		zoomPresets: args.ZoomPresets,
		views:       availableViews(args.HasVoltage, args.HasKVA),
		onQuit:      args.OnQuit,
		fixedMin:    args.ValueMin,
		fixedMax:    args.ValueMax,
		delta:       args.Delta,
		fixedScale:  args.ValueMin != nil || args.ValueMax != nil,
	}
	if w.fixedMin == nil && w.fixedMax == nil {
		zero := 0.0
		w.fixedMin = &zero
	}

	w.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	w.chart = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWordWrap(false)
	w.chart.SetBorder(true)
	w.errorsView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	w.errorsView.SetBorder(true).SetTitle(" Errors ")
	w.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetText(footerText)

	w.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(w.header, 2, 0, false).
		AddItem(w.chart, 0, 1, true).
		AddItem(w.footer, 1, 0, false)
	w.layout.SetInputCapture(w.handleKey)

	return w, nil
}

func availableViews(hasVoltage bool, hasKVA bool) []string {
	views := make([]string, 0, len(common.AllViews))
	for _, view := range common.AllViews {
		if common.CheckViewAvailable(view, hasVoltage, hasKVA) == nil {
			views = append(views, view)
		}
	}

	return views
}

// SetNotifier sets the receiver of the ready and range changed notifications
func (w *chartWidget) SetNotifier(notifier Notifier) error {
	if check.IfNil(notifier) {
		return errors.New("nil notifier")
	}

	w.mut.Lock()
	w.notifier = notifier
	w.mut.Unlock()

	return nil
}

// SetCommands sets the operations triggered from the keyboard
func (w *chartWidget) SetCommands(commands Commands) error {
	if check.IfNil(commands) {
		return errors.New("nil commands")
	}

	w.mut.Lock()
	w.commands = commands
	w.mut.Unlock()

	return nil
}

// Primitive returns the root primitive of the widget
func (w *chartWidget) Primitive() tview.Primitive {
	return w.layout
}

// Draw renders the table over the zoom window of the options and signals ready once on screen
func (w *chartWidget) Draw(table *common.SeriesTable, opts common.DrawOptions) {
	w.mut.Lock()
	w.table = table
	w.opts = opts
	if opts.Zoom.Set {
		w.visible = opts.Zoom
	}
	w.mut.Unlock()

	w.screen.QueueUpdateDraw(func() {
		w.render()
		w.notifyReady()
	})
}

// VisibleRange returns the displayed window
func (w *chartWidget) VisibleRange() common.Viewport {
	w.mut.RLock()
	defer w.mut.RUnlock()

	return w.visible
}

// SetVisibleRange moves the displayed window, signalling range changed and then ready
func (w *chartWidget) SetVisibleRange(start common.Timestamp, end common.Timestamp) {
	w.mut.Lock()
	w.visible = common.NewViewport(start, end)
	w.mut.Unlock()

	w.screen.QueueUpdateDraw(func() {
		w.render()
		w.notifyRangeChanged()
		w.notifyReady()
	})
}

// Refresh re-renders the widget without signalling the controller
func (w *chartWidget) Refresh(_ context.Context) {
	w.screen.QueueUpdateDraw(w.render)
}

// render must run on the terminal application goroutine
func (w *chartWidget) render() {
	w.mut.RLock()
	table := w.table
	opts := w.opts
	opts.Zoom = w.visible
	showErrors := w.showErrors
	w.mut.RUnlock()

	_, _, width, height := w.chart.GetInnerRect()
	w.chart.SetText(tview.TranslateANSI(RenderChart(table, opts, width, height)))
	w.chart.SetTitle(fmt.Sprintf(" %s ", opts.View))
	w.header.SetText(w.headerText(opts))

	if showErrors {
		w.errorsView.SetText(w.errorsText())
	}
}

func (w *chartWidget) headerText(opts common.DrawOptions) string {
	mode := "[yellow]history[white]"
	if opts.Live {
		mode = "[green]live[white]"
	}

	text := fmt.Sprintf("[yellow]View:[white] %s  [yellow]Resolution:[white] %s  [yellow]Mode:[white] %s",
		opts.View, opts.ResolutionString, mode)

	w.mut.RLock()
	delta := w.delta
	w.mut.RUnlock()
	if delta {
		text += "  [yellow]Delta[white]"
	}
	if opts.Min != nil || opts.Max != nil {
		text += "  [yellow]Fixed scale[white]"
	}
	if !w.errorLog.IsEmpty() {
		text += "  [red]errors (e)[white]"
	}

	return text
}

func (w *chartWidget) errorsText() string {
	entries := w.errorLog.Entries()
	if len(entries) == 0 {
		return "[gray]No errors[white]"
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s  %s", entry.Timestamp.Format(timeLayout), tview.Escape(entry.Message)))
	}

	return strings.Join(lines, "\n")
}

func (w *chartWidget) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft:
		w.pan(-1)
		return nil
	case tcell.KeyRight:
		w.pan(1)
		return nil
	case tcell.KeyRune:
		if w.handleRune(event.Rune()) {
			return nil
		}
	}

	return event
}

func (w *chartWidget) handleRune(r rune) bool {
	commands := w.getCommands()

	switch {
	case r == '+':
		w.zoom(1.0 / zoomFactor)
	case r == '-':
		w.zoom(zoomFactor)
	case r >= '1' && r <= '9':
		idx := int(r - '1')
		if idx >= len(w.zoomPresets) || commands == nil {
			return false
		}
		commands.Zoom(w.zoomPresets[idx])
	case r == 'n' && commands != nil:
		commands.ScrollToPresent()
	case r == 'r' && commands != nil:
		commands.Requery()
	case r == 'd' && commands != nil:
		w.mut.Lock()
		w.delta = !w.delta
		delta := w.delta
		w.mut.Unlock()
		commands.SetDelta(delta)
	case r == 'z' && commands != nil:
		w.toggleScale(commands)
	case r == 'v' && commands != nil:
		w.cycleView(commands)
	case r == '[' && commands != nil:
		w.stepResolution(commands, -1)
	case r == ']' && commands != nil:
		w.stepResolution(commands, 1)
	case r == 'a' && commands != nil:
		commands.SetResolution(common.AutoResolution)
	case r == 'e':
		w.toggleErrors()
	case r == 'c':
		w.errorLog.Clear()
		w.render()
	case r == 'q':
		if w.onQuit != nil {
			w.onQuit()
		}
	default:
		return false
	}

	return true
}

func (w *chartWidget) getCommands() Commands {
	w.mut.RLock()
	defer w.mut.RUnlock()

	return w.commands
}

// pan moves the window by a quarter of its width, in the direction of the sign
func (w *chartWidget) pan(direction int) {
	w.moveVisible(func(window common.Viewport) common.Viewport {
		step := (window.End - window.Start) / panDivider
		if step == 0 {
			step = 1
		}
		shift := step * common.Timestamp(direction)

		return common.NewViewport(window.Start+shift, window.End+shift)
	})
}

// zoom scales the window around its end
func (w *chartWidget) zoom(factor float64) {
	w.moveVisible(func(window common.Viewport) common.Viewport {
		span := common.Timestamp(float64(window.End-window.Start) * factor)
		if span < minZoomSpan {
			span = minZoomSpan
		}

		return common.NewViewport(window.End-span, window.End)
	})
}

// moveVisible applies a user move of the window, re-renders locally and signals range changed
func (w *chartWidget) moveVisible(move func(window common.Viewport) common.Viewport) {
	w.mut.Lock()
	if !w.visible.Set {
		w.mut.Unlock()
		return
	}
	w.visible = move(w.visible)
	w.mut.Unlock()

	w.render()
	w.notifyRangeChanged()
}

// toggleScale switches between the fixed vertical scale and the one fitted to the data
func (w *chartWidget) toggleScale(commands Commands) {
	w.mut.Lock()
	w.fixedScale = !w.fixedScale
	fixedScale := w.fixedScale
	w.mut.Unlock()

	if !fixedScale {
		commands.SetValueRange(nil, nil)
		return
	}

	commands.SetValueRange(w.fixedMin, w.fixedMax)
}

func (w *chartWidget) cycleView(commands Commands) {
	if len(w.views) == 0 {
		return
	}

	w.mut.RLock()
	current := w.opts.View
	w.mut.RUnlock()

	next := w.views[0]
	for i, view := range w.views {
		if view == current {
			next = w.views[(i+1)%len(w.views)]
			break
		}
	}

	err := commands.SetView(next)
	if err != nil {
		log.Warn("can not change view", "view", next, "error", err)
	}
}

func (w *chartWidget) stepResolution(commands Commands, direction int) {
	w.mut.RLock()
	current := w.table
	w.mut.RUnlock()

	currentSeconds := int64(0)
	if current != nil {
		currentSeconds = current.Resolution
	}

	idx := 0
	for i, res := range resolutions {
		if int64(res) <= currentSeconds {
			idx = i
		}
	}

	idx += direction
	if idx < 0 || idx >= len(resolutions) {
		return
	}

	commands.SetResolution(resolutions[idx])
}

func (w *chartWidget) toggleErrors() {
	w.mut.Lock()
	w.showErrors = !w.showErrors
	showErrors := w.showErrors
	w.mut.Unlock()

	if showErrors {
		w.layout.AddItem(w.errorsView, 8, 0, false)
	} else {
		w.layout.RemoveItem(w.errorsView)
	}
	w.render()
}

func (w *chartWidget) notifyReady() {
	w.mut.RLock()
	notifier := w.notifier
	w.mut.RUnlock()

	if notifier != nil {
		notifier.OnReady()
	}
}

func (w *chartWidget) notifyRangeChanged() {
	w.mut.RLock()
	notifier := w.notifier
	w.mut.RUnlock()

	if notifier != nil {
		notifier.OnRangeChanged()
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (w *chartWidget) IsInterfaceNil() bool {
	return w == nil
}
