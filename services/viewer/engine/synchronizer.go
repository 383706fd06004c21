package engine

import (
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// OnReady handles the widget ready notification. A ready that follows a self-initiated draw or range change is
// consumed as a routine completion
func (c *controller) OnReady() {
	switch c.drawState {
	case DrawDrawing:
		c.drawState = c.settledState()
		log.Trace("widget ready consumed", "state", c.drawState)
		if c.movedDuringDraw() {
			log.Trace("widget moved while drawing")
			c.OnRangeChanged()
		}
	case DrawDrawingWithPendingRedraw:
		if c.movedDuringDraw() {
			log.Trace("widget moved while drawing")
			c.drawState = c.settledState()
			c.OnRangeChanged()
		}
		log.Trace("widget ready, drawing the deferred redraw")
		c.draw()
	default:
		visible := c.widget.VisibleRange()
		if visible.Set && !sameWindow(visible, c.visibleWindow()) {
			log.Trace("unsolicited widget ready with a moved range")
			c.OnRangeChanged()
		}
	}
}

// OnRangeChanged handles the widget range changed notification. Notifications caused by the controller are
// ignored; the others are debounced and only the settled range triggers a query
func (c *controller) OnRangeChanged() {
	if !c.bounds.Known {
		return
	}
	if c.drawState.SelfInitiated() {
		log.Trace("self-initiated range change ignored")
		return
	}

	c.drawState = DrawRangeSettling
	c.schedule(&c.debounceTimer, c.cfg.Scheduler.Debounce(), c.onRangeSettled)
}

func (c *controller) onRangeSettled() {
	if c.drawState == DrawRangeSettling {
		c.drawState = DrawSettled
	}

	visible := c.widget.VisibleRange()
	if !visible.Set || visible.End <= visible.Start {
		return
	}
	if sameWindow(visible, c.visibleWindow()) {
		log.Trace("settled range equals the current window")
		return
	}

	if visible.Duration() != c.currentWidth() {
		c.resolution = common.AutoResolution
	}

	log.Debug("user range change settled", "start", visible.Start, "end", visible.End)
	c.viewport = common.NewViewport(visible.Start, visible.End)
	c.markInteraction()
	c.requery()
}

// applyCommandedViewport moves the window as the result of a command and tags the widget round trip as
// self-initiated
func (c *controller) applyCommandedViewport(viewport common.Viewport) {
	c.cancel(&c.debounceTimer)
	if c.drawState == DrawRangeSettling {
		c.drawState = DrawSettled
	}

	c.viewport = viewport
	c.commanded = viewport
	c.markInteraction()
	if c.display != nil {
		if !c.drawState.SelfInitiated() {
			c.drawState = DrawDrawing
		}
		c.widget.SetVisibleRange(viewport.Start, viewport.End)
	}

	c.requery()
}

// present hands the display table to the widget unless a draw round trip is still outstanding
func (c *controller) present() {
	if c.drawState.SelfInitiated() {
		c.drawState = DrawDrawingWithPendingRedraw
		log.Trace("draw deferred until the widget is ready")
		return
	}

	c.draw()
}

func (c *controller) draw() {
	if c.display == nil {
		c.drawState = c.settledState()
		return
	}

	zoom := c.visibleWindow()
	if c.debounceTimer.armed() {
		visible := c.widget.VisibleRange()
		if visible.Set {
			zoom = visible
		}
	}

	c.drawState = DrawDrawing
	c.commanded = zoom
	c.widget.Draw(c.display, common.DrawOptions{
		Zoom:             zoom,
		View:             c.view,
		ValueSuffix:      common.ValueSuffix(c.view),
		ResolutionString: c.resolutionString,
		Live:             c.isLive(),
		Min:              c.valueMin,
		Max:              c.valueMax,
	})
}

// visibleWindow returns the window the widget should show: the viewport, or the full bounds when unset
func (c *controller) visibleWindow() common.Viewport {
	if c.viewport.Set {
		return c.viewport
	}
	if c.bounds.Known {
		return common.NewViewport(c.bounds.Minimum, c.bounds.Maximum)
	}

	return common.Viewport{}
}

// movedDuringDraw returns true if the widget no longer shows the window it was last told to show
func (c *controller) movedDuringDraw() bool {
	if !c.commanded.Set {
		return false
	}

	visible := c.widget.VisibleRange()

	return visible.Set && !sameWindow(visible, c.commanded)
}

func (c *controller) currentWidth() int64 {
	return c.visibleWindow().Duration()
}

func (c *controller) settledState() DrawState {
	if c.debounceTimer.armed() {
		return DrawRangeSettling
	}

	return DrawSettled
}

func sameWindow(a common.Viewport, b common.Viewport) bool {
	return a.Set == b.Set && a.Start == b.Start && a.End == b.End
}
