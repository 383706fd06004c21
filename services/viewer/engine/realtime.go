package engine

import (
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// realTimeDelay returns max(resolution, configured interval)
func (c *controller) realTimeDelay() time.Duration {
	delay := time.Duration(c.resolutionSeconds) * time.Second
	interval := c.cfg.RealTimeInterval()
	if delay < interval {
		return interval
	}

	return delay
}

func (c *controller) armRealTime() {
	if !c.cfg.RealTime || !c.isLive() {
		return
	}

	c.schedule(&c.realTimeTimer, c.realTimeDelay(), c.onRealTimeTick)
}

func (c *controller) onRealTimeTick() {
	if c.requestState.InFlight() {
		log.Trace("real time tick skipped, query in flight")
		return
	}
	if c.isStale() {
		c.reload()
		return
	}

	c.requery()
}

// isStale returns true if the default live window got no interaction for longer than the staleness threshold
func (c *controller) isStale() bool {
	if !c.isDefaultWindow() {
		return false
	}

	return c.clock.Now().Sub(c.lastInteraction) > c.cfg.Scheduler.Staleness()
}

func (c *controller) isDefaultWindow() bool {
	if c.cfg.InitialZoomInSeconds > 0 {
		return c.viewport.Set && c.viewport.Duration() == c.cfg.InitialZoomInSeconds
	}

	return !c.viewport.Set
}

// reload drops every piece of derived state and starts over as on start-up
func (c *controller) reload() {
	log.Info("view idle for too long, reloading", "last interaction", c.lastInteraction)

	c.Stop()
	c.viewport = common.Viewport{}
	c.commanded = common.Viewport{}
	c.bounds = common.DataBounds{}
	c.resolution = common.AutoResolution
	c.firstFetch = true
	c.raw = nil
	c.display = nil
	c.timeZoneOffset = 0
	c.resolutionSeconds = 0
	c.resolutionString = ""
	c.drawState = DrawSettled
	c.backoff.reset()
	c.markInteraction()

	c.requery()
}
