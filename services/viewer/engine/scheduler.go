package engine

import (
	"errors"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/query"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/transform"
)

var errNilTable = errors.New("nil table received")

// Requery fetches the current window. While a query is in flight the call is coalesced into one follow-up query
func (c *controller) Requery() {
	c.requery()
}

func (c *controller) requery() {
	c.cancel(&c.retryTimer)
	c.cancel(&c.realTimeTimer)

	if c.requestState.InFlight() {
		c.requestState = c.requestState.withPendingQuery()
		log.Trace("query coalesced", "state", c.requestState)
		return
	}

	params := query.Build(c.queryState())
	c.requestState = RequestFetching
	log.Debug("querying data source", "view", params.View, "params", params.Values().Encode())

	c.requester.Send(params, c.onFetchDone)
}

func (c *controller) onFetchDone(table *common.SeriesTable, err error) {
	if !c.requestState.InFlight() {
		log.Warn("unexpected query completion ignored")
		return
	}

	if err == nil && table == nil {
		err = errNilTable
	}
	if err != nil {
		c.onFetchFailed(err)
		return
	}

	c.onFetchSucceeded(table)
}

func (c *controller) onFetchSucceeded(table *common.SeriesTable) {
	pendingQuery := c.requestState.HasPendingQuery()
	wasLive := c.isLive()

	c.backoff.reset()
	c.raw = table
	result := transform.Apply(table, transform.Options{Delta: c.delta})
	c.display = result.Table
	c.bounds = result.Bounds
	c.timeZoneOffset = result.Table.TimeZoneOffset
	c.resolutionSeconds = result.Resolution
	c.resolutionString = result.ResolutionString

	followUp := c.adjustViewport(wasLive)

	c.requestState = RequestIdle
	log.Debug("query completed", "rows", len(table.Samples), "resolution", c.resolutionString,
		"minimum", c.bounds.Minimum, "maximum", c.bounds.Maximum)

	c.present()

	if pendingQuery || followUp {
		c.requery()
		return
	}

	c.armRealTime()
}

// adjustViewport applies the initial zoom after the first fetch and keeps a live window attached to the newest
// data. Returns true if the window changed in a way that needs a new query
func (c *controller) adjustViewport(wasLive bool) bool {
	if c.firstFetch {
		c.firstFetch = false

		zoom := common.Timestamp(c.cfg.InitialZoomInSeconds)
		if zoom <= 0 || !c.bounds.Known || c.viewport.Set {
			return false
		}
		if c.bounds.Maximum-c.bounds.Minimum <= zoom {
			return false
		}

		c.viewport = common.NewViewport(c.bounds.Maximum-zoom, c.bounds.Maximum)
		log.Debug("initial zoom applied", "start", c.viewport.Start, "end", c.viewport.End)

		return true
	}

	if !wasLive || !c.viewport.Set || !c.bounds.Known {
		return false
	}
	if c.viewport.End == c.bounds.Maximum {
		return false
	}

	width := c.viewport.End - c.viewport.Start
	c.viewport = common.NewViewport(c.bounds.Maximum-width, c.bounds.Maximum)

	return false
}

func (c *controller) onFetchFailed(err error) {
	pendingQuery := c.requestState.HasPendingQuery()
	pendingDraw := c.requestState.HasPendingDraw()

	c.errorLog.AddError("query "+c.view, err)
	c.requestState = RequestIdle

	if pendingDraw {
		c.redrawHeld()
	}

	if pendingQuery {
		log.Debug("query failed, retrying the pending one", "error", err)
		c.schedule(&c.retryTimer, c.cfg.Scheduler.PendingRetry(), c.requery)
		return
	}

	delay := c.backoff.next()
	log.Warn("query failed, will retry", "error", err, "delay", delay)
	c.schedule(&c.retryTimer, delay, c.requery)
}
