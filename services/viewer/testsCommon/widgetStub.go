package testsCommon

import (
	"sync"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// WidgetStub behaves like a widget that shows exactly the requested zoom window
type WidgetStub struct {
	DrawHandler            func(table *common.SeriesTable, opts common.DrawOptions)
	SetVisibleRangeHandler func(start common.Timestamp, end common.Timestamp)

	mut                sync.Mutex
	visible            common.Viewport
	numDraws           int
	numSetVisibleRange int
	lastTable          *common.SeriesTable
	lastOptions        common.DrawOptions
}

// Draw -
func (stub *WidgetStub) Draw(table *common.SeriesTable, opts common.DrawOptions) {
	stub.mut.Lock()
	stub.numDraws++
	stub.lastTable = table
	stub.lastOptions = opts
	if opts.Zoom.Set {
		stub.visible = opts.Zoom
	}
	stub.mut.Unlock()

	if stub.DrawHandler != nil {
		stub.DrawHandler(table, opts)
	}
}

// VisibleRange -
func (stub *WidgetStub) VisibleRange() common.Viewport {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.visible
}

// SetVisibleRange -
func (stub *WidgetStub) SetVisibleRange(start common.Timestamp, end common.Timestamp) {
	stub.mut.Lock()
	stub.numSetVisibleRange++
	stub.visible = common.NewViewport(start, end)
	stub.mut.Unlock()

	if stub.SetVisibleRangeHandler != nil {
		stub.SetVisibleRangeHandler(start, end)
	}
}

// MoveTo simulates a user pan or zoom of the widget
func (stub *WidgetStub) MoveTo(start common.Timestamp, end common.Timestamp) {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	stub.visible = common.NewViewport(start, end)
}

// NumDraws -
func (stub *WidgetStub) NumDraws() int {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.numDraws
}

// NumSetVisibleRange -
func (stub *WidgetStub) NumSetVisibleRange() int {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.numSetVisibleRange
}

// LastTable -
func (stub *WidgetStub) LastTable() *common.SeriesTable {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.lastTable
}

// LastOptions -
func (stub *WidgetStub) LastOptions() common.DrawOptions {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.lastOptions
}

// IsInterfaceNil -
func (stub *WidgetStub) IsInterfaceNil() bool {
	return stub == nil
}
