package engine

import (
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// Requester defines the query channel to the data source
type Requester interface {
	// Send starts one query. The done handler must be called exactly once, on the controller loop
	Send(params common.QueryParams, done func(table *common.SeriesTable, err error))
	IsInterfaceNil() bool
}

// Widget defines the rendering component. It must signal ready after each Draw and SetVisibleRange call and
// range changed whenever its visible window moves
type Widget interface {
	Draw(table *common.SeriesTable, opts common.DrawOptions)
	VisibleRange() common.Viewport
	SetVisibleRange(start common.Timestamp, end common.Timestamp)
	IsInterfaceNil() bool
}

// Clock provides the time and the scheduled callbacks. Callbacks must run on the controller loop
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) common.Timer
	IsInterfaceNil() bool
}

// ErrorLog defines the store of recent failures
type ErrorLog interface {
	Add(message string)
	AddError(operation string, err error)
	Entries() []common.ErrorEntry
	Clear()
	IsEmpty() bool
	IsInterfaceNil() bool
}
