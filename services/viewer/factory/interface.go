package factory

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/engine"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/tui"
	"github.com/rivo/tview"
)

// Controller defines the viewport synchronization controller operations
type Controller interface {
	Start()
	Stop()
	Zoom(seconds int64)
	ScrollToPresent()
	Requery()
	SetResolution(resolution common.Resolution)
	SetView(view string) error
	SetDelta(enabled bool)
	SetValueRange(minimum *float64, maximum *float64)
	OnReady()
	OnRangeChanged()
	Status() engine.Status
	IsInterfaceNil() bool
}

// Loop defines the single goroutine executor the controller lives on
type Loop interface {
	Post(f func()) bool
	Run(ctx context.Context)
	Close() error
	IsInterfaceNil() bool
}

// Widget defines the terminal widget as seen by the components handler
type Widget interface {
	engine.Widget
	SetNotifier(notifier tui.Notifier) error
	SetCommands(commands tui.Commands) error
	Refresh(ctx context.Context)
	Primitive() tview.Primitive
}
