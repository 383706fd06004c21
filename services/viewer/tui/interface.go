package tui

import (
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/rivo/tview"
)

// Screen queues updates on the terminal application goroutine
type Screen interface {
	QueueUpdateDraw(f func()) *tview.Application
}

// Notifier receives the widget notifications
type Notifier interface {
	OnReady()
	OnRangeChanged()
	IsInterfaceNil() bool
}

// Commands are the controller operations reachable from the keyboard
type Commands interface {
	Zoom(seconds int64)
	ScrollToPresent()
	Requery()
	SetDelta(enabled bool)
	SetValueRange(minimum *float64, maximum *float64)
	SetView(view string) error
	SetResolution(resolution common.Resolution)
	IsInterfaceNil() bool
}

// ErrorLog exposes the recorded failures
type ErrorLog interface {
	Entries() []common.ErrorEntry
	Clear()
	IsEmpty() bool
	IsInterfaceNil() bool
}
