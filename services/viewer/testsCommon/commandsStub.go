package testsCommon

import "github.com/iulianpascalau/electric-monitoring/services/viewer/common"

// CommandsStub -
type CommandsStub struct {
	ZoomHandler            func(seconds int64)
	ScrollToPresentHandler func()
	RequeryHandler         func()
	SetDeltaHandler        func(enabled bool)
	SetValueRangeHandler   func(minimum *float64, maximum *float64)
	SetViewHandler         func(view string) error
	SetResolutionHandler   func(resolution common.Resolution)
}

// Zoom -
func (stub *CommandsStub) Zoom(seconds int64) {
	if stub.ZoomHandler != nil {
		stub.ZoomHandler(seconds)
	}
}

// ScrollToPresent -
func (stub *CommandsStub) ScrollToPresent() {
	if stub.ScrollToPresentHandler != nil {
		stub.ScrollToPresentHandler()
	}
}

// Requery -
func (stub *CommandsStub) Requery() {
	if stub.RequeryHandler != nil {
		stub.RequeryHandler()
	}
}

// SetDelta -
func (stub *CommandsStub) SetDelta(enabled bool) {
	if stub.SetDeltaHandler != nil {
		stub.SetDeltaHandler(enabled)
	}
}

// SetValueRange -
func (stub *CommandsStub) SetValueRange(minimum *float64, maximum *float64) {
	if stub.SetValueRangeHandler != nil {
		stub.SetValueRangeHandler(minimum, maximum)
	}
}

// SetView -
func (stub *CommandsStub) SetView(view string) error {
	if stub.SetViewHandler != nil {
		return stub.SetViewHandler(view)
	}

	return nil
}

// SetResolution -
func (stub *CommandsStub) SetResolution(resolution common.Resolution) {
	if stub.SetResolutionHandler != nil {
		stub.SetResolutionHandler(resolution)
	}
}

// IsInterfaceNil -
func (stub *CommandsStub) IsInterfaceNil() bool {
	return stub == nil
}
