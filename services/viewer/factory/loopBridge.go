package factory

import (
	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// loopBridge forwards the widget notifications and the keyboard commands to the controller loop
type loopBridge struct {
	loop       Loop
	controller Controller
	hasVoltage bool
	hasKVA     bool
}

func newLoopBridge(loop Loop, controller Controller, hasVoltage bool, hasKVA bool) *loopBridge {
	return &loopBridge{
		loop:       loop,
		controller: controller,
		hasVoltage: hasVoltage,
		hasKVA:     hasKVA,
	}
}

func (lb *loopBridge) post(operation string, f func()) {
	if !lb.loop.Post(f) {
		log.Debug("loop closed, dropping operation", "operation", operation)
	}
}

// OnReady -
func (lb *loopBridge) OnReady() {
	lb.post("ready", lb.controller.OnReady)
}

// OnRangeChanged -
func (lb *loopBridge) OnRangeChanged() {
	lb.post("range changed", lb.controller.OnRangeChanged)
}

// Zoom -
func (lb *loopBridge) Zoom(seconds int64) {
	lb.post("zoom", func() {
		lb.controller.Zoom(seconds)
	})
}

// ScrollToPresent -
func (lb *loopBridge) ScrollToPresent() {
	lb.post("scroll to present", lb.controller.ScrollToPresent)
}

// Requery -
func (lb *loopBridge) Requery() {
	lb.post("requery", lb.controller.Requery)
}

// SetDelta -
func (lb *loopBridge) SetDelta(enabled bool) {
	lb.post("set delta", func() {
		lb.controller.SetDelta(enabled)
	})
}

// SetValueRange -
func (lb *loopBridge) SetValueRange(minimum *float64, maximum *float64) {
	lb.post("set value range", func() {
		lb.controller.SetValueRange(minimum, maximum)
	})
}

// SetView validates the view on the caller goroutine and applies it on the loop
func (lb *loopBridge) SetView(view string) error {
	err := common.CheckViewAvailable(view, lb.hasVoltage, lb.hasKVA)
	if err != nil {
		return err
	}

	lb.post("set view", func() {
		errSet := lb.controller.SetView(view)
		if errSet != nil {
			log.Warn("can not set view", "view", view, "error", errSet)
		}
	})

	return nil
}

// SetResolution -
func (lb *loopBridge) SetResolution(resolution common.Resolution) {
	lb.post("set resolution", func() {
		lb.controller.SetResolution(resolution)
	})
}

// IsInterfaceNil returns true if the value under the interface is nil
func (lb *loopBridge) IsInterfaceNil() bool {
	return lb == nil
}
