package engine

import (
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// timerSlot owns at most one scheduled callback. A callback that was already queued when the slot got
// cancelled or re-armed is dropped by the generation check
type timerSlot struct {
	name       string
	timer      common.Timer
	generation uint64
}

func (c *controller) schedule(slot *timerSlot, delay time.Duration, f func()) {
	c.cancel(slot)

	generation := slot.generation
	log.Trace("timer armed", "timer", slot.name, "delay", delay)
	slot.timer = c.clock.AfterFunc(delay, func() {
		if slot.generation != generation {
			log.Trace("stale timer callback dropped", "timer", slot.name)
			return
		}

		slot.timer = nil
		slot.generation++
		f()
	})
}

func (c *controller) cancel(slot *timerSlot) {
	if slot.timer != nil {
		slot.timer.Stop()
		slot.timer = nil
	}
	slot.generation++
}

func (slot *timerSlot) armed() bool {
	return slot.timer != nil
}
