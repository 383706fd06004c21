package testsCommon

import (
	"sort"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// ClockStub is a manually driven clock. Callbacks run on the goroutine calling Advance
type ClockStub struct {
	mut    sync.Mutex
	now    time.Time
	timers []*timerStub
}

type timerStub struct {
	clock    *ClockStub
	deadline time.Time
	callback func()
	stopped  bool
	fired    bool
}

// Stop -
func (ts *timerStub) Stop() bool {
	ts.clock.mut.Lock()
	defer ts.clock.mut.Unlock()

	if ts.stopped || ts.fired {
		return false
	}
	ts.stopped = true

	return true
}

// NewClockStub -
func NewClockStub(now time.Time) *ClockStub {
	return &ClockStub{
		now: now,
	}
}

// Now -
func (stub *ClockStub) Now() time.Time {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return stub.now
}

// AfterFunc -
func (stub *ClockStub) AfterFunc(d time.Duration, f func()) common.Timer {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	ts := &timerStub{
		clock:    stub,
		deadline: stub.now.Add(d),
		callback: f,
	}
	stub.timers = append(stub.timers, ts)

	return ts
}

// Advance moves the clock forward firing, in deadline order, every timer that becomes due
func (stub *ClockStub) Advance(d time.Duration) {
	stub.mut.Lock()
	target := stub.now.Add(d)
	stub.mut.Unlock()

	for {
		ts := stub.nextDue(target)
		if ts == nil {
			break
		}

		ts.callback()
	}

	stub.mut.Lock()
	stub.now = target
	stub.mut.Unlock()
}

func (stub *ClockStub) nextDue(target time.Time) *timerStub {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	stub.compact()
	sort.SliceStable(stub.timers, func(i, j int) bool {
		return stub.timers[i].deadline.Before(stub.timers[j].deadline)
	})
	if len(stub.timers) == 0 || stub.timers[0].deadline.After(target) {
		return nil
	}

	ts := stub.timers[0]
	ts.fired = true
	stub.timers = stub.timers[1:]
	if ts.deadline.After(stub.now) {
		stub.now = ts.deadline
	}

	return ts
}

func (stub *ClockStub) compact() {
	active := stub.timers[:0]
	for _, ts := range stub.timers {
		if !ts.stopped && !ts.fired {
			active = append(active, ts)
		}
	}
	stub.timers = active
}

// NumArmed returns the number of timers that are neither stopped nor fired
func (stub *ClockStub) NumArmed() int {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	stub.compact()

	return len(stub.timers)
}

// NextDelay returns the time left until the earliest armed timer
func (stub *ClockStub) NextDelay() (time.Duration, bool) {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	stub.compact()
	if len(stub.timers) == 0 {
		return 0, false
	}

	earliest := stub.timers[0].deadline
	for _, ts := range stub.timers[1:] {
		if ts.deadline.Before(earliest) {
			earliest = ts.deadline
		}
	}

	return earliest.Sub(stub.now), true
}

// IsInterfaceNil -
func (stub *ClockStub) IsInterfaceNil() bool {
	return stub == nil
}
