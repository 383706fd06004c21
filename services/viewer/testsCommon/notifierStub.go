package testsCommon

import "sync"

// NotifierStub records the widget notifications in the order they arrived
type NotifierStub struct {
	OnReadyHandler        func()
	OnRangeChangedHandler func()

	mut    sync.Mutex
	events []string
}

// OnReady -
func (stub *NotifierStub) OnReady() {
	stub.record("ready")
	if stub.OnReadyHandler != nil {
		stub.OnReadyHandler()
	}
}

// OnRangeChanged -
func (stub *NotifierStub) OnRangeChanged() {
	stub.record("rangeChanged")
	if stub.OnRangeChangedHandler != nil {
		stub.OnRangeChangedHandler()
	}
}

func (stub *NotifierStub) record(event string) {
	stub.mut.Lock()
	stub.events = append(stub.events, event)
	stub.mut.Unlock()
}

// Events -
func (stub *NotifierStub) Events() []string {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return append([]string(nil), stub.events...)
}

// IsInterfaceNil -
func (stub *NotifierStub) IsInterfaceNil() bool {
	return stub == nil
}
