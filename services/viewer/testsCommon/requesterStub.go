package testsCommon

import (
	"sync"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
)

// RequesterStub -
type RequesterStub struct {
	SendHandler func(params common.QueryParams, done func(table *common.SeriesTable, err error))

	mut     sync.Mutex
	calls   []common.QueryParams
	pending []func(table *common.SeriesTable, err error)
}

// Send -
func (stub *RequesterStub) Send(params common.QueryParams, done func(table *common.SeriesTable, err error)) {
	stub.mut.Lock()
	stub.calls = append(stub.calls, params)
	if stub.SendHandler == nil {
		stub.pending = append(stub.pending, done)
	}
	stub.mut.Unlock()

	if stub.SendHandler != nil {
		stub.SendHandler(params, done)
	}
}

// NumCalls -
func (stub *RequesterStub) NumCalls() int {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return len(stub.calls)
}

// Calls -
func (stub *RequesterStub) Calls() []common.QueryParams {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	result := make([]common.QueryParams, len(stub.calls))
	copy(result, stub.calls)

	return result
}

// LastParams -
func (stub *RequesterStub) LastParams() common.QueryParams {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	if len(stub.calls) == 0 {
		return common.QueryParams{}
	}

	return stub.calls[len(stub.calls)-1]
}

// NumPending -
func (stub *RequesterStub) NumPending() int {
	stub.mut.Lock()
	defer stub.mut.Unlock()

	return len(stub.pending)
}

// Complete resolves the oldest unanswered query and returns false if there was none
func (stub *RequesterStub) Complete(table *common.SeriesTable, err error) bool {
	stub.mut.Lock()
	if len(stub.pending) == 0 {
		stub.mut.Unlock()
		return false
	}
	done := stub.pending[0]
	stub.pending = stub.pending[1:]
	stub.mut.Unlock()

	done(table, err)

	return true
}

// IsInterfaceNil -
func (stub *RequesterStub) IsInterfaceNil() bool {
	return stub == nil
}
