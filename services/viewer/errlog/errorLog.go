package errlog

import (
	"fmt"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

// DefaultCapacity is the number of entries kept when no capacity is configured
const DefaultCapacity = 20

var log = logger.GetOrCreate("errlog")

// errorLog keeps the most recent failures in a fixed size ring. It is read by the UI goroutine and written by
// the controller loop
type errorLog struct {
	mut      sync.RWMutex
	entries  []common.ErrorEntry
	head     int
	size     int
	timeFunc func() time.Time
}

// NewErrorLog creates a new error log holding at most capacity entries
func NewErrorLog(capacity int) *errorLog {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &errorLog{
		entries:  make([]common.ErrorEntry, capacity),
		timeFunc: time.Now,
	}
}

// Add records a message, evicting the oldest entry when full
func (el *errorLog) Add(message string) {
	el.mut.Lock()
	defer el.mut.Unlock()

	el.entries[el.head] = common.ErrorEntry{
		Timestamp: el.timeFunc(),
		Message:   message,
	}
	el.head = (el.head + 1) % len(el.entries)
	if el.size < len(el.entries) {
		el.size++
	}

	log.Debug("error recorded", "message", message, "entries", el.size)
}

// AddError records the error message prefixed with the operation that failed
func (el *errorLog) AddError(operation string, err error) {
	el.Add(fmt.Sprintf("%s: %s", operation, err.Error()))
}

// Entries returns a copy of the recorded entries, newest first
func (el *errorLog) Entries() []common.ErrorEntry {
	el.mut.RLock()
	defer el.mut.RUnlock()

	result := make([]common.ErrorEntry, 0, el.size)
	for i := 1; i <= el.size; i++ {
		idx := (el.head - i + len(el.entries)) % len(el.entries)
		result = append(result, el.entries[idx])
	}

	return result
}

// Clear removes all entries
func (el *errorLog) Clear() {
	el.mut.Lock()
	defer el.mut.Unlock()

	for i := range el.entries {
		el.entries[i] = common.ErrorEntry{}
	}
	el.head = 0
	el.size = 0
}

// Len returns the number of recorded entries
func (el *errorLog) Len() int {
	el.mut.RLock()
	defer el.mut.RUnlock()

	return el.size
}

// IsEmpty returns true if nothing was recorded since the last clear
func (el *errorLog) IsEmpty() bool {
	return el.Len() == 0
}

// IsInterfaceNil returns true if the value under the interface is nil
func (el *errorLog) IsInterfaceNil() bool {
	return el == nil
}
