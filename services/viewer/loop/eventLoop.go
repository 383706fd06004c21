package loop

import (
	"context"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("loop")

// eventLoop runs every posted function, one at a time, on the goroutine calling Run
type eventLoop struct {
	mut    sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// NewEventLoop creates a new event loop
func NewEventLoop() *eventLoop {
	return &eventLoop{
		wake: make(chan struct{}, 1),
	}
}

// Post queues a function for execution. It never blocks and returns false once the loop was closed
func (el *eventLoop) Post(f func()) bool {
	if f == nil {
		return false
	}

	el.mut.Lock()
	if el.closed {
		el.mut.Unlock()
		return false
	}
	el.queue = append(el.queue, f)
	el.mut.Unlock()

	select {
	case el.wake <- struct{}{}:
	default:
	}

	return true
}

// Run executes the posted functions until the context is done or the loop is closed. The loop is closed on return
func (el *eventLoop) Run(ctx context.Context) {
	log.Debug("event loop started")
	defer log.Debug("event loop stopped")

	for {
		for _, f := range el.drain() {
			el.execute(f)
		}

		if el.isClosed() {
			return
		}

		select {
		case <-ctx.Done():
			el.markClosed()
			return
		case <-el.wake:
		}
	}
}

func (el *eventLoop) execute(f func()) {
	defer func() {
		r := recover()
		if r != nil {
			log.Error("event loop callback panicked", "panic", r)
		}
	}()

	f()
}

func (el *eventLoop) drain() []func() {
	el.mut.Lock()
	defer el.mut.Unlock()

	queue := el.queue
	el.queue = nil

	return queue
}

func (el *eventLoop) markClosed() {
	el.mut.Lock()
	el.closed = true
	el.queue = nil
	el.mut.Unlock()
}

func (el *eventLoop) isClosed() bool {
	el.mut.Lock()
	defer el.mut.Unlock()

	return el.closed
}

// Now returns the wall clock time
func (el *eventLoop) Now() time.Time {
	return time.Now()
}

// AfterFunc posts f on the loop after the provided duration
func (el *eventLoop) AfterFunc(d time.Duration, f func()) common.Timer {
	return time.AfterFunc(d, func() {
		el.Post(f)
	})
}

// Close stops accepting new functions and makes Run return
func (el *eventLoop) Close() error {
	el.markClosed()

	select {
	case el.wake <- struct{}{}:
	default:
	}

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (el *eventLoop) IsInterfaceNil() bool {
	return el == nil
}
