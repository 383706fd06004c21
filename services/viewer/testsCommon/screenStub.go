package testsCommon

import "github.com/rivo/tview"

// ScreenStub runs the queued updates right away
type ScreenStub struct {
	QueueUpdateDrawHandler func(f func())
}

// QueueUpdateDraw -
func (stub *ScreenStub) QueueUpdateDraw(f func()) *tview.Application {
	if stub.QueueUpdateDrawHandler != nil {
		stub.QueueUpdateDrawHandler(f)
		return nil
	}

	f()

	return nil
}
