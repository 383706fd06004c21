package testsCommon

// PosterStub runs the posted functions right away unless a handler is set
type PosterStub struct {
	PostHandler func(f func()) bool
}

// Post -
func (stub *PosterStub) Post(f func()) bool {
	if stub.PostHandler != nil {
		return stub.PostHandler(f)
	}

	f()

	return true
}

// IsInterfaceNil -
func (stub *PosterStub) IsInterfaceNil() bool {
	return stub == nil
}
