package datasource

// Poster queues a function on the controller loop
type Poster interface {
	Post(f func()) bool
	IsInterfaceNil() bool
}
