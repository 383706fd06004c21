package common

// Timer is a scheduled callback that can be cancelled
type Timer interface {
	// Stop prevents the callback from firing, returning false if it already fired or was stopped
	Stop() bool
}
