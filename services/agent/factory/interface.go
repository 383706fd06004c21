package factory

import "context"

// MeterEngine polls the configured meters and forwards the readings, once per call
type MeterEngine interface {
	Process(ctx context.Context)
	IsInterfaceNil() bool
}
