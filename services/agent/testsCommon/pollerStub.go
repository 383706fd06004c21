package testsCommon

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/agent/common"
	"github.com/iulianpascalau/electric-monitoring/services/agent/config"
)

// PollerStub -
type PollerStub struct {
	PollAllHandler func(ctx context.Context, meters []config.MeterConfig) []common.Reading
}

// PollAll -
func (stub *PollerStub) PollAll(ctx context.Context, meters []config.MeterConfig) []common.Reading {
	if stub.PollAllHandler != nil {
		return stub.PollAllHandler(ctx, meters)
	}

	return make([]common.Reading, 0)
}

// IsInterfaceNil -
func (stub *PollerStub) IsInterfaceNil() bool {
	return stub == nil
}
