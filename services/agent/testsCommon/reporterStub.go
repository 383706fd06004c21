package testsCommon

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/agent/common"
)

// ReporterStub -
type ReporterStub struct {
	ReportHandler func(ctx context.Context, readings []common.Reading) error
}

// Report -
func (stub *ReporterStub) Report(ctx context.Context, readings []common.Reading) error {
	if stub.ReportHandler != nil {
		return stub.ReportHandler(ctx, readings)
	}

	return nil
}

// IsInterfaceNil -
func (stub *ReporterStub) IsInterfaceNil() bool {
	return stub == nil
}
