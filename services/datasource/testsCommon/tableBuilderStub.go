package testsCommon

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

// TableBuilderStub -
type TableBuilderStub struct {
	BuildHandler func(ctx context.Context, view string, req common.TableRequest) (*common.Table, error)
}

// Build -
func (stub *TableBuilderStub) Build(ctx context.Context, view string, req common.TableRequest) (*common.Table, error) {
	if stub.BuildHandler != nil {
		return stub.BuildHandler(ctx, view, req)
	}

	return &common.Table{}, nil
}

// IsInterfaceNil -
func (stub *TableBuilderStub) IsInterfaceNil() bool {
	return stub == nil
}
