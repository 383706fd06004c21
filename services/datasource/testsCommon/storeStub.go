package testsCommon

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

// StoreStub -
type StoreStub struct {
	SaveReadingsHandler func(ctx context.Context, readings []common.Reading) (int, error)
	BoundsHandler       func(ctx context.Context) (common.Bounds, error)
	ChannelsHandler     func(ctx context.Context) ([]string, error)
	ReadRangeHandler    func(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error)
	CloseHandler        func() error
}

// SaveReadings -
func (stub *StoreStub) SaveReadings(ctx context.Context, readings []common.Reading) (int, error) {
	if stub.SaveReadingsHandler != nil {
		return stub.SaveReadingsHandler(ctx, readings)
	}

	return len(readings), nil
}

// Bounds -
func (stub *StoreStub) Bounds(ctx context.Context) (common.Bounds, error) {
	if stub.BoundsHandler != nil {
		return stub.BoundsHandler(ctx)
	}

	return common.Bounds{}, nil
}

// Channels -
func (stub *StoreStub) Channels(ctx context.Context) ([]string, error) {
	if stub.ChannelsHandler != nil {
		return stub.ChannelsHandler(ctx)
	}

	return make([]string, 0), nil
}

// ReadRange -
func (stub *StoreStub) ReadRange(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error) {
	if stub.ReadRangeHandler != nil {
		return stub.ReadRangeHandler(ctx, resolution, start, end)
	}

	return make([]common.Reading, 0), nil
}

// Close -
func (stub *StoreStub) Close() error {
	if stub.CloseHandler != nil {
		return stub.CloseHandler()
	}

	return nil
}

// IsInterfaceNil -
func (stub *StoreStub) IsInterfaceNil() bool {
	return stub == nil
}
