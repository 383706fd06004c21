package series

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

// Storage defines the read side of the readings storage
type Storage interface {
	Bounds(ctx context.Context) (common.Bounds, error)
	Channels(ctx context.Context) ([]string, error)
	ReadRange(ctx context.Context, resolution int64, start int64, end int64) ([]common.Reading, error)
	IsInterfaceNil() bool
}
