package api

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
)

// Storage defines the persistence of the reported readings
type Storage interface {
	// SaveReadings stores the readings and returns how many were new
	SaveReadings(ctx context.Context, readings []common.Reading) (int, error)
	IsInterfaceNil() bool
}

// TableBuilder defines the component producing the time-series table of a view
type TableBuilder interface {
	Build(ctx context.Context, view string, req common.TableRequest) (*common.Table, error)
	IsInterfaceNil() bool
}
