package engine

import (
	"context"

	"github.com/iulianpascalau/electric-monitoring/services/agent/common"
	"github.com/iulianpascalau/electric-monitoring/services/agent/config"
)

// Poller defines the interface for reading the meter gateways
type Poller interface {
	// PollAll concurrently reads every configured meter channel. Channels that fail, time out or lack the
	// power value are omitted from the result
	PollAll(ctx context.Context, meters []config.MeterConfig) []common.Reading
	IsInterfaceNil() bool
}

// Reporter defines the interface for pushing the readings to the data source
type Reporter interface {
	// Report sends the readings in a single payload. Failures are not retried
	Report(ctx context.Context, readings []common.Reading) error
	IsInterfaceNil() bool
}
