package engine

import (
	"context"
	"errors"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/agent/config"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const (
	pollTimeout   = 30 * time.Second
	reportTimeout = 10 * time.Second
)

var log = logger.GetOrCreate("engine")

// agentEngine reads the meters and reports the readings at configured intervals
type agentEngine struct {
	config   config.Config
	poller   Poller
	reporter Reporter
}

// NewAgentEngine creates a new engine instance
func NewAgentEngine(cfg config.Config, p Poller, r Reporter) (*agentEngine, error) {
	if check.IfNil(p) {
		return nil, errors.New("nil poller")
	}
	if check.IfNil(r) {
		return nil, errors.New("nil reporter")
	}

	return &agentEngine{
		config:   cfg,
		poller:   p,
		reporter: r,
	}, nil
}

// Process will poll all meters and try to send the readings to the reporter
func (e *agentEngine) Process(ctx context.Context) {
	log.Debug("waking up to poll meters", "count", len(e.config.Meters))

	pollCtx, cancelPoll := context.WithTimeout(ctx, pollTimeout)
	defer cancelPoll()
	readings := e.poller.PollAll(pollCtx, e.config.Meters)

	log.Debug("finished polling", "readings", len(readings))
	if len(readings) == 0 {
		return
	}

	reportCtx, cancelReport := context.WithTimeout(ctx, reportTimeout)
	defer cancelReport()

	err := e.reporter.Report(reportCtx, readings)
	if err != nil {
		log.Warn("failed to report readings, they will be discarded", "error", err)
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (e *agentEngine) IsInterfaceNil() bool {
	return e == nil
}
