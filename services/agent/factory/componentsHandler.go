package factory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/commonGo"
	"github.com/iulianpascalau/electric-monitoring/services/agent/config"
	"github.com/iulianpascalau/electric-monitoring/services/agent/engine"
	"github.com/iulianpascalau/electric-monitoring/services/agent/poller"
	"github.com/iulianpascalau/electric-monitoring/services/agent/reporter"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

var (
	errInvalidQueryInterval = errors.New("invalid query interval")
	errEmptyReportEndpoint  = errors.New("empty report endpoint")
)

type componentsHandler struct {
	poller        engine.Poller
	reporter      engine.Reporter
	engine        MeterEngine
	mutCancel     sync.Mutex
	cancel        func()
	queryInterval time.Duration
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	serviceKeyApi string,
	cfg config.Config,
) (*componentsHandler, error) {
	if cfg.QueryIntervalInSeconds == 0 {
		return nil, errInvalidQueryInterval
	}
	if len(cfg.ReportEndpoint) == 0 {
		return nil, errEmptyReportEndpoint
	}
	if len(cfg.Meters) == 0 {
		log.Warn("no meters configured, nothing will be reported", "agent", cfg.Name)
	}

	queryInterval := time.Duration(cfg.QueryIntervalInSeconds) * time.Second
	poll := poller.NewHTTPPoller(queryInterval)
	rep := reporter.NewHTTPReporter(cfg.ReportEndpoint, serviceKeyApi, cfg.Name, time.Duration(cfg.ReportTimeoutInSeconds)*time.Second)

	eng, err := engine.NewAgentEngine(cfg, poll, rep)
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		poller:        poll,
		reporter:      rep,
		engine:        eng,
		queryInterval: queryInterval,
	}, nil
}

// GetPoller returns the poller component
func (ch *componentsHandler) GetPoller() engine.Poller {
	return ch.poller
}

// GetReporter returns the reporter component
func (ch *componentsHandler) GetReporter() engine.Reporter {
	return ch.reporter
}

// GetEngine returns the engine component
func (ch *componentsHandler) GetEngine() MeterEngine {
	return ch.engine
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	log.Debug("starting the meter polling", "interval", ch.queryInterval)
	commonGo.CronJobStarter(ctx, ch.engine.Process, ch.queryInterval)
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel == nil {
		return
	}

	ch.cancel()
	ch.cancel = nil
}
