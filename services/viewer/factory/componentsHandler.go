package factory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/commonGo"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/config"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/datasource"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/engine"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/errlog"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/loop"
	"github.com/iulianpascalau/electric-monitoring/services/viewer/tui"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

var errLoopClosed = errors.New("controller loop closed")

const stopTimeout = time.Second

type requester interface {
	engine.Requester
	Close() error
}

type componentsHandler struct {
	loop          Loop
	requester     requester
	errorLog      engine.ErrorLog
	widget        Widget
	controller    Controller
	mutCancel     sync.Mutex
	cancel        func()
	refreshScreen time.Duration
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	cfg config.Config,
	screen tui.Screen,
	onQuit func(),
) (*componentsHandler, error) {
	cfg.ApplyDefaults()

	eventLoop := loop.NewEventLoop()
	req, err := datasource.NewHTTPRequester(datasource.ArgsHTTPRequester{
		BaseURL: cfg.DatasourceURL,
		Timeout: cfg.RequestTimeout(),
		Poster:  eventLoop,
	})
	if err != nil {
		return nil, err
	}

	errorLog := errlog.NewErrorLog(cfg.Scheduler.ErrorLogCapacity)
	widget, err := tui.NewChartWidget(tui.ArgsChartWidget{
		Screen:      screen,
		ErrorLog:    errorLog,
		ZoomPresets: cfg.ZoomPresetsInSeconds,
		HasVoltage:  cfg.HasVoltage,
		HasKVA:      cfg.HasKVA,
		Delta:       cfg.Delta,
		ValueMin:    cfg.ValueMin,
		ValueMax:    cfg.ValueMax,
		OnQuit:      onQuit,
	})
	if err != nil {
		return nil, err
	}

	ctrl, err := engine.NewController(engine.ArgsController{
		Config:    cfg,
		Requester: req,
		Widget:    widget,
		Clock:     eventLoop,
		ErrorLog:  errorLog,
	})
	if err != nil {
		return nil, err
	}

	bridge := newLoopBridge(eventLoop, ctrl, cfg.HasVoltage, cfg.HasKVA)
	err = widget.SetNotifier(bridge)
	if err != nil {
		return nil, err
	}
	err = widget.SetCommands(bridge)
	if err != nil {
		return nil, err
	}

	return &componentsHandler{
		loop:          eventLoop,
		requester:     req,
		errorLog:      errorLog,
		widget:        widget,
		controller:    ctrl,
		refreshScreen: cfg.Scheduler.RefreshScreen(),
	}, nil
}

// GetRequester returns the data source requester
func (ch *componentsHandler) GetRequester() engine.Requester {
	return ch.requester
}

// GetErrorLog returns the error log
func (ch *componentsHandler) GetErrorLog() engine.ErrorLog {
	return ch.errorLog
}

// GetWidget returns the terminal widget
func (ch *componentsHandler) GetWidget() Widget {
	return ch.widget
}

// GetController returns the viewport controller
func (ch *componentsHandler) GetController() Controller {
	return ch.controller
}

// Status reads the controller status on the loop
func (ch *componentsHandler) Status(ctx context.Context) (engine.Status, error) {
	statusChan := make(chan engine.Status, 1)
	posted := ch.loop.Post(func() {
		statusChan <- ch.controller.Status()
	})
	if !posted {
		return engine.Status{}, errLoopClosed
	}

	select {
	case status := <-statusChan:
		return status, nil
	case <-ctx.Done():
		return engine.Status{}, ctx.Err()
	}
}

// stopController waits for the controller to cancel its timers on the loop
func (ch *componentsHandler) stopController() {
	stopped := make(chan struct{})
	posted := ch.loop.Post(func() {
		ch.controller.Stop()
		close(stopped)
	})
	if !posted {
		return
	}

	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		log.Warn("controller did not stop in time")
	}
}

// Start starts the controller loop and issues the first query
func (ch *componentsHandler) Start() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		return
	}

	var ctx context.Context
	ctx, ch.cancel = context.WithCancel(context.Background())

	go ch.loop.Run(ctx)
	ch.loop.Post(ch.controller.Start)

	commonGo.CronJobStarter(ctx, ch.widget.Refresh, ch.refreshScreen)
}

// Close stops the controller on its loop and then closes the inner components
func (ch *componentsHandler) Close() {
	ch.mutCancel.Lock()
	defer ch.mutCancel.Unlock()

	if ch.cancel != nil {
		ch.stopController()
	}

	err := ch.requester.Close()
	log.LogIfError(err)

	if ch.cancel != nil {
		ch.cancel()
		ch.cancel = nil
	}

	err = ch.loop.Close()
	log.LogIfError(err)
}
