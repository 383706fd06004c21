package factory

import (
	"errors"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/api"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/config"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/series"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/storage"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("factory")

type componentsHandler struct {
	store  Storage
	server Server
}

// NewComponentsHandler creates a new components handler
func NewComponentsHandler(
	sqlitePath string,
	serviceKeyApi string,
	cfg config.Config,
) (*componentsHandler, error) {
	if len(serviceKeyApi) == 0 {
		return nil, errors.New("empty service key")
	}
	cfg.ApplyDefaults()

	store, err := storage.NewSQLiteStorage(storage.ArgsSQLiteStorage{
		Path:             sqlitePath,
		RetentionSeconds: cfg.RetentionSeconds,
		TimeZoneOffset:   cfg.TimeZoneOffsetInSeconds,
	})
	if err != nil {
		return nil, err
	}

	builder, err := series.NewTableBuilder(series.ArgsTableBuilder{
		Storage:        store,
		NumDataPoints:  cfg.NumDataPoints,
		MaxDataPoints:  cfg.MaxDataPoints,
		TimeZoneOffset: cfg.TimeZoneOffsetInSeconds,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	serverArgs := api.ArgsWebServer{
		ServiceKeyApi:  serviceKeyApi,
		ListenAddress:  cfg.ListenAddress,
		Storage:        store,
		TableBuilder:   builder,
		GeneralHandler: api.CORSMiddleware,
	}

	server, err := api.NewServer(serverArgs)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	log.Debug("data source components created", "database", sqlitePath, "retention in seconds", cfg.RetentionSeconds,
		"time zone offset", cfg.TimeZoneOffsetInSeconds)

	return &componentsHandler{
		store:  store,
		server: server,
	}, nil
}

// GetStore returns the storage component
func (ch *componentsHandler) GetStore() Storage {
	return ch.store
}

// GetServer returns the server component
func (ch *componentsHandler) GetServer() Server {
	return ch.server
}

// Start starts the inner components
func (ch *componentsHandler) Start() {
	ch.server.Start()
}

// Close closes the inner components
func (ch *componentsHandler) Close() {
	_ = ch.server.Close()
	_ = ch.store.Close()
}
