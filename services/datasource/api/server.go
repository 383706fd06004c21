package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = logger.GetOrCreate("api")

const (
	statusOK     = "ok"
	statusError  = "error"
	apiKeyHeader = "X-Api-Key"

	// unknownViewLabel keeps the metric labels bounded when clients ask for views that do not exist
	unknownViewLabel = "unknown"
)

type server struct {
	router         *gin.Engine
	httpServer     *http.Server
	storage        Storage
	tableBuilder   TableBuilder
	metrics        *serverMetrics
	serviceKey     string
	listenAddr     string
	generalHandler func(http.Handler) http.Handler
	wg             sync.WaitGroup
}

// ArgsWebServer defines the web server arguments
type ArgsWebServer struct {
	ServiceKeyApi  string
	ListenAddress  string
	Storage        Storage
	TableBuilder   TableBuilder
	GeneralHandler func(http.Handler) http.Handler
}

// NewServer initializes the Gin engine and mounts all routes
func NewServer(args ArgsWebServer) (*server, error) {
	if check.IfNil(args.Storage) {
		return nil, errors.New("storage is required")
	}
	if check.IfNil(args.TableBuilder) {
		return nil, errors.New("table builder is required")
	}
	if args.GeneralHandler == nil {
		return nil, errors.New("nil http handler")
	}
	if len(args.ServiceKeyApi) == 0 {
		return nil, errors.New("empty service key")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())

	s := &server{
		router:         router,
		storage:        args.Storage,
		tableBuilder:   args.TableBuilder,
		metrics:        newServerMetrics(),
		serviceKey:     args.ServiceKeyApi,
		listenAddr:     args.ListenAddress,
		generalHandler: args.GeneralHandler,
	}

	s.setupRoutes()
	return s, nil
}

func (s *server) setupRoutes() {
	// Agent reporting endpoint
	api := s.router.Group("/api")
	api.POST("/report", s.authAPIKey(), s.handleReport)

	// Viewer queries
	s.router.GET("/data/:view", s.handleTable)

	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
}

// Start listens and serves connections
func (s *server) Start() {
	handler := s.generalHandler(s.router)

	s.httpServer = &http.Server{
		Addr:              s.listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		log.Error("failed to listen", "error", err)
		return
	}
	s.listenAddr = ln.Addr().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info("starting HTTP server", "address", s.listenAddr)

		errServe := s.httpServer.Serve(ln)
		if errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			log.Error("http server failed", "error", errServe)
		}
	}()
}

// Address returns the actual listen address
func (s *server) Address() string {
	return s.listenAddr
}

// Close gracefully stops the server
func (s *server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return err
		}
	}
	s.wg.Wait()

	return nil
}

// --- Middlewares ---

func (s *server) authAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key != s.serviceKey {
			s.metrics.reportsRejected.Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// --- Handlers ---

func (s *server) handleReport(c *gin.Context) {
	var payload common.ReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.metrics.reportsRejected.Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	log.Debug("received report", "sender", c.Request.RemoteAddr, "agent", payload.Agent, "num readings", len(payload.Readings))

	numStored, err := s.storage.SaveReadings(c.Request.Context(), payload.Readings)
	if err != nil {
		log.Warn("failed to save readings", "agent", payload.Agent, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.readingsIngested.Add(float64(numStored))
	c.JSON(http.StatusOK, gin.H{"ok": true, "stored": numStored})
}

func (s *server) handleTable(c *gin.Context) {
	view := c.Param("view")

	req, err := parseTableRequest(c)
	if err != nil {
		s.respondError(c, view, err)
		return
	}

	table, err := s.tableBuilder.Build(c.Request.Context(), view, req)
	if err != nil {
		s.respondError(c, view, err)
		return
	}

	s.metrics.tableRequests.WithLabelValues(view, statusOK).Inc()
	c.JSON(http.StatusOK, common.TableResponse{
		Status: statusOK,
		Table:  table,
	})
}

func (s *server) respondError(c *gin.Context, view string, err error) {
	code := http.StatusInternalServerError
	detail := common.ErrorDetail{
		Reason:          common.ReasonInternalError,
		Message:         "internal error",
		DetailedMessage: err.Error(),
	}

	requestErr := &common.RequestError{}
	if errors.As(err, &requestErr) {
		detail = common.ErrorDetail{
			Reason:  requestErr.Reason,
			Message: requestErr.Message,
		}
		code = http.StatusBadRequest
		if requestErr.Reason == common.ReasonUnknownView {
			code = http.StatusNotFound
			view = unknownViewLabel
		}
	} else {
		log.Warn("failed to build table", "view", view, "error", err)
	}

	s.metrics.tableRequests.WithLabelValues(view, detail.Reason).Inc()
	c.JSON(code, common.ErrorResponse{
		Status: statusError,
		Errors: []common.ErrorDetail{detail},
	})
}
