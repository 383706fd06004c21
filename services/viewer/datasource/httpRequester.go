package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/iulianpascalau/electric-monitoring/services/viewer/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("datasource")

// ArgsHTTPRequester is the DTO used to create a new HTTP requester
type ArgsHTTPRequester struct {
	BaseURL string
	Timeout time.Duration
	Poster  Poster
}

type httpRequester struct {
	baseURL string
	client  *http.Client
	poster  Poster
	ctx     context.Context
	cancel  func()
	wg      sync.WaitGroup
}

// NewHTTPRequester creates a requester that queries the data source over HTTP and hands the outcome to the loop
func NewHTTPRequester(args ArgsHTTPRequester) (*httpRequester, error) {
	if len(args.BaseURL) == 0 {
		return nil, errEmptyURL
	}
	if check.IfNil(args.Poster) {
		return nil, errNilPoster
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &httpRequester{
		baseURL: strings.TrimSuffix(args.BaseURL, "/"),
		client: &http.Client{
			Timeout: args.Timeout,
		},
		poster: args.Poster,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Send runs the query in the background and posts the outcome on the loop
func (r *httpRequester) Send(params common.QueryParams, done func(table *common.SeriesTable, err error)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		table, err := r.Fetch(r.ctx, params)
		posted := r.poster.Post(func() {
			done(table, err)
		})
		if !posted {
			log.Debug("query outcome dropped, loop closed", "view", params.View)
		}
	}()
}

// Fetch queries the data source and decodes the returned table
func (r *httpRequester) Fetch(ctx context.Context, params common.QueryParams) (*common.SeriesTable, error) {
	url := r.URL(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error querying data source: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, errParse := ParseTable(body)
		dsErr := &errDataSource{}
		if errors.As(errParse, &dsErr) {
			return nil, fmt.Errorf("%w, %s", errStatusNotOK(resp.StatusCode), dsErr.Error())
		}

		return nil, errStatusNotOK(resp.StatusCode)
	}

	table, err := ParseTable(body)
	if err != nil {
		return nil, err
	}

	log.Trace("data source queried", "url", url, "rows", len(table.Samples), "duration", time.Since(start))

	return table, nil
}

// URL returns the request URL of the provided parameters
func (r *httpRequester) URL(params common.QueryParams) string {
	view := params.View
	if len(view) == 0 {
		view = common.ViewPower
	}

	return fmt.Sprintf("%s/%s?%s", r.baseURL, view, params.Values().Encode())
}

// Close cancels the queries in flight and waits for their goroutines
func (r *httpRequester) Close() error {
	r.cancel()
	r.wg.Wait()

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *httpRequester) IsInterfaceNil() bool {
	return r == nil
}
