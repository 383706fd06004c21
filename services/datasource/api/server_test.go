package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iulianpascalau/electric-monitoring/services/datasource/common"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/series"
	"github.com/iulianpascalau/electric-monitoring/services/datasource/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type testStorage interface {
	Storage
	series.Storage
	Close() error
}

func setupTestServer(t *testing.T) (*server, testStorage) {
	store, err := storage.NewSQLiteStorage(storage.ArgsSQLiteStorage{
		Path: ":memory:",
	})
	require.NoError(t, err)

	builder, err := series.NewTableBuilder(series.ArgsTableBuilder{
		Storage:       store,
		NumDataPoints: 1000,
		MaxDataPoints: 5000,
	})
	require.NoError(t, err)

	args := ArgsWebServer{
		ServiceKeyApi:  "test-secret",
		ListenAddress:  ":0",
		Storage:        store,
		TableBuilder:   builder,
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}

	serv, err := NewServer(args)
	require.NoError(t, err)

	return serv, store
}

func sendReport(serv *server, key string, payload common.ReportPayload) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/api/report", bytes.NewBuffer(body))
	if len(key) > 0 {
		req.Header.Set("X-Api-Key", key)
	}
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)

	return w
}

func getPath(serv *server, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)

	return w
}

func TestReportEndpoint(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	voltage := 231.5
	payload := common.ReportPayload{
		Agent: "home",
		Readings: []common.Reading{
			{Channel: "MTU1", Timestamp: 1000, Power: 1500, Voltage: &voltage},
			{Channel: "MTU2", Timestamp: 1000, Power: 20},
		},
	}

	// Test Unauthenticated
	w := sendReport(serv, "", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = sendReport(serv, "wrong", payload)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Test Authenticated
	w = sendReport(serv, "test-secret", payload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(2), gjson.Get(w.Body.String(), "stored").Int())

	// a resent report is accepted but stores nothing
	w = sendReport(serv, "test-secret", payload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, int64(0), gjson.Get(w.Body.String(), "stored").Int())

	// Verify it reached DB
	readings, err := store.ReadRange(context.Background(), 1, 0, 2000)
	require.NoError(t, err)
	require.Len(t, readings, 2)
	require.Equal(t, 231.5, *readings[0].Voltage)
}

func TestTableEndpoint(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	readings := make([]common.Reading, 0)
	for ts := int64(100000); ts < 100010; ts++ {
		readings = append(readings, common.Reading{Channel: "MTU1", Timestamp: ts, Power: float64(ts - 100000)})
	}
	w := sendReport(serv, "test-secret", common.ReportPayload{Readings: readings})
	require.Equal(t, http.StatusOK, w.Code)

	w = getPath(serv, "/data/power?start=100002&end=100005&extraPoints=2")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, "ok", gjson.Get(body, "status").String())
	assert.Equal(t, "MTU1", gjson.Get(body, "table.cols.1.label").String())
	assert.Equal(t, `1" (auto)`, gjson.Get(body, "table.p.resolutionString").String())
	assert.Equal(t, "100009", gjson.Get(body, "table.p.maximum").String())

	rows := gjson.Get(body, "table.rows").Array()
	require.NotEmpty(t, rows)
	last := rows[len(rows)-1]
	assert.Equal(t, int64(100009), last.Get("c.0.v").Int())
	assert.Equal(t, 9.0, last.Get("c.1.v").Float())

	w = getPath(serv, "/data/voltage")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gjson.Null, gjson.Get(w.Body.String(), "table.rows.0.c.1.v").Type)
}

func TestTableEndpoint_Errors(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	w := getPath(serv, "/data/frequency")
	require.Equal(t, http.StatusNotFound, w.Code)
	body := w.Body.String()
	assert.Equal(t, "error", gjson.Get(body, "status").String())
	assert.Equal(t, common.ReasonUnknownView, gjson.Get(body, "errors.0.reason").String())

	w = getPath(serv, "/data/power?start=abc")
	require.Equal(t, http.StatusBadRequest, w.Code)
	body = w.Body.String()
	assert.Equal(t, common.ReasonInvalidRequest, gjson.Get(body, "errors.0.reason").String())
	assert.Equal(t, "invalid start parameter: abc", gjson.Get(body, "errors.0.message").String())

	w = getPath(serv, "/data/power?start=10&end=5")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	_ = sendReport(serv, "test-secret", common.ReportPayload{
		Readings: []common.Reading{{Channel: "MTU1", Timestamp: 1000, Power: 1}},
	})
	_ = sendReport(serv, "bad", common.ReportPayload{})
	_ = getPath(serv, "/data/power")
	_ = getPath(serv, "/data/frequency")

	w := getPath(serv, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "datasource_readings_ingested_total 1")
	assert.Contains(t, body, "datasource_reports_rejected_total 1")
	assert.Contains(t, body, `datasource_table_requests_total{status="ok",view="power"} 1`)
	assert.Contains(t, body, `datasource_table_requests_total{status="unknown_view",view="unknown"} 1`)
	assert.False(t, strings.Contains(body, "frequency"))
}
