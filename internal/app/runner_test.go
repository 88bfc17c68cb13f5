package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/multiservicios-web/valida-curp-go/internal/config"
	"github.com/multiservicios-web/valida-curp-go/internal/logger"
	"github.com/multiservicios-web/valida-curp-go/pkg/publishers"
	"github.com/multiservicios-web/valida-curp-go/pkg/validacurp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI answers the version 2 methods and counts calls per path.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int
}

func newFakeAPI(t *testing.T) (*httptest.Server, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{calls: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := strings.TrimPrefix(r.URL.Path, "/curp/")
		api.mu.Lock()
		api.calls[method]++
		api.mu.Unlock()

		var body map[string]string
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &body))
		}

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "validateCurpStructure":
			if body["curp"] == "BAD" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"msn":"curp malformed"}`))
				return
			}
			_, _ = w.Write([]byte(`{"response":{"curp":"` + body["curp"] + `","isValid":true}}`))
		case "getData":
			_, _ = w.Write([]byte(`{"response":{"Solicitante":{"Nombres":"ENRIQUE"}}}`))
		case "calculateCURP":
			_, _ = w.Write([]byte(`{"response":{"curp":"PXNE660720HMCXTN06"}}`))
		case "getEntities":
			_, _ = w.Write([]byte(`{"response":[{"clave":"15","nombre":"MEXICO"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, api
}

func (a *fakeAPI) count(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[method]
}

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		AppName:              "validacurp",
		LogLevel:             "debug",
		Token:                "test-token",
		Endpoint:             endpoint,
		APIVersion:           2,
		RequestTimeout:       5 * time.Second,
		CacheType:            "none",
		CacheTTL:             time.Hour,
		CacheCleanupInterval: time.Hour,
	}
}

func newTestRunner(t *testing.T, cfg *config.Config, out io.Writer) *Runner {
	t.Helper()
	r, err := NewRunner(cfg, logger.NopLogger{}, out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewRunnerRejectsNilConfig(t *testing.T) {
	_, err := NewRunner(nil, nil, nil)
	require.Error(t, err)
}

func TestNewRunnerRejectsUnknownVersion(t *testing.T) {
	cfg := testConfig("")
	cfg.APIVersion = 3
	_, err := NewRunner(cfg, nil, io.Discard)
	require.ErrorIs(t, err, validacurp.ErrConfiguration)
}

func TestRunnerValidatePrintsResponse(t *testing.T) {
	srv, api := newFakeAPI(t)
	var out bytes.Buffer
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), &out)

	require.NoError(t, r.Validate(context.Background(), "PXNE660720HMCXTN06"))

	assert.Equal(t, 1, api.count("validateCurpStructure"))
	var got validacurp.StructureResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "PXNE660720HMCXTN06", got.CURP)
	assert.True(t, got.IsValid)
	assert.Contains(t, out.String(), "\n  ")
}

func TestRunnerValidateReturnsRemoteError(t *testing.T) {
	srv, _ := newFakeAPI(t)
	var out bytes.Buffer
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), &out)

	err := r.Validate(context.Background(), "BAD")
	require.ErrorIs(t, err, validacurp.ErrBadRequest)
	assert.Contains(t, err.Error(), "curp malformed")
	assert.Empty(t, out.String())
}

func TestRunnerCalculateValidatesInput(t *testing.T) {
	srv, api := newFakeAPI(t)
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), io.Discard)

	in := DemoInput
	in.Gender = ""
	err := r.Calculate(context.Background(), in)
	require.ErrorIs(t, err, validacurp.ErrValidation)
	assert.Zero(t, api.count("calculateCURP"))
}

func TestRunnerEntitiesUsesCache(t *testing.T) {
	srv, api := newFakeAPI(t)
	cfg := testConfig(srv.URL + "/curp/")
	cfg.CacheType = "bbolt"
	cfg.CachePath = filepath.Join(t.TempDir(), "cache.db")

	var out bytes.Buffer
	r := newTestRunner(t, cfg, &out)
	ctx := context.Background()

	require.NoError(t, r.Entities(ctx))
	first := out.String()
	out.Reset()
	require.NoError(t, r.Entities(ctx))

	assert.Equal(t, 1, api.count("getEntities"))
	assert.Equal(t, first, out.String())
	assert.Contains(t, first, `"MEXICO"`)
}

func TestRunnerEntitiesWithoutCacheAlwaysCalls(t *testing.T) {
	srv, api := newFakeAPI(t)
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), io.Discard)
	ctx := context.Background()

	require.NoError(t, r.Entities(ctx))
	require.NoError(t, r.Entities(ctx))
	assert.Equal(t, 2, api.count("getEntities"))
}

func TestRunnerRecordsRequestMetrics(t *testing.T) {
	srv, _ := newFakeAPI(t)
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), io.Discard)

	require.NoError(t, r.Data(context.Background(), "PXNE660720HMCXTN06"))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.metrics.Requests.WithLabelValues("getData", "2", "200")))
}

func TestRunnerDemo(t *testing.T) {
	srv, api := newFakeAPI(t)
	var out bytes.Buffer
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), &out)

	require.NoError(t, r.Demo(context.Background()))

	for _, m := range []string{"validateCurpStructure", "getData", "calculateCURP", "getEntities"} {
		assert.Equal(t, 1, api.count(m), m)
	}
	assert.Contains(t, out.String(), "# validate curp structure")
	assert.Contains(t, out.String(), "# get entities")
}

func TestRunnerDemoStopsOnError(t *testing.T) {
	srv, api := newFakeAPI(t)
	cfg := testConfig(srv.URL + "/curp/")
	cfg.Token = ""
	r := newTestRunner(t, cfg, io.Discard)

	err := r.Demo(context.Background())
	require.ErrorIs(t, err, validacurp.ErrConfiguration)
	assert.Contains(t, err.Error(), "validate curp structure")
	assert.Zero(t, api.count("validateCurpStructure"))
}

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))
	return path
}

func TestRunnerBatchPublishesEvents(t *testing.T) {
	srv, _ := newFakeAPI(t)

	var (
		mu       sync.Mutex
		received []publishers.Event
		headers  []string
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var evt publishers.Event
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&evt))
		mu.Lock()
		received = append(received, evt)
		headers = append(headers, r.Header.Get("X-Validacurp-Outcome"))
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(sink.Close)

	cfg := testConfig(srv.URL + "/curp/")
	cfg.PublishersFile = writeFile(t, "publishers.yaml", `
publishers:
  - id: webhook
    type: http
    http:
      url: `+sink.URL+`
  - id: disabled
    type: http
    enabled: false
    http:
      url: http://127.0.0.1:1
`)
	batchFile := writeFile(t, "batch.yaml", `
requests:
  - operation: validate
    curp: pxne660720hmcxtn06
  - operation: validate
    curp: BAD
  - operation: calculate
    input:
      names: Enrique
      lastName: Peña
      secondLastName: Nieto
      birthDay: "20"
      birthMonth: "07"
      birthYear: "1966"
      gender: H
      entity: "15"
  - operation: entities
`)

	var out bytes.Buffer
	r := newTestRunner(t, cfg, &out)

	summary, err := r.Batch(context.Background(), batchFile)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 4, Succeeded: 3, Failed: 1, Published: 4}, summary)

	mu.Lock()
	require.Len(t, received, 4)
	assert.Equal(t, "PXNE660720HMCXTN06", received[0].CURP)
	assert.Nil(t, received[0].Input)
	assert.True(t, received[1].Failed())
	assert.Contains(t, received[1].Error, "curp malformed")
	assert.NotNil(t, received[2].Input)
	assert.Equal(t, []string{"ok", "error", "ok", "ok"}, headers)
	mu.Unlock()

	lines := 0
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var evt publishers.Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &evt))
		assert.NotEmpty(t, evt.ID)
		lines++
	}
	assert.Equal(t, 4, lines)

	assert.Equal(t, 4.0, testutil.ToFloat64(r.metrics.Published.WithLabelValues("delivered")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.metrics.Published.WithLabelValues("failed")))
}

func TestRunnerBatchCountsFailedDeliveries(t *testing.T) {
	srv, _ := newFakeAPI(t)
	var hits atomic.Int32
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(sink.Close)

	cfg := testConfig(srv.URL + "/curp/")
	cfg.PublishersFile = writeFile(t, "publishers.json",
		`{"publishers":[{"id":"down","type":"http","http":{"url":"`+sink.URL+`"}}]}`)
	batchFile := writeFile(t, "batch.json", `{"requests":[{"operation":"entities"}]}`)

	r := newTestRunner(t, cfg, io.Discard)
	summary, err := r.Batch(context.Background(), batchFile)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 1, Succeeded: 1}, summary)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(r.metrics.Published.WithLabelValues("failed")))
}

func TestRunnerBatchInvalidFile(t *testing.T) {
	r := newTestRunner(t, testConfig("http://127.0.0.1:1/"), io.Discard)
	batchFile := writeFile(t, "batch.yaml", "requests:\n  - operation: explode\n")

	_, err := r.Batch(context.Background(), batchFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported operation")
}

func TestServeMetrics(t *testing.T) {
	srv, _ := newFakeAPI(t)
	cfg := testConfig(srv.URL + "/curp/")
	r := newTestRunner(t, cfg, io.Discard)

	stop, err := r.serveMetrics("127.0.0.1:0")
	require.NoError(t, err)
	stop()

	noop, err := r.serveMetrics("")
	require.NoError(t, err)
	noop()
}

func TestRunnerBatchStopsOnCancelledContext(t *testing.T) {
	srv, api := newFakeAPI(t)
	r := newTestRunner(t, testConfig(srv.URL+"/curp/"), io.Discard)
	batchFile := writeFile(t, "batch.yaml", "requests:\n  - operation: entities\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := r.Batch(ctx, batchFile)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Total)
	assert.Zero(t, api.count("getEntities"))
}
