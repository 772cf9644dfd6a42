package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/pinecone-io/pinecone-client/v1/poller"
)

func testConfig() Config {
	return DefaultConfig().WithDefaultCollectors(false).WithServiceName("test")
}

func TestObservePoll(t *testing.T) {
	m := NewMetrics(testConfig())

	m.ObservePoll("create_index", poller.Result{State: poller.Succeeded, Cycles: 3})
	m.ObservePoll("create_index", poller.Result{State: poller.Succeeded, Cycles: 2})
	m.ObservePoll("delete_index", poller.Result{State: poller.TimedOut, Cycles: 7})

	assert.Equal(t, 5.0, testutil.ToFloat64(m.pollCycles.WithLabelValues("create_index", "Succeeded")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.pollCycles.WithLabelValues("delete_index", "TimedOut")))
}

func TestIncrementNormalizeFailures(t *testing.T) {
	m := NewMetrics(testConfig())

	m.IncrementNormalizeFailures("wrong_type")
	m.IncrementNormalizeFailures("wrong_type")
	m.IncrementNormalizeFailures("missing_field")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.normalizeFailures.WithLabelValues("wrong_type")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.normalizeFailures.WithLabelValues("missing_field")))
}

func TestObserveOperation(t *testing.T) {
	m := NewMetrics(testConfig())

	m.ObserveOperation("upsert", "success", 20*time.Millisecond)
	m.ObserveOperation("upsert", "error", time.Second)

	assert.Equal(t, 2, testutil.CollectAndCount(m.operationDuration))
}

func TestRegistryCarriesServiceLabelAndNamespace(t *testing.T) {
	m := NewMetrics(testConfig())
	m.IncrementNormalizeFailures("wrong_type")

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "pinecone_normalize_failures_total" {
			continue
		}
		found = true
		labels := map[string]string{}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		assert.Equal(t, "test", labels["service"])
		assert.Equal(t, "wrong_type", labels["kind"])
	}
	assert.True(t, found, "normalize failures metric not gathered")
}

func TestCreateCounter(t *testing.T) {
	m := NewMetrics(testConfig())

	c := m.CreateCounter("retries_total", "retries", []string{"op"})
	c.WithLabelValues("query").Inc()

	assert.Equal(t, 1, testutil.CollectAndCount(c))
	assert.Panics(t, func() { m.CreateCounter("retries_total", "retries", []string{"op"}) })
}

func TestHandlerServesMetrics(t *testing.T) {
	m := NewMetrics(testConfig())
	m.ObservePoll("configure_index", poller.Result{State: poller.Failed, Cycles: 1})

	srv := httptest.NewServer(m.Server.Handler)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body),
		`pinecone_poll_cycles_total{operation="configure_index",service="test",state="Failed"} 1`))
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("METRICS_ADDRESS", ":9200")
	t.Setenv("METRICS_ENABLE_DEFAULT_COLLECTORS", "false")
	t.Setenv("METRICS_SERVICE_NAME", "indexer")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9200", cfg.Address)
	assert.False(t, cfg.EnableDefaultCollectors)
	assert.Equal(t, "indexer", cfg.ServiceName)
	assert.Equal(t, "pinecone", cfg.Namespace)
}

func TestFXModuleServesAndStops(t *testing.T) {
	var m *Metrics
	app := fxtest.New(t,
		fx.Supply(testConfig().WithAddress("127.0.0.1:0")),
		FXModule,
		fx.Populate(&m),
	)
	app.RequireStart()
	require.NotNil(t, m)
	app.RequireStop()
}
