package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoroutineMonitor_Check(t *testing.T) {
	m := NewGoroutineMonitor(zerolog.Nop(), 0, 0)
	games := 3
	m.RegisterGauge("active_games", func() int { return games })

	m.Check()
	metrics := m.GetMetrics()
	assert.Positive(t, metrics.Current)
	assert.GreaterOrEqual(t, metrics.Peak, metrics.Current)
	assert.Equal(t, 3, metrics.Gauges["active_games"])

	games = 5
	m.Check()
	assert.Equal(t, 5, m.GetMetrics().Gauges["active_games"])
}

func TestGoroutineMonitor_TracksPeak(t *testing.T) {
	m := NewGoroutineMonitor(zerolog.Nop(), 0, 0)

	release := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func() { <-release }()
	}
	m.Check()
	peak := m.GetMetrics().Peak
	close(release)

	require.Eventually(t, func() bool {
		m.Check()
		return m.GetMetrics().Current < peak
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, peak, m.GetMetrics().Peak, "peak never decreases")
}

func TestGoroutineMonitor_StartStop(t *testing.T) {
	m := NewGoroutineMonitor(zerolog.Nop(), 10*time.Millisecond, 0)
	calls := make(chan struct{}, 10)
	m.RegisterGauge("probe", func() int {
		select {
		case calls <- struct{}{}:
		default:
		}
		return 1
	})

	m.Start()
	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("monitor never sampled")
	}
	m.Stop()
	m.Stop()
}

func TestGoroutineMonitor_ServeHTTP(t *testing.T) {
	m := NewGoroutineMonitor(zerolog.Nop(), 0, 0)
	m.RegisterGauge("ws_connections", func() int { return 2 })
	m.Check()

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got GoroutineMetrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Gauges["ws_connections"])
}
