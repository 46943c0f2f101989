package monitoring

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// GoroutineMonitor samples the goroutine count alongside registered gauges
// (active games, websocket connections) and warns on suspected leaks
type GoroutineMonitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	gauges         map[string]func() int
	gaugeValues    map[string]int
	logger         zerolog.Logger
}

// NewGoroutineMonitor creates a monitor. A zero interval or threshold keeps
// the defaults of 30s and 1000 goroutines.
func NewGoroutineMonitor(logger zerolog.Logger, checkInterval time.Duration, alertThreshold int) *GoroutineMonitor {
	if checkInterval <= 0 {
		checkInterval = 30 * time.Second
	}
	if alertThreshold <= 0 {
		alertThreshold = 1000
	}
	baseline := runtime.NumGoroutine()
	return &GoroutineMonitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  checkInterval,
		alertThreshold: alertThreshold,
		alertCooldown:  5 * time.Minute,
		stopChan:       make(chan struct{}),
		gauges:         make(map[string]func() int),
		gaugeValues:    make(map[string]int),
		logger:         logger.With().Str("component", "GoroutineMonitor").Logger(),
	}
}

// Start begins monitoring goroutines
func (gm *GoroutineMonitor) Start() {
	go gm.monitor()
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Dur("interval", gm.checkInterval).
		Msg("Started goroutine monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (gm *GoroutineMonitor) Stop() {
	gm.stopOnce.Do(func() { close(gm.stopChan) })
}

// monitor is the main monitoring loop
func (gm *GoroutineMonitor) monitor() {
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Goroutine monitor panicked - restarting")
			time.Sleep(5 * time.Second)
			go gm.monitor()
		}
	}()

	ticker := time.NewTicker(gm.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.Check()
		case <-gm.stopChan:
			return
		}
	}
}

// Check samples the goroutine count and every gauge, and alerts if needed
func (gm *GoroutineMonitor) Check() {
	current := runtime.NumGoroutine()

	gm.mu.RLock()
	gauges := make(map[string]func() int, len(gm.gauges))
	for name, fn := range gm.gauges {
		gauges[name] = fn
	}
	gm.mu.RUnlock()

	values := make(map[string]int, len(gauges))
	for name, fn := range gauges {
		values[name] = fn()
	}

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	for name, v := range values {
		gm.gaugeValues[name] = v
	}

	// Check for potential leak
	growth := current - gm.baseline
	growthRate := 0.0
	if gm.baseline > 0 {
		growthRate = float64(growth) / float64(gm.baseline) * 100
	}

	shouldAlert := current > gm.alertThreshold &&
		time.Since(gm.lastAlert) > gm.alertCooldown
	if shouldAlert {
		gm.lastAlert = time.Now()
	}
	peak := gm.peak
	gm.mu.Unlock()

	ev := gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate)
	for name, v := range values {
		ev = ev.Int(name, v)
	}
	ev.Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.alertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
}

// RegisterGauge adds a value sampled on every check, e.g. the number of
// active games
func (gm *GoroutineMonitor) RegisterGauge(name string, fn func() int) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.gauges[name] = fn
}

// GetMetrics returns the metrics of the last check
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	gauges := make(map[string]int, len(gm.gaugeValues))
	for k, v := range gm.gaugeValues {
		gauges[k] = v
	}
	return GoroutineMetrics{
		Current:  gm.current,
		Baseline: gm.baseline,
		Peak:     gm.peak,
		Growth:   gm.current - gm.baseline,
		Gauges:   gauges,
	}
}

// ServeHTTP writes the current metrics as JSON
func (gm *GoroutineMonitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(gm.GetMetrics()); err != nil {
		gm.logger.Error().Err(err).Msg("Failed to write metrics")
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current  int            `json:"current"`
	Baseline int            `json:"baseline"`
	Peak     int            `json:"peak"`
	Growth   int            `json:"growth"`
	Gauges   map[string]int `json:"gauges"`
}
