package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window metrics
	WindowsOpen  prometheus.Gauge
	WindowOpens  *prometheus.CounterVec
	DragsStarted *prometheus.CounterVec

	// Playback metrics
	TracksPlayed  *prometheus.CounterVec
	PlaybackState prometheus.Gauge

	// Notification metrics
	NotificationsShown   prometheus.Counter
	NotificationsPending prometheus.Gauge

	// Identity metrics
	IdentitySwitches prometheus.Counter
	ProfilesTracked  prometheus.Gauge

	// Storage metrics
	StorageOps    *prometheus.CounterVec
	StorageErrors *prometheus.CounterVec
	UploadBytes   prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot

	mu sync.RWMutex
}

// Snapshot holds current metric values for JSON API
type Snapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	OpenWindows      int64   `json:"open_windows"`
	WSConnections    int64   `json:"ws_connections"`
	IdentitySwitches int64   `json:"identity_switches"`
	TotalDuration    float64 `json:"-"` // sum of all request durations
	RequestCount     int64   `json:"-"` // count for averaging
}

// AverageLatency returns the mean request duration in seconds.
func (s Snapshot) AverageLatency() float64 {
	if s.RequestCount == 0 {
		return 0
	}
	return s.TotalDuration / float64(s.RequestCount)
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Window metrics
		WindowsOpen: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_windows_open",
				Help: "Number of open windows",
			},
		),
		WindowOpens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_window_opens_total",
				Help: "Total number of window open operations",
			},
			[]string{"kind"},
		),
		DragsStarted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_drags_started_total",
				Help: "Total number of drag gestures started",
			},
			[]string{"kind"},
		),

		// Playback metrics
		TracksPlayed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_tracks_played_total",
				Help: "Total number of track starts",
			},
			[]string{"source"},
		),
		PlaybackState: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_playback_playing",
				Help: "Whether audio playback is active (1) or not (0)",
			},
		),

		// Notification metrics
		NotificationsShown: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_notifications_shown_total",
				Help: "Total number of notifications shown",
			},
		),
		NotificationsPending: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_notifications_pending",
				Help: "Number of notifications currently displayed",
			},
		),

		// Identity metrics
		IdentitySwitches: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_identity_switches_total",
				Help: "Total number of identity switches",
			},
		),
		ProfilesTracked: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_profiles_tracked",
				Help: "Number of profiles in the identity store",
			},
		),

		// Storage metrics
		StorageOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_storage_ops_total",
				Help: "Total number of blob storage operations",
			},
			[]string{"backend", "op"},
		),
		StorageErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_storage_errors_total",
				Help: "Total number of blob storage errors",
			},
			[]string{"backend", "op"},
		),
		UploadBytes: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_upload_bytes_total",
				Help: "Total bytes accepted by the upload endpoints",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordWindowOpen records one window open operation
func (m *Metrics) RecordWindowOpen(kind string) {
	m.WindowOpens.WithLabelValues(kind).Inc()
}

// SetWindowsOpen sets the open window gauge
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// RecordDrag records the start of a drag gesture
func (m *Metrics) RecordDrag(kind string) {
	m.DragsStarted.WithLabelValues(kind).Inc()
}

// RecordTrackPlayed records a track start ("playlist" or "url")
func (m *Metrics) RecordTrackPlayed(source string) {
	m.TracksPlayed.WithLabelValues(source).Inc()
}

// SetPlaying sets the playback state gauge
func (m *Metrics) SetPlaying(playing bool) {
	if playing {
		m.PlaybackState.Set(1)
	} else {
		m.PlaybackState.Set(0)
	}
}

// RecordNotification records a shown notification
func (m *Metrics) RecordNotification() {
	m.NotificationsShown.Inc()
}

// SetNotificationsPending sets the pending notifications gauge
func (m *Metrics) SetNotificationsPending(count int) {
	m.NotificationsPending.Set(float64(count))
}

// RecordIdentitySwitch records an identity switch
func (m *Metrics) RecordIdentitySwitch() {
	m.IdentitySwitches.Inc()
	m.mu.Lock()
	m.snapshot.IdentitySwitches++
	m.mu.Unlock()
}

// SetProfilesTracked sets the profile count gauge
func (m *Metrics) SetProfilesTracked(count int) {
	m.ProfilesTracked.Set(float64(count))
}

// RecordStorageOp records a blob storage operation
func (m *Metrics) RecordStorageOp(backend, op string) {
	m.StorageOps.WithLabelValues(backend, op).Inc()
}

// RecordStorageError records a failed blob storage operation
func (m *Metrics) RecordStorageError(backend, op string) {
	m.StorageErrors.WithLabelValues(backend, op).Inc()
}

// RecordUpload records accepted upload bytes
func (m *Metrics) RecordUpload(bytes int64) {
	m.UploadBytes.Add(float64(bytes))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.WSConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.WSConnections--
	m.mu.Unlock()
}

// GetSnapshot returns current metric values for the JSON stats endpoint
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// UptimeSeconds returns seconds since startup
func (m *Metrics) UptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}
