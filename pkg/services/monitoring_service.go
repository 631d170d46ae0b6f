package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	maxRecentErrors = 10
	maxLogEntries   = 10000
)

// untrackedPrefixes are request paths that never enter the dashboard.
var untrackedPrefixes = []string{"/admin", "/monitoring"}

// LogEntry is one served request.
type LogEntry struct {
	RequestID    string        `json:"requestId"`
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService keeps an in-memory ring of request logs for the dashboard.
type MonitoringService struct {
	mu     sync.RWMutex
	logs   []LogEntry
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewMonitoringService creates an empty request log.
func NewMonitoringService(logger logrus.FieldLogger) *MonitoringService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &MonitoringService{
		logs:   make([]LogEntry, 0),
		logger: logger,
		now:    time.Now,
	}
}

// LogRequest records entry, dropping the oldest entries past the retention cap.
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if over := len(s.logs) - maxLogEntries; over > 0 {
		s.logs = append(s.logs[:0:0], s.logs[over:]...)
	}
}

// LoggingMiddleware tags each request with an id, writes an access log line
// and records the request for the dashboard.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		path := c.Request.URL.Path
		entry := LogEntry{
			RequestID:    requestID,
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: s.now().Sub(start),
		}

		fields := s.logger.WithFields(logrus.Fields{
			"request_id": entry.RequestID,
			"method":     entry.Method,
			"path":       entry.Path,
			"status":     entry.StatusCode,
			"latency_ms": entry.ResponseTime.Milliseconds(),
		})
		switch {
		case entry.StatusCode >= 500:
			fields.Error("request failed")
		case entry.StatusCode >= 400:
			fields.Warn("request rejected")
		default:
			fields.Info("request served")
		}

		if isUntracked(path) {
			return
		}
		s.LogRequest(entry)
	}
}

func isUntracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// HourlyCount is the number of requests in one hour bucket.
type HourlyCount struct {
	Time     string `json:"time"`
	Requests int    `json:"requests"`
}

// StatusCount is the number of responses in one status class.
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// EndpointLatency is the mean response time of one path in milliseconds.
type EndpointLatency struct {
	Endpoint     string `json:"endpoint"`
	ResponseTime int64  `json:"responseTime"`
}

// DashboardData is the aggregated view of the request log.
type DashboardData struct {
	RequestsOverTime []HourlyCount     `json:"requestsOverTime"`
	Endpoints        map[string]int    `json:"endpoints"`
	StatusCodes      []StatusCount     `json:"statusCodes"`
	AvgResponseTimes []EndpointLatency `json:"avgResponseTimes"`
	RecentErrors     []LogEntry        `json:"recentErrors"`
}

// GetDashboardData aggregates the requests of the last periodHours hours (UTC buckets).
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	if periodHours <= 0 {
		periodHours = 24
	}
	now := s.now().UTC()
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	s.mu.RLock()
	window := make([]LogEntry, 0, len(s.logs))
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			window = append(window, entry)
		}
	}
	s.mu.RUnlock()

	return DashboardData{
		RequestsOverTime: hourlyCounts(window, now, periodHours),
		Endpoints:        endpointCounts(window),
		StatusCodes:      statusCounts(window),
		AvgResponseTimes: averageLatencies(window),
		RecentErrors:     recentErrors(window),
	}
}

func hourlyCounts(window []LogEntry, now time.Time, hours int) []HourlyCount {
	buckets := make(map[time.Time]int, hours)
	for _, entry := range window {
		buckets[entry.Timestamp.UTC().Truncate(time.Hour)]++
	}

	counts := make([]HourlyCount, hours)
	for i := range counts {
		hour := now.Add(-time.Duration(hours-1-i) * time.Hour).Truncate(time.Hour)
		counts[i] = HourlyCount{Time: hour.Format("15:00"), Requests: buckets[hour]}
	}
	return counts
}

func endpointCounts(window []LogEntry) map[string]int {
	endpoints := make(map[string]int)
	for _, entry := range window {
		endpoints[entry.Path]++
	}
	return endpoints
}

func statusCounts(window []LogEntry) []StatusCount {
	var success, client, server int
	for _, entry := range window {
		switch {
		case entry.StatusCode >= 500:
			server++
		case entry.StatusCode >= 400:
			client++
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			success++
		}
	}
	return []StatusCount{
		{Name: "2xx Success", Value: success},
		{Name: "4xx Client Error", Value: client},
		{Name: "5xx Server Error", Value: server},
	}
}

func averageLatencies(window []LogEntry) []EndpointLatency {
	total := make(map[string]time.Duration)
	count := make(map[string]int)
	for _, entry := range window {
		total[entry.Path] += entry.ResponseTime
		count[entry.Path]++
	}

	latencies := make([]EndpointLatency, 0, len(total))
	for path, sum := range total {
		latencies = append(latencies, EndpointLatency{
			Endpoint:     path,
			ResponseTime: sum.Milliseconds() / int64(count[path]),
		})
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i].Endpoint < latencies[j].Endpoint })
	return latencies
}

// recentErrors returns the newest 5xx entries first.
func recentErrors(window []LogEntry) []LogEntry {
	errs := make([]LogEntry, 0)
	for i := len(window) - 1; i >= 0 && len(errs) < maxRecentErrors; i-- {
		if window[i].StatusCode >= 500 {
			errs = append(errs, window[i])
		}
	}
	return errs
}
