package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogEntry is a single recorded API request.
type RequestLogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService keeps an in-memory request log for the dashboard.
type MonitoringService struct {
	mu   sync.RWMutex
	logs []RequestLogEntry
}

// NewMonitoringService creates an empty monitoring service.
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs: make([]RequestLogEntry, 0),
	}
}

// LogRequest records one request.
func (s *MonitoringService) LogRequest(entry RequestLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// LoggingMiddleware records request metadata for every handled request,
// excluding the admin and monitoring endpoints themselves.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(RequestLogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// DashboardData is the aggregated request log for the dashboard.
type DashboardData struct {
	TotalRequests int               `json:"totalRequests"`
	Endpoints     map[string]int    `json:"endpoints"`
	StatusCodes   map[string]int    `json:"statusCodes"`
	AvgResponseMs float64           `json:"avgResponseMs"`
	RecentErrors  []RequestLogEntry `json:"recentErrors"`
}

// GetDashboardData aggregates the logs recorded within the last
// periodHours hours.
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-time.Duration(periodHours) * time.Hour)

	data := DashboardData{
		Endpoints:    make(map[string]int),
		StatusCodes:  make(map[string]int),
		RecentErrors: make([]RequestLogEntry, 0),
	}

	var totalResponse time.Duration
	for _, entry := range s.logs {
		if entry.Timestamp.Before(since) {
			continue
		}
		data.TotalRequests++
		data.Endpoints[entry.Method+" "+entry.Path]++
		data.StatusCodes[statusClass(entry.StatusCode)]++
		totalResponse += entry.ResponseTime

		if entry.StatusCode >= 400 {
			data.RecentErrors = append(data.RecentErrors, entry)
		}
	}

	if data.TotalRequests > 0 {
		data.AvgResponseMs = float64(totalResponse.Milliseconds()) / float64(data.TotalRequests)
	}

	// keep only the most recent errors
	const maxErrors = 20
	if len(data.RecentErrors) > maxErrors {
		data.RecentErrors = data.RecentErrors[len(data.RecentErrors)-maxErrors:]
	}

	return data
}

// statusClass buckets a status code into its class ("2xx", "4xx", ...).
func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
