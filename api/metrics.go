package api

import (
	"time"

	log "github.com/sirupsen/logrus"
)

type requestMetrics struct {
	logger         *log.Logger
	start          time.Time
	authDuration   time.Duration
	execDuration   time.Duration
	encodeDuration time.Duration
	operation      string
	errorCount     int
	errorStage     string
}

func newRequestMetrics(logger *log.Logger) *requestMetrics {
	return &requestMetrics{
		logger: logger,
		start:  time.Now(),
	}
}

func (m *requestMetrics) ObserveAuth(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.authDuration = duration
}

func (m *requestMetrics) ObserveExec(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.execDuration = duration
}

func (m *requestMetrics) ObserveEncode(duration time.Duration) {
	if duration <= 0 {
		return
	}
	m.encodeDuration = duration
}

func (m *requestMetrics) SetOperation(name string) {
	if name == "" {
		return
	}
	m.operation = name
}

func (m *requestMetrics) SetErrorCount(count int) {
	if count < 0 {
		count = 0
	}
	m.errorCount = count
}

func (m *requestMetrics) SetErrorStage(stage string) {
	if stage == "" {
		return
	}
	m.errorStage = stage
}

func (m *requestMetrics) Log(status int, err error) {
	if m == nil || m.logger == nil {
		return
	}

	fields := log.Fields{
		"route":    "/graphql",
		"status":   status,
		"total_ms": durationToMillis(time.Since(m.start)),
	}

	if m.operation != "" {
		fields["operation"] = m.operation
	}
	if m.authDuration > 0 {
		fields["auth_ms"] = durationToMillis(m.authDuration)
	}
	if m.execDuration > 0 {
		fields["exec_ms"] = durationToMillis(m.execDuration)
	}
	if m.encodeDuration > 0 {
		fields["encode_ms"] = durationToMillis(m.encodeDuration)
	}
	if m.errorCount > 0 {
		fields["graphql_errors"] = m.errorCount
	}
	if m.errorStage != "" {
		fields["error_stage"] = m.errorStage
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	m.logger.WithFields(fields).Info("graphql.request.metrics")
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
