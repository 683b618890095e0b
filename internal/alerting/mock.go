package alerting

import (
	"context"
	"strings"
	"sync"
)

// RecordedAlert captures one alert sent to a MockAlerter.
type RecordedAlert struct {
	Severity Severity
	Message  string
	Fields   []any
}

// MockAlerter records alerts for tests.
type MockAlerter struct {
	mu     sync.Mutex
	alerts []RecordedAlert
	err    error
}

// NewMockAlerter creates a mock alerter.
func NewMockAlerter() *MockAlerter {
	return &MockAlerter{}
}

// SetError makes subsequent Alert calls return err.
func (a *MockAlerter) SetError(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

// Alert records the alert.
func (a *MockAlerter) Alert(_ context.Context, severity Severity, message string, fields ...any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, RecordedAlert{Severity: severity, Message: message, Fields: fields})
	return a.err
}

// Name returns the alerter name.
func (a *MockAlerter) Name() string {
	return "mock"
}

// Alerts returns a copy of the recorded alerts.
func (a *MockAlerter) Alerts() []RecordedAlert {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]RecordedAlert, len(a.alerts))
	copy(out, a.alerts)
	return out
}

// Count returns the number of recorded alerts.
func (a *MockAlerter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

// HasAlertContaining reports whether any recorded alert message contains s.
func (a *MockAlerter) HasAlertContaining(s string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, alert := range a.alerts {
		if strings.Contains(alert.Message, s) {
			return true
		}
	}
	return false
}
