// Package alerting provides notification capabilities for the gateway.
package alerting

import (
	"context"
	"fmt"
)

// Severity represents the alert severity level.
type Severity int

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning is for warning messages.
	SeverityWarning
	// SeverityHigh is for high priority alerts.
	SeverityHigh
	// SeverityCritical is for critical alerts requiring immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Alerter defines the interface for sending alerts.
type Alerter interface {
	// Alert sends an alert with the given severity and message.
	Alert(ctx context.Context, severity Severity, message string, fields ...any) error
	// Name returns the name of the alerter.
	Name() string
}

// FormatFields converts variadic key/value fields to a formatted string.
func FormatFields(fields ...any) string {
	if len(fields) == 0 {
		return ""
	}

	result := ""
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		value := fields[i+1]
		if result != "" {
			result += "\n"
		}
		result += fmt.Sprintf("• %s: %v", key, value)
	}
	return result
}

// AlertEvent represents a pre-defined alert event type.
type AlertEvent string

const (
	// EventOrderSubmitted is sent when an order is accepted by the exchange.
	EventOrderSubmitted AlertEvent = "order_submitted"
	// EventOrderFailed is sent when order submission fails.
	EventOrderFailed AlertEvent = "order_failed"
	// EventSessionError is sent when the brokerage session fails.
	EventSessionError AlertEvent = "session_error"
	// EventCodeUnresolved is sent when a rolling contract code cannot be
	// resolved to an actual code and the position lookup may miss.
	EventCodeUnresolved AlertEvent = "code_unresolved"
	// EventGatewayStarted is sent when the gateway starts.
	EventGatewayStarted AlertEvent = "gateway_started"
	// EventGatewayStopped is sent when the gateway stops.
	EventGatewayStopped AlertEvent = "gateway_stopped"
)

// EventSeverity returns the default severity for an event.
func EventSeverity(event AlertEvent) Severity {
	switch event {
	case EventSessionError:
		return SeverityHigh
	case EventOrderFailed, EventCodeUnresolved:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
