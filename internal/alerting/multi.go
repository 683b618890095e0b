package alerting

import (
	"context"
	"errors"
	"fmt"
)

// MultiAlerter fans an alert out to multiple alerters. A failure in one
// alerter does not stop delivery to the others.
type MultiAlerter struct {
	alerters []Alerter
}

// NewMultiAlerter creates a multi alerter from the given alerters.
func NewMultiAlerter(alerters ...Alerter) *MultiAlerter {
	return &MultiAlerter{alerters: alerters}
}

// Alert sends the alert through every configured alerter, collecting errors.
func (a *MultiAlerter) Alert(ctx context.Context, severity Severity, message string, fields ...any) error {
	var errs []error
	for _, alerter := range a.alerters {
		if err := alerter.Alert(ctx, severity, message, fields...); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", alerter.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Name returns the alerter name.
func (a *MultiAlerter) Name() string {
	return "multi"
}
