package service

import (
	"context"

	"scamwatch/internal/domain/entity"
)

// Notifier delivers best-effort notifications. Callers log failures and move on.
type Notifier interface {
	NotifyNewReport(ctx context.Context, report *entity.ScamReport) error
}

// NoopNotifier is used when no mail provider is configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewReport(context.Context, *entity.ScamReport) error {
	return nil
}
