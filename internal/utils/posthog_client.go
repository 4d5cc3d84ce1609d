// posthog_client.go wraps posthog.Client so callers need not care whether analytics are configured.
package utils

import (
	"context"
	"log/slog"

	portssvc "github.com/SscSPs/branch_ledger/internal/core/ports/services"
	"github.com/posthog/posthog-go"
)

// PosthogClientWrapper is a nil-safe PostHog client. It also serves as the ledger notifier.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

var _ portssvc.LedgerNotifier = (*PosthogClientWrapper)(nil)

// InitializePosthogClient returns an uninitialized wrapper when apiKey is empty.
func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, not initializing posthog client.")
		return &PosthogClientWrapper{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return &PosthogClientWrapper{logger: logger}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

func (w *PosthogClientWrapper) Enqueue(distinctId string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctId,
		Event:      event,
		Properties: properties,
	})
	if err != nil && w.logger != nil {
		w.logger.Warn("Failed to enqueue posthog event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Notify reports a ledger mutation outcome. Failures get the event name suffixed with "_failed".
func (w *PosthogClientWrapper) Notify(ctx context.Context, event portssvc.LedgerEvent) {
	if !w.IsInitialized() {
		return
	}
	name := event.Name
	props := map[string]any{
		"branch_id": event.BranchID,
	}
	for k, v := range event.Properties {
		props[k] = v
	}
	if event.EntryID != "" {
		props["entry_id"] = event.EntryID
	}
	if event.EntryNumber != "" {
		props["entry_number"] = event.EntryNumber
	}
	if event.Err != nil {
		name += portssvc.FailedSuffix
		props["error"] = event.Err.Error()
	}
	w.Enqueue(event.ActorID, name, props)
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil && w.logger != nil {
		w.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
