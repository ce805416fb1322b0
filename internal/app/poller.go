package app

import (
	"context"
	"time"

	"github.com/Amund211/clientboard/internal/logging"
)

// RunProjectPoller asks for the project every interval until ctx is done.
//
// Polls go through the refresh window, so upstream is only hit once the
// cached snapshot has expired. Failed refreshes are logged and retried at
// the next tick.
func RunProjectPoller(ctx context.Context, getProject GetProject, interval time.Duration, afterFunc func(time.Duration) <-chan time.Time) {
	logger := logging.FromContext(ctx).With("component", "poller")

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Stopping project poller")
			return
		case <-afterFunc(interval):
		}

		snapshot, err := getProject(ctx, false)
		if err != nil {
			// NOTE: GetProject implementations handle their own error reporting
			logger.ErrorContext(ctx, "Failed to refresh project", "error", err.Error())
			continue
		}

		logger.InfoContext(
			ctx,
			"Refreshed project",
			"listID", snapshot.ListID,
			"checkpoints", len(snapshot.Project.Checkpoints),
			"stale", snapshot.Stale,
		)
	}
}
