package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/cache"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
)

const (
	projectFetchTimeout  = 15 * time.Second
	snapshotStoreTimeout = 1 * time.Second
)

// GetProject returns the current project snapshot. force skips the refresh window.
type GetProject func(ctx context.Context, force bool) (domain.ProjectSnapshot, error)

type projectProvider interface {
	GetProject(ctx context.Context, settings domain.Settings) (domain.ProjectSnapshot, error)
}

type snapshotRepository interface {
	StoreSnapshot(ctx context.Context, snapshot domain.ProjectSnapshot) error
	GetSnapshot(ctx context.Context, listID string) (domain.ProjectSnapshot, error)
}

func fetchAndPersistProject(ctx context.Context, provider projectProvider, repo snapshotRepository, settings domain.Settings) (domain.ProjectSnapshot, error) {
	logger := logging.FromContext(ctx)

	fetchCtx, cancel := context.WithTimeout(ctx, projectFetchTimeout)
	defer cancel()

	snapshot, err := provider.GetProject(fetchCtx, settings)
	if err != nil {
		// NOTE: ProjectProvider implementations handle their own error reporting
		return domain.ProjectSnapshot{}, fmt.Errorf("could not get project: %w", err)
	}

	// Ignore cancellations from the request context and try to store the data anyway
	storeCtx, cancelStore := context.WithTimeout(context.WithoutCancel(ctx), snapshotStoreTimeout)
	defer cancelStore()
	err = repo.StoreSnapshot(storeCtx, snapshot)
	if err != nil {
		// NOTE: SnapshotRepository implementations handle their own error reporting
		logger.Error("failed to store project snapshot", "error", err.Error())
	}

	return snapshot, nil
}

// Most recent snapshot of the list that we can still serve, from memory or the repository
func findStaleSnapshot(ctx context.Context, projectCache *cache.WindowedCache[domain.ProjectSnapshot], repo snapshotRepository, listID string) (domain.ProjectSnapshot, bool) {
	if listID == "" {
		return domain.ProjectSnapshot{}, false
	}

	if snapshot, _, ok := projectCache.Peek(); ok && snapshot.ListID == listID {
		return snapshot, true
	}

	snapshot, err := repo.GetSnapshot(ctx, listID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ProjectSnapshot{}, false
	} else if err != nil {
		logging.FromContext(ctx).Error("failed to get stored snapshot", "error", err.Error())
		return domain.ProjectSnapshot{}, false
	}

	return snapshot, true
}

func BuildGetProject(
	projectCache *cache.WindowedCache[domain.ProjectSnapshot],
	getSettings GetSettings,
	provider projectProvider,
	repo snapshotRepository,
) GetProject {
	return func(ctx context.Context, force bool) (domain.ProjectSnapshot, error) {
		logger := logging.FromContext(ctx)

		// Read before the settings, so a settings update in between keeps
		// the fetch for the old settings out of the cache
		generation := projectCache.Generation()

		settings, err := getSettings(ctx)
		if err != nil {
			// NOTE: GetSettings implementations handle their own error reporting
			return domain.ProjectSnapshot{}, fmt.Errorf("%w: could not get settings: %w", domain.ErrProjectUnavailable, err)
		}

		snapshot, cached, err := projectCache.GetForGeneration(ctx, generation, force, func(ctx context.Context) (domain.ProjectSnapshot, error) {
			return fetchAndPersistProject(ctx, provider, repo, settings)
		})
		if err == nil {
			logger.InfoContext(ctx, "Getting project snapshot", "cached", cached, "force", force)
			return snapshot, nil
		}

		if ctx.Err() != nil {
			return domain.ProjectSnapshot{}, fmt.Errorf("gave up waiting for project: %w", err)
		}

		stale, ok := findStaleSnapshot(ctx, projectCache, repo, settings.ListID)
		if !ok {
			return domain.ProjectSnapshot{}, fmt.Errorf("%w: %w", domain.ErrProjectUnavailable, err)
		}

		logger.WarnContext(
			ctx,
			"Serving stale project snapshot",
			"error", err.Error(),
			"fetchedAt", stale.FetchedAt,
			"listID", stale.ListID,
		)
		stale.Stale = true
		return stale, nil
	}
}
