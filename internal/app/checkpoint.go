package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/cache"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
)

type GetCheckpoint func(ctx context.Context, checkpointID string) (domain.Checkpoint, error)

type checkpointProvider interface {
	GetCheckpoint(ctx context.Context, checkpointID string) (domain.Checkpoint, error)
}

func buildGetCheckpointWithoutCache(provider checkpointProvider) func(ctx context.Context, checkpointID string) (domain.Checkpoint, error) {
	return func(ctx context.Context, checkpointID string) (domain.Checkpoint, error) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		checkpoint, err := provider.GetCheckpoint(ctx, checkpointID)
		if err != nil {
			// NOTE: CheckpointProvider implementations handle their own error reporting
			return domain.Checkpoint{}, fmt.Errorf("could not get checkpoint: %w", err)
		}

		return checkpoint, nil
	}
}

func BuildGetCheckpointWithCache(checkpointCache cache.Cache[domain.Checkpoint], provider checkpointProvider) GetCheckpoint {
	getCheckpointWithoutCache := buildGetCheckpointWithoutCache(provider)

	return func(ctx context.Context, checkpointID string) (domain.Checkpoint, error) {
		if strings.TrimSpace(checkpointID) == "" {
			return domain.Checkpoint{}, fmt.Errorf("%w: checkpoint ID is empty", domain.ErrInvalidInput)
		}

		checkpoint, err := cache.GetOrCreate(ctx, checkpointCache, checkpointID, func() (domain.Checkpoint, error) {
			return getCheckpointWithoutCache(ctx, checkpointID)
		})
		if err != nil {
			// NOTE: GetOrCreate only returns an error if create() fails.
			// getCheckpointWithoutCache handles its own error reporting
			return domain.Checkpoint{}, fmt.Errorf("failed to cache.GetOrCreate checkpoint: %w", err)
		}

		return checkpoint, nil
	}
}

// BuildGetCheckpointFromProject looks the checkpoint up in the current project.
// Used when the project source has no per-task lookup.
func BuildGetCheckpointFromProject(getProject GetProject) GetCheckpoint {
	return func(ctx context.Context, checkpointID string) (domain.Checkpoint, error) {
		if strings.TrimSpace(checkpointID) == "" {
			return domain.Checkpoint{}, fmt.Errorf("%w: checkpoint ID is empty", domain.ErrInvalidInput)
		}

		snapshot, err := getProject(ctx, false)
		if err != nil {
			return domain.Checkpoint{}, fmt.Errorf("could not get project: %w", err)
		}

		checkpoint, ok := snapshot.Project.Checkpoint(checkpointID)
		if !ok {
			return domain.Checkpoint{}, fmt.Errorf("%w: checkpoint %s", domain.ErrNotFound, checkpointID)
		}

		return checkpoint, nil
	}
}

type AddComment func(ctx context.Context, checkpointID, text string, notifyAll bool) (domain.Comment, error)

type commentPoster interface {
	PostComment(ctx context.Context, checkpointID, text string, notifyAll bool) (domain.Comment, error)
}

type projectInvalidator interface {
	Invalidate()
}

func BuildAddComment(poster commentPoster, projectCache projectInvalidator, checkpointCache purgeable) AddComment {
	return func(ctx context.Context, checkpointID, text string, notifyAll bool) (domain.Comment, error) {
		text = strings.TrimSpace(text)
		if text == "" {
			return domain.Comment{}, fmt.Errorf("%w: comment is empty", domain.ErrInvalidInput)
		}
		if strings.TrimSpace(checkpointID) == "" {
			return domain.Comment{}, fmt.Errorf("%w: checkpoint ID is empty", domain.ErrInvalidInput)
		}

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		comment, err := poster.PostComment(ctx, checkpointID, text, notifyAll)
		if err != nil {
			// NOTE: commentPoster implementations handle their own error reporting
			return domain.Comment{}, fmt.Errorf("could not post comment: %w", err)
		}

		// The comment should show up on the next read
		projectCache.Invalidate()
		checkpointCache.Purge()

		logging.FromContext(ctx).InfoContext(ctx, "Added comment", "checkpointID", checkpointID, "notifyAll", notifyAll)

		return comment, nil
	}
}

type purgeable interface {
	Purge()
}
