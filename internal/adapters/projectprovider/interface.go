package projectprovider

import (
	"context"

	"github.com/Amund211/clientboard/internal/domain"
)

type ProjectProvider interface {
	// Fetch the current state of the project described by settings.
	//
	// Raises domain.ErrNotConfigured if settings lack what the provider needs.
	// Raises domain.ErrTemporarilyUnavailable if the upstream error is believed to be intermittent.
	GetProject(ctx context.Context, settings domain.Settings) (domain.ProjectSnapshot, error)
}

type CheckpointProvider interface {
	// Raises domain.ErrNotFound if the checkpoint does not exist
	GetCheckpoint(ctx context.Context, checkpointID string) (domain.Checkpoint, error)
}

type CommentPoster interface {
	// Raises domain.ErrNotFound if the checkpoint does not exist
	PostComment(ctx context.Context, checkpointID, text string, notifyAll bool) (domain.Comment, error)
}

// Project attributes that come from configuration rather than the tracker
type ProjectDefaults struct {
	Client string
	Budget string
}
