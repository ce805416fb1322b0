package domaintest

import (
	"time"

	"github.com/Amund211/clientboard/internal/domain"
)

type checkpointBuilder struct {
	checkpoint *domain.Checkpoint
}

func (cb *checkpointBuilder) WithStatus(status domain.CheckpointStatus) *checkpointBuilder {
	cb.checkpoint.Status = status
	return cb
}

func (cb *checkpointBuilder) WithDates(start, end time.Time) *checkpointBuilder {
	cb.checkpoint.StartDate = start
	cb.checkpoint.EndDate = end
	return cb
}

func (cb *checkpointBuilder) WithProgress(progress int) *checkpointBuilder {
	cb.checkpoint.Progress = progress
	return cb
}

func (cb *checkpointBuilder) WithSubtask(subtask domain.Subtask) *checkpointBuilder {
	cb.checkpoint.Subtasks = append(cb.checkpoint.Subtasks, subtask)
	return cb
}

func (cb *checkpointBuilder) WithComment(comment domain.Comment) *checkpointBuilder {
	cb.checkpoint.Comments = append(cb.checkpoint.Comments, comment)
	return cb
}

func (cb *checkpointBuilder) Build() domain.Checkpoint {
	checkpoint := *cb.checkpoint
	// Copy slices, so further mutations to the builder don't affect the returned checkpoint
	checkpoint.Subtasks = append([]domain.Subtask{}, cb.checkpoint.Subtasks...)
	checkpoint.Comments = append([]domain.Comment{}, cb.checkpoint.Comments...)
	return checkpoint
}

func NewCheckpointBuilder(id string, name string) *checkpointBuilder {
	return &checkpointBuilder{
		checkpoint: &domain.Checkpoint{
			ID:       id,
			Name:     name,
			Status:   domain.CheckpointStatusPending,
			Subtasks: []domain.Subtask{},
			Comments: []domain.Comment{},
		},
	}
}

func NewSnapshot(listID string, fetchedAt time.Time, checkpoints ...domain.Checkpoint) domain.ProjectSnapshot {
	project := domain.NewProject(domain.ProjectDetails{
		ID:     listID,
		Title:  "Projeto " + listID,
		Client: "Cliente IA",
		Budget: "R$ 28.500,00",
	}, checkpoints, fetchedAt)

	return domain.ProjectSnapshot{
		Project:   project,
		ListID:    listID,
		Source:    domain.ProjectSourceClickUpAPI,
		FetchedAt: fetchedAt,
	}
}
