package projectprovider_test

import (
	"testing"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/Amund211/clientboard/internal/adapters/projectprovider"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestTaskToCheckpoint(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, time.January, 2, 10, 0, 0, 0, time.UTC)
	start := time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC)
	due := time.Date(2025, time.January, 31, 10, 0, 0, 0, time.UTC)

	t.Run("status and progress", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			label            string
			expectedStatus   domain.CheckpointStatus
			expectedProgress int
		}{
			{label: "Concluído", expectedStatus: domain.CheckpointStatusCompleted, expectedProgress: 100},
			{label: "Completed", expectedStatus: domain.CheckpointStatusCompleted, expectedProgress: 100},
			{label: "Done", expectedStatus: domain.CheckpointStatusCompleted, expectedProgress: 100},
			{label: "complete", expectedStatus: domain.CheckpointStatusCompleted, expectedProgress: 100},
			{label: "CLOSED", expectedStatus: domain.CheckpointStatusCompleted, expectedProgress: 100},
			{label: "Em andamento", expectedStatus: domain.CheckpointStatusInProgress, expectedProgress: 50},
			{label: "In Progress", expectedStatus: domain.CheckpointStatusInProgress, expectedProgress: 50},
			{label: "in review", expectedStatus: domain.CheckpointStatusInProgress, expectedProgress: 50},
			{label: "Pendente", expectedStatus: domain.CheckpointStatusPending, expectedProgress: 0},
			{label: "To Do", expectedStatus: domain.CheckpointStatusPending, expectedProgress: 0},
			{label: "Blocked", expectedStatus: domain.CheckpointStatusPending, expectedProgress: 0},
			{label: "open", expectedStatus: domain.CheckpointStatusPending, expectedProgress: 0},
			{label: "", expectedStatus: domain.CheckpointStatusPending, expectedProgress: 0},
			{label: "Aguardando cliente", expectedStatus: domain.CheckpointStatusPending, expectedProgress: 50},
		}

		for _, c := range cases {
			t.Run(c.label, func(t *testing.T) {
				t.Parallel()

				checkpoint := projectprovider.TaskToCheckpoint(clickup.Task{
					ID:     "86a1",
					Name:   "Fase",
					Status: clickup.TaskStatus{Status: c.label},
				})
				require.Equal(t, c.expectedStatus, checkpoint.Status)
				require.Equal(t, c.expectedProgress, checkpoint.Progress)
			})
		}
	})

	t.Run("checklist progress", func(t *testing.T) {
		t.Parallel()

		task := clickup.Task{
			ID:     "86a1",
			Name:   "Desenvolvimento",
			Status: clickup.TaskStatus{Status: "Em andamento"},
			Checklists: []clickup.Checklist{
				{ID: "c1", Items: []clickup.ChecklistItem{
					{ID: "i1", Name: "API", Resolved: true},
					{ID: "i2", Name: "UI", Resolved: true},
				}},
				{ID: "c2", Items: []clickup.ChecklistItem{
					{ID: "i3", Name: "Deploy", Resolved: false},
				}},
			},
		}

		checkpoint := projectprovider.TaskToCheckpoint(task)
		require.Equal(t, 67, checkpoint.Progress)

		// Not started labels ignore the checklist
		task.Status.Status = "To Do"
		require.Equal(t, 0, projectprovider.TaskToCheckpoint(task).Progress)

		task.Status.Status = "Done"
		require.Equal(t, 100, projectprovider.TaskToCheckpoint(task).Progress)
	})

	t.Run("full task", func(t *testing.T) {
		t.Parallel()

		commentDate := time.Date(2025, time.January, 10, 15, 30, 0, 0, time.UTC)
		task := clickup.Task{
			ID:          "86a1",
			Name:        "Descoberta",
			Description: "Entrevistas",
			Status:      clickup.TaskStatus{Status: "In Progress"},
			DateCreated: clickup.Timestamp{Time: created},
			StartDate:   clickup.Timestamp{Time: start},
			DueDate:     clickup.Timestamp{Time: due},
			Checklists: []clickup.Checklist{{ID: "c1", Items: []clickup.ChecklistItem{
				{ID: "i1", Name: "Roteiro", Resolved: true},
			}}},
			Comments: []clickup.TaskComment{
				{ID: "m1", Text: "Começamos", User: &clickup.User{ID: 1, Username: "ana"}, Date: clickup.Timestamp{Time: commentDate}},
				{ID: "m2", CommentText: "Sem autor", Date: clickup.Timestamp{Time: commentDate}},
			},
		}

		require.Equal(t, domain.Checkpoint{
			ID:          "86a1",
			Name:        "Descoberta",
			Status:      domain.CheckpointStatusInProgress,
			Description: "Entrevistas",
			StartDate:   start,
			EndDate:     due,
			Progress:    100,
			Subtasks: []domain.Subtask{
				{ID: "i1", Title: "Roteiro", Completed: true, DueDate: due},
			},
			Comments: []domain.Comment{
				{ID: "m1", Author: "ana", Date: commentDate, Text: "Começamos"},
				{ID: "m2", Author: "Usuário", Date: commentDate, Text: "Sem autor"},
			},
		}, projectprovider.TaskToCheckpoint(task))
	})

	t.Run("start date falls back to creation date", func(t *testing.T) {
		t.Parallel()

		checkpoint := projectprovider.TaskToCheckpoint(clickup.Task{
			ID:          "86a1",
			DateCreated: clickup.Timestamp{Time: created},
		})
		require.Equal(t, created, checkpoint.StartDate)
		require.True(t, checkpoint.EndDate.IsZero())
		require.Empty(t, checkpoint.Subtasks)
		require.NotNil(t, checkpoint.Subtasks)
		require.NotNil(t, checkpoint.Comments)
	})
}
