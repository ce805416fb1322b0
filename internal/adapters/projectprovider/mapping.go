package projectprovider

import (
	"strings"

	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/Amund211/clientboard/internal/domain"
)

const defaultTaskStatus = "To Do"

const anonymousAuthor = "Usuário"

// Board labels used by the team, matched exactly before falling back to the
// lowercase ClickUp defaults
var taskStatusLabels = map[string]domain.CheckpointStatus{
	"Concluído":    domain.CheckpointStatusCompleted,
	"Completed":    domain.CheckpointStatusCompleted,
	"Done":         domain.CheckpointStatusCompleted,
	"Em andamento": domain.CheckpointStatusInProgress,
	"In Progress":  domain.CheckpointStatusInProgress,
	"Pendente":     domain.CheckpointStatusPending,
	"To Do":        domain.CheckpointStatusPending,
	"Blocked":      domain.CheckpointStatusPending,
}

var lowercaseTaskStatuses = map[string]domain.CheckpointStatus{
	"complete":    domain.CheckpointStatusCompleted,
	"closed":      domain.CheckpointStatusCompleted,
	"done":        domain.CheckpointStatusCompleted,
	"in progress": domain.CheckpointStatusInProgress,
	"in review":   domain.CheckpointStatusInProgress,
	"to do":       domain.CheckpointStatusPending,
	"open":        domain.CheckpointStatusPending,
}

// Statuses for work that has not started, which always reports 0% progress
var notStartedLabels = map[string]bool{
	"pendente": true,
	"to do":    true,
	"blocked":  true,
	"open":     true,
}

func taskStatusLabel(task clickup.Task) string {
	if task.Status.Status == "" {
		return defaultTaskStatus
	}
	return task.Status.Status
}

func checkpointStatusFromLabel(label string) domain.CheckpointStatus {
	if status, ok := taskStatusLabels[label]; ok {
		return status
	}
	if status, ok := lowercaseTaskStatuses[strings.ToLower(label)]; ok {
		return status
	}
	return domain.CheckpointStatusPending
}

// Completed tasks are 100%, tasks not started are 0%. Otherwise progress is
// the share of resolved checklist items, or 50% without a checklist.
func taskProgress(label string, status domain.CheckpointStatus, task clickup.Task) int {
	if status == domain.CheckpointStatusCompleted {
		return 100
	}
	if notStartedLabels[strings.ToLower(label)] {
		return 0
	}

	total, resolved := 0, 0
	for _, checklist := range task.Checklists {
		for _, item := range checklist.Items {
			total++
			if item.Resolved {
				resolved++
			}
		}
	}
	if total > 0 {
		return domain.Percentage(resolved, total)
	}

	return 50
}

// TaskToCheckpoint maps a ClickUp task to a checkpoint
func TaskToCheckpoint(task clickup.Task) domain.Checkpoint {
	label := taskStatusLabel(task)
	status := checkpointStatusFromLabel(label)

	subtasks := []domain.Subtask{}
	for _, checklist := range task.Checklists {
		for _, item := range checklist.Items {
			subtasks = append(subtasks, domain.Subtask{
				ID:        item.ID,
				Title:     item.Name,
				Completed: item.Resolved,
				DueDate:   task.DueDate.Time,
			})
		}
	}

	comments := make([]domain.Comment, 0, len(task.Comments))
	for _, comment := range task.Comments {
		author := anonymousAuthor
		if comment.User != nil && comment.User.Username != "" {
			author = comment.User.Username
		}
		comments = append(comments, domain.Comment{
			ID:     comment.ID,
			Author: author,
			Date:   comment.Date.Time,
			Text:   comment.Body(),
		})
	}

	startDate := task.StartDate.Time
	if startDate.IsZero() {
		startDate = task.DateCreated.Time
	}

	return domain.Checkpoint{
		ID:          task.ID,
		Name:        task.Name,
		Status:      status,
		Description: task.Description,
		StartDate:   startDate,
		EndDate:     task.DueDate.Time,
		Progress:    taskProgress(label, status, task),
		Subtasks:    subtasks,
		Comments:    comments,
	}
}
