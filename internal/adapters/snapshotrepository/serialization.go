package snapshotrepository

import (
	"time"

	"github.com/Amund211/clientboard/internal/domain"
)

// Storage format of the project, decoupled from the domain types

type projectData struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Client        string           `json:"client"`
	Budget        string           `json:"budget"`
	Progress      int              `json:"progress"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	DaysRemaining int              `json:"days_remaining"`
	Checkpoints   []checkpointData `json:"checkpoints"`
}

type checkpointData struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Status      string        `json:"status"`
	Description string        `json:"description"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Progress    int           `json:"progress"`
	Subtasks    []subtaskData `json:"subtasks"`
	Comments    []commentData `json:"comments"`
}

type subtaskData struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

type commentData struct {
	ID     string     `json:"id"`
	Author string     `json:"author"`
	Date   *time.Time `json:"date,omitempty"`
	Text   string     `json:"text"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func fromOptionalTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func projectToData(project domain.Project) projectData {
	checkpoints := make([]checkpointData, 0, len(project.Checkpoints))
	for _, checkpoint := range project.Checkpoints {
		subtasks := make([]subtaskData, 0, len(checkpoint.Subtasks))
		for _, subtask := range checkpoint.Subtasks {
			subtasks = append(subtasks, subtaskData{
				ID:        subtask.ID,
				Title:     subtask.Title,
				Completed: subtask.Completed,
				DueDate:   optionalTime(subtask.DueDate),
			})
		}

		comments := make([]commentData, 0, len(checkpoint.Comments))
		for _, comment := range checkpoint.Comments {
			comments = append(comments, commentData{
				ID:     comment.ID,
				Author: comment.Author,
				Date:   optionalTime(comment.Date),
				Text:   comment.Text,
			})
		}

		checkpoints = append(checkpoints, checkpointData{
			ID:          checkpoint.ID,
			Name:        checkpoint.Name,
			Status:      string(checkpoint.Status),
			Description: checkpoint.Description,
			StartDate:   optionalTime(checkpoint.StartDate),
			EndDate:     optionalTime(checkpoint.EndDate),
			Progress:    checkpoint.Progress,
			Subtasks:    subtasks,
			Comments:    comments,
		})
	}

	return projectData{
		ID:            project.ID,
		Title:         project.Title,
		Client:        project.Client,
		Budget:        project.Budget,
		Progress:      project.Progress,
		StartDate:     optionalTime(project.StartDate),
		EndDate:       optionalTime(project.EndDate),
		DaysRemaining: project.DaysRemaining,
		Checkpoints:   checkpoints,
	}
}

func dataToProject(data projectData) domain.Project {
	checkpoints := make([]domain.Checkpoint, 0, len(data.Checkpoints))
	for _, checkpoint := range data.Checkpoints {
		subtasks := make([]domain.Subtask, 0, len(checkpoint.Subtasks))
		for _, subtask := range checkpoint.Subtasks {
			subtasks = append(subtasks, domain.Subtask{
				ID:        subtask.ID,
				Title:     subtask.Title,
				Completed: subtask.Completed,
				DueDate:   fromOptionalTime(subtask.DueDate),
			})
		}

		comments := make([]domain.Comment, 0, len(checkpoint.Comments))
		for _, comment := range checkpoint.Comments {
			comments = append(comments, domain.Comment{
				ID:     comment.ID,
				Author: comment.Author,
				Date:   fromOptionalTime(comment.Date),
				Text:   comment.Text,
			})
		}

		checkpoints = append(checkpoints, domain.Checkpoint{
			ID:          checkpoint.ID,
			Name:        checkpoint.Name,
			Status:      domain.CheckpointStatus(checkpoint.Status),
			Description: checkpoint.Description,
			StartDate:   fromOptionalTime(checkpoint.StartDate),
			EndDate:     fromOptionalTime(checkpoint.EndDate),
			Progress:    checkpoint.Progress,
			Subtasks:    subtasks,
			Comments:    comments,
		})
	}

	return domain.Project{
		ID:            data.ID,
		Title:         data.Title,
		Client:        data.Client,
		Budget:        data.Budget,
		Progress:      data.Progress,
		StartDate:     fromOptionalTime(data.StartDate),
		EndDate:       fromOptionalTime(data.EndDate),
		DaysRemaining: data.DaysRemaining,
		Checkpoints:   checkpoints,
	}
}
