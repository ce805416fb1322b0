package ports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/reporting"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

type subtaskResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	DueDate   string `json:"dueDate"`
}

type commentResponse struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Date   string `json:"date"`
	Text   string `json:"text"`
}

type checkpointResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Status      string            `json:"status"`
	Description string            `json:"description"`
	StartDate   string            `json:"startDate"`
	EndDate     string            `json:"endDate"`
	Progress    int               `json:"progress"`
	Subtasks    []subtaskResponse `json:"subtasks"`
	Comments    []commentResponse `json:"comments"`
}

type projectResponse struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Client        string               `json:"client"`
	Progress      int                  `json:"progress"`
	Checkpoints   []checkpointResponse `json:"checkpoints"`
	StartDate     string               `json:"startDate"`
	EndDate       string               `json:"endDate"`
	Budget        string               `json:"budget"`
	DaysRemaining int                  `json:"daysRemaining"`
}

type projectSnapshotResponse struct {
	Success   bool            `json:"success"`
	Project   projectResponse `json:"project"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Stale     bool            `json:"stale"`
}

type settingsResponse struct {
	Success         bool       `json:"success"`
	TeamID          string     `json:"teamId"`
	SpaceID         string     `json:"spaceId"`
	ListID          string     `json:"listId"`
	RefreshInterval int        `json:"refreshInterval"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

type meetingResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	StartsAt        time.Time `json:"startsAt"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"durationMinutes"`
	Type            string    `json:"type"`
}

type spaceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type listResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Folder string `json:"folder,omitempty"`
}

func checkpointToResponse(checkpoint domain.Checkpoint, loc *time.Location) checkpointResponse {
	subtasks := make([]subtaskResponse, 0, len(checkpoint.Subtasks))
	for _, subtask := range checkpoint.Subtasks {
		subtasks = append(subtasks, subtaskResponse{
			ID:        subtask.ID,
			Title:     subtask.Title,
			Completed: subtask.Completed,
			DueDate:   domain.FormatDisplayDate(subtask.DueDate, loc),
		})
	}

	comments := make([]commentResponse, 0, len(checkpoint.Comments))
	for _, comment := range checkpoint.Comments {
		comments = append(comments, commentToResponse(comment, loc))
	}

	return checkpointResponse{
		ID:          checkpoint.ID,
		Name:        checkpoint.Name,
		Status:      string(checkpoint.Status),
		Description: checkpoint.Description,
		StartDate:   domain.FormatDisplayDate(checkpoint.StartDate, loc),
		EndDate:     domain.FormatDisplayDate(checkpoint.EndDate, loc),
		Progress:    checkpoint.Progress,
		Subtasks:    subtasks,
		Comments:    comments,
	}
}

func commentToResponse(comment domain.Comment, loc *time.Location) commentResponse {
	return commentResponse{
		ID:     comment.ID,
		Author: comment.Author,
		Date:   domain.FormatDisplayDate(comment.Date, loc),
		Text:   comment.Text,
	}
}

func snapshotToResponse(snapshot domain.ProjectSnapshot, loc *time.Location) projectSnapshotResponse {
	project := snapshot.Project

	checkpoints := make([]checkpointResponse, 0, len(project.Checkpoints))
	for _, checkpoint := range project.Checkpoints {
		checkpoints = append(checkpoints, checkpointToResponse(checkpoint, loc))
	}

	return projectSnapshotResponse{
		Success: true,
		Project: projectResponse{
			ID:            project.ID,
			Title:         project.Title,
			Client:        project.Client,
			Progress:      project.Progress,
			Checkpoints:   checkpoints,
			StartDate:     domain.FormatDisplayDate(project.StartDate, loc),
			EndDate:       domain.FormatDisplayDate(project.EndDate, loc),
			Budget:        project.Budget,
			DaysRemaining: project.DaysRemaining,
		},
		Source:    string(snapshot.Source),
		FetchedAt: snapshot.FetchedAt.UTC(),
		Stale:     snapshot.Stale,
	}
}

func settingsToResponse(settings domain.Settings) settingsResponse {
	var updatedAt *time.Time
	if !settings.UpdatedAt.IsZero() {
		utc := settings.UpdatedAt.UTC()
		updatedAt = &utc
	}

	return settingsResponse{
		Success:         true,
		TeamID:          settings.TeamID,
		SpaceID:         settings.SpaceID,
		ListID:          settings.ListID,
		RefreshInterval: int(settings.RefreshInterval / time.Minute),
		UpdatedAt:       updatedAt,
	}
}

func meetingToResponse(meeting domain.Meeting, loc *time.Location) meetingResponse {
	return meetingResponse{
		ID:              meeting.ID,
		Title:           meeting.Title,
		StartsAt:        meeting.StartsAt.UTC(),
		Date:            domain.FormatDisplayDate(meeting.StartsAt, loc),
		Time:            meeting.StartsAt.In(loc).Format("15:04"),
		DurationMinutes: meeting.DurationMinutes,
		Type:            string(meeting.Type),
	}
}

func workspaceListToResponse(list app.WorkspaceList) listResponse {
	return listResponse{
		ID:     list.ID,
		Name:   list.Name,
		Folder: list.Folder,
	}
}

// statusForError maps an error from the app layer to a response status and cause
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidSettings):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrNotConfigured):
		return http.StatusConflict, "not configured"
	case errors.Is(err, domain.ErrTemporarilyUnavailable):
		return http.StatusServiceUnavailable, "temporarily unavailable"
	case errors.Is(err, domain.ErrInvalidAPIKey):
		return http.StatusBadGateway, "task tracker rejected the configured API key"
	case errors.Is(err, domain.ErrProjectUnavailable):
		return http.StatusBadGateway, "project data unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeJSONResponse(ctx context.Context, w http.ResponseWriter, statusCode int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		reporting.Report(ctx, fmt.Errorf("failed to marshal response: %w", err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"cause":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(data)
}

func writeErrorResponse(ctx context.Context, w http.ResponseWriter, cause string, statusCode int) {
	writeJSONResponse(ctx, w, statusCode, errorResponse{Success: false, Cause: cause})
}

// writeAppError writes the response for a failed app operation.
// The error itself has already been reported by the app layer.
func writeAppError(ctx context.Context, w http.ResponseWriter, err error) {
	statusCode, cause := statusForError(err)
	if cause == "invalid input" {
		// Validation messages are meant for the caller
		cause = err.Error()
	}
	writeErrorResponse(ctx, w, cause, statusCode)
}

// Largest request body accepted by the write endpoints
const maxRequestBodySize = 64 * 1024

func decodeJSONBody(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: malformed request body: %w", domain.ErrInvalidInput, err)
	}
	return nil
}
