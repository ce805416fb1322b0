package projectprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Amund211/clientboard/internal/constants"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
	"github.com/Amund211/clientboard/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	webhookProjectID    = "webhook"
	webhookProjectTitle = "Projeto"
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type webhookProvider struct {
	httpClient HttpClient
	url        string
	defaults   ProjectDefaults
	nowFunc    func() time.Time
	location   *time.Location

	metrics providerMetricsCollection
	tracer  trace.Tracer
}

// NewWebhook returns a provider reading a pre-aggregated task export from an
// automation webhook
func NewWebhook(httpClient HttpClient, url string, defaults ProjectDefaults, nowFunc func() time.Time, location *time.Location) (*webhookProvider, error) {
	const name = "clientboard/projectprovider/webhook"

	metrics, err := setupProviderMetrics(otel.Meter(name), "projectprovider/webhook")
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &webhookProvider{
		httpClient: httpClient,
		url:        url,
		defaults:   defaults,
		nowFunc:    nowFunc,
		location:   location,

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

func (p *webhookProvider) GetProject(ctx context.Context, settings domain.Settings) (domain.ProjectSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "WebhookProvider.GetProject")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return domain.ProjectSnapshot{}, err
	}
	req.Header.Set("User-Agent", constants.USER_AGENT)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("failed to send request: %w", err)
		span.SetStatus(codes.Error, err.Error())
		reporting.Report(ctx, err)
		return domain.ProjectSnapshot{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err := fmt.Errorf("failed to read response body: %w", err)
		span.SetStatus(codes.Error, err.Error())
		reporting.Report(ctx, err)
		return domain.ProjectSnapshot{}, err
	}

	response, err := parseWebhookResponse(resp.StatusCode, data)
	if err != nil {
		err := fmt.Errorf("failed to parse webhook response: %w", err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).ErrorContext(ctx, err.Error(), "status", resp.StatusCode)
		reporting.Report(ctx, err, map[string]string{
			"status": strconv.Itoa(resp.StatusCode),
			"data":   truncate(string(data), 2000),
		})
		return domain.ProjectSnapshot{}, err
	}

	checkpoints := make([]domain.Checkpoint, 0, len(response.Tasks))
	for i, task := range response.Tasks {
		checkpoints = append(checkpoints, webhookTaskToCheckpoint(i, task))
	}

	details := domain.ProjectDetails{
		ID:     webhookProjectID,
		Title:  webhookProjectTitle,
		Client: p.defaults.Client,
		Budget: p.defaults.Budget,
	}
	if response.List != nil {
		details.ID = response.List.ID
		details.Title = response.List.Name
	}

	now := p.nowFunc().In(p.location)

	p.metrics.checkpointCount.Record(ctx, int64(len(checkpoints)))

	return domain.ProjectSnapshot{
		Project:   domain.NewProject(details, checkpoints, now),
		ListID:    settings.ListID,
		Source:    domain.ProjectSourceClickUpWebhook,
		FetchedAt: now,
	}, nil
}

type webhookResponse struct {
	List  *webhookList  `json:"list"`
	Tasks []webhookTask `json:"tasks"`
}

type webhookList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type webhookTask struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	StartDate   webhookDate      `json:"start_date"`
	DueDate     webhookDate      `json:"due_date"`
	Subtasks    []webhookSubtask `json:"subtasks"`
	Comments    []webhookComment `json:"comments"`
}

type webhookSubtask struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Status  string      `json:"status"`
	DueDate webhookDate `json:"due_date"`
}

type webhookComment struct {
	ID   string      `json:"id"`
	Text string      `json:"text"`
	Date webhookDate `json:"date"`
	User *struct {
		Name string `json:"name"`
	} `json:"user"`
}

// webhookDate accepts unix timestamps (as numbers or strings) and ISO 8601
// dates. Values that cannot be parsed are treated as absent.
type webhookDate struct {
	time.Time
}

var webhookDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly}

func (d *webhookDate) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	d.Time = time.Time{}
	if raw == "" || raw == "null" {
		return nil
	}

	if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
		d.Time = domain.TimeFromUnixTimestamp(value)
		return nil
	}

	for _, layout := range webhookDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			d.Time = parsed
			return nil
		}
	}

	return nil
}

func parseWebhookResponse(statusCode int, data []byte) (webhookResponse, error) {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return webhookResponse{}, fmt.Errorf("%w: webhook returned status %d", domain.ErrTemporarilyUnavailable, statusCode)
	}
	if statusCode < 200 || statusCode >= 300 {
		return webhookResponse{}, fmt.Errorf("webhook returned status %d", statusCode)
	}

	var response webhookResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return webhookResponse{}, fmt.Errorf("malformed response: %w", err)
	}

	if response.Tasks == nil {
		return webhookResponse{}, fmt.Errorf("malformed response: no tasks in webhook response")
	}

	return response, nil
}

func webhookStatus(status string) domain.CheckpointStatus {
	if mapped, ok := lowercaseTaskStatuses[strings.ToLower(status)]; ok {
		return mapped
	}
	return domain.CheckpointStatusPending
}

func webhookTaskToCheckpoint(index int, task webhookTask) domain.Checkpoint {
	subtasks := make([]domain.Subtask, 0, len(task.Subtasks))
	completed := 0
	for j, subtask := range task.Subtasks {
		status := strings.ToLower(subtask.Status)
		done := status == "complete" || status == "done"
		if done {
			completed++
		}
		subtasks = append(subtasks, domain.Subtask{
			ID:        fmt.Sprintf("subtask-%d-%d", index, j),
			Title:     subtask.Name,
			Completed: done,
			DueDate:   subtask.DueDate.Time,
		})
	}

	comments := make([]domain.Comment, 0, len(task.Comments))
	for j, comment := range task.Comments {
		author := anonymousAuthor
		if comment.User != nil && comment.User.Name != "" {
			author = comment.User.Name
		}
		comments = append(comments, domain.Comment{
			ID:     fmt.Sprintf("comment-%d-%d", index, j),
			Author: author,
			Date:   comment.Date.Time,
			Text:   comment.Text,
		})
	}

	description := task.Description
	if description == "" {
		description = fmt.Sprintf("Etapa %d do projeto", index+1)
	}

	return domain.Checkpoint{
		ID:          fmt.Sprintf("phase-%d", index+1),
		Name:        task.Name,
		Status:      webhookStatus(task.Status),
		Description: description,
		StartDate:   task.StartDate.Time,
		EndDate:     task.DueDate.Time,
		Progress:    domain.Percentage(completed, len(subtasks)),
		Subtasks:    subtasks,
		Comments:    comments,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
