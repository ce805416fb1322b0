package clickup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Amund211/clientboard/internal/config"
	"github.com/Amund211/clientboard/internal/constants"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
	"github.com/Amund211/clientboard/internal/ratelimiting"
	"github.com/Amund211/clientboard/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const baseURL = "https://api.clickup.com/api/v2"

// ClickUp allows 100 requests per minute per token on the lower plans
const (
	requestLimit   = 100
	requestWindow  = time.Minute
	maxRequestTime = 5 * time.Second
)

// ClickUp pages task listings at 100 tasks
const (
	taskPageSize = 100
	maxTaskPages = 50
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// API is a client for the ClickUp REST API v2.
//
// Errors wrap domain.ErrInvalidAPIKey on 401/403, domain.ErrNotFound on 404
// and domain.ErrTemporarilyUnavailable on 429/503/504 or when the outgoing
// rate limit is exhausted.
type API interface {
	GetSpaces(ctx context.Context, teamID string) ([]Space, error)
	GetFolders(ctx context.Context, spaceID string) ([]Folder, error)
	GetFolderLists(ctx context.Context, folderID string) ([]List, error)
	GetSpaceLists(ctx context.Context, spaceID string) ([]List, error)
	GetList(ctx context.Context, listID string) (List, error)
	GetTasks(ctx context.Context, listID string) ([]Task, error)
	GetTask(ctx context.Context, taskID string) (Task, error)
	PostComment(ctx context.Context, taskID, text string, notifyAll bool) (PostedComment, error)
}

type clickUpAPIMetricsCollection struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
}

func setupClickUpAPIMetrics(meter metric.Meter) (clickUpAPIMetricsCollection, error) {
	requestCount, err := meter.Int64Counter("clickup/request_count")
	if err != nil {
		return clickUpAPIMetricsCollection{}, fmt.Errorf("failed to create request count metric: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("clickup/request_duration", metric.WithUnit("s"))
	if err != nil {
		return clickUpAPIMetricsCollection{}, fmt.Errorf("failed to create request duration metric: %w", err)
	}

	return clickUpAPIMetricsCollection{
		requestCount:    requestCount,
		requestDuration: requestDuration,
	}, nil
}

type clickUpAPI struct {
	httpClient HttpClient
	apiKey     string
	limiter    ratelimiting.RequestLimiter
	nowFunc    func() time.Time

	metrics clickUpAPIMetricsCollection
	tracer  trace.Tracer
}

func NewAPI(httpClient HttpClient, apiKey string, nowFunc func() time.Time, afterFunc func(time.Duration) <-chan time.Time) (API, error) {
	const name = "clientboard/clickup"

	metrics, err := setupClickUpAPIMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &clickUpAPI{
		httpClient: httpClient,
		apiKey:     apiKey,
		limiter:    ratelimiting.NewWindowLimitRequestLimiter(requestLimit, requestWindow, nowFunc, afterFunc),
		nowFunc:    nowFunc,

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

// NewAPIOrMock returns a mocked API in development when no API key is configured
func NewAPIOrMock(conf config.Config, httpClient HttpClient, nowFunc func() time.Time, afterFunc func(time.Duration) <-chan time.Time) (API, error) {
	if conf.ClickUpAPIKey() != "" {
		return NewAPI(httpClient, conf.ClickUpAPIKey(), nowFunc, afterFunc)
	}
	if conf.IsDevelopment() {
		return NewMockedAPI(nowFunc), nil
	}
	return nil, fmt.Errorf("missing ClickUp API key in non-development environment")
}

func (c *clickUpAPI) GetSpaces(ctx context.Context, teamID string) ([]Space, error) {
	var response struct {
		Spaces []Space `json:"spaces"`
	}
	err := c.do(ctx, "GetSpaces", http.MethodGet, "/team/"+url.PathEscape(teamID)+"/space", nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Spaces, nil
}

func (c *clickUpAPI) GetFolders(ctx context.Context, spaceID string) ([]Folder, error) {
	var response struct {
		Folders []Folder `json:"folders"`
	}
	err := c.do(ctx, "GetFolders", http.MethodGet, "/space/"+url.PathEscape(spaceID)+"/folder", nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Folders, nil
}

func (c *clickUpAPI) GetFolderLists(ctx context.Context, folderID string) ([]List, error) {
	var response struct {
		Lists []List `json:"lists"`
	}
	err := c.do(ctx, "GetFolderLists", http.MethodGet, "/folder/"+url.PathEscape(folderID)+"/list", nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Lists, nil
}

func (c *clickUpAPI) GetSpaceLists(ctx context.Context, spaceID string) ([]List, error) {
	var response struct {
		Lists []List `json:"lists"`
	}
	err := c.do(ctx, "GetSpaceLists", http.MethodGet, "/space/"+url.PathEscape(spaceID)+"/list", nil, &response)
	if err != nil {
		return nil, err
	}
	return response.Lists, nil
}

func (c *clickUpAPI) GetList(ctx context.Context, listID string) (List, error) {
	var list List
	err := c.do(ctx, "GetList", http.MethodGet, "/list/"+url.PathEscape(listID), nil, &list)
	if err != nil {
		return List{}, err
	}
	return list, nil
}

func (c *clickUpAPI) GetTasks(ctx context.Context, listID string) ([]Task, error) {
	tasks := []Task{}
	for page := range maxTaskPages {
		var response struct {
			Tasks    []Task `json:"tasks"`
			LastPage bool   `json:"last_page"`
		}
		path := fmt.Sprintf("/list/%s/task?include_closed=true&page=%d", url.PathEscape(listID), page)
		if err := c.do(ctx, "GetTasks", http.MethodGet, path, nil, &response); err != nil {
			return nil, err
		}

		tasks = append(tasks, response.Tasks...)
		if response.LastPage || len(response.Tasks) < taskPageSize {
			return tasks, nil
		}
	}

	logging.FromContext(ctx).WarnContext(ctx, "Stopped paging ClickUp tasks", "listID", listID, "pages", maxTaskPages)
	return tasks, nil
}

func (c *clickUpAPI) GetTask(ctx context.Context, taskID string) (Task, error) {
	var task Task
	err := c.do(ctx, "GetTask", http.MethodGet, "/task/"+url.PathEscape(taskID), nil, &task)
	if err != nil {
		return Task{}, err
	}
	return task, nil
}

func (c *clickUpAPI) PostComment(ctx context.Context, taskID, text string, notifyAll bool) (PostedComment, error) {
	request := struct {
		CommentText string `json:"comment_text"`
		NotifyAll   bool   `json:"notify_all"`
	}{
		CommentText: text,
		NotifyAll:   notifyAll,
	}

	var response struct {
		ID   json.Number `json:"id"`
		Date Timestamp   `json:"date"`
	}
	err := c.do(ctx, "PostComment", http.MethodPost, "/task/"+url.PathEscape(taskID)+"/comment", request, &response)
	if err != nil {
		return PostedComment{}, err
	}

	date := response.Date.Time
	if date.IsZero() {
		date = c.nowFunc()
	}

	return PostedComment{
		ID:   response.ID.String(),
		Date: date,
	}, nil
}

func (c *clickUpAPI) do(ctx context.Context, operation, method, path string, requestBody any, target any) error {
	ctx, span := c.tracer.Start(ctx, "ClickUp."+operation)
	defer span.End()

	logger := logging.FromContext(ctx).With("clickUpOperation", operation)

	var body []byte
	if requestBody != nil {
		var err error
		body, err = json.Marshal(requestBody)
		if err != nil {
			err := fmt.Errorf("failed to marshal request body: %w", err)
			reporting.Report(ctx, err)
			return err
		}
	}

	var statusCode int
	var data []byte
	var err error
	ran := c.limiter.Limit(ctx, maxRequestTime, func(ctx context.Context) {
		req, reqErr := http.NewRequestWithContext(ctx, method, baseURL+path, bytes.NewReader(body))
		if reqErr != nil {
			err = fmt.Errorf("failed to create request: %w", reqErr)
			return
		}

		req.Header.Set("Authorization", c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", constants.USER_AGENT)

		start := c.nowFunc()
		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			err = fmt.Errorf("failed to send request: %w", doErr)
			return
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			err = fmt.Errorf("failed to read response body: %w", err)
			return
		}

		c.metrics.requestDuration.Record(ctx, c.nowFunc().Sub(start).Seconds(), metric.WithAttributes(
			attribute.String("operation", operation),
		))
	})
	if !ran {
		logger.WarnContext(ctx, "Did not run ClickUp request due to rate limiting", "ctx_error", ctx.Err())
		span.SetStatus(codes.Error, "rate limited")
		return fmt.Errorf("%w: too many requests to the ClickUp API", domain.ErrTemporarilyUnavailable)
	}

	c.metrics.requestCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status_code", strconv.Itoa(statusCode)),
	))

	if err != nil {
		logger.ErrorContext(ctx, "ClickUp request failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		reporting.Report(ctx, err, map[string]string{
			"operation": operation,
		})
		return err
	}

	if err := parseResponse(statusCode, data, target); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if errors.Is(err, domain.ErrInvalidAPIKey) || errors.Is(err, domain.ErrNotFound) {
			// Configuration or client input, nothing to report
			logger.InfoContext(ctx, "ClickUp request rejected", "status", statusCode, "error", err)
			return err
		}

		err := fmt.Errorf("failed to parse ClickUp %s response: %w", operation, err)
		logger.ErrorContext(ctx, err.Error(), "status", statusCode)
		reporting.Report(ctx, err, map[string]string{
			"operation": operation,
			"status":    strconv.Itoa(statusCode),
			"data":      truncate(string(data), 2000),
		})
		return err
	}

	logger.InfoContext(ctx, "ClickUp request completed", "status", statusCode)
	return nil
}

func parseResponse(statusCode int, data []byte, target any) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: ClickUp API returned status %d", domain.ErrInvalidAPIKey, statusCode)
	case http.StatusNotFound:
		return fmt.Errorf("%w: ClickUp API returned status %d", domain.ErrNotFound, statusCode)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: ClickUp API returned status %d", domain.ErrTemporarilyUnavailable, statusCode)
	}

	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("clickup API returned status %d", statusCode)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
