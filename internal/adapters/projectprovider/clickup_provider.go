package projectprovider

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/adapters/clickup"
	"github.com/Amund211/clientboard/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type clickUpProvider struct {
	api      clickup.API
	defaults ProjectDefaults
	nowFunc  func() time.Time
	location *time.Location

	metrics providerMetricsCollection
	tracer  trace.Tracer
}

func NewClickUp(api clickup.API, defaults ProjectDefaults, nowFunc func() time.Time, location *time.Location) (*clickUpProvider, error) {
	const name = "clientboard/projectprovider/clickup"

	metrics, err := setupProviderMetrics(otel.Meter(name), "projectprovider/clickup")
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	return &clickUpProvider{
		api:      api,
		defaults: defaults,
		nowFunc:  nowFunc,
		location: location,

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

func (p *clickUpProvider) GetProject(ctx context.Context, settings domain.Settings) (domain.ProjectSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "ClickUpProvider.GetProject")
	defer span.End()

	if settings.ListID == "" {
		return domain.ProjectSnapshot{}, fmt.Errorf("%w: no ClickUp list selected", domain.ErrNotConfigured)
	}

	// NOTE: the ClickUp API reports its own errors
	list, err := p.api.GetList(ctx, settings.ListID)
	if err != nil {
		return domain.ProjectSnapshot{}, fmt.Errorf("failed to get list: %w", err)
	}

	tasks, err := p.api.GetTasks(ctx, settings.ListID)
	if err != nil {
		return domain.ProjectSnapshot{}, fmt.Errorf("failed to get tasks: %w", err)
	}

	checkpoints := make([]domain.Checkpoint, 0, len(tasks))
	for _, task := range tasks {
		checkpoints = append(checkpoints, TaskToCheckpoint(task))
	}

	now := p.nowFunc().In(p.location)
	project := domain.NewProject(domain.ProjectDetails{
		ID:     list.ID,
		Title:  list.Name,
		Client: p.defaults.Client,
		Budget: p.defaults.Budget,
	}, checkpoints, now)

	p.metrics.checkpointCount.Record(ctx, int64(len(checkpoints)), metric.WithAttributes(
		attribute.Int("completed", domain.CountCompleted(checkpoints)),
	))

	return domain.ProjectSnapshot{
		Project:   project,
		ListID:    settings.ListID,
		Source:    domain.ProjectSourceClickUpAPI,
		FetchedAt: now,
	}, nil
}

func (p *clickUpProvider) GetCheckpoint(ctx context.Context, checkpointID string) (domain.Checkpoint, error) {
	ctx, span := p.tracer.Start(ctx, "ClickUpProvider.GetCheckpoint")
	defer span.End()

	task, err := p.api.GetTask(ctx, checkpointID)
	if err != nil {
		return domain.Checkpoint{}, fmt.Errorf("failed to get task: %w", err)
	}

	return TaskToCheckpoint(task), nil
}

// Comments posted from the dashboard are attributed to the viewer
const ownCommentAuthor = "Você"

func (p *clickUpProvider) PostComment(ctx context.Context, checkpointID, text string, notifyAll bool) (domain.Comment, error) {
	ctx, span := p.tracer.Start(ctx, "ClickUpProvider.PostComment")
	defer span.End()

	posted, err := p.api.PostComment(ctx, checkpointID, text, notifyAll)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("failed to post comment: %w", err)
	}

	date := posted.Date
	if date.IsZero() {
		date = p.nowFunc()
	}

	return domain.Comment{
		ID:     posted.ID,
		Author: ownCommentAuthor,
		Date:   date,
		Text:   text,
	}, nil
}

type providerMetricsCollection struct {
	checkpointCount metric.Int64Histogram
}

func setupProviderMetrics(meter metric.Meter, prefix string) (providerMetricsCollection, error) {
	checkpointCount, err := meter.Int64Histogram(prefix + "/checkpoint_count")
	if err != nil {
		return providerMetricsCollection{}, fmt.Errorf("failed to create metric: %w", err)
	}

	return providerMetricsCollection{
		checkpointCount: checkpointCount,
	}, nil
}
