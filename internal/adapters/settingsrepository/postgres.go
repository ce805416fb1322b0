package settingsrepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/reporting"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Postgres struct {
	db      *sqlx.DB
	schema  string
	tracer  trace.Tracer
	nowFunc func() time.Time
}

func NewPostgres(db *sqlx.DB, schema string, nowFunc func() time.Time) *Postgres {
	tracer := otel.Tracer("clientboard/settingsrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

type dbSettings struct {
	TeamID                 string    `db:"team_id"`
	SpaceID                string    `db:"space_id"`
	ListID                 string    `db:"list_id"`
	RefreshIntervalMinutes int       `db:"refresh_interval_minutes"`
	UpdatedAt              time.Time `db:"updated_at"`
}

func (s dbSettings) toDomain() domain.Settings {
	return domain.Settings{
		TeamID:          s.TeamID,
		SpaceID:         s.SpaceID,
		ListID:          s.ListID,
		RefreshInterval: time.Duration(s.RefreshIntervalMinutes) * time.Minute,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (p *Postgres) GetSettings(ctx context.Context) (domain.Settings, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetSettings")
	defer span.End()

	var settings dbSettings
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(
			"SELECT team_id, space_id, list_id, refresh_interval_minutes, updated_at FROM %s.settings WHERE id = 1",
			pq.QuoteIdentifier(p.schema),
		),
	).StructScan(&settings)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Settings{}, domain.ErrNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to get settings: %w", err)
		reporting.Report(ctx, err)
		return domain.Settings{}, err
	}

	return settings.toDomain(), nil
}

func (p *Postgres) StoreSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreSettings")
	defer span.End()

	if err := settings.Validate(); err != nil {
		reporting.Report(ctx, fmt.Errorf("refusing to store invalid settings: %w", err))
		return domain.Settings{}, err
	}

	var stored dbSettings
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.settings
		(id, team_id, space_id, list_id, refresh_interval_minutes, updated_at)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			team_id = EXCLUDED.team_id,
			space_id = EXCLUDED.space_id,
			list_id = EXCLUDED.list_id,
			refresh_interval_minutes = EXCLUDED.refresh_interval_minutes,
			updated_at = EXCLUDED.updated_at
		RETURNING team_id, space_id, list_id, refresh_interval_minutes, updated_at`,
			pq.QuoteIdentifier(p.schema)),
		settings.TeamID,
		settings.SpaceID,
		settings.ListID,
		int(settings.RefreshInterval/time.Minute),
		p.nowFunc(),
	).StructScan(&stored)
	if err != nil {
		err := fmt.Errorf("failed to store settings: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"listID": settings.ListID,
		})
		return domain.Settings{}, err
	}

	return stored.toDomain(), nil
}
