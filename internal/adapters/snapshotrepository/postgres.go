package snapshotrepository

import (
	"context"
	"database/sql"
	"encoding/json"
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
	db     *sqlx.DB
	schema string
	tracer trace.Tracer
}

func NewPostgres(db *sqlx.DB, schema string) *Postgres {
	tracer := otel.Tracer("clientboard/snapshotrepository/postgres")
	return &Postgres{
		db:     db,
		schema: schema,
		tracer: tracer,
	}
}

type dbSnapshot struct {
	ListID    string    `db:"list_id"`
	Source    string    `db:"source"`
	FetchedAt time.Time `db:"fetched_at"`
	Data      []byte    `db:"data"`
}

func (p *Postgres) StoreSnapshot(ctx context.Context, snapshot domain.ProjectSnapshot) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.StoreSnapshot")
	defer span.End()

	if snapshot.ListID == "" {
		err := fmt.Errorf("snapshot has no list id")
		reporting.Report(ctx, err)
		return err
	}

	data, err := json.Marshal(projectToData(snapshot.Project))
	if err != nil {
		err := fmt.Errorf("failed to marshal project: %w", err)
		reporting.Report(ctx, err)
		return err
	}

	// Never replace a newer snapshot with an older one
	_, err = p.db.ExecContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.project_snapshots
		(list_id, source, fetched_at, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (list_id)
		DO UPDATE SET
			source = EXCLUDED.source,
			fetched_at = EXCLUDED.fetched_at,
			data = EXCLUDED.data
		WHERE project_snapshots.fetched_at <= EXCLUDED.fetched_at`,
			pq.QuoteIdentifier(p.schema)),
		snapshot.ListID,
		string(snapshot.Source),
		snapshot.FetchedAt,
		data,
	)
	if err != nil {
		err := fmt.Errorf("failed to store snapshot: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"listID": snapshot.ListID,
		})
		return err
	}

	return nil
}

func (p *Postgres) GetSnapshot(ctx context.Context, listID string) (domain.ProjectSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.GetSnapshot")
	defer span.End()

	var stored dbSnapshot
	err := p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(
			"SELECT list_id, source, fetched_at, data FROM %s.project_snapshots WHERE list_id = $1",
			pq.QuoteIdentifier(p.schema),
		),
		listID,
	).StructScan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProjectSnapshot{}, domain.ErrNotFound
	} else if err != nil {
		err := fmt.Errorf("failed to get snapshot: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"listID": listID,
		})
		return domain.ProjectSnapshot{}, err
	}

	var data projectData
	if err := json.Unmarshal(stored.Data, &data); err != nil {
		err := fmt.Errorf("failed to unmarshal stored project: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"listID": listID,
		})
		return domain.ProjectSnapshot{}, err
	}

	return domain.ProjectSnapshot{
		Project:   dataToProject(data),
		ListID:    stored.ListID,
		Source:    domain.ProjectSource(stored.Source),
		FetchedAt: stored.FetchedAt,
	}, nil
}
