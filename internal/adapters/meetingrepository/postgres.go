package meetingrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/reporting"
	"github.com/google/uuid"
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
	tracer := otel.Tracer("clientboard/meetingrepository/postgres")
	return &Postgres{
		db:      db,
		schema:  schema,
		tracer:  tracer,
		nowFunc: nowFunc,
	}
}

type dbMeeting struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	StartsAt        time.Time `db:"starts_at"`
	DurationMinutes int       `db:"duration_minutes"`
	MeetingType     string    `db:"meeting_type"`
	CreatedAt       time.Time `db:"created_at"`
}

func (m dbMeeting) toDomain() domain.Meeting {
	return domain.Meeting{
		ID:              m.ID,
		Title:           m.Title,
		StartsAt:        m.StartsAt,
		DurationMinutes: m.DurationMinutes,
		Type:            domain.MeetingType(m.MeetingType),
		CreatedAt:       m.CreatedAt,
	}
}

func (p *Postgres) ScheduleMeeting(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ScheduleMeeting")
	defer span.End()

	if err := meeting.Validate(); err != nil {
		return domain.Meeting{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		err := fmt.Errorf("failed to generate meeting id: %w", err)
		reporting.Report(ctx, err)
		return domain.Meeting{}, err
	}

	var stored dbMeeting
	err = p.db.QueryRowxContext(
		ctx,
		fmt.Sprintf(`INSERT INTO %s.meetings
		(id, title, starts_at, duration_minutes, meeting_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, title, starts_at, duration_minutes, meeting_type, created_at`,
			pq.QuoteIdentifier(p.schema)),
		id.String(),
		meeting.Title,
		meeting.StartsAt,
		meeting.DurationMinutes,
		string(meeting.Type),
		p.nowFunc(),
	).StructScan(&stored)
	if err != nil {
		err := fmt.Errorf("failed to insert meeting: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"title": meeting.Title,
		})
		return domain.Meeting{}, err
	}

	return stored.toDomain(), nil
}

func (p *Postgres) ListMeetings(ctx context.Context, from time.Time) ([]domain.Meeting, error) {
	ctx, span := p.tracer.Start(ctx, "Postgres.ListMeetings")
	defer span.End()

	var stored []dbMeeting
	err := p.db.SelectContext(
		ctx,
		&stored,
		fmt.Sprintf(`SELECT id, title, starts_at, duration_minutes, meeting_type, created_at
		FROM %s.meetings
		WHERE starts_at + make_interval(mins => duration_minutes) > $1
		ORDER BY starts_at ASC, id ASC`,
			pq.QuoteIdentifier(p.schema)),
		from,
	)
	if err != nil {
		err := fmt.Errorf("failed to list meetings: %w", err)
		reporting.Report(ctx, err)
		return nil, err
	}

	meetings := make([]domain.Meeting, 0, len(stored))
	for _, meeting := range stored {
		meetings = append(meetings, meeting.toDomain())
	}
	return meetings, nil
}

func (p *Postgres) CancelMeeting(ctx context.Context, id string) error {
	ctx, span := p.tracer.Start(ctx, "Postgres.CancelMeeting")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid meeting id", domain.ErrNotFound)
	}

	result, err := p.db.ExecContext(
		ctx,
		fmt.Sprintf("DELETE FROM %s.meetings WHERE id = $1", pq.QuoteIdentifier(p.schema)),
		id,
	)
	if err != nil {
		err := fmt.Errorf("failed to delete meeting: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"meetingID": id,
		})
		return err
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("failed to count deleted meetings: %w", err)
		reporting.Report(ctx, err)
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}

	return nil
}
