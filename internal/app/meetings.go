package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
)

type meetingRepository interface {
	ScheduleMeeting(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error)
	ListMeetings(ctx context.Context, from time.Time) ([]domain.Meeting, error)
	CancelMeeting(ctx context.Context, id string) error
}

// ListMeetings returns the meetings that have not ended by from
type ListMeetings func(ctx context.Context, from time.Time) ([]domain.Meeting, error)

func BuildListMeetings(repo meetingRepository) ListMeetings {
	return func(ctx context.Context, from time.Time) ([]domain.Meeting, error) {
		meetings, err := repo.ListMeetings(ctx, from)
		if err != nil {
			// NOTE: MeetingRepository implementations handle their own error reporting
			return nil, fmt.Errorf("could not list meetings: %w", err)
		}
		return meetings, nil
	}
}

type ScheduleMeeting func(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error)

func BuildScheduleMeeting(repo meetingRepository, nowFunc func() time.Time) ScheduleMeeting {
	return func(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error) {
		meeting.Title = strings.TrimSpace(meeting.Title)
		if err := meeting.Validate(); err != nil {
			return domain.Meeting{}, err
		}

		if !meeting.EndsAt().After(nowFunc()) {
			return domain.Meeting{}, fmt.Errorf("%w: meeting would already be over", domain.ErrInvalidInput)
		}

		stored, err := repo.ScheduleMeeting(ctx, meeting)
		if err != nil {
			// NOTE: MeetingRepository implementations handle their own error reporting
			return domain.Meeting{}, fmt.Errorf("could not schedule meeting: %w", err)
		}

		logging.FromContext(ctx).InfoContext(ctx, "Scheduled meeting", "meetingID", stored.ID, "type", stored.Type)

		return stored, nil
	}
}

type CancelMeeting func(ctx context.Context, id string) error

func BuildCancelMeeting(repo meetingRepository) CancelMeeting {
	return func(ctx context.Context, id string) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: meeting ID is empty", domain.ErrInvalidInput)
		}

		err := repo.CancelMeeting(ctx, id)
		if err != nil {
			// NOTE: MeetingRepository implementations handle their own error reporting
			return fmt.Errorf("could not cancel meeting: %w", err)
		}

		logging.FromContext(ctx).InfoContext(ctx, "Cancelled meeting", "meetingID", id)

		return nil
	}
}
