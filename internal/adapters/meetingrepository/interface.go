package meetingrepository

import (
	"context"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
)

type MeetingRepository interface {
	// Stores a new meeting. The ID and CreatedAt of the argument are ignored.
	ScheduleMeeting(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error)

	// Meetings that have not ended by `from`, ordered by start time
	ListMeetings(ctx context.Context, from time.Time) ([]domain.Meeting, error)

	// Raises domain.ErrNotFound if no meeting has the given ID
	CancelMeeting(ctx context.Context, id string) error
}
