package domain

import (
	"fmt"
	"strings"
	"time"
)

type MeetingType string

const (
	MeetingTypeReview   MeetingType = "review"
	MeetingTypePlanning MeetingType = "planning"
	MeetingTypeOther    MeetingType = "other"
)

func ParseMeetingType(raw string) (MeetingType, error) {
	switch MeetingType(raw) {
	case MeetingTypeReview, MeetingTypePlanning, MeetingTypeOther:
		return MeetingType(raw), nil
	}
	return "", fmt.Errorf("%w: unknown meeting type %q", ErrInvalidInput, raw)
}

type Meeting struct {
	ID              string
	Title           string
	StartsAt        time.Time
	DurationMinutes int
	Type            MeetingType
	CreatedAt       time.Time
}

func (m Meeting) EndsAt() time.Time {
	return m.StartsAt.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

func (m Meeting) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: meeting title is empty", ErrInvalidInput)
	}
	if m.StartsAt.IsZero() {
		return fmt.Errorf("%w: meeting start is missing", ErrInvalidInput)
	}
	if m.DurationMinutes <= 0 || m.DurationMinutes > 24*60 {
		return fmt.Errorf("%w: meeting duration must be between 1 and 1440 minutes, got %d", ErrInvalidInput, m.DurationMinutes)
	}
	if _, err := ParseMeetingType(string(m.Type)); err != nil {
		return err
	}
	return nil
}
