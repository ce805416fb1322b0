package domain_test

import (
	"testing"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestMeeting(t *testing.T) {
	t.Parallel()

	startsAt := time.Date(2025, time.March, 12, 14, 0, 0, 0, time.UTC)
	valid := domain.Meeting{
		Title:           "Revisão da etapa 2",
		StartsAt:        startsAt,
		DurationMinutes: 45,
		Type:            domain.MeetingTypeReview,
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, valid.Validate())
		require.Equal(t, startsAt.Add(45*time.Minute), valid.EndsAt())
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		cases := map[string]func(m domain.Meeting) domain.Meeting{
			"empty title":   func(m domain.Meeting) domain.Meeting { m.Title = "  "; return m },
			"missing start": func(m domain.Meeting) domain.Meeting { m.StartsAt = time.Time{}; return m },
			"zero duration": func(m domain.Meeting) domain.Meeting { m.DurationMinutes = 0; return m },
			"too long":      func(m domain.Meeting) domain.Meeting { m.DurationMinutes = 24*60 + 1; return m },
			"unknown type":  func(m domain.Meeting) domain.Meeting { m.Type = "standup"; return m },
			"empty type":    func(m domain.Meeting) domain.Meeting { m.Type = ""; return m },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				require.ErrorIs(t, mutate(valid).Validate(), domain.ErrInvalidInput)
			})
		}
	})

	t.Run("ParseMeetingType", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"review", "planning", "other"} {
			meetingType, err := domain.ParseMeetingType(raw)
			require.NoError(t, err)
			require.Equal(t, raw, string(meetingType))
		}

		_, err := domain.ParseMeetingType("Review")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestFormatDisplayDate(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	require.Equal(t, "", domain.FormatDisplayDate(time.Time{}, loc))
	// 02:00 UTC is still the previous day in Sao Paulo
	require.Equal(t, "09/03/2025", domain.FormatDisplayDate(time.Date(2025, time.March, 10, 2, 0, 0, 0, time.UTC), loc))
	require.Equal(t, "10/03/2025", domain.FormatDisplayDate(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), loc))
}

func TestTimeFromUnixTimestamp(t *testing.T) {
	t.Parallel()

	require.True(t, time.UnixMilli(1741608000000).Equal(domain.TimeFromUnixTimestamp(1741608000000)))
	require.True(t, time.Unix(1741608000, 0).Equal(domain.TimeFromUnixTimestamp(1741608000)))
}
