package domain_test

import (
	"testing"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	now := time.Date(2025, time.March, 10, 15, 30, 0, 0, loc)
	date := func(month time.Month, day int) time.Time {
		return time.Date(2025, month, day, 12, 0, 0, 0, loc)
	}
	details := domain.ProjectDetails{
		ID:     "901",
		Title:  "Plataforma IA",
		Client: "Cliente IA",
		Budget: "R$ 28.500,00",
	}

	t.Run("no checkpoints", func(t *testing.T) {
		t.Parallel()

		project := domain.NewProject(details, nil, now)

		require.Equal(t, "901", project.ID)
		require.Equal(t, "Plataforma IA", project.Title)
		require.Equal(t, "Cliente IA", project.Client)
		require.Equal(t, "R$ 28.500,00", project.Budget)
		require.Empty(t, project.Checkpoints)
		require.NotNil(t, project.Checkpoints)
		require.Equal(t, 0, project.Progress)
		require.Equal(t, domain.StartOfDay(now), project.StartDate)
		require.True(t, project.EndDate.IsZero())
		require.Equal(t, 0, project.DaysRemaining)
	})

	t.Run("sorted by start date", func(t *testing.T) {
		t.Parallel()

		checkpoints := []domain.Checkpoint{
			{ID: "c", StartDate: date(time.April, 1), EndDate: date(time.April, 20), Progress: 0},
			{ID: "a", StartDate: date(time.February, 1), EndDate: date(time.February, 20), Progress: 100},
			{ID: "b", StartDate: date(time.March, 1), EndDate: date(time.March, 20), Progress: 50},
		}

		project := domain.NewProject(details, checkpoints, now)

		ids := []string{}
		for _, checkpoint := range project.Checkpoints {
			ids = append(ids, checkpoint.ID)
		}
		require.Equal(t, []string{"a", "b", "c"}, ids)
		require.Equal(t, date(time.February, 1), project.StartDate)
		require.Equal(t, date(time.April, 20), project.EndDate)
		require.Equal(t, 50, project.Progress)
		require.Equal(t, 41, project.DaysRemaining)

		// Input is not mutated
		require.Equal(t, "c", checkpoints[0].ID)
	})

	t.Run("undated checkpoints keep their index", func(t *testing.T) {
		t.Parallel()

		checkpoints := []domain.Checkpoint{
			{ID: "b", StartDate: date(time.March, 10)},
			{ID: "undated"},
			{ID: "a", StartDate: date(time.March, 5)},
			{ID: "c", StartDate: date(time.March, 20)},
			{ID: "undated-2"},
		}

		project := domain.NewProject(details, checkpoints, now)

		ids := []string{}
		for _, checkpoint := range project.Checkpoints {
			ids = append(ids, checkpoint.ID)
		}
		require.Equal(t, []string{"a", "undated", "b", "c", "undated-2"}, ids)
		require.Equal(t, date(time.March, 5), project.StartDate)
	})

	t.Run("progress is rounded", func(t *testing.T) {
		t.Parallel()

		checkpoints := []domain.Checkpoint{
			{ID: "a", Progress: 100},
			{ID: "b", Progress: 50},
			{ID: "c", Progress: 50},
		}

		project := domain.NewProject(details, checkpoints, now)
		require.Equal(t, 67, project.Progress)
	})

	t.Run("first checkpoint without start date falls back to today", func(t *testing.T) {
		t.Parallel()

		checkpoints := []domain.Checkpoint{
			{ID: "a"},
			{ID: "b", EndDate: date(time.March, 12)},
		}

		project := domain.NewProject(details, checkpoints, now)
		require.Equal(t, domain.StartOfDay(now), project.StartDate)
		require.Equal(t, date(time.March, 12), project.EndDate)
		require.Equal(t, 2, project.DaysRemaining)
	})

	t.Run("end date in the past", func(t *testing.T) {
		t.Parallel()

		checkpoints := []domain.Checkpoint{
			{ID: "a", StartDate: date(time.January, 1), EndDate: date(time.January, 31)},
		}

		project := domain.NewProject(details, checkpoints, now)
		require.Equal(t, 0, project.DaysRemaining)
	})
}

func TestDaysRemaining(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 10, 23, 59, 0, 0, time.UTC)

	cases := []struct {
		name string
		end  time.Time
		want int
	}{
		{name: "missing", end: time.Time{}, want: 0},
		{name: "today", end: time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC), want: 0},
		{name: "tomorrow early", end: time.Date(2025, time.March, 11, 0, 1, 0, 0, time.UTC), want: 1},
		{name: "next month", end: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC), want: 31},
		{name: "yesterday", end: time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC), want: 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, c.want, domain.DaysRemaining(c.end, now))
		})
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, domain.Percentage(0, 0))
	require.Equal(t, 0, domain.Percentage(0, 3))
	require.Equal(t, 33, domain.Percentage(1, 3))
	require.Equal(t, 67, domain.Percentage(2, 3))
	require.Equal(t, 100, domain.Percentage(3, 3))
}

func TestProjectCheckpoint(t *testing.T) {
	t.Parallel()

	project := domain.Project{
		Checkpoints: []domain.Checkpoint{
			{ID: "phase-1", Name: "Discovery"},
			{ID: "phase-2", Name: "Build"},
		},
	}

	checkpoint, ok := project.Checkpoint("phase-2")
	require.True(t, ok)
	require.Equal(t, "Build", checkpoint.Name)

	_, ok = project.Checkpoint("phase-3")
	require.False(t, ok)

	require.Equal(t, 0, domain.CountCompleted(project.Checkpoints))
}
