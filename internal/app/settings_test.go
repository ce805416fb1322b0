package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSettingsRepository struct {
	t *testing.T

	settings    domain.Settings
	getErr      error
	storeErr    error
	storeCalled bool
	updatedAt   time.Time
}

func (m *mockSettingsRepository) GetSettings(ctx context.Context) (domain.Settings, error) {
	return m.settings, m.getErr
}

func (m *mockSettingsRepository) StoreSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	m.t.Helper()
	require.False(m.t, m.storeCalled)
	m.storeCalled = true

	if m.storeErr != nil {
		return domain.Settings{}, m.storeErr
	}
	settings.UpdatedAt = m.updatedAt
	m.settings = settings
	m.getErr = nil
	return settings, nil
}

type mockResettableCache struct {
	resetCalled   bool
	resetInterval time.Duration
}

func (m *mockResettableCache) Reset(interval time.Duration) {
	m.resetCalled = true
	m.resetInterval = interval
}

func TestBuildGetSettings(t *testing.T) {
	t.Parallel()

	defaults := domain.Settings{TeamID: "team", ListID: "from-env", RefreshInterval: domain.DefaultRefreshInterval}

	t.Run("defaults when nothing is stored", func(t *testing.T) {
		t.Parallel()

		repo := &mockSettingsRepository{t: t, getErr: domain.ErrNotFound}
		settings, err := app.BuildGetSettings(repo, defaults)(t.Context())
		require.NoError(t, err)
		require.Equal(t, defaults, settings)
	})

	t.Run("stored settings take precedence", func(t *testing.T) {
		t.Parallel()

		stored := domain.Settings{ListID: "stored", RefreshInterval: 5 * time.Minute}
		repo := &mockSettingsRepository{t: t, settings: stored}
		settings, err := app.BuildGetSettings(repo, defaults)(t.Context())
		require.NoError(t, err)
		require.Equal(t, stored, settings)
	})

	t.Run("repository error", func(t *testing.T) {
		t.Parallel()

		repo := &mockSettingsRepository{t: t, getErr: assert.AnError}
		_, err := app.BuildGetSettings(repo, defaults)(t.Context())
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestBuildUpdateSettings(t *testing.T) {
	t.Parallel()

	updatedAt := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	defaults := domain.Settings{TeamID: "team", ListID: "901", RefreshInterval: domain.DefaultRefreshInterval}

	ptr := func(s string) *string { return &s }
	duration := func(d time.Duration) *time.Duration { return &d }

	t.Run("merges, stores and resets the cache", func(t *testing.T) {
		t.Parallel()

		repo := &mockSettingsRepository{t: t, getErr: domain.ErrNotFound, updatedAt: updatedAt}
		projectCache := &mockResettableCache{}
		updateSettings := app.BuildUpdateSettings(app.BuildGetSettings(repo, defaults), repo, projectCache)

		settings, err := updateSettings(t.Context(), domain.SettingsPatch{
			ListID:          ptr("902"),
			RefreshInterval: duration(30 * time.Minute),
		})
		require.NoError(t, err)
		require.Equal(t, domain.Settings{
			TeamID:          "team",
			ListID:          "902",
			RefreshInterval: 30 * time.Minute,
			UpdatedAt:       updatedAt,
		}, settings)

		require.True(t, repo.storeCalled)
		require.True(t, projectCache.resetCalled)
		require.Equal(t, 30*time.Minute, projectCache.resetInterval)
	})

	t.Run("unchanged source still resets the cache", func(t *testing.T) {
		t.Parallel()

		repo := &mockSettingsRepository{t: t, settings: defaults, updatedAt: updatedAt}
		projectCache := &mockResettableCache{}
		updateSettings := app.BuildUpdateSettings(app.BuildGetSettings(repo, defaults), repo, projectCache)

		_, err := updateSettings(t.Context(), domain.SettingsPatch{})
		require.NoError(t, err)
		require.True(t, projectCache.resetCalled)
		require.Equal(t, domain.DefaultRefreshInterval, projectCache.resetInterval)
	})

	t.Run("invalid interval is rejected", func(t *testing.T) {
		t.Parallel()

		for _, interval := range []time.Duration{0, 25 * time.Hour, 90 * time.Second} {
			repo := &mockSettingsRepository{t: t, settings: defaults}
			projectCache := &mockResettableCache{}
			updateSettings := app.BuildUpdateSettings(app.BuildGetSettings(repo, defaults), repo, projectCache)

			_, err := updateSettings(t.Context(), domain.SettingsPatch{RefreshInterval: duration(interval)})
			require.ErrorIs(t, err, domain.ErrInvalidSettings)
			require.False(t, repo.storeCalled)
			require.False(t, projectCache.resetCalled)
		}
	})

	t.Run("store failure leaves the cache alone", func(t *testing.T) {
		t.Parallel()

		repo := &mockSettingsRepository{t: t, settings: defaults, storeErr: assert.AnError}
		projectCache := &mockResettableCache{}
		updateSettings := app.BuildUpdateSettings(app.BuildGetSettings(repo, defaults), repo, projectCache)

		_, err := updateSettings(t.Context(), domain.SettingsPatch{ListID: ptr("903")})
		require.ErrorIs(t, err, assert.AnError)
		require.False(t, projectCache.resetCalled)
	})

	t.Run("read failure", func(t *testing.T) {
		t.Parallel()

		repo := &mockSettingsRepository{t: t, getErr: assert.AnError}
		projectCache := &mockResettableCache{}
		updateSettings := app.BuildUpdateSettings(app.BuildGetSettings(repo, defaults), repo, projectCache)

		_, err := updateSettings(t.Context(), domain.SettingsPatch{ListID: ptr("903")})
		require.ErrorIs(t, err, assert.AnError)
		require.False(t, repo.storeCalled)
	})
}
