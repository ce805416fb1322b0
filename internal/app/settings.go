package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
)

type GetSettings func(ctx context.Context) (domain.Settings, error)

type UpdateSettings func(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error)

type settingsRepository interface {
	GetSettings(ctx context.Context) (domain.Settings, error)
	StoreSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}

// Cache whose contents depend on the settings
type settingsDependentCache interface {
	Reset(interval time.Duration)
}

// BuildGetSettings returns the stored settings, or defaults if none have been stored yet
func BuildGetSettings(repo settingsRepository, defaults domain.Settings) GetSettings {
	return func(ctx context.Context) (domain.Settings, error) {
		settings, err := repo.GetSettings(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return defaults, nil
		} else if err != nil {
			// NOTE: SettingsRepository implementations handle their own error reporting
			return domain.Settings{}, fmt.Errorf("could not get settings: %w", err)
		}

		return settings, nil
	}
}

func BuildUpdateSettings(getSettings GetSettings, repo settingsRepository, projectCache settingsDependentCache) UpdateSettings {
	return func(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
		current, err := getSettings(ctx)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("could not get current settings: %w", err)
		}

		merged := current.Apply(patch)
		if err := merged.Validate(); err != nil {
			return domain.Settings{}, err
		}

		stored, err := repo.StoreSettings(ctx, merged)
		if err != nil {
			// NOTE: SettingsRepository implementations handle their own error reporting
			return domain.Settings{}, fmt.Errorf("could not store settings: %w", err)
		}

		// Any change may point the project at different data
		projectCache.Reset(stored.RefreshInterval)

		logging.FromContext(ctx).InfoContext(
			ctx,
			"Updated settings",
			"listID", stored.ListID,
			"refreshInterval", stored.RefreshInterval,
			"sourceChanged", stored.SourceChanged(current),
		)

		return stored, nil
	}
}
