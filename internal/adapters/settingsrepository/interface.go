package settingsrepository

import (
	"context"

	"github.com/Amund211/clientboard/internal/domain"
)

type SettingsRepository interface {
	// Raises domain.ErrNotFound if no settings have been stored yet
	GetSettings(ctx context.Context) (domain.Settings, error)

	// Stores settings, replacing any previous ones. Sets UpdatedAt.
	StoreSettings(ctx context.Context, settings domain.Settings) (domain.Settings, error)
}
