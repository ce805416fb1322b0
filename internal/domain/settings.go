package domain

import (
	"fmt"
	"time"
)

const (
	DefaultRefreshInterval = 15 * time.Minute
	MinRefreshInterval     = 1 * time.Minute
	MaxRefreshInterval     = 24 * time.Hour
)

type Settings struct {
	TeamID          string
	SpaceID         string
	ListID          string
	RefreshInterval time.Duration
	UpdatedAt       time.Time
}

// Partial update of Settings. Nil fields are left unchanged.
type SettingsPatch struct {
	TeamID          *string
	SpaceID         *string
	ListID          *string
	RefreshInterval *time.Duration
}

func (s Settings) Apply(patch SettingsPatch) Settings {
	merged := s
	if patch.TeamID != nil {
		merged.TeamID = *patch.TeamID
	}
	if patch.SpaceID != nil {
		merged.SpaceID = *patch.SpaceID
	}
	if patch.ListID != nil {
		merged.ListID = *patch.ListID
	}
	if patch.RefreshInterval != nil {
		merged.RefreshInterval = *patch.RefreshInterval
	}
	return merged
}

func (s Settings) Validate() error {
	if s.RefreshInterval < MinRefreshInterval || s.RefreshInterval > MaxRefreshInterval {
		return fmt.Errorf("%w: refresh interval must be between %s and %s, got %s", ErrInvalidSettings, MinRefreshInterval, MaxRefreshInterval, s.RefreshInterval)
	}
	if s.RefreshInterval%time.Minute != 0 {
		return fmt.Errorf("%w: refresh interval must be a whole number of minutes, got %s", ErrInvalidSettings, s.RefreshInterval)
	}
	return nil
}

// Whether the settings point at a different data source than other
func (s Settings) SourceChanged(other Settings) bool {
	return s.TeamID != other.TeamID || s.SpaceID != other.SpaceID || s.ListID != other.ListID
}
