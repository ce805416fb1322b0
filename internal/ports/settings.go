package ports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/auth"
	"github.com/Amund211/clientboard/internal/domain"
)

type settingsRequest struct {
	TeamID          *string `json:"teamId"`
	SpaceID         *string `json:"spaceId"`
	ListID          *string `json:"listId"`
	RefreshInterval *int    `json:"refreshInterval"`
}

func (req settingsRequest) toPatch() (domain.SettingsPatch, error) {
	patch := domain.SettingsPatch{
		TeamID:  req.TeamID,
		SpaceID: req.SpaceID,
		ListID:  req.ListID,
	}

	if req.RefreshInterval != nil {
		minutes := *req.RefreshInterval
		if minutes < 1 || minutes > int(domain.MaxRefreshInterval/time.Minute) {
			return domain.SettingsPatch{}, fmt.Errorf("%w: refreshInterval must be between 1 and 1440 minutes", domain.ErrInvalidSettings)
		}
		interval := time.Duration(minutes) * time.Minute
		patch.RefreshInterval = &interval
	}

	return patch, nil
}

func MakeGetSettingsHandler(
	getSettings app.GetSettings,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("get_settings", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		settings, err := getSettings(ctx)
		if err != nil {
			// NOTE: GetSettings implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, settingsToResponse(settings))
	}

	return middleware(handler)
}

func MakeUpdateSettingsHandler(
	updateSettings app.UpdateSettings,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"update_settings",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req settingsRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			writeAppError(ctx, w, err)
			return
		}

		patch, err := req.toPatch()
		if err != nil {
			writeAppError(ctx, w, err)
			return
		}

		settings, err := updateSettings(ctx, patch)
		if err != nil {
			// NOTE: UpdateSettings implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, settingsToResponse(settings))
	}

	return middleware(handler)
}
