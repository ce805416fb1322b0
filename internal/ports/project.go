package ports

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/auth"
	"github.com/Amund211/clientboard/internal/logging"
	"github.com/Amund211/clientboard/internal/reporting"
)

func MakeGetProjectHandler(
	getProject app.GetProject,
	location *time.Location,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("get_project", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		// Forced refreshes go through the authenticated refresh endpoint
		writeProject(w, r, getProject, false, location)
	}

	return middleware(handler)
}

func MakeRefreshProjectHandler(
	getProject app.GetProject,
	location *time.Location,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"refresh_project",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		writeProject(w, r, getProject, true, location)
	}

	return middleware(handler)
}

func writeProject(w http.ResponseWriter, r *http.Request, getProject app.GetProject, force bool, location *time.Location) {
	ctx := r.Context()
	ctx = logging.AddMetaToContext(ctx, slog.Bool("force", force))

	snapshot, err := getProject(ctx, force)
	if err != nil {
		// NOTE: GetProject implementations handle their own error reporting
		writeAppError(ctx, w, err)
		return
	}

	ctx = reporting.AddExtrasToContext(ctx,
		map[string]string{
			"listID": snapshot.ListID,
		},
	)

	if snapshot.Stale {
		w.Header().Set("Warning", `110 - "Response is Stale"`)
	}
	if !snapshot.FetchedAt.IsZero() {
		w.Header().Set("Last-Modified", snapshot.FetchedAt.UTC().Format(http.TimeFormat))
	}

	writeJSONResponse(ctx, w, http.StatusOK, snapshotToResponse(snapshot, location))
}
