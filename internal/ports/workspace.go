package ports

import (
	"log/slog"
	"net/http"

	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/auth"
)

func MakeListWorkspaceSpacesHandler(
	listSpaces app.ListWorkspaceSpaces,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"list_workspace_spaces",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		spaces, err := listSpaces(ctx)
		if err != nil {
			// NOTE: ListWorkspaceSpaces implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		responses := make([]spaceResponse, 0, len(spaces))
		for _, space := range spaces {
			responses = append(responses, spaceResponse{ID: space.ID, Name: space.Name})
		}

		writeJSONResponse(ctx, w, http.StatusOK, struct {
			Success bool            `json:"success"`
			Spaces  []spaceResponse `json:"spaces"`
		}{
			Success: true,
			Spaces:  responses,
		})
	}

	return middleware(handler)
}

func MakeListWorkspaceListsHandler(
	listLists app.ListWorkspaceLists,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"list_workspace_lists",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		lists, err := listLists(ctx, r.PathValue("spaceID"))
		if err != nil {
			// NOTE: ListWorkspaceLists implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		responses := make([]listResponse, 0, len(lists))
		for _, list := range lists {
			responses = append(responses, workspaceListToResponse(list))
		}

		writeJSONResponse(ctx, w, http.StatusOK, struct {
			Success bool           `json:"success"`
			Lists   []listResponse `json:"lists"`
		}{
			Success: true,
			Lists:   responses,
		})
	}

	return middleware(handler)
}
