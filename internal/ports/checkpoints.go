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

func MakeGetCheckpointHandler(
	getCheckpoint app.GetCheckpoint,
	location *time.Location,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("get_checkpoint", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checkpointID := r.PathValue("checkpointID")

		ctx = logging.AddMetaToContext(ctx, slog.String("checkpointID", checkpointID))
		ctx = reporting.AddExtrasToContext(ctx,
			map[string]string{
				"checkpointID": checkpointID,
			},
		)

		checkpoint, err := getCheckpoint(ctx, checkpointID)
		if err != nil {
			// NOTE: GetCheckpoint implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		writeJSONResponse(ctx, w, http.StatusOK, struct {
			Success    bool               `json:"success"`
			Checkpoint checkpointResponse `json:"checkpoint"`
		}{
			Success:    true,
			Checkpoint: checkpointToResponse(checkpoint, location),
		})
	}

	return middleware(handler)
}

type commentRequest struct {
	Text      string `json:"text"`
	NotifyAll bool   `json:"notifyAll"`
}

func MakeAddCommentHandler(
	addComment app.AddComment,
	location *time.Location,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"add_comment",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checkpointID := r.PathValue("checkpointID")

		ctx = logging.AddMetaToContext(ctx, slog.String("checkpointID", checkpointID))
		ctx = reporting.AddExtrasToContext(ctx,
			map[string]string{
				"checkpointID": checkpointID,
			},
		)

		var req commentRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			writeAppError(ctx, w, err)
			return
		}

		comment, err := addComment(ctx, checkpointID, req.Text, req.NotifyAll)
		if err != nil {
			// NOTE: AddComment implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		writeJSONResponse(ctx, w, http.StatusCreated, struct {
			Success bool            `json:"success"`
			Comment commentResponse `json:"comment"`
		}{
			Success: true,
			Comment: commentToResponse(comment, location),
		})
	}

	return middleware(handler)
}
