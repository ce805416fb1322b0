package ports

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Amund211/clientboard/internal/app"
	"github.com/Amund211/clientboard/internal/auth"
	"github.com/Amund211/clientboard/internal/domain"
	"github.com/Amund211/clientboard/internal/logging"
)

type meetingRequest struct {
	Title           string     `json:"title"`
	// Either startsAt (RFC 3339) or date (DD/MM/YYYY) and time (HH:MM) in the configured time zone
	StartsAt        *time.Time `json:"startsAt"`
	Date            string     `json:"date"`
	Time            string     `json:"time"`
	DurationMinutes int        `json:"durationMinutes"`
	Type            string     `json:"type"`
}

func (req meetingRequest) toMeeting(location *time.Location) (domain.Meeting, error) {
	meetingType, err := domain.ParseMeetingType(req.Type)
	if err != nil {
		return domain.Meeting{}, err
	}

	var startsAt time.Time
	if req.StartsAt != nil {
		startsAt = *req.StartsAt
	} else {
		startsAt, err = time.ParseInLocation(domain.DisplayDateLayout+" 15:04", req.Date+" "+req.Time, location)
		if err != nil {
			return domain.Meeting{}, fmt.Errorf("%w: invalid date or time", domain.ErrInvalidInput)
		}
	}

	return domain.Meeting{
		Title:           req.Title,
		StartsAt:        startsAt,
		DurationMinutes: req.DurationMinutes,
		Type:            meetingType,
	}, nil
}

func MakeListMeetingsHandler(
	listMeetings app.ListMeetings,
	location *time.Location,
	nowFunc func() time.Time,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware("list_meetings", allowedOrigins, rootLogger, sentryMiddleware)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		from := nowFunc()
		if rawFrom := r.URL.Query().Get("from"); rawFrom != "" {
			parsed, err := time.Parse(time.RFC3339, rawFrom)
			if err != nil {
				writeErrorResponse(ctx, w, "invalid from parameter", http.StatusBadRequest)
				return
			}
			from = parsed
		}

		meetings, err := listMeetings(ctx, from)
		if err != nil {
			// NOTE: ListMeetings implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		responses := make([]meetingResponse, 0, len(meetings))
		for _, meeting := range meetings {
			responses = append(responses, meetingToResponse(meeting, location))
		}

		writeJSONResponse(ctx, w, http.StatusOK, struct {
			Success  bool              `json:"success"`
			Meetings []meetingResponse `json:"meetings"`
		}{
			Success:  true,
			Meetings: responses,
		})
	}

	return middleware(handler)
}

func MakeScheduleMeetingHandler(
	scheduleMeeting app.ScheduleMeeting,
	location *time.Location,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"schedule_meeting",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req meetingRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			writeAppError(ctx, w, err)
			return
		}

		meeting, err := req.toMeeting(location)
		if err != nil {
			writeAppError(ctx, w, err)
			return
		}

		stored, err := scheduleMeeting(ctx, meeting)
		if err != nil {
			// NOTE: ScheduleMeeting implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		writeJSONResponse(ctx, w, http.StatusCreated, struct {
			Success bool            `json:"success"`
			Meeting meetingResponse `json:"meeting"`
		}{
			Success: true,
			Meeting: meetingToResponse(stored, location),
		})
	}

	return middleware(handler)
}

func MakeCancelMeetingHandler(
	cancelMeeting app.CancelMeeting,
	authService *auth.Service,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := buildPortMiddleware(
		"cancel_meeting",
		allowedOrigins,
		rootLogger,
		sentryMiddleware,
		NewAuthMiddleware(authService),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		meetingID := r.PathValue("meetingID")
		ctx = logging.AddMetaToContext(ctx, slog.String("meetingID", meetingID))

		err := cancelMeeting(ctx, meetingID)
		if err != nil {
			// NOTE: CancelMeeting implementations handle their own error reporting
			writeAppError(ctx, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}

	return middleware(handler)
}
