package ports

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/Amund211/clientboard/internal/auth"
	"github.com/Amund211/clientboard/internal/logging"
	"github.com/Amund211/clientboard/internal/ratelimiting"
	"github.com/Amund211/clientboard/internal/reporting"
)

func NewRateLimitMiddleware(rateLimiter ratelimiting.RequestRateLimiter, onLimitExceeded http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !rateLimiter.Consume(r) {
				onLimitExceeded(w, r)
				return
			}

			next(w, r)
		}
	}
}

// NewAuthMiddleware requires a valid bearer token. The token subject is added
// to the request context and used as the user ID when reporting.
func NewAuthMiddleware(authService *auth.Service) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			rawToken, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(rawToken) == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="clientboard"`)
				writeErrorResponse(ctx, w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ParseToken(strings.TrimSpace(rawToken))
			if err != nil {
				logging.FromContext(ctx).InfoContext(ctx, "Rejected bearer token", "error", err.Error())
				w.Header().Set("WWW-Authenticate", `Bearer realm="clientboard", error="invalid_token"`)
				writeErrorResponse(ctx, w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx = auth.AddClaimsToContext(ctx, claims)
			ctx = reporting.SetUserIDInContext(ctx, claims.Subject)
			ctx = logging.AddMetaToContext(ctx, slog.String("subject", claims.Subject))

			next(w, r.WithContext(ctx))
		}
	}
}

func ComposeMiddlewares(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	if len(middlewares) == 1 {
		return middlewares[0]
	}
	first := middlewares[0]
	rest := ComposeMiddlewares(middlewares[1:]...)
	return func(h http.HandlerFunc) http.HandlerFunc {
		return first(rest(h))
	}
}

// Inbound budget per IP for a single port
const (
	ipRefillPerSecond = 4
	ipBurstSize       = 240
)

// buildPortMiddleware composes the middlewares every port shares. extra is
// applied last, closest to the handler.
func buildPortMiddleware(
	port string,
	allowedOrigins *DomainSuffixes,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
	extra ...func(http.HandlerFunc) http.HandlerFunc,
) func(http.HandlerFunc) http.HandlerFunc {
	ipLimiter, _ := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(ipRefillPerSecond),
		ratelimiting.BurstSize(ipBurstSize),
	)
	ipRateLimiter := ratelimiting.NewRequestBasedRateLimiter(
		ipLimiter,
		ratelimiting.IPKeyFunc,
	)

	onLimitExceeded := func(w http.ResponseWriter, r *http.Request) {
		writeErrorResponse(r.Context(), w, "rate limit exceeded", http.StatusTooManyRequests)
	}

	middlewares := []func(http.HandlerFunc) http.HandlerFunc{
		buildMetricsMiddleware(port),
		logging.NewRequestLoggerMiddleware(rootLogger.With("port", port)),
		sentryMiddleware,
		reporting.NewAddMetaMiddleware(port),
		BuildCORSMiddleware(allowedOrigins),
		NewRateLimitMiddleware(ipRateLimiter, onLimitExceeded),
	}
	middlewares = append(middlewares, extra...)

	return ComposeMiddlewares(middlewares...)
}
