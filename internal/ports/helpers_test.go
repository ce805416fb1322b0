package ports_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Amund211/clientboard/internal/auth"
	"github.com/Amund211/clientboard/internal/ports"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func noopMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r)
	}
}

func newAllowedOrigins(t *testing.T) *ports.DomainSuffixes {
	t.Helper()
	allowedOrigins, err := ports.NewDomainSuffixes("clientboard.app")
	require.NoError(t, err)
	return allowedOrigins
}

func newAuth(t *testing.T) (*auth.Service, string) {
	t.Helper()
	authService := auth.NewService("test-secret", time.Now)
	token, err := authService.IssueToken("operator", time.Hour)
	require.NoError(t, err)
	return authService, "Bearer " + token
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	location, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return location
}

func jsonBody(t *testing.T, body any) io.Reader {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	return strings.NewReader(string(data))
}
