package reporting

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Amund211/clientboard/internal/config"
	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	t.Run("connection reset by peer", func(t *testing.T) {
		t.Parallel()

		err := `failed to send request: Get "https://api.clickup.com/api/v2/list/901312345678/task?include_closed=true": read tcp [dead:beef:feb1:d745::c001]:64079->[dead:beef::6811:112a]:443: read: connection reset by peer`
		want := `failed to send request: Get "https://api.clickup.com/api/v2/list/<id>/task?include_closed=true": read tcp <host>-><host>: read: connection reset by peer`
		require.Equal(t, want, sanitizeError(err))
	})

	t.Run("context deadline", func(t *testing.T) {
		t.Parallel()

		err := `failed to send request: Get "https://api.clickup.com/api/v2/task/86a1b2c3d": context deadline exceeded (Client.Timeout exceeded while awaiting headers)`
		want := `failed to send request: Get "https://api.clickup.com/api/v2/task/<id>": context deadline exceeded (Client.Timeout exceeded while awaiting headers)`
		require.Equal(t, want, sanitizeError(err))
	})

	t.Run("uuid", func(t *testing.T) {
		t.Parallel()

		err := `failed to delete meeting 0192f1a4-7b3c-7d2e-9f10-1234567890ab`
		want := `failed to delete meeting <uuid>`
		require.Equal(t, want, sanitizeError(err))
	})

	t.Run("all clickup resources", func(t *testing.T) {
		t.Parallel()

		for _, resource := range []string{"team", "space", "folder", "list", "task"} {
			t.Run(resource, func(t *testing.T) {
				t.Parallel()

				err := fmt.Sprintf("clickup API returned status 500 for /%s/abc123", resource)
				want := fmt.Sprintf("clickup API returned status 500 for /%s/<id>", resource)
				require.Equal(t, want, sanitizeError(err))
			})
		}
	})

	t.Run("misc ipv6", func(t *testing.T) {
		t.Parallel()

		ips := []string{
			`1:2:3:4:5:6:7:8`,
			`1::`,
			`1::8`,
			`1:2:3:4:5:6::8`,
			`1::7:8`,
			`1:2::4:5:6:7:8`,
			`::2:3:4:5:6:7:8`,
			`::8`,
			`::`,
		}
		for _, ip := range ips {
			t.Run(ip, func(t *testing.T) {
				t.Parallel()

				require.Equal(t, "<host>", sanitizeError(fmt.Sprintf("[%s]:1234", ip)))
			})
		}
	})
}

func TestAddMetaMiddleware(t *testing.T) {
	t.Parallel()

	var meta ReportingMeta
	handler := NewAddMetaMiddleware("project")(func(w http.ResponseWriter, r *http.Request) {
		meta = MetaFromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/v1/project", nil)
	req.Header.Set("User-Agent", "dashboard/1.0")
	handler(httptest.NewRecorder(), req)

	require.Equal(t, map[string]string{
		"port":       "project",
		"userAgent":  "dashboard/1.0",
		"methodPath": "GET /v1/project",
	}, meta.tags)
	require.False(t, meta.startedAt.IsZero())
}

func TestNewSentryMiddlewareOrMock(t *testing.T) {
	t.Run("development without dsn", func(t *testing.T) {
		t.Setenv("CLIENTBOARD_ENVIRONMENT", "development")
		t.Setenv("SENTRY_DSN", "")
		t.Setenv("PROJECT_SOURCE", "")

		conf, err := config.ConfigFromEnv()
		require.NoError(t, err)

		middleware, flush, err := NewSentryMiddlewareOrMock(conf)
		require.NoError(t, err)
		defer flush()

		called := false
		middleware(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
		require.True(t, called)
	})
}
