package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Amund211/clientboard/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type StringAttr struct {
	Key   string
	Value string
}

func TestRequestLoggerMiddleware(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, request *http.Request) []StringAttr {
		t.Helper()

		buf := &bytes.Buffer{}
		middleware := logging.NewRequestLoggerMiddleware(slog.New(slog.NewJSONHandler(buf, nil)))

		logRequest := func(w http.ResponseWriter, r *http.Request) {
			logging.FromContext(r.Context()).Info("test")
		}

		w := httptest.NewRecorder()
		middleware(logRequest)(w, request)

		var logEntry map[string]any
		err := json.Unmarshal(buf.Bytes(), &logEntry)
		require.NoError(t, err)
		attrs := make([]StringAttr, 0)

		foundBase := 0
		for key, value := range logEntry {
			switch key {
			case "msg":
				assert.Equal(t, "test", value)
				foundBase++
			case "level":
				assert.Equal(t, "INFO", value)
				foundBase++
			case "time":
				foundBase++
			case "correlationID":
				assert.NotEmpty(t, value)
				foundBase++
			default:
				attrs = append(attrs, StringAttr{Key: key, Value: value.(string)})
			}
		}

		assert.Equal(t, 4, foundBase)

		return attrs
	}

	t.Run("all props", func(t *testing.T) {
		t.Parallel()

		requestUrl, err := url.Parse("http://example.com/v1/project?force=true")
		require.NoError(t, err)

		attrs := run(t, &http.Request{
			URL:    requestUrl,
			Method: "GET",
			Header: http.Header{
				"Origin":     []string{"https://board.example.com"},
				"User-Agent": []string{"user-agent/1.0"},
			},
		})

		assert.ElementsMatch(t, []StringAttr{
			{Key: "userAgent", Value: "user-agent/1.0"},
			{Key: "origin", Value: "https://board.example.com"},
			{Key: "methodPath", Value: "GET /v1/project"},
		}, attrs)
	})

	t.Run("missing headers", func(t *testing.T) {
		t.Parallel()

		requestUrl, err := url.Parse("http://example.com/v1/meetings")
		require.NoError(t, err)

		attrs := run(t, &http.Request{
			URL:    requestUrl,
			Method: "POST",
		})

		assert.ElementsMatch(t, []StringAttr{
			{Key: "userAgent", Value: "<missing>"},
			{Key: "origin", Value: "<missing>"},
			{Key: "methodPath", Value: "POST /v1/meetings"},
		}, attrs)
	})

	t.Run("without middleware", func(t *testing.T) {
		t.Parallel()

		logging.FromContext(context.Background()).Info("don't crash when no logger in context")
	})
}
