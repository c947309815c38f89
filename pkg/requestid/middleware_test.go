package requestid_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifeed/pkg/logger"
	"github.com/dmitrymomot/notifeed/pkg/requestid"
)

func serve(t *testing.T, mw func(http.Handler) http.Handler, header string) (seen string, echoed string) {
	t.Helper()

	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	mw := requestid.Middleware(requestid.WithGenerator(func() string { return "generated" }))

	t.Run("generates when missing", func(t *testing.T) {
		seen, echoed := serve(t, mw, "")
		assert.Equal(t, "generated", seen)
		assert.Equal(t, "generated", echoed)
	})

	t.Run("keeps valid ids", func(t *testing.T) {
		for _, id := range []string{"abc123", "ABC-123_xyz", "550e8400-e29b-41d4-a716-446655440000"} {
			seen, echoed := serve(t, mw, id)
			assert.Equal(t, id, seen)
			assert.Equal(t, id, echoed)
		}
	})

	t.Run("replaces invalid ids", func(t *testing.T) {
		for _, id := range []string{"a b", "a/b", "<script>", "ñ", strings.Repeat("a", 129)} {
			seen, _ := serve(t, mw, id)
			assert.Equal(t, "generated", seen, "id %q", id)
		}
	})

	t.Run("default generator", func(t *testing.T) {
		seen, echoed := serve(t, requestid.Middleware(), "")
		assert.Len(t, seen, 36)
		assert.Equal(t, seen, echoed)
	})

	t.Run("custom header", func(t *testing.T) {
		h := requestid.Middleware(requestid.WithHeader("X-Correlation-ID"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "corr-1", requestid.FromContext(r.Context()))
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "corr-1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, "corr-1", rec.Header().Get("X-Correlation-ID"))
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "id-1", requestid.FromContext(requestid.WithContext(context.Background(), "id-1")))
	assert.Empty(t, requestid.FromContext(context.Background()))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	log.InfoContext(requestid.WithContext(context.Background(), "req-42"), "hello")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	log.InfoContext(context.Background(), "hello")
	assert.NotContains(t, buf.String(), "request_id")
}
