package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubnexus/internal/membership"
)

func TestNotify(t *testing.T) {
	m := New()

	m.Notify(membership.Event{Type: membership.EventMemberCreated})
	m.Notify(membership.Event{Type: membership.EventMemberCreated})
	m.Notify(membership.Event{Type: membership.EventAdmissionRejected, Problems: []string{"a", "b", "c"}})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues(string(membership.EventMemberCreated))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues(string(membership.EventAdmissionRejected))))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.problems))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/members/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/members/{id}", http.MethodGet, "404")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "http_requests_total"), "exposition lists request counter")
	assert.Contains(t, body, "go_goroutines")
}
