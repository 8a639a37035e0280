//go:build unit

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/api/pages/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/pages/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/pages/"+id, nil))
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/pages/{id}", "418"))
	assert.Equal(t, float64(2), after-before)
}

func TestRecordComponentBatch(t *testing.T) {
	okBefore := testutil.ToFloat64(componentWrites.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(componentWrites.WithLabelValues("error"))

	RecordComponentBatch(nil)
	RecordComponentBatch(errors.New("boom"))

	assert.Equal(t, float64(1), testutil.ToFloat64(componentWrites.WithLabelValues("ok"))-okBefore)
	assert.Equal(t, float64(1), testutil.ToFloat64(componentWrites.WithLabelValues("error"))-errBefore)
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordOrderCreated()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "store_builder_orders_created_total"))
}
