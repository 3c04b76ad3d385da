package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistersCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MatchRequestsTotal.WithLabelValues("find_by_ingredients", "any", "ok").Inc()
	m.IndexDroppedLinks.Add(3)
	m.IndexRecipes.Set(42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MatchRequestsTotal.WithLabelValues("find_by_ingredients", "any", "ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IndexDroppedLinks))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.IndexRecipes))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.CacheHitsTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mesobmatch_match_cache_hits_total 1")
}
