package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/pageza/mesobmatch/backend/internal/metrics"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/router"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/testhelpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	catalog *testhelpers.Catalog
	auth    *service.AuthService
}

// newTestServer wires the real services over a seeded SQLite catalog.
// Rate limiting is disabled; images is optional.
func newTestServer(t *testing.T, images service.IImageService) *testServer {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	catalog := testhelpers.SeedCatalog(t, db)

	m := metrics.New(prometheus.NewRegistry())
	catalogs := service.NewCatalogService(db, matching.DefaultCategories(), zap.NewNop())
	snapshots := service.NewSnapshotService(catalogs, catalogs.Categories(), m, zap.NewNop())
	catalogs.OnChange(snapshots.Invalidate)
	auth := service.NewAuthService(db, testSecret, time.Hour)

	deps := router.Dependencies{
		DB:      db,
		Auth:    auth,
		Catalog: catalogs,
		Matches: service.NewMatchService(snapshots, catalogs, nil, m, zap.NewNop()),
		Metrics: m,
		Logger:  zap.NewNop(),
	}
	if images != nil {
		deps.Images = images
	}
	return &testServer{
		router:  router.SetupRouter(deps),
		catalog: catalog,
		auth:    auth,
	}
}

func (s *testServer) token(t *testing.T, user models.User) string {
	t.Helper()
	token, err := s.auth.GenerateToken(&user)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
