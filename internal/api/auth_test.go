package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/mesobmatch/backend/internal/api"
	"github.com/pageza/mesobmatch/backend/internal/mocks"
	"github.com/pageza/mesobmatch/backend/internal/models"
	"github.com/pageza/mesobmatch/backend/internal/service"
	"github.com/pageza/mesobmatch/backend/internal/testhelpers"
	"github.com/pageza/mesobmatch/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Selam",
		"email":    "Selam@Example.com",
		"password": "injera-lover",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[api.AuthResponse](t, w)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "selam@example.com", registered.User.Email)
	assert.Equal(t, "author", registered.User.Role)

	w = s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Again",
		"email":    "selam@example.com",
		"password": "injera-lover",
	}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "selam@example.com",
		"password": "injera-lover",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	loggedIn := decode[api.AuthResponse](t, w)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Selam"`)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Short",
		"email":    "short@example.com",
		"password": "123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    s.catalog.Author.Email,
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    s.catalog.Author.Email,
		"password": testhelpers.FixturePassword,
	}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "garbage").Code)
}

func TestRegisterTokenFailure(t *testing.T) {
	auth := new(mocks.MockAuthService)
	user := &models.User{ID: uuid.New(), Name: "Selam", Email: "selam@example.com", Role: models.RoleAuthor}
	auth.On("Register", mock.Anything, mock.MatchedBy(func(req *types.RegisterRequest) bool {
		return req.Email == "selam@example.com"
	})).Return(user, nil)
	auth.On("GenerateToken", user).Return("", errors.New("signing key unavailable"))
	auth.On("Login", mock.Anything, "selam@example.com", "wrong-password").
		Return("", nil, service.ErrInvalidCredentials)

	r := gin.New()
	api.NewAuthHandler(auth).RegisterRoutes(r.Group("/api/v1"))
	s := &testServer{router: r}

	w := s.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":     "Selam",
		"email":    "selam@example.com",
		"password": "injera-lover",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "selam@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password"}`, w.Body.String())

	auth.AssertExpectations(t)
}
