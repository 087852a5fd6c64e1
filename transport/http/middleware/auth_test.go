package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"turfbook/config"
	"turfbook/infras/jwt"
	"turfbook/infras/otel/mocks"
	"turfbook/shared/constant"
	"turfbook/transport/http/middleware"
)

func newAuthMiddleware(t *testing.T) (middleware.AuthRole, jwt.JWT) {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Name = "turfbook-test"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 5
	cfg.JWT.RefreshExpireMin = 60

	jwtService := jwt.New(cfg)

	return middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), nil, cfg), jwtService
}

func authTestRouter(t *testing.T, mw middleware.AuthRole) *chi.Mux {
	t.Helper()

	router := chi.NewRouter()
	router.Use(mw.Auth)
	router.Get("/v1/ping", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	return router
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("ValidAccessTokenPassesClaimsDownstream", func(t *testing.T) {
		mw, jwtService := newAuthMiddleware(t)

		pair, err := jwtService.GenerateTokenPair("user-1", "user@example.com", constant.RoleCustomer)
		assert.NoError(t, err)

		router := chi.NewRouter()
		router.Use(mw.Auth)
		router.Get("/v1/ping", func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			assert.Equal(t, "user-1", ctx.Value(constant.ContextKeyUserID))
			assert.Equal(t, "user@example.com", ctx.Value(constant.ContextKeyUserEmail))
			assert.Equal(t, constant.RoleCustomer, ctx.Value(constant.ContextKeyUserRole))
			writer.WriteHeader(http.StatusOK)
		})

		request := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+pair.AccessToken)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("MissingAuthorizationHeader", func(t *testing.T) {
		mw, _ := newAuthMiddleware(t)
		router := authTestRouter(t, mw)

		request := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("MangledToken", func(t *testing.T) {
		mw, _ := newAuthMiddleware(t)
		router := authTestRouter(t, mw)

		request := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer not-a-jwt")
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("RefreshTokenRejectedOnAccessPath", func(t *testing.T) {
		mw, jwtService := newAuthMiddleware(t)
		router := authTestRouter(t, mw)

		pair, err := jwtService.GenerateTokenPair("user-1", "user@example.com", constant.RoleCustomer)
		assert.NoError(t, err)

		request := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
		request.Header.Set(constant.RequestHeaderAuthorization, "Bearer "+pair.RefreshToken)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
