package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pairing-service/internal/mocks"
	"pairing-service/internal/models"
	"pairing-service/internal/repositories"
)

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)
	authed := r.Group("/")
	authed.Use(func(c *gin.Context) {
		c.Set("userID", "u1")
		c.Set("authToken", "tok-abc")
		c.Next()
	})
	authed.POST("/api/auth/logout", handler.Logout)
	authed.GET("/api/auth/me", handler.Me)
	authed.PUT("/api/auth/social-handle", handler.UpdateSocialHandle)
	return r
}

func TestRegisterSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, new(mocks.TokenRepositoryMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("CreateUser", mock.Anything, "ploy@example.com", "Ploy", "supersecret", "").
		Return(models.User{ID: "u1", Email: "ploy@example.com", Nickname: "Ploy"}, nil).Once()

	body := `{"email":"ploy@example.com","nickname":"Ploy","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"nickname":"Ploy","password":"supersecret"}`},
		{"malformed email", `{"email":"not-an-email","nickname":"Ploy","password":"supersecret"}`},
		{"short password", `{"email":"ploy@example.com","nickname":"Ploy","password":"short"}`},
		{"blank nickname", `{"email":"ploy@example.com","nickname":"   ","password":"supersecret"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userRepo := new(mocks.UserRepositoryMock)
			handler := NewAuthHandler(userRepo, new(mocks.TokenRepositoryMock), nil)
			router := setupAuthRouter(handler)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			userRepo.AssertNotCalled(t, "CreateUser")
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, new(mocks.TokenRepositoryMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("CreateUser", mock.Anything, "ploy@example.com", "Ploy", "supersecret", "").
		Return(models.User{}, repositories.ErrUserExists).Once()

	body := `{"email":"ploy@example.com","nickname":"Ploy","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	userRepo.AssertExpectations(t)
}

func TestLoginSuccess(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tokenRepo := new(mocks.TokenRepositoryMock)
	handler := NewAuthHandler(userRepo, tokenRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("VerifyPassword", mock.Anything, "ploy@example.com", "supersecret").
		Return(models.User{ID: "u1", Email: "ploy@example.com", Nickname: "Ploy"}, nil).Once()
	tokenRepo.On("Issue", mock.Anything, "u1").Return("tok-abc", nil).Once()

	body := `{"email":"ploy@example.com","password":"supersecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "tok-abc", resp["token"])
	userRepo.AssertExpectations(t)
	tokenRepo.AssertExpectations(t)
}

func TestLoginInvalidCredentials(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	tokenRepo := new(mocks.TokenRepositoryMock)
	handler := NewAuthHandler(userRepo, tokenRepo, nil)
	router := setupAuthRouter(handler)

	userRepo.On("VerifyPassword", mock.Anything, "ploy@example.com", "wrongpass").
		Return(models.User{}, repositories.ErrInvalidCredentials).Once()

	body := `{"email":"ploy@example.com","password":"wrongpass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	tokenRepo.AssertNotCalled(t, "Issue")
	userRepo.AssertExpectations(t)
}

func TestLogoutRevokesToken(t *testing.T) {
	tokenRepo := new(mocks.TokenRepositoryMock)
	handler := NewAuthHandler(new(mocks.UserRepositoryMock), tokenRepo, nil)
	router := setupAuthRouter(handler)

	tokenRepo.On("Revoke", mock.Anything, "tok-abc").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	tokenRepo.AssertExpectations(t)
}

func TestMeIncludesSocialHandle(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, new(mocks.TokenRepositoryMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("GetByID", mock.Anything, "u1").Return(models.User{
		ID:           "u1",
		Email:        "ploy@example.com",
		Nickname:     "Ploy",
		SocialHandle: sql.NullString{String: "@ploy", Valid: true},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "@ploy", resp["social_handle"])
	userRepo.AssertExpectations(t)
}

func TestUpdateSocialHandle(t *testing.T) {
	userRepo := new(mocks.UserRepositoryMock)
	handler := NewAuthHandler(userRepo, new(mocks.TokenRepositoryMock), nil)
	router := setupAuthRouter(handler)

	userRepo.On("UpdateSocialHandle", mock.Anything, "u1", "@ploy").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPut, "/api/auth/social-handle", bytes.NewBufferString(`{"social_handle":"@ploy"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	userRepo.AssertExpectations(t)
}
