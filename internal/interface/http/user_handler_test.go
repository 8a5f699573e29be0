package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/avandra/account-service/internal/application"
	"github.com/avandra/account-service/internal/domain/entity"
	"github.com/avandra/account-service/pkg/validation"
)

// mockUserService is a function-field mock of the UserService interface.
type mockUserService struct {
	LoginFunc          func(ctx context.Context, email, password string) (*userapp.LoginResponse, userapp.TokenPair, error)
	GetUserByIDFunc    func(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmailFunc func(ctx context.Context, email string) (*entity.User, error)
	UpdateProfileFunc  func(ctx context.Context, userID string, in userapp.UpdateProfileInput) (*entity.User, error)
	ChangePasswordFunc func(ctx context.Context, userID, oldPassword, newPassword string) error

	updateProfileCalls int
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*userapp.LoginResponse, userapp.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, userapp.TokenPair{}, userapp.ErrInvalidCredentials
}

func (m *mockUserService) Refresh(ctx context.Context, refreshToken string) (userapp.TokenPair, string, error) {
	return userapp.TokenPair{}, "", userapp.ErrInvalidCredentials
}

func (m *mockUserService) Logout(ctx context.Context, userID string) {}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, in userapp.UpdateProfileInput) (*entity.User, error) {
	m.updateProfileCalls++
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, in)
	}
	return nil, nil
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, oldPassword, newPassword)
	}
	return nil
}

func (m *mockUserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	return "", userapp.ErrUserNotFound
}

func (m *mockUserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

func newTestRouter(svc UserService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()

	h := NewUserHandler(svc, nil, "localhost", false)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/api/login", h.Login)
	r.GET("/api/profile", h.GetProfile)
	r.PUT("/api/profile", h.UpdateProfile)
	r.POST("/api/profile/password", h.ChangePassword)
	r.GET("/api/users/:id", h.GetUser)
	r.GET("/api/users", h.LookupByEmail)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleUser() *entity.User {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &entity.User{
		ID:        "u1",
		Email:     "alice@example.com",
		FullName:  "Alice",
		AvatarURL: "https://img.example.com/a.png",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("invalid payload", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "")
		w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "not-an-email", "password": "secret12"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("short password rejected by binding", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "")
		w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "alice@example.com", "password": "short"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "")
		w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "alice@example.com", "password": "wrongpw1"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success sets cookies", func(t *testing.T) {
		svc := &mockUserService{
			LoginFunc: func(ctx context.Context, email, password string) (*userapp.LoginResponse, userapp.TokenPair, error) {
				return &userapp.LoginResponse{UserID: "u1", Email: email}, userapp.TokenPair{
					AccessToken:        "acc",
					AccessTokenExpiry:  time.Now().Add(time.Hour),
					RefreshToken:       "ref",
					RefreshTokenExpiry: time.Now().Add(24 * time.Hour),
				}, nil
			},
		}
		r := newTestRouter(svc, "")
		w := doJSON(t, r, http.MethodPost, "/api/login", gin.H{"email": "alice@example.com", "password": "secret12"})

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		names := make([]string, 0, len(cookies))
		for _, c := range cookies {
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "access_token")
		assert.Contains(t, names, "refresh_token")
	})
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	t.Run("unknown field is rejected before the service is called", func(t *testing.T) {
		svc := &mockUserService{}
		r := newTestRouter(svc, "u1")

		w := doJSON(t, r, http.MethodPut, "/api/profile", gin.H{"email": "new@example.com"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, svc.updateProfileCalls)
	})

	t.Run("allowed fields reach the service", func(t *testing.T) {
		svc := &mockUserService{
			UpdateProfileFunc: func(ctx context.Context, userID string, in userapp.UpdateProfileInput) (*entity.User, error) {
				require.NotNil(t, in.FullName)
				assert.Equal(t, "Alice", *in.FullName)
				assert.Nil(t, in.AvatarURL)
				u := sampleUser()
				u.FullName = *in.FullName
				return u, nil
			},
		}
		r := newTestRouter(svc, "u1")

		w := doJSON(t, r, http.MethodPut, "/api/profile", gin.H{"full_name": "Alice"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"full_name":"Alice"`)
	})

	t.Run("absent user maps to 404", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "ghost")
		w := doJSON(t, r, http.MethodPut, "/api/profile", gin.H{"full_name": "Alice"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	cases := []struct {
		name       string
		svcErr     error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"weak password", userapp.ErrWeakPassword, http.StatusBadRequest},
		{"same password", userapp.ErrSamePassword, http.StatusBadRequest},
		{"incorrect password", userapp.ErrIncorrectPassword, http.StatusBadRequest},
		{"unknown user", userapp.ErrUserNotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockUserService{
				ChangePasswordFunc: func(ctx context.Context, userID, oldPassword, newPassword string) error {
					return tc.svcErr
				},
			}
			r := newTestRouter(svc, "u1")

			w := doJSON(t, r, http.MethodPost, "/api/profile/password", gin.H{
				"old_password": "oldpw123",
				"new_password": "newpw456",
			})

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.svcErr == nil {
				assert.Contains(t, w.Body.String(), `"changed":true`)
			}
		})
	}

	t.Run("missing fields rejected by binding", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "u1")
		w := doJSON(t, r, http.MethodPost, "/api/profile/password", gin.H{"old_password": "oldpw123"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_GetUser(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &mockUserService{
			GetUserByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
				if id == "u1" {
					return sampleUser(), nil
				}
				return nil, nil
			},
		}
		r := newTestRouter(svc, "u1")

		w := doJSON(t, r, http.MethodGet, "/api/users/u1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"u1"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("absent is 404", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "u1")
		w := doJSON(t, r, http.MethodGet, "/api/users/ghost", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserHandler_LookupByEmail(t *testing.T) {
	t.Run("missing parameter", func(t *testing.T) {
		r := newTestRouter(&mockUserService{}, "u1")
		w := doJSON(t, r, http.MethodGet, "/api/users", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("found", func(t *testing.T) {
		svc := &mockUserService{
			GetUserByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) {
				if email == "alice@example.com" {
					return sampleUser(), nil
				}
				return nil, nil
			},
		}
		r := newTestRouter(svc, "u1")

		w := doJSON(t, r, http.MethodGet, "/api/users?email=alice%40example.com", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"alice@example.com"`)
	})
}
