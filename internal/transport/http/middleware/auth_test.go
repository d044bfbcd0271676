package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/mafia-game/mafia-backend/internal/domain"
	"github.com/mafia-game/mafia-backend/internal/transport/http/middleware"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepo struct {
	findByID func(ctx context.Context, id int64) (*domain.User, error)
}

func (r *fakeUserRepo) Create(_ context.Context, _, _, _ string) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	panic("not used")
}

func (r *fakeUserRepo) SetVerified(_ context.Context, _ int64) error { panic("not used") }

func (r *fakeUserRepo) UpdatePassword(_ context.Context, _ int64, _ string) error {
	panic("not used")
}

// newEngine builds a minimal gin engine with Auth + LoadUser protecting
// GET /protected. The handler writes the loaded username so we can
// assert the full chain ran.
func newEngine(repo *fakeUserRepo) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth([]byte(testKey)), middleware.LoadUser(repo), func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		c.String(http.StatusOK, "%s", user.Username)
	})
	return r
}

func makeJWT(t *testing.T, key []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatalf("sign jwt: %v", err)
	}
	return s
}

func activeRepo() *fakeUserRepo {
	return &fakeUserRepo{
		findByID: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice", IsActive: true, IsVerified: true}, nil
		},
	}
}

func get(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w := get(newEngine(activeRepo()), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	w := get(newEngine(activeRepo()), "Basic dXNlcjpwYXNz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns401(t *testing.T) {
	w := get(newEngine(activeRepo()), "Bearer not.a.jwt")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ExpiredToken_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(-time.Hour).Unix(),
		"iat": time.Now().Add(-2 * time.Hour).Unix(),
	})

	w := get(newEngine(activeRepo()), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_WrongSigningKey_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte("different-key-that-is-32-chars!!"), jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := get(newEngine(activeRepo()), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NonNumericSubject_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "not-a-number",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := get(newEngine(activeRepo()), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ValidToken_LoadsUser(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub":      "42",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	})

	var fetchedID int64
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, id int64) (*domain.User, error) {
			fetchedID = id
			return &domain.User{ID: id, Username: "alice", IsActive: true}, nil
		},
	}

	w := get(newEngine(repo), "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if fetchedID != 42 {
		t.Errorf("fetched user %d, want 42", fetchedID)
	}
	if w.Body.String() != "alice" {
		t.Errorf("body = %q, want alice", w.Body.String())
	}
}

// A session that is still valid by expiry is rejected once the account
// is deactivated; the check lives at the account-fetch stage.
func TestLoadUser_InactiveAccount_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	repo := &fakeUserRepo{
		findByID: func(_ context.Context, id int64) (*domain.User, error) {
			return &domain.User{ID: id, Username: "alice", IsActive: false}, nil
		},
	}

	w := get(newEngine(repo), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLoadUser_MissingAccount_Returns401(t *testing.T) {
	tok := makeJWT(t, []byte(testKey), jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	repo := &fakeUserRepo{
		findByID: func(_ context.Context, _ int64) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	w := get(newEngine(repo), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
