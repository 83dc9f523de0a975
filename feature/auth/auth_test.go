package auth_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quiz-manager/core/api"
	"quiz-manager/core/domain"
	"quiz-manager/core/tokens"
	"quiz-manager/feature/auth"
	"quiz-manager/feature/auth/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func accessToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      "42",
		"user_id":  42,
		"username": "ada",
		"exp":      exp.Unix(),
	})
	signed, err := token.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return signed
}

func setupTestApp() (*fiber.App, *mocks.Backend, *tokens.MemoryStore) {
	app := fiber.New()
	backend := new(mocks.Backend)
	store := tokens.NewMemoryStore()
	backend.On("Tokens").Return(store).Maybe()
	_ = auth.NewFeature(backend, nil).Load(app)
	return app, backend, store
}

func send(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestService_WhoAmI(t *testing.T) {
	backend := new(mocks.Backend)
	store := tokens.NewMemoryStore()
	backend.On("Tokens").Return(store)
	svc := auth.NewService(backend, nil)

	_, err := svc.WhoAmI(context.Background())
	assert.ErrorIs(t, err, domain.ErrAuth)

	require.NoError(t, store.Set(context.Background(), domain.TokenPair{
		Access:  accessToken(t, time.Now().Add(time.Hour)),
		Refresh: "r",
	}))
	sess, err := svc.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	require.NotNil(t, sess.Claims)
	assert.Equal(t, "ada", sess.Claims.Username)
	assert.Equal(t, "42", sess.Claims.UserID)
	assert.False(t, sess.Expired)

	require.NoError(t, store.Set(context.Background(), domain.TokenPair{Access: "opaque", Refresh: "r"}))
	sess, err = svc.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.True(t, sess.Authenticated)
	assert.Nil(t, sess.Claims)
}

func TestHandleLogin(t *testing.T) {
	app, backend, _ := setupTestApp()
	access := accessToken(t, time.Now().Add(-time.Minute))
	backend.On("Login", mock.Anything, domain.Credentials{Username: "ada", Password: "pw"}).
		Return(domain.TokenPair{Access: access, Refresh: "r"}, nil)
	backend.On("Login", mock.Anything, domain.Credentials{Username: "ada", Password: "bad"}).
		Return(domain.TokenPair{}, domain.ErrAuth)

	status, body := send(t, app, "POST", "/auth/login", `{"username": "ada", "password": "pw"}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, true, body["expired"])
	assert.NotContains(t, body, "access")

	status, _ = send(t, app, "POST", "/auth/login", `{"username": "ada", "password": "bad"}`)
	assert.Equal(t, 401, status)
}

func TestHandleRegister(t *testing.T) {
	app, backend, _ := setupTestApp()
	backend.On("Register", mock.Anything, mock.MatchedBy(func(r domain.Registration) bool { return r.Username == "ada" })).
		Return(api.RegisteredUser{ID: "7", Username: "ada"}, nil)
	backend.On("Register", mock.Anything, mock.MatchedBy(func(r domain.Registration) bool { return r.Username == "taken" })).
		Return(api.RegisteredUser{}, &domain.ValidationError{Field: "username", Reason: "already exists", Offending: []string{"taken"}})

	status, body := send(t, app, "POST", "/auth/register", `{"username": "ada", "password": "pw"}`)
	assert.Equal(t, 201, status)
	assert.Equal(t, "ada", body["username"])

	status, body = send(t, app, "POST", "/auth/register", `{"username": "taken", "password": "pw"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, []any{"taken"}, body["offending"])
}

func TestHandleLogoutAndWhoAmI(t *testing.T) {
	app, backend, store := setupTestApp()
	backend.On("Logout", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		_ = store.Clear(context.Background())
	})
	require.NoError(t, store.Set(context.Background(), domain.TokenPair{Access: accessToken(t, time.Now().Add(time.Hour)), Refresh: "r"}))

	status, body := send(t, app, "GET", "/auth/whoami", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "ada", body["claims"].(map[string]any)["username"])

	status, _ = send(t, app, "POST", "/auth/logout", "")
	assert.Equal(t, 204, status)

	status, _ = send(t, app, "GET", "/auth/whoami", "")
	assert.Equal(t, 401, status)
}
