package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spinbazar-backend/internal/config"
	"spinbazar-backend/internal/handlers"
	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/models"
	"spinbazar-backend/internal/services"
)

type apiEnv struct {
	router *gin.Engine
	store  *services.RedisService
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := services.NewRedisServiceWithClient(client)
	cfg := &config.Config{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"}
	tokens := services.NewTokenService(services.NewJWTService(cfg), store)
	auth := services.NewAuthService(store, tokens, services.LogMailer{})
	wallets := services.NewWalletService(store)

	authHandler := handlers.NewAuthHandler(auth, tokens)
	betHandler := handlers.NewBetHandler(wallets)
	bonusHandler := handlers.NewBonusHandler(wallets)
	paymentsHandler := handlers.NewPaymentsHandler(wallets)
	userHandler := handlers.NewUserHandler(auth, store)
	adminHandler := handlers.NewAdminHandler(store)

	router := gin.New()
	authGate := middleware.Auth(tokens, store)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/refresh", authHandler.Refresh)
	router.POST("/auth/logout", authHandler.Logout)
	router.POST("/bet/placebet", authGate, betHandler.PlaceBet)
	router.POST("/bet/winbet", authGate, betHandler.WinBet)
	router.POST("/bonus/claimdaily", authGate, bonusHandler.ClaimDaily)
	router.POST("/payments/deposit", authGate, paymentsHandler.Deposit)
	router.POST("/payments/withdraw", authGate, paymentsHandler.Withdraw)
	router.GET("/user/account", authGate, userHandler.Account)
	router.PUT("/user/changepassword", authGate, userHandler.ChangePassword)
	admin := router.Group("/admin", authGate, middleware.Admin())
	admin.GET("/getusers", adminHandler.GetUsers)
	admin.PUT("/suspenduser/:id", adminHandler.SuspendUser)
	admin.PUT("/activateuser/:id", adminHandler.ActivateUser)
	admin.PUT("/edituser/:id", adminHandler.EditUser)

	return &apiEnv{router: router, store: store}
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func refreshCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	t.Fatal("refresh cookie not set")
	return nil
}

var registerBody = map[string]string{
	"userName":             "alice",
	"email":                "alice@example.com",
	"password":             "Passw0rd1",
	"passwordConfirmation": "Passw0rd1",
	"birthDate":            "2006-01-15",
}

// TestRegisterLoginBetDepositFlow walks the whole happy path: register,
// login, a bet that fails on an empty wallet, a card deposit, then a bet
// that succeeds and awards xp.
func TestRegisterLoginBetDepositFlow(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode(t, w)
	require.NotEmpty(t, reg["token"])
	refreshCookie(t, w)

	wallet := reg["wallet"].(map[string]interface{})
	assert.Equal(t, 0.0, wallet["balance"])

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"userName": "alice", "password": "Passw0rd1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	// Empty wallet: the bet is rejected and nothing changes.
	w = env.do(t, http.MethodPost, "/bet/placebet", token, map[string]float64{"betAmount": 30})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Insufficient balance.", decode(t, w)["message"])

	w = env.do(t, http.MethodPost, "/payments/deposit", token, map[string]interface{}{
		"amount":     100,
		"cardnumber": "4111111111111111",
		"cvv":        "123",
		"expireDate": "12/30",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 100.0, decode(t, w)["balance"])

	w = env.do(t, http.MethodPost, "/bet/placebet", token, map[string]float64{"betAmount": 30})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 70.0, decode(t, w)["balance"])

	// xp bracket for a 30 unit bet is +20 on the 1000 starting xp.
	w = env.do(t, http.MethodGet, "/user/account", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	userData := decode(t, w)["userData"].(map[string]interface{})
	assert.Equal(t, 1020.0, userData["xp"])

	// The deposit audit record is present and masked.
	transactions := decode(t, w)["transactions"].([]interface{})
	require.Len(t, transactions, 1)
	tx := transactions[0].(map[string]interface{})
	assert.Equal(t, "deposit", tx["transactionType"])
	_, hasCard := tx["last4_digits"]
	assert.False(t, hasCard)
}

func TestRefreshRotationViaCookie(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	first := refreshCookie(t, w)

	w = env.do(t, http.MethodPost, "/auth/refresh", "", nil, first)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	second := refreshCookie(t, w)
	assert.NotEqual(t, first.Value, second.Value)

	// Replaying the consumed cookie fails.
	w = env.do(t, http.MethodPost, "/auth/refresh", "", nil, first)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The new one works.
	w = env.do(t, http.MethodPost, "/auth/refresh", "", nil, second)
	assert.Equal(t, http.StatusOK, w.Code)

	// No cookie at all.
	w = env.do(t, http.MethodPost, "/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := refreshCookie(t, w)

	w = env.do(t, http.MethodPost, "/auth/logout", "", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/auth/refresh", "", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSuspendedUserIsLockedOut(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["token"].(string)

	user, err := env.store.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, env.store.SaveUser(ctx, user))

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/bet/placebet"},
		{http.MethodPost, "/bonus/claimdaily"},
		{http.MethodGet, "/user/account"},
	} {
		w = env.do(t, route.method, route.path, token, map[string]float64{"betAmount": 1})
		assert.Equal(t, http.StatusForbidden, w.Code, route.path)
	}

	// And login is refused outright.
	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"userName": "alice", "password": "Passw0rd1",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminSuspendAndActivate(t *testing.T) {
	env := newAPIEnv(t)
	ctx := context.Background()

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	// Promote a second account to admin directly in the store.
	adminBody := map[string]string{
		"userName":             "root",
		"email":                "root@example.com",
		"password":             "Passw0rd1",
		"passwordConfirmation": "Passw0rd1",
		"birthDate":            "1990-01-01",
	}
	w = env.do(t, http.MethodPost, "/auth/register", "", adminBody)
	require.Equal(t, http.StatusCreated, w.Code)

	admin, err := env.store.GetUserByName(ctx, "root")
	require.NoError(t, err)
	admin.Role = models.RoleAdmin
	require.NoError(t, env.store.SaveUser(ctx, admin))

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"userName": "root", "password": "Passw0rd1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	adminToken := decode(t, w)["token"].(string)

	alice, err := env.store.GetUserByName(ctx, "alice")
	require.NoError(t, err)

	w = env.do(t, http.MethodPut, "/admin/suspenduser/"+alice.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, "/admin/suspenduser/"+alice.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/admin/suspenduser/"+admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, "/admin/activateuser/"+alice.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/admin/getusers", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]interface{})
	assert.Len(t, users, 2)
}

func TestRegisterValidationErrors(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"userName": "", "email": "not-an-email", "password": "weak",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].([]interface{})
	assert.NotEmpty(t, errs)
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	w := env.do(t, http.MethodPost, "/auth/register", "", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)
	token := decode(t, w)["token"].(string)

	w = env.do(t, http.MethodPut, "/user/changepassword", token, map[string]string{
		"oldPassword":             "Passw0rd1",
		"newPassword":             "NewPassw0rd1",
		"newPasswordConfirmation": "NewPassw0rd1",
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"userName": "alice", "password": "NewPassw0rd1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
