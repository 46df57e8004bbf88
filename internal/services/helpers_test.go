package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"spinbazar-backend/internal/config"
	"spinbazar-backend/internal/models"
)

func newTestStore(t *testing.T) (*RedisService, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisServiceWithClient(client), mr
}

func testConfig() *config.Config {
	return &config.Config{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
	}
}

func newTestTokenService(t *testing.T) (*TokenService, *RedisService) {
	t.Helper()
	store, _ := newTestStore(t)
	return NewTokenService(NewJWTService(testConfig()), store), store
}

func seedUserWithWallet(t *testing.T, store *RedisService, balance float64, xp int64) *models.User {
	t.Helper()
	ctx := context.Background()

	user := models.NewUser("tester", "tester@example.com", "not-a-real-hash", "1990-05-04")
	user.XP = xp
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	wallet, err := models.NewWallet(user.ID)
	if err != nil {
		t.Fatalf("failed to build wallet: %v", err)
	}
	wallet.Balance = balance
	created, err := store.CreateWallet(ctx, wallet)
	if err != nil || !created {
		t.Fatalf("failed to seed wallet: created=%v err=%v", created, err)
	}

	return user
}
