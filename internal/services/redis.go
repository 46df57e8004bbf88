package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"spinbazar-backend/internal/config"
	"spinbazar-backend/internal/models"
)

// RedisService is the document store. Users, wallets, payments and history
// entries are JSON documents under typed keys; uniqueness of usernames,
// emails and deposit addresses is enforced through index keys claimed with
// SETNX/MSETNX. It also owns the outstanding-refresh-token registry.
type RedisService struct {
	client *redis.Client
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &RedisService{client: client}, nil
}

// NewRedisServiceWithClient wraps an existing client. Used by tests.
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// --- users ---

// CreateUser persists a new user document after claiming the username and
// email index keys. A lost SETNX race on either key means the name is taken.
func (s *RedisService) CreateUser(ctx context.Context, user *models.User) error {
	nameKey := fmt.Sprintf(KeyUserByName, user.UserName)
	emailKey := fmt.Sprintf(KeyUserByEmail, user.Email)

	ok, err := s.client.SetNX(ctx, nameKey, user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim username: %v", err)
	}
	if !ok {
		return ErrUserExists
	}

	ok, err = s.client.SetNX(ctx, emailKey, user.ID, 0).Result()
	if err != nil {
		s.client.Del(ctx, nameKey)
		return fmt.Errorf("failed to claim email: %v", err)
	}
	if !ok {
		s.client.Del(ctx, nameKey)
		return ErrUserExists
	}

	if err := s.saveUserDoc(ctx, user); err != nil {
		s.client.Del(ctx, nameKey, emailKey)
		return err
	}

	return s.client.SAdd(ctx, KeyAllUsers, user.ID).Err()
}

func (s *RedisService) saveUserDoc(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %v", err)
	}
	return s.client.Set(ctx, fmt.Sprintf(KeyUser, user.ID), data, 0).Err()
}

// SaveUser rewrites an existing user document. Username and email index keys
// are untouched; use ChangeUserEmail when the email changes.
func (s *RedisService) SaveUser(ctx context.Context, user *models.User) error {
	return s.saveUserDoc(ctx, user)
}

func (s *RedisService) GetUser(ctx context.Context, id string) (*models.User, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(KeyUser, id)).Result()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %v", err)
	}
	return &user, nil
}

func (s *RedisService) GetUserByName(ctx context.Context, userName string) (*models.User, error) {
	id, err := s.client.Get(ctx, fmt.Sprintf(KeyUserByName, userName)).Result()
	if err == redis.Nil {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up username: %v", err)
	}
	return s.GetUser(ctx, id)
}

// UserNameOrEmailTaken reports whether either index key already exists. The
// registration flow checks this up front so conflicts are reported before
// the other business rules run; CreateUser still enforces uniqueness at
// write time.
func (s *RedisService) UserNameOrEmailTaken(ctx context.Context, userName, email string) (bool, error) {
	n, err := s.client.Exists(ctx,
		fmt.Sprintf(KeyUserByName, userName),
		fmt.Sprintf(KeyUserByEmail, email),
	).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check uniqueness: %v", err)
	}
	return n > 0, nil
}

// ChangeUserEmail moves the email index key and rewrites the document. The
// new address is claimed before the old one is released, so a duplicate
// ends up as ErrUserExists rather than a stolen index entry.
func (s *RedisService) ChangeUserEmail(ctx context.Context, user *models.User, newEmail string) error {
	if newEmail == user.Email {
		return s.saveUserDoc(ctx, user)
	}

	newKey := fmt.Sprintf(KeyUserByEmail, newEmail)
	ok, err := s.client.SetNX(ctx, newKey, user.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to claim email: %v", err)
	}
	if !ok {
		return ErrUserExists
	}

	s.client.Del(ctx, fmt.Sprintf(KeyUserByEmail, user.Email))
	user.Email = newEmail
	return s.saveUserDoc(ctx, user)
}

func (s *RedisService) ListUsers(ctx context.Context) ([]*models.User, error) {
	ids, err := s.client.SMembers(ctx, KeyAllUsers).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %v", err)
	}

	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.GetUser(ctx, id)
		if err != nil {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// --- wallets ---

// CreateWallet claims the three deposit-address index keys atomically
// (MSETNX: all or nothing) and persists the wallet document. Returns false
// without error when any address is already taken, so the caller can
// regenerate and retry.
func (s *RedisService) CreateWallet(ctx context.Context, wallet *models.Wallet) (bool, error) {
	pairs := make([]interface{}, 0, 6)
	for _, addr := range wallet.Addresses() {
		pairs = append(pairs, fmt.Sprintf(KeyAddress, addr), wallet.UserID)
	}

	ok, err := s.client.MSetNX(ctx, pairs...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim addresses: %v", err)
	}
	if !ok {
		return false, nil
	}

	if err := s.SaveWallet(ctx, wallet); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisService) SaveWallet(ctx context.Context, wallet *models.Wallet) error {
	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %v", err)
	}
	return s.client.Set(ctx, fmt.Sprintf(KeyWallet, wallet.UserID), data, 0).Err()
}

func (s *RedisService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(KeyWallet, userID)).Result()
	if err == redis.Nil {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %v", err)
	}

	var wallet models.Wallet
	if err := json.Unmarshal([]byte(data), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %v", err)
	}
	return &wallet, nil
}

const (
	walletStatusNotFound    int64 = 0
	walletStatusGuardFailed int64 = 1
	walletStatusOK          int64 = 2
)

// All balance mutation runs inside redis so concurrent operations on the
// same wallet never lose updates. Guards live in the script, not in Go.
var debitWalletScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
  return {0}
end
local wallet = cjson.decode(data)
local amount = tonumber(ARGV[1])
if wallet.balance < amount then
  return {1}
end
wallet.balance = math.floor((wallet.balance - amount) * 100 + 0.5) / 100
redis.call("SET", KEYS[1], cjson.encode(wallet))
return {2, tostring(wallet.balance)}
`)

var creditWalletScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
  return {0}
end
local wallet = cjson.decode(data)
wallet.balance = math.floor((wallet.balance + tonumber(ARGV[1])) * 100 + 0.5) / 100
redis.call("SET", KEYS[1], cjson.encode(wallet))
return {2, tostring(wallet.balance)}
`)

var claimBonusScript = redis.NewScript(`
local data = redis.call("GET", KEYS[1])
if not data then
  return {0}
end
local wallet = cjson.decode(data)
local now = tonumber(ARGV[1])
if now - wallet.daily_bonus_claimed_at < tonumber(ARGV[2]) then
  return {1}
end
wallet.balance = math.floor((wallet.balance + tonumber(ARGV[3])) * 100 + 0.5) / 100
wallet.daily_bonus_claimed_at = now
redis.call("SET", KEYS[1], cjson.encode(wallet))
return {2, tostring(wallet.balance)}
`)

// DebitWallet subtracts amount if the balance covers it and returns the new
// balance. ErrInsufficientBalance leaves the wallet untouched.
func (s *RedisService) DebitWallet(ctx context.Context, userID string, amount float64) (float64, error) {
	key := fmt.Sprintf(KeyWallet, userID)
	res, err := debitWalletScript.Run(ctx, s.client, []string{key}, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("debit script failed: %v", err)
	}
	return parseWalletScriptResult(res, ErrInsufficientBalance)
}

// CreditWallet adds amount unconditionally and returns the new balance.
func (s *RedisService) CreditWallet(ctx context.Context, userID string, amount float64) (float64, error) {
	key := fmt.Sprintf(KeyWallet, userID)
	res, err := creditWalletScript.Run(ctx, s.client, []string{key}, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("credit script failed: %v", err)
	}
	return parseWalletScriptResult(res, nil)
}

// ClaimDailyBonus credits the bonus and stamps the claim time in one script,
// failing with ErrBonusAlreadyClaimed inside the 24h window. Two concurrent
// claims cannot both succeed.
func (s *RedisService) ClaimDailyBonus(ctx context.Context, userID string, bonus float64, now time.Time) (float64, error) {
	key := fmt.Sprintf(KeyWallet, userID)
	window := int64((24 * time.Hour).Seconds())
	res, err := claimBonusScript.Run(ctx, s.client, []string{key}, now.Unix(), window, bonus).Result()
	if err != nil {
		return 0, fmt.Errorf("bonus script failed: %v", err)
	}
	return parseWalletScriptResult(res, ErrBonusAlreadyClaimed)
}

func parseWalletScriptResult(res interface{}, guardErr error) (float64, error) {
	values, ok := res.([]interface{})
	if !ok || len(values) == 0 {
		return 0, fmt.Errorf("unexpected script result: %v", res)
	}

	status, ok := values[0].(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected script status: %v", values[0])
	}

	switch status {
	case walletStatusNotFound:
		return 0, ErrWalletNotFound
	case walletStatusGuardFailed:
		if guardErr == nil {
			guardErr = fmt.Errorf("wallet guard failed")
		}
		return 0, guardErr
	case walletStatusOK:
		if len(values) < 2 {
			return 0, fmt.Errorf("script result missing balance")
		}
		raw, ok := values[1].(string)
		if !ok {
			return 0, fmt.Errorf("unexpected balance value: %v", values[1])
		}
		balance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse balance: %v", err)
		}
		return balance, nil
	default:
		return 0, fmt.Errorf("unknown script status %d", status)
	}
}

// --- payments ---

func (s *RedisService) SavePayment(ctx context.Context, payment *models.Payment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %v", err)
	}

	if err := s.client.Set(ctx, fmt.Sprintf(KeyPayment, payment.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save payment: %v", err)
	}

	userKey := fmt.Sprintf(KeyUserPayments, payment.UserID)
	return s.client.ZAdd(ctx, userKey, redis.Z{
		Score:  float64(payment.CompletedAt),
		Member: payment.ID,
	}).Err()
}

func (s *RedisService) GetUserPayments(ctx context.Context, userID string, limit int64) ([]*models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	ids, err := s.client.ZRevRange(ctx, fmt.Sprintf(KeyUserPayments, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment ids: %v", err)
	}

	payments := make([]*models.Payment, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, fmt.Sprintf(KeyPayment, id)).Result()
		if err != nil {
			continue
		}
		var payment models.Payment
		if err := json.Unmarshal([]byte(data), &payment); err != nil {
			continue
		}
		payments = append(payments, &payment)
	}
	return payments, nil
}

// --- history ---

func (s *RedisService) SaveHistory(ctx context.Context, entry *models.History) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %v", err)
	}

	if err := s.client.Set(ctx, fmt.Sprintf(KeyHistory, entry.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save history: %v", err)
	}

	userKey := fmt.Sprintf(KeyUserHistory, entry.UserID)
	return s.client.ZAdd(ctx, userKey, redis.Z{
		Score:  float64(entry.Date),
		Member: entry.ID,
	}).Err()
}

// GetUserHistory returns the most recent rounds, optionally filtered to a
// single game.
func (s *RedisService) GetUserHistory(ctx context.Context, userID, game string, limit int64) ([]*models.History, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	ids, err := s.client.ZRevRange(ctx, fmt.Sprintf(KeyUserHistory, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history ids: %v", err)
	}

	entries := make([]*models.History, 0, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, fmt.Sprintf(KeyHistory, id)).Result()
		if err != nil {
			continue
		}
		var entry models.History
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			continue
		}
		if game != "" && entry.Game != game {
			continue
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// --- refresh token registry ---

func (s *RedisService) PutRefreshToken(ctx context.Context, jti, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, fmt.Sprintf(KeyRefreshToken, jti), userID, ttl).Err()
}

// TakeRefreshToken removes and returns the registry entry in one step
// (GETDEL), so of two concurrent rotations of the same token exactly one
// sees it.
func (s *RedisService) TakeRefreshToken(ctx context.Context, jti string) (bool, error) {
	_, err := s.client.GetDel(ctx, fmt.Sprintf(KeyRefreshToken, jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to take refresh token: %v", err)
	}
	return true, nil
}

func (s *RedisService) DeleteRefreshToken(ctx context.Context, jti string) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyRefreshToken, jti)).Err()
}

// --- rate limiting ---

func (s *RedisService) CheckRateLimit(ctx context.Context, userID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}
	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}
