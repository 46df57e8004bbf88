package services

import "time"

const (
	KeyUser         = "user:%s"
	KeyUserByName   = "username:%s"
	KeyUserByEmail  = "email:%s"
	KeyAllUsers     = "users"
	KeyWallet       = "wallet:%s"
	KeyAddress      = "address:%s"
	KeyPayment      = "payment:%s"
	KeyUserPayments = "user:%s:payments"
	KeyHistory      = "history:%s"
	KeyUserHistory  = "user:%s:history"
	KeyRefreshToken = "refresh:%s"
	KeyRateLimit    = "ratelimit:%s:%s"

	// Refresh tokens outlive their JWT expiry in the registry by nothing:
	// the key TTL mirrors the token lifetime, so redis cleans up after us.
	RefreshTokenTTL = 7 * 24 * time.Hour

	AccessTokenTTL = 30 * time.Minute

	DefaultRateLimitBets = 30 // Max 30 bets per minute
)
