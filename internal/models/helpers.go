package models

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func GeneratePaymentID() string {
	return fmt.Sprintf("pay_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

func GenerateHistoryID() string {
	return fmt.Sprintf("hist_%s_%d",
		time.Now().Format("20060102"),
		uuid.New().ID())
}

const addressCharset = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// GenerateWalletAddress returns a random base58-style deposit address of the
// given length. 34 characters gives a collision probability close to zero.
func GenerateWalletAddress(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate address: %v", err)
	}
	for i, b := range buf {
		buf[i] = addressCharset[int(b)%len(addressCharset)]
	}
	return string(buf), nil
}

// Round2 rounds a money amount to two decimal places. Every balance and
// payment amount goes through this before being written.
func Round2(amount float64) float64 {
	rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return rounded
}

func NewUser(userName, email, passwordHash, birthDate string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.NewString(),
		UserName:     userName,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		IsActive:     true,
		XP:           1000,
		VIPStatus:    "none",
		BirthDate:    birthDate,
		CreatedAt:    now,
		LastLogin:    now,
	}
}

// NewWallet builds a zero-balance wallet with three freshly generated deposit
// addresses. The bonus timestamp is seeded a day in the past so a new account
// can claim its first daily bonus immediately.
func NewWallet(userID string) (*Wallet, error) {
	usdt, err := GenerateWalletAddress(34)
	if err != nil {
		return nil, err
	}
	ltc, err := GenerateWalletAddress(34)
	if err != nil {
		return nil, err
	}
	btc, err := GenerateWalletAddress(34)
	if err != nil {
		return nil, err
	}

	return &Wallet{
		UserID:              userID,
		Balance:             0,
		USDTAddress:         usdt,
		LTCAddress:          ltc,
		BTCAddress:          btc,
		DailyBonusClaimedAt: time.Now().Add(-24 * time.Hour).Unix(),
	}, nil
}
