package services

import (
	"context"
	"log"
	"time"

	"spinbazar-backend/internal/models"
)

// WalletService implements the guarded balance mutations. Every debit and
// credit goes through the store's atomic scripts; this layer adds the
// business rules around them (xp accrual, card checks, audit records).
type WalletService struct {
	store *RedisService
}

func NewWalletService(store *RedisService) *WalletService {
	return &WalletService{store: store}
}

// XPForBet maps a bet amount onto the xp award brackets. Amounts above the
// highest bracket keep the top-tier award.
func XPForBet(betAmount float64) int64 {
	switch {
	case betAmount <= 50:
		return 20
	case betAmount <= 250:
		return 50
	default:
		return 100
	}
}

// BonusForXP is the daily bonus schedule: base 2, plus 1 per 10,000 xp,
// capped at +10.
func BonusForXP(xp int64) float64 {
	extra := xp / 10000
	if extra > 10 {
		extra = 10
	}
	return float64(2 + extra)
}

// PlaceBet debits the stake and awards xp. The debit is guarded in the
// store; the xp write is a separate document update, so a crash in between
// loses at most the xp award.
func (s *WalletService) PlaceBet(ctx context.Context, userID string, betAmount float64) (float64, error) {
	if betAmount <= 0 {
		return 0, ErrInvalidAmount
	}
	betAmount = models.Round2(betAmount)

	balance, err := s.store.DebitWallet(ctx, userID, betAmount)
	if err != nil {
		return 0, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err == nil {
		user.XP += XPForBet(betAmount)
		if err := s.store.SaveUser(ctx, user); err != nil {
			log.Printf("xp update for user %s failed: %v", userID, err)
		}
	}

	return balance, nil
}

// WinBet credits winnings with no upper guard.
func (s *WalletService) WinBet(ctx context.Context, userID string, winAmount float64) (float64, error) {
	if winAmount <= 0 {
		return 0, ErrInvalidAmount
	}
	return s.store.CreditWallet(ctx, userID, models.Round2(winAmount))
}

// Deposit validates the card, credits the balance and appends the audit
// record with masked card metadata only.
func (s *WalletService) Deposit(ctx context.Context, userID string, req *models.DepositRequest) (float64, *models.Payment, error) {
	if req.Amount <= 0 {
		return 0, nil, ErrInvalidAmount
	}

	card, err := ValidateCard(req.CardNumber, req.CVV, req.ExpireDate, time.Now())
	if err != nil {
		return 0, nil, err
	}

	amount := models.Round2(req.Amount)
	balance, err := s.store.CreditWallet(ctx, userID, amount)
	if err != nil {
		return 0, nil, err
	}

	payment := &models.Payment{
		ID:          models.GeneratePaymentID(),
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeDeposit,
		Status:      models.PaymentStatusCompleted,
		CardType:    card.Brand,
		Last4Digits: card.Last4Digits,
		CompletedAt: time.Now().Unix(),
	}
	if err := s.store.SavePayment(ctx, payment); err != nil {
		return 0, nil, err
	}

	return balance, payment, nil
}

// Withdraw debits with the balance guard and appends an audit record
// without card metadata.
func (s *WalletService) Withdraw(ctx context.Context, userID string, amount float64) (float64, *models.Payment, error) {
	if amount <= 0 {
		return 0, nil, ErrInvalidAmount
	}

	amount = models.Round2(amount)
	balance, err := s.store.DebitWallet(ctx, userID, amount)
	if err != nil {
		return 0, nil, err
	}

	payment := &models.Payment{
		ID:          models.GeneratePaymentID(),
		UserID:      userID,
		Amount:      amount,
		Type:        models.TransactionTypeWithdraw,
		Status:      models.PaymentStatusCompleted,
		CardType:    "N/A",
		Last4Digits: "N/A",
		CompletedAt: time.Now().Unix(),
	}
	if err := s.store.SavePayment(ctx, payment); err != nil {
		return 0, nil, err
	}

	return balance, payment, nil
}

// ClaimDailyBonus computes the xp-tiered bonus and applies it through the
// store's atomic check-and-credit.
func (s *WalletService) ClaimDailyBonus(ctx context.Context, userID string) (float64, float64, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	bonus := BonusForXP(user.XP)
	balance, err := s.store.ClaimDailyBonus(ctx, userID, bonus, time.Now())
	if err != nil {
		return 0, 0, err
	}
	return balance, bonus, nil
}

func (s *WalletService) AddHistory(ctx context.Context, userID string, req *models.AddHistoryRequest) (*models.History, error) {
	entry := &models.History{
		ID:        models.GenerateHistoryID(),
		UserID:    userID,
		Game:      req.Game,
		BetAmount: models.Round2(req.BetAmount),
		WinAmount: models.Round2(req.WinAmount),
		Date:      time.Now().Unix(),
	}
	if err := s.store.SaveHistory(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *WalletService) GetHistory(ctx context.Context, userID, game string) ([]*models.History, error) {
	return s.store.GetUserHistory(ctx, userID, game, 50)
}
