package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"spinbazar-backend/internal/models"
)

const bcryptCost = 10

const birthDateLayout = "2006-01-02"

// AuthService implements registration, login and the credential-change
// operations. Field-level validation happens at the handler boundary;
// business rules live here.
type AuthService struct {
	store  *RedisService
	tokens *TokenService
	mailer Mailer
}

func NewAuthService(store *RedisService, tokens *TokenService, mailer Mailer) *AuthService {
	return &AuthService{store: store, tokens: tokens, mailer: mailer}
}

// Register creates the identity and its wallet and issues the first token
// pair. Checks run in order: uniqueness, password confirmation, age. The
// welcome email goes out on a separate goroutine and cannot fail the
// registration.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, *models.Wallet, *models.TokenPair, error) {
	taken, err := s.store.UserNameOrEmailTaken(ctx, req.UserName, req.Email)
	if err != nil {
		return nil, nil, nil, err
	}
	if taken {
		return nil, nil, nil, ErrUserExists
	}

	if req.Password != req.PasswordConfirmation {
		return nil, nil, nil, ErrPasswordMismatch
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad birth date", ErrUnderage)
	}
	if ageAt(birthDate, time.Now()) < 18 {
		return nil, nil, nil, ErrUnderage
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := models.NewUser(req.UserName, req.Email, string(hash), req.BirthDate)
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, nil, nil, err
	}

	wallet, err := s.provisionWallet(ctx, user.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID, user.UserName, user.Role)
	if err != nil {
		return nil, nil, nil, err
	}

	go func(email, userName string) {
		if err := s.mailer.SendWelcomeEmail(email, userName); err != nil {
			log.Printf("welcome email to %s failed: %v", email, err)
		}
	}(user.Email, user.UserName)

	return user, wallet, pair, nil
}

// provisionWallet creates exactly one wallet, regenerating all three
// addresses whenever the atomic claim loses to an existing address. With
// 34-character addresses a collision is all but impossible, so the loop
// terminates in one pass in practice.
func (s *AuthService) provisionWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	for {
		wallet, err := models.NewWallet(userID)
		if err != nil {
			return nil, err
		}

		created, err := s.store.CreateWallet(ctx, wallet)
		if err != nil {
			return nil, err
		}
		if created {
			return wallet, nil
		}
		log.Printf("wallet address collision for user %s, regenerating", userID)
	}
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, *models.Wallet, *models.TokenPair, error) {
	user, err := s.store.GetUserByName(ctx, req.UserName)
	if err != nil {
		return nil, nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, nil, ErrAccountSuspended
	}

	user.LastLogin = time.Now().Unix()
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, nil, nil, err
	}

	wallet, err := s.store.GetWallet(ctx, user.ID)
	if err != nil {
		return nil, nil, nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, user.ID, user.UserName, user.Role)
	if err != nil {
		return nil, nil, nil, err
	}

	return user, wallet, pair, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	user.PasswordHash = string(hash)
	return s.store.SaveUser(ctx, user)
}

func (s *AuthService) ChangeEmail(ctx context.Context, userID, password, newEmail string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	return s.store.ChangeUserEmail(ctx, user, newEmail)
}

// Deactivate lets a user suspend their own account after re-entering the
// password. Reactivation is an admin operation.
func (s *AuthService) Deactivate(ctx context.Context, userID, password string) error {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	user.IsActive = false
	return s.store.SaveUser(ctx, user)
}

// ageAt mirrors the registration age rule: the UTC year component of the
// elapsed duration since birth.
func ageAt(birthDate, now time.Time) int {
	if birthDate.After(now) {
		return 0
	}
	return time.Unix(now.Unix()-birthDate.Unix(), 0).UTC().Year() - 1970
}
