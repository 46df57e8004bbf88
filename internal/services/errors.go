package services

import "errors"

// Business failures surfaced by the service layer. Handlers map these onto
// HTTP statuses; anything else is treated as an internal server error.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already in use")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUnderage           = errors.New("must be at least 18 years old")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountSuspended   = errors.New("account suspended")

	ErrWalletNotFound      = errors.New("wallet not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBonusAlreadyClaimed = errors.New("daily bonus already claimed")
	ErrInvalidAmount       = errors.New("amount must be positive")

	ErrInvalidCardNumber = errors.New("invalid card number")
	ErrInvalidCVV        = errors.New("invalid cvv")
	ErrInvalidExpiry     = errors.New("invalid expiration date")

	ErrTokenInvalid  = errors.New("invalid or expired token")
	ErrTokenMissing  = errors.New("no token provided")
	ErrRefreshReused = errors.New("refresh token already used or expired")

	ErrCannotSuspendAdmin = errors.New("cannot suspend an admin")
	ErrAlreadySuspended   = errors.New("user already suspended")
	ErrAlreadyActive      = errors.New("user already active")
)
