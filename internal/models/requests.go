package models

import (
	"regexp"
	"strings"
	"unicode"
)

// FieldError reports a single failed validation rule on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type RegisterRequest struct {
	UserName             string `json:"userName"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	BirthDate            string `json:"birthDate"`
}

func (r *RegisterRequest) Validate() []FieldError {
	var errs []FieldError

	if strings.TrimSpace(r.UserName) == "" {
		errs = append(errs, FieldError{Field: "userName", Message: "Username is required."})
	}
	if !emailPattern.MatchString(r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email."})
	}
	errs = append(errs, ValidatePassword("password", r.Password)...)
	if strings.TrimSpace(r.BirthDate) == "" {
		errs = append(errs, FieldError{Field: "birthDate", Message: "Birthdate is required."})
	}

	return errs
}

// ValidatePassword enforces the site-wide password policy: at least 8
// characters, one uppercase letter and one digit.
func ValidatePassword(field, password string) []FieldError {
	var errs []FieldError

	if len(password) < 8 {
		errs = append(errs, FieldError{Field: field, Message: "Password must be at least 8 characters."})
	}
	hasUpper := false
	hasDigit := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, FieldError{Field: field, Message: "Password must contain at least one uppercase letter."})
	}
	if !hasDigit {
		errs = append(errs, FieldError{Field: field, Message: "Password must contain at least one number."})
	}

	return errs
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

type PlaceBetRequest struct {
	BetAmount float64 `json:"betAmount"`
}

type WinBetRequest struct {
	WinAmount float64 `json:"winAmount"`
}

type DepositRequest struct {
	Amount     float64 `json:"amount"`
	CardNumber string  `json:"cardnumber"`
	CVV        string  `json:"cvv"`
	ExpireDate string  `json:"expireDate"`
}

type WithdrawRequest struct {
	Amount float64 `json:"amount"`
}

type ChangePasswordRequest struct {
	OldPassword             string `json:"oldPassword"`
	NewPassword             string `json:"newPassword"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation"`
}

type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail"`
	Password string `json:"password"`
}

type DeactivateRequest struct {
	Password string `json:"password"`
}

type AddHistoryRequest struct {
	Game      string  `json:"game"`
	BetAmount float64 `json:"betAmount"`
	WinAmount float64 `json:"winAmount"`
}

// EditUserRequest is the admin patch payload. Nil fields are left untouched.
type EditUserRequest struct {
	Email *string `json:"email"`
	XP    *int64  `json:"xp"`
	Role  *string `json:"role"`
}

func (r *EditUserRequest) Validate() []FieldError {
	var errs []FieldError

	if r.Email != nil && !emailPattern.MatchString(*r.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Invalid email."})
	}
	if r.XP != nil && *r.XP < 0 {
		errs = append(errs, FieldError{Field: "xp", Message: "XP cannot be negative."})
	}
	if r.Role != nil && *r.Role != RoleUser && *r.Role != RoleAdmin {
		errs = append(errs, FieldError{Field: "role", Message: "Invalid role."})
	}

	return errs
}

// TokenPair is the session credential pair handed out by the token service.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
