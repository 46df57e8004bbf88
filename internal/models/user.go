package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `json:"id" redis:"id"`
	UserName     string `json:"user_name" redis:"user_name"`
	Email        string `json:"email" redis:"email"`
	PasswordHash string `json:"password_hash" redis:"password_hash"`
	Role         string `json:"role" redis:"role"`
	IsActive     bool   `json:"is_active" redis:"is_active"`

	XP        int64  `json:"xp" redis:"xp"`
	VIPStatus string `json:"vip_status" redis:"vip_status"`

	BirthDate string `json:"birth_date" redis:"birth_date"`
	CreatedAt int64  `json:"created_at" redis:"created_at"`
	LastLogin int64  `json:"last_login" redis:"last_login"`
}

// PublicUser is the client-facing view of a User. The password hash never
// leaves the backend.
type PublicUser struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
	XP        int64  `json:"xp"`
	VIPStatus string `json:"vipStatus"`
	BirthDate string `json:"birthDate"`
	CreatedAt int64  `json:"createdAt"`
	LastLogin int64  `json:"lastLogin"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		XP:        u.XP,
		VIPStatus: u.VIPStatus,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
