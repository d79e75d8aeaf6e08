package models

import "time"

// UserRole is the permission tier of an account.
type UserRole string

const (
	RoleUser   UserRole = "user"
	RoleWriter UserRole = "writer"
	RoleAdmin  UserRole = "admin"
)

// UserStatus is the standing of an account. Role and status are independent
// axes: a banned admin keeps the admin role but is blocked from posting.
type UserStatus string

const (
	UserActive UserStatus = "active"
	UserBanned UserStatus = "banned"
)

// UserModel represents a registered account.
type UserModel struct {
	Base
	Email         string     `json:"email"          gorm:"uniqueIndex;not null"`
	DisplayName   string     `json:"display_name"   gorm:"not null"`
	Password      string     `json:"-"              gorm:"not null"`
	Role          UserRole   `json:"role"           gorm:"type:varchar(16);default:'user';index"`
	Status        UserStatus `json:"status"         gorm:"type:varchar(16);default:'active';index"`
	PhotoURL      string     `json:"photo_url"`
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	VerifyToken   string     `json:"-"              gorm:"index"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// IsStaff reports whether the account may author articles.
func (u *UserModel) IsStaff() bool {
	return u.Role == RoleWriter || u.Role == RoleAdmin
}

// IsAdmin reports whether the account holds the admin role.
func (u *UserModel) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSession tracks signed-in JWT sessions for device/session management.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
