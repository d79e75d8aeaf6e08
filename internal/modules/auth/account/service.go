package account

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/penlight/core/internal/models"
	"github.com/penlight/core/internal/pkg/apperr"
	"github.com/penlight/core/internal/pkg/mail"
	sessionpkg "github.com/penlight/core/internal/pkg/session"
)

type Service struct {
	db      *gorm.DB
	mailer  *mail.Sender
	baseURL string
	log     *zap.Logger
}

func NewService(db *gorm.DB, mailer *mail.Sender, baseURL string, log *zap.Logger) *Service {
	return &Service{db: db, mailer: mailer, baseURL: baseURL, log: log}
}

// Register creates an account and sends the verification email. The caller
// is signed in right away but stays unverified until the link is used.
func (s *Service) Register(dto *RegisterDTO, ip, ua string) (*models.UserModel, string, error) {
	name := strings.TrimSpace(dto.DisplayName)
	if !displayNamePattern.MatchString(name) {
		return nil, "", apperr.New(apperr.KindValidation, "display name must be 3-20 letters, digits or underscores")
	}
	if len(dto.Password) < minPasswordLen {
		return nil, "", apperr.Newf(apperr.KindValidation, "password must be at least %d characters", minPasswordLen)
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))
	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", apperr.Wrap(apperr.KindStore, "failed to check email", err)
	}
	if count > 0 {
		return nil, "", apperr.New(apperr.KindConflict, "an account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := models.UserModel{
		Email:       email,
		DisplayName: name,
		Password:    string(hash),
		Role:        models.RoleUser,
		Status:      models.UserActive,
		VerifyToken: randomToken(),
	}
	if err := s.db.Create(&u).Error; err != nil {
		return nil, "", apperr.Wrap(apperr.KindStore, "failed to create account", err)
	}

	s.sendVerification(&u)

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindStore, "failed to start session", err)
	}
	return &u, token, nil
}

// Login authenticates by email and password and issues a session token.
func (s *Service) Login(dto *LoginDTO, ip, ua string) (*models.UserModel, string, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))

	var u models.UserModel
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.New(apperr.KindAuth, "wrong email or password")
		}
		return nil, "", apperr.Wrap(apperr.KindStore, "failed to load account", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.Password)); err != nil {
		return nil, "", apperr.New(apperr.KindAuth, "wrong email or password")
	}

	now := time.Now()
	s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	})

	token, _, err := sessionpkg.Issue(s.db, u.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindStore, "failed to start session", err)
	}
	return &u, token, nil
}

// Logout revokes the session behind the presented token.
func (s *Service) Logout(userID, sessionID string) error {
	if err := sessionpkg.Revoke(s.db, userID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // already signed out
		}
		return apperr.Wrap(apperr.KindStore, "failed to end session", err)
	}
	return nil
}

// Verify marks the account behind token as email-verified. Tokens are
// single use.
func (s *Service) Verify(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.New(apperr.KindValidation, "verification token is required")
	}

	res := s.db.Model(&models.UserModel{}).
		Where("verify_token = ? AND email_verified = ?", token, false).
		Updates(map[string]interface{}{
			"email_verified": true,
			"verify_token":   "",
		})
	if res.Error != nil {
		return apperr.Wrap(apperr.KindStore, "failed to verify email", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.New(apperr.KindNotFound, "verification link is invalid or was already used")
	}
	return nil
}

// ResendVerification rotates the token and re-sends the email.
func (s *Service) ResendVerification(u *models.UserModel) error {
	if u.EmailVerified {
		return apperr.New(apperr.KindValidation, "your email is already verified")
	}

	u.VerifyToken = randomToken()
	if err := s.db.Model(u).Update("verify_token", u.VerifyToken).Error; err != nil {
		return apperr.Wrap(apperr.KindStore, "failed to refresh verification token", err)
	}
	s.sendVerification(u)
	return nil
}

// UpdateProfile edits display name and photo. Author names denormalized
// onto existing articles and messages are left as written.
func (s *Service) UpdateProfile(u *models.UserModel, dto *UpdateProfileDTO) (*models.UserModel, error) {
	updates := map[string]interface{}{}

	if dto.DisplayName != nil {
		name := strings.TrimSpace(*dto.DisplayName)
		if !displayNamePattern.MatchString(name) {
			return nil, apperr.New(apperr.KindValidation, "display name must be 3-20 letters, digits or underscores")
		}
		updates["display_name"] = name
		u.DisplayName = name
	}
	if dto.PhotoURL != nil {
		updates["photo_url"] = strings.TrimSpace(*dto.PhotoURL)
		u.PhotoURL = strings.TrimSpace(*dto.PhotoURL)
	}
	if len(updates) == 0 {
		return u, nil
	}

	if err := s.db.Model(u).Updates(updates).Error; err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to update profile", err)
	}
	return u, nil
}

// Sessions lists the caller's active sessions.
func (s *Service) Sessions(userID string) ([]models.UserSession, error) {
	var sessions []models.UserSession
	err := s.db.Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, time.Now()).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStore, "failed to load sessions", err)
	}
	return sessions, nil
}

// RevokeSession ends one of the caller's sessions by ID.
func (s *Service) RevokeSession(userID, sessionID string) error {
	if err := sessionpkg.Revoke(s.db, userID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "session not found")
		}
		return apperr.Wrap(apperr.KindStore, "failed to revoke session", err)
	}
	return nil
}

// sendVerification dispatches the email off the request path. Mail
// failures are logged, never surfaced: the user can always use resend.
func (s *Service) sendVerification(u *models.UserModel) {
	msg := mail.VerificationMessage(
		u.Email,
		u.DisplayName,
		fmt.Sprintf("%s/api/v1/auth/verify?token=%s", strings.TrimRight(s.baseURL, "/"), u.VerifyToken),
	)
	go func() {
		if err := s.mailer.Send(msg); err != nil {
			s.log.Warn("verification mail failed",
				zap.String("user", u.ID),
				zap.Error(err),
			)
		}
	}()
}

func randomToken() string {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b)
}
