package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bistro/internal/models"
	"github.com/example/bistro/internal/utils"
	"github.com/example/bistro/internal/validation"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	User *models.User
}

func (p *Principal) ID() uuid.UUID {
	if p == nil || p.User == nil {
		return uuid.Nil
	}
	return p.User.ID
}

func (p *Principal) Role() models.Role {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.User.IsAdmin()
}

// RequireRole fails with ErrForbidden unless the principal holds role.
func (p *Principal) RequireRole(role models.Role) error {
	if p == nil || p.User == nil {
		return ErrUnauthenticated
	}
	if p.Role() != role {
		return forbidden("role %s is not authorized to access this route", p.Role())
	}
	return nil
}

// CanAccess reports whether the principal may act on a resource owned by owner.
func (p *Principal) CanAccess(owner uuid.UUID) bool {
	return p.IsAdmin() || (p.ID() != uuid.Nil && p.ID() == owner)
}

// IdentityOptions configures credential issuance.
type IdentityOptions struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	ClientURL     string
}

// IdentityService issues and verifies credentials and owns account lifecycle.
type IdentityService struct {
	db     *gorm.DB
	opts   IdentityOptions
	mailer Mailer
	now    func() time.Time
}

func NewIdentityService(db *gorm.DB, opts IdentityOptions, mailer Mailer) *IdentityService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 30 * 24 * time.Hour
	}
	if opts.ResetTokenTTL <= 0 {
		opts.ResetTokenTTL = 10 * time.Minute
	}
	if mailer == nil {
		mailer = NewLogMailer(nil)
	}
	return &IdentityService{db: db, opts: opts, mailer: mailer, now: time.Now}
}

// IssueCredential produces a signed bearer token for the user.
func (s *IdentityService) IssueCredential(user *models.User) (string, error) {
	return utils.GenerateToken(s.opts.JWTSecret, user.ID, string(user.Role), s.opts.TokenTTL)
}

// ResolvePrincipal verifies the token and loads the user it refers to.
func (s *IdentityService) ResolvePrincipal(ctx context.Context, token string) (*Principal, error) {
	claims, err := utils.ParseToken(s.opts.JWTSecret, token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}

	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}

	return &Principal{User: &user}, nil
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Register creates a customer account and returns it with a fresh credential.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, "", ValidationError(err)
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrUserExists
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}

	token, err := s.IssueCredential(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login checks the password against the stored hash.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Preload("Addresses", orderAddresses).
		Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	if user.IsBlocked {
		return nil, "", ErrAccountBlocked
	}

	token, err := s.IssueCredential(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Me reloads the principal with its address book.
func (s *IdentityService) Me(ctx context.Context, p *Principal) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Addresses", orderAddresses).
		First(&user, "id = ?", p.ID()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return &user, nil
}

type ProfileInput struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

// UpdateProfile applies the provided profile fields.
func (s *IdentityService) UpdateProfile(ctx context.Context, p *Principal, in ProfileInput) (*models.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		in.Email = &email
	}
	if err := validation.Struct(in); err != nil {
		return nil, ValidationError(err)
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil && *in.Email != p.User.Email {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", *in.Email, p.ID()).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, newError(ErrConflict, "email is already in use")
		}
		updates["email"] = *in.Email
	}
	if len(updates) == 0 {
		return nil, badRequest("no fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", p.ID()).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Me(ctx, p)
}

// ChangePassword verifies the current password, stores the new one and
// returns a fresh credential.
func (s *IdentityService) ChangePassword(ctx context.Context, p *Principal, current, next string) (string, error) {
	if len(next) < 6 || len(next) > 72 {
		return "", newError(ErrValidation, "password must be between 6 and 72 characters")
	}
	if !utils.CheckPassword(p.User.PasswordHash, current) {
		return "", newError(ErrUnauthenticated, "current password is incorrect")
	}

	hash, err := utils.HashPassword(next)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", p.ID()).
		Update("password_hash", hash).Error; err != nil {
		return "", err
	}
	p.User.PasswordHash = hash

	return s.IssueCredential(p.User)
}

// ForgotPassword stores a reset token digest and mails the reset link. Unknown
// emails succeed silently.
func (s *IdentityService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return newError(ErrValidation, "email is required")
	}

	db := s.db.WithContext(ctx)
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, digest, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	expires := s.now().Add(s.opts.ResetTokenTTL)

	if err := db.Model(&user).Updates(map[string]interface{}{
		"reset_token_hash":    digest,
		"reset_token_expires": expires,
	}).Error; err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.opts.ClientURL, token)
	if err := s.mailer.SendPasswordReset(ctx, PasswordResetMail{
		To:        user.Email,
		Name:      user.Name,
		Link:      link,
		ExpiresAt: expires,
	}); err != nil {
		mailErr := fmt.Errorf("send reset mail: %w", err)
		if err := db.Model(&user).Updates(map[string]interface{}{
			"reset_token_hash":    "",
			"reset_token_expires": nil,
		}).Error; err != nil {
			slog.Warn("reset token left in place after mail failure",
				slog.String("user_id", user.ID.String()), slog.Any("error", err))
			return errors.Join(mailErr, fmt.Errorf("clear reset token: %w", err))
		}
		return mailErr
	}

	return nil
}

// ResetPassword consumes a reset token and issues a new credential.
func (s *IdentityService) ResetPassword(ctx context.Context, token, password string) (*models.User, string, error) {
	if len(password) < 6 || len(password) > 72 {
		return nil, "", newError(ErrValidation, "password must be between 6 and 72 characters")
	}
	if strings.TrimSpace(token) == "" {
		return nil, "", ErrInvalidResetToken
	}

	db := s.db.WithContext(ctx)
	var user models.User
	err := db.Where("reset_token_hash = ? AND reset_token_expires > ?", utils.DigestToken(token), s.now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidResetToken
		}
		return nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"password_hash":       hash,
		"reset_token_hash":    "",
		"reset_token_expires": nil,
	}).Error; err != nil {
		return nil, "", err
	}

	credential, err := s.IssueCredential(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, credential, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orderAddresses(db *gorm.DB) *gorm.DB {
	return db.Order("created_at asc")
}
