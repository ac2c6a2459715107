package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Adelodunpeter25/url-shortener/config"
	"github.com/Adelodunpeter25/url-shortener/internal/jwt"
	"github.com/Adelodunpeter25/url-shortener/internal/models"
	"github.com/Adelodunpeter25/url-shortener/internal/repository"
)

type UserService struct {
	users  *repository.UserRepository
	rtRepo *repository.RefreshTokenRepository
	log    *zap.Logger
	cfg    *config.Config
}

func NewUserService(users *repository.UserRepository, rtRepo *repository.RefreshTokenRepository, log *zap.Logger, cfg *config.Config) *UserService {
	return &UserService{
		users:  users,
		rtRepo: rtRepo,
		log:    log,
		cfg:    cfg,
	}
}

// Register creates an account and logs it in, returning the token pair.
func (s *UserService) Register(username, email, password string) (*models.User, string, string, error) {
	if _, err := s.users.FindByUsername(username); err == nil {
		s.log.Warn("username already taken", zap.String("username", username))
		return nil, "", "", ErrUserExists
	}
	if _, err := s.users.FindByEmail(email); err == nil {
		s.log.Warn("email already registered", zap.String("email", email))
		return nil, "", "", ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return nil, "", "", err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		s.log.Error("failed to register user", zap.Error(err))
		return nil, "", "", err
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

// Login accepts a username or email as identifier.
func (s *UserService) Login(identifier, password string) (*models.User, string, string, error) {
	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		s.log.Warn("user not found", zap.String("identifier", identifier))
		return nil, "", "", ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.Warn("invalid password", zap.String("identifier", identifier))
		return nil, "", "", ErrInvalidPassword
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

func (s *UserService) Refresh(refreshToken string) (access, refresh string, err error) {
	claims, err := jwt.ParseRefreshToken(refreshToken, s.cfg.JWT.Refresh)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	rt, err := s.rtRepo.FindValid(claims.ID)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if err := s.rtRepo.RevokeByJTI(rt.JTI); err != nil {
		s.log.Warn("failed to revoke old refresh token", zap.Error(err))
	}

	user, err := s.users.FindByID(rt.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidToken
		}
		return "", "", err
	}
	return s.issueTokens(user)
}

func (s *UserService) Profile(userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Logout(userID uuid.UUID) error {
	return s.rtRepo.RevokeAllForUser(userID)
}

func (s *UserService) issueTokens(user *models.User) (string, string, error) {
	access, _, err := jwt.GenerateAccessToken(user.ID.String(), &s.cfg.JWT)
	if err != nil {
		s.log.Error("failed to generate access token", zap.Error(err))
		return "", "", err
	}

	refresh, refreshClaims, err := jwt.GenerateRefreshToken(user.ID.String(), &s.cfg.JWT)
	if err != nil {
		s.log.Error("failed to generate refresh token", zap.Error(err))
		return "", "", err
	}

	if err := s.rtRepo.Create(&models.RefreshToken{
		JTI:       refreshClaims.ID,
		UserID:    user.ID,
		ExpiresAt: refreshClaims.ExpiresAt.Time,
		Revoked:   false,
	}); err != nil {
		s.log.Error("failed to persist refresh token", zap.Error(err))
		return "", "", err
	}
	return access, refresh, nil
}
