package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/folio-api/internal/domain/entity"
	"github.com/sangkips/folio-api/internal/domain/repository"
	"github.com/sangkips/folio-api/pkg/apperror"
	"github.com/sangkips/folio-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// AuthService handles account registration and token issue
type AuthService struct {
	accountRepo repository.AccountRepository
	jwtManager  *utils.JWTManager
	log         logrus.FieldLogger
}

// NewAuthService creates a new auth service
func NewAuthService(accountRepo repository.AccountRepository, jwtManager *utils.JWTManager, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		jwtManager:  jwtManager,
		log:         log,
	}
}

// RegisterInput represents the registration input
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	RegisteredState string
	GSTIN           *string
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Account      *entity.Account
	AccessToken  string
	RefreshToken string
}

// Register creates a new account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*entity.Account, error) {
	email := normalizeEmail(input.Email)
	existing, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Email already registered")
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &entity.Account{
		Name:            strings.TrimSpace(input.Name),
		Email:           email,
		Password:        hashedPassword,
		RegisteredState: strings.TrimSpace(input.RegisteredState),
		GSTIN:           input.GSTIN,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	s.log.WithField("account_id", account.ID).Info("account registered")
	return account, nil
}

// Login authenticates an account and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	account, err := s.accountRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, err
	}
	if account == nil || !utils.CheckPasswordHash(input.Password, account.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	now := time.Now()
	account.LastLoginAt = &now
	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.log.WithField("account_id", account.ID).WithError(err).Warn("failed to record last login")
	}

	return s.issue(account)
}

// RefreshToken generates new tokens from a refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	accountID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.ErrInvalidToken
	}

	return s.issue(account)
}

// GetProfile returns the account by ID
func (s *AuthService) GetProfile(ctx context.Context, accountID uuid.UUID) (*entity.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperror.NewNotFoundError("Account")
	}
	return account, nil
}

func (s *AuthService) issue(account *entity.Account) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{
		Account:      account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
