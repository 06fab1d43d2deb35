package usecases

import (
	"context"
	"errors"
	"strings"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
	"agrimarket.backend/pkg/crypto"
	"agrimarket.backend/pkg/jwt"
	"agrimarket.backend/pkg/redis"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
)

var generateSessionID = crypto.GenerateSessionID

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	userRepo   repositories.UserRepository
	jwtService *jwt.JWTService
	sessions   SessionStore
	sessionTTL time.Duration
}

// NewAuthUsecase creates a new auth usecase. sessions may be nil when
// session logins are not offered.
func NewAuthUsecase(
	userRepo repositories.UserRepository,
	jwtService *jwt.JWTService,
	sessions SessionStore,
	sessionTTL time.Duration,
) *AuthUsecase {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthUsecase{
		userRepo:   userRepo,
		jwtService: jwtService,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// RegisterBuyer registers a buyer; buyers need no approval
func (u *AuthUsecase) RegisterBuyer(ctx context.Context, input *entities.RegisterBuyerInput) (*entities.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	exists, err := u.userRepo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.Unique("email")
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := newActiveUser(input.Name, input.Email, input.Phone, passwordHash, entities.UserRoleBuyer, time.Now())
	user.Address = optionalString(input.Address)

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Unique("email")
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns tokens. With UseSession the tokens
// are kept server side and only a session id is returned.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	user, err := u.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	if !input.UseSession {
		return &entities.AuthResponse{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
			User:         user,
		}, nil
	}

	if u.sessions == nil {
		return nil, domainerrors.BadRequest("session login is not available")
	}
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, err
	}
	if err := u.sessions.CreateSession(ctx, sessionID, &redis.SessionData{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
	}, u.sessionTTL); err != nil {
		return nil, err
	}
	return &entities.AuthResponse{SessionID: sessionID, User: user}, nil
}

// RefreshToken generates new tokens from a refresh token
func (u *AuthUsecase) RefreshToken(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := u.jwtService.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, domainerrors.ErrTokenExpired
		}
		return nil, domainerrors.ErrUnauthorized
	}

	// Get current user to ensure still valid
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	return u.jwtService.GenerateTokenPair(user.ID, user.Email, string(user.Role))
}

// Logout drops a server side session; token logins are stateless
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" || u.sessions == nil {
		return nil
	}
	return u.sessions.DeleteSession(ctx, sessionID)
}

type seedAdminInput struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,strongpassword"`
}

// SeedAdmin creates an active admin account
func (u *AuthUsecase) SeedAdmin(ctx context.Context, name, email, password string) (*entities.User, error) {
	input := &seedAdminInput{
		Name:     strings.TrimSpace(name),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := newActiveUser(input.Name, input.Email, "", passwordHash, entities.UserRoleAdmin, time.Now())
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Unique("email")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID gets a user by ID
func (u *AuthUsecase) GetUserByID(ctx context.Context, id uint) (*entities.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

// ListUsers lists all accounts for the admin user directory
func (u *AuthUsecase) ListUsers(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, 0, domainerrors.BadRequest("unknown role")
	}
	return u.userRepo.List(ctx, filter, page.Normalize())
}

// newActiveUser builds a user that skips onboarding (buyers, seeded admins)
func newActiveUser(name, email, phone, passwordHash string, role entities.UserRole, now time.Time) *entities.User {
	return &entities.User{
		Name:               name,
		Email:              email,
		Phone:              phone,
		PasswordHash:       passwordHash,
		Role:               role,
		IsApproved:         true,
		RegistrationStep:   0,
		RegistrationStatus: entities.RegistrationActive,
		ApprovedAt:         null.TimeFrom(now),
	}
}
