package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/usecases"
	"agrimarket.backend/pkg/crypto"
	"agrimarket.backend/pkg/jwt"
	redispkg "agrimarket.backend/pkg/redis"
	"agrimarket.backend/pkg/utils"
	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthUsecaseForTest(userRepo *MockUserRepository, sessions usecases.SessionStore) (*usecases.AuthUsecase, *jwt.JWTService) {
	jwtSvc := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	return usecases.NewAuthUsecase(userRepo, jwtSvc, sessions, time.Hour), jwtSvc
}

func newTestSessionStore(t *testing.T) (*redispkg.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	prev := redispkg.GetClient()
	redispkg.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redispkg.SetClient(prev)
	})
	store, err := redispkg.NewSessionStore(testSessionKey)
	require.NoError(t, err)
	return store, srv
}

func hashedUser(t *testing.T, id uint, email string, role entities.UserRole) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword("Harvest#2024")
	require.NoError(t, err)
	return &entities.User{ID: id, Email: email, Name: "User", PasswordHash: hash, Role: role}
}

func TestAuthUsecase_RegisterBuyer(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	ctx := context.Background()

	userRepo.On("EmailExists", ctx, "buyer@shop.test").Return(false, nil).Once()
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Role == entities.UserRoleBuyer && u.IsApproved &&
			u.RegistrationStatus == entities.RegistrationActive && u.ApprovedAt.Valid &&
			crypto.CheckPassword("Harvest#2024", u.PasswordHash)
	})).Return(nil).Once()

	user, err := uc.RegisterBuyer(ctx, basicInfo(" Buyer@Shop.test"))
	require.NoError(t, err)
	assert.True(t, user.IsActive())
	assert.Equal(t, "12 Orchard Lane", user.Address.String)

	userRepo.On("EmailExists", ctx, "buyer@shop.test").Return(true, nil).Once()
	_, err = uc.RegisterBuyer(ctx, basicInfo("buyer@shop.test"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	weak := basicInfo("weak@shop.test")
	weak.Password, weak.PasswordConfirmation = "password", "password"
	_, err = uc.RegisterBuyer(ctx, weak)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, jwtSvc := newAuthUsecaseForTest(userRepo, nil)
	ctx := context.Background()
	user := hashedUser(t, 4, "ada@farm.test", entities.UserRoleFarmer)

	userRepo.On("GetByEmail", ctx, "ada@farm.test").Return(user, nil)
	userRepo.On("GetByEmail", ctx, "nobody@farm.test").Return(nil, domainerrors.ErrNotFound)
	userRepo.On("GetByEmail", ctx, "broken@farm.test").Return(nil, errors.New("db down"))

	resp, err := uc.Login(ctx, &entities.LoginInput{Email: "ADA@farm.test", Password: "Harvest#2024"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	claims, err := jwtSvc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.UserID)
	assert.Equal(t, "farmer", claims.Role)

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "ada@farm.test", Password: "wrong"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = uc.Login(ctx, &entities.LoginInput{Email: "nobody@farm.test", Password: "Harvest#2024"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = uc.Login(ctx, &entities.LoginInput{Email: "broken@farm.test", Password: "Harvest#2024"})
	assert.EqualError(t, err, "db down")

	_, err = uc.Login(ctx, &entities.LoginInput{Email: "ada@farm.test", Password: "Harvest#2024", UseSession: true})
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest, "no session store configured")
}

func TestAuthUsecase_SessionLoginAndLogout(t *testing.T) {
	store, srv := newTestSessionStore(t)
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, store)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "ada@farm.test").Return(hashedUser(t, 4, "ada@farm.test", entities.UserRoleFarmer), nil)

	resp, err := uc.Login(ctx, &entities.LoginInput{Email: "ada@farm.test", Password: "Harvest#2024", UseSession: true})
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	assert.Empty(t, resp.AccessToken)
	assert.Empty(t, resp.RefreshToken)

	data, err := store.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.NotEmpty(t, data.AccessToken)
	assert.Greater(t, srv.TTL("session:"+resp.SessionID), time.Duration(0))

	require.NoError(t, uc.Logout(ctx, resp.SessionID))
	_, err = store.GetSession(ctx, resp.SessionID)
	assert.Error(t, err)

	assert.NoError(t, uc.Logout(ctx, ""))
}

func TestAuthUsecase_RefreshToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, jwtSvc := newAuthUsecaseForTest(userRepo, nil)
	ctx := context.Background()

	pair, err := jwtSvc.GenerateTokenPair(4, "ada@farm.test", "farmer")
	require.NoError(t, err)
	userRepo.On("GetByID", ctx, uint(4)).Return(&entities.User{ID: 4, Email: "ada@farm.test", Role: entities.UserRoleFarmer}, nil).Once()

	refreshed, err := uc.RefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = uc.RefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	expired := jwt.NewJWTService("test-secret", -time.Minute, -time.Minute)
	old, err := expired.GenerateTokenPair(4, "ada@farm.test", "farmer")
	require.NoError(t, err)
	_, err = uc.RefreshToken(ctx, old.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	userRepo.On("GetByID", ctx, uint(4)).Return(nil, domainerrors.ErrNotFound).Once()
	_, err = uc.RefreshToken(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthUsecase_SeedAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Role == entities.UserRoleAdmin && u.Email == "root@agri.test" && u.IsActive()
	})).Return(nil).Once()
	admin, err := uc.SeedAdmin(ctx, "Root", " Root@Agri.test ", "Harvest#2024")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, admin.Role)

	userRepo.On("Create", ctx, mock.Anything).Return(domainerrors.ErrAlreadyExists).Once()
	_, err = uc.SeedAdmin(ctx, "Root", "root@agri.test", "Harvest#2024")
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	_, err = uc.SeedAdmin(ctx, "Root", "root@agri.test", "short")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAuthUsecase_ListUsers(t *testing.T) {
	userRepo := new(MockUserRepository)
	uc, _ := newAuthUsecaseForTest(userRepo, nil)
	ctx := context.Background()

	filter := entities.UserFilter{Role: entities.UserRoleBuyer}
	userRepo.On("List", ctx, filter, utils.PaginationParams{Page: 1, Limit: utils.DefaultPageLimit}).
		Return([]*entities.User{{ID: 3}}, int64(1), nil).Once()

	users, total, err := uc.ListUsers(ctx, filter, utils.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, int64(1), total)

	_, _, err = uc.ListUsers(ctx, entities.UserFilter{Role: "pirate"}, utils.PaginationParams{})
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
	userRepo.AssertExpectations(t)
}
