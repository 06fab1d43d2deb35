package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"agrimarket.backend/internal/config"
	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/infrastructure/models"
	"agrimarket.backend/internal/infrastructure/repositories"
	"agrimarket.backend/internal/usecases"
	"agrimarket.backend/pkg/crypto"
)

type fakeSeeder struct {
	user *entities.User
	err  error
	got  []string
}

func (f *fakeSeeder) SeedAdmin(_ context.Context, name, email, password string) (*entities.User, error) {
	f.got = []string{name, email, password}
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

func depsWith(seeder adminSeeder, out io.Writer) seedAdminDeps {
	return seedAdminDeps{
		loadEnv: func() error { return nil },
		loadCfg: func() *config.Config { return &config.Config{} },
		prepare: func(*config.Config) (adminSeeder, io.Closer, error) {
			return seeder, nil, nil
		},
		getenv: func(string) string { return "" },
		out:    out,
	}
}

func TestRunSeedAdmin_Validation(t *testing.T) {
	seeder := &fakeSeeder{}

	err := runSeedAdmin([]string{"-unknown"}, depsWith(seeder, io.Discard))
	assert.Error(t, err)

	err = runSeedAdmin([]string{"--password", "Sup3r-secret!"}, depsWith(seeder, io.Discard))
	assert.EqualError(t, err, "--email is required")

	err = runSeedAdmin([]string{"--email", "root@agrimarket.test"}, depsWith(seeder, io.Discard))
	assert.ErrorContains(t, err, passwordEnv)
	assert.Nil(t, seeder.got)
}

func TestRunSeedAdmin_PasswordFromEnv(t *testing.T) {
	seeder := &fakeSeeder{user: &entities.User{ID: 1, Email: "root@agrimarket.test"}}
	deps := depsWith(seeder, io.Discard)
	deps.getenv = func(key string) string {
		if key == passwordEnv {
			return "from-env-secret"
		}
		return ""
	}

	require.NoError(t, runSeedAdmin([]string{"--email", "root@agrimarket.test"}, deps))
	assert.Equal(t, []string{"Administrator", "root@agrimarket.test", "from-env-secret"}, seeder.got)
}

func TestRunSeedAdmin_Errors(t *testing.T) {
	deps := depsWith(nil, io.Discard)
	deps.prepare = func(*config.Config) (adminSeeder, io.Closer, error) {
		return nil, nil, errors.New("db failed")
	}
	err := runSeedAdmin([]string{"--email", "a@b.test", "--password", "Sup3r-secret!"}, deps)
	assert.ErrorContains(t, err, "db failed")

	seeder := &fakeSeeder{err: errors.New("duplicate")}
	err = runSeedAdmin([]string{"--email", "a@b.test", "--password", "Sup3r-secret!"}, depsWith(seeder, io.Discard))
	assert.ErrorContains(t, err, "failed seeding admin")
}

func TestRunSeedAdmin_SeedsActiveAdminInDatabase(t *testing.T) {
	crypto.SetHashCost(4)
	t.Cleanup(func() { crypto.SetHashCost(crypto.DefaultCost) })

	db, err := gorm.Open(sqlite.Open("file:seed_admin?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	userRepo := repositories.NewUserRepository(db)

	var out bytes.Buffer
	deps := depsWith(nil, &out)
	deps.prepare = func(*config.Config) (adminSeeder, io.Closer, error) {
		return usecases.NewAuthUsecase(userRepo, nil, nil, 0), nil, nil
	}

	args := []string{"--email", "Root@Agrimarket.test", "--name", "Root", "--password", "Sup3r-secret!"}
	require.NoError(t, runSeedAdmin(args, deps))
	assert.Contains(t, out.String(), "email=root@agrimarket.test")

	user, err := userRepo.GetByEmail(context.Background(), "root@agrimarket.test")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, user.Role)
	assert.True(t, user.IsActive())

	err = runSeedAdmin(args, deps)
	assert.ErrorContains(t, err, "failed seeding admin")
}

func TestMain_ExitsWhenEmailMissing(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_SEED_ADMIN") == "1" {
		os.Args = []string{"seed-admin"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsWhenEmailMissing")
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_SEED_ADMIN=1")
	if err := cmd.Run(); err == nil {
		t.Fatal("expected helper process to fail when --email is missing")
	}
}

func TestMain_ExitsOnDBConnectionFailure(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_SEED_ADMIN") == "2" {
		os.Args = []string{"seed-admin", "--email", "root@agrimarket.test", "--password", "Sup3r-secret!"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsOnDBConnectionFailure")
	cmd.Env = append(os.Environ(),
		"GO_WANT_HELPER_SEED_ADMIN=2",
		"DB_HOST=127.0.0.1",
		"DB_PORT=1",
		"DB_USER=postgres",
		"DB_PASSWORD=postgres",
		"DB_NAME=agrimarket",
		"DB_SSLMODE=disable",
	)
	if err := cmd.Run(); err == nil {
		t.Fatal("expected helper process to fail on DB connection")
	}
}
