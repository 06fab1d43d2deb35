package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"agrimarket.backend/internal/config"
	"agrimarket.backend/internal/domain/entities"
	pgsource "agrimarket.backend/internal/infrastructure/datasources/postgres"
	"agrimarket.backend/internal/infrastructure/repositories"
	"agrimarket.backend/internal/usecases"
)

// passwordEnv lets operators keep the password out of shell history
const passwordEnv = "SEED_ADMIN_PASSWORD"

var openSeedDB = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
	sqlDB, err := pgsource.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{PrepareStmt: false})
}

type adminSeeder interface {
	SeedAdmin(ctx context.Context, name, email, password string) (*entities.User, error)
}

type seedAdminDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminSeeder, io.Closer, error)
	getenv  func(string) string
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSeedAdminDeps() seedAdminDeps {
	return seedAdminDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminSeeder, io.Closer, error) {
			db, err := openSeedDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			userRepo := repositories.NewUserRepository(db)
			return usecases.NewAuthUsecase(userRepo, nil, nil, 0), sqlDB, nil
		},
		getenv: os.Getenv,
		out:    os.Stdout,
	}
}

func runSeedAdmin(args []string, deps seedAdminDeps) error {
	def := defaultSeedAdminDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.getenv == nil {
		deps.getenv = def.getenv
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	emailFlag := fs.String("email", "", "admin email (required)")
	nameFlag := fs.String("name", "Administrator", "admin display name")
	passwordFlag := fs.String("password", "", "admin password (or "+passwordEnv+")")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *emailFlag == "" {
		return fmt.Errorf("--email is required")
	}
	password := *passwordFlag
	if password == "" {
		password = deps.getenv(passwordEnv)
	}
	if password == "" {
		return fmt.Errorf("--password or %s is required", passwordEnv)
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	seeder, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	user, err := seeder.SeedAdmin(context.Background(), *nameFlag, *emailFlag, password)
	if err != nil {
		return fmt.Errorf("failed seeding admin: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Created active admin account")
	_, _ = fmt.Fprintf(deps.out, "user_id=%d\n", user.ID)
	_, _ = fmt.Fprintf(deps.out, "email=%s\n", user.Email)
	return nil
}

func main() {
	if err := runSeedAdmin(os.Args[1:], defaultSeedAdminDeps()); err != nil {
		log.Fatal(err)
	}
}
