package usecases_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"agrimarket.backend/internal/config"
	"agrimarket.backend/internal/domain/entities"
	domainrepos "agrimarket.backend/internal/domain/repositories"
	"agrimarket.backend/internal/infrastructure/models"
	"agrimarket.backend/internal/infrastructure/repositories"
	"agrimarket.backend/internal/infrastructure/storage"
	"agrimarket.backend/internal/usecases"
	"agrimarket.backend/pkg/crypto"
	"agrimarket.backend/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSessionKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
)

func init() {
	crypto.SetHashCost(4)
}

func upload(name string, data []byte) *entities.FileUpload {
	return &entities.FileUpload{Filename: name, Size: int64(len(data)), Data: data}
}

// env is a usecase stack over sqlite, miniredis and a temp dir blob store
type env struct {
	db       *gorm.DB
	redis    *miniredis.Miniredis
	sessions *redis.SessionStore
	blobDir  string
	notifier *recordingNotifier

	users    *repositories.UserRepository
	sellers  *repositories.SellerRepository
	riders   *repositories.RiderRepository
	products *repositories.ProductRepository
	carts    *repositories.CartRepository
	orders   *repositories.OrderRepository
	uow      domainrepos.UnitOfWork

	onboarding *usecases.OnboardingUsecase
	approval   *usecases.ApprovalUsecase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.AutoMigrate(models.All()...), "migrate")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection so a transaction never waits on a shared cache lock
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	srv := miniredis.RunT(t)
	cli := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	prev := redis.GetClient()
	redis.SetClient(cli)
	t.Cleanup(func() {
		_ = cli.Close()
		redis.SetClient(prev)
	})

	sessions, err := redis.NewSessionStore(testSessionKey)
	require.NoError(t, err)

	blobDir := t.TempDir()
	blobs, err := storage.NewLocalBlobStore(blobDir)
	require.NoError(t, err)

	e := &env{
		db:       db,
		redis:    srv,
		sessions: sessions,
		blobDir:  blobDir,
		notifier: &recordingNotifier{},
		users:    repositories.NewUserRepository(db),
		sellers:  repositories.NewSellerRepository(db),
		riders:   repositories.NewRiderRepository(db),
		products: repositories.NewProductRepository(db),
		carts:    repositories.NewCartRepository(db),
		orders:   repositories.NewOrderRepository(db),
		uow:      repositories.NewUnitOfWork(db),
	}
	e.onboarding = usecases.NewOnboardingUsecase(usecases.OnboardingDeps{
		Users:    e.users,
		Sellers:  e.sellers,
		Riders:   e.riders,
		UoW:      e.uow,
		Cursors:  sessions,
		Locker:   redis.NewLocker("registration:lock:"),
		Blobs:    blobs,
		Notifier: e.notifier,
		Config: config.RegistrationConfig{
			CursorTTL:     time.Hour,
			StepLockTTL:   10 * time.Second,
			MaxUploadSize: 1 << 20,
		},
	})
	e.approval = usecases.NewApprovalUsecase(e.users, e.sellers, e.riders, e.uow, e.notifier, nil)
	return e
}

// wizard returns the context of the next request in session sid
func (e *env) wizard(t *testing.T, flow entities.RegistrationFlow, sid string, step int) entities.WizardContext {
	t.Helper()
	wc := entities.WizardContext{Flow: flow, SessionID: sid, Step: step}
	id, err := e.onboarding.ResolveCursor(context.Background(), flow, sid)
	if err == nil {
		wc.UserID = id
	}
	return wc
}

func basicInfo(email string) *entities.BasicInfoInput {
	return &entities.BasicInfoInput{
		Name:                 "Ada Farmer",
		Email:                email,
		Password:             "Harvest#2024",
		PasswordConfirmation: "Harvest#2024",
		Phone:                "+254 700 000 001",
		Address:              "12 Orchard Lane",
	}
}

func sellerProfile(store string) *entities.SellerProfileInput {
	return &entities.SellerProfileInput{StoreName: store, BusinessType: "company", TaxID: "TX-99"}
}

func sellerDocuments() *entities.SellerDocumentsInput {
	return &entities.SellerDocumentsInput{
		GovernmentID:       upload("id.pdf", pdfBytes),
		SelfieVerification: upload("me.jpg", jpegBytes),
		BusinessLicense:    upload("license.png", pngBytes),
	}
}

func bankAccount() *entities.BankAccountInput {
	return &entities.BankAccountInput{
		BankName:          "Farmers Bank",
		AccountHolderName: "Ada Farmer",
		AccountNumber:     "0012 3456 78",
		BranchCode:        "FB-01",
	}
}

// completeSeller walks a seller through all four steps and returns the user id
func (e *env) completeSeller(t *testing.T, email, store string) uint {
	t.Helper()
	ctx := context.Background()
	sid := "sid-" + email

	res, err := e.onboarding.SubmitBasicInfo(ctx, e.wizard(t, entities.FlowSeller, sid, 1), basicInfo(email))
	require.NoError(t, err)
	_, err = e.onboarding.SubmitSellerProfile(ctx, e.wizard(t, entities.FlowSeller, sid, 2), sellerProfile(store))
	require.NoError(t, err)
	_, err = e.onboarding.SubmitSellerDocuments(ctx, e.wizard(t, entities.FlowSeller, sid, 3), sellerDocuments())
	require.NoError(t, err)
	done, err := e.onboarding.SubmitBankAccount(ctx, e.wizard(t, entities.FlowSeller, sid, 4), bankAccount())
	require.NoError(t, err)
	require.True(t, done.Completed)
	return res.UserID
}

// seedActive inserts an approved active user of role
func (e *env) seedActive(t *testing.T, email string, role entities.UserRole) *entities.User {
	t.Helper()
	hash, err := crypto.HashPassword("Harvest#2024")
	require.NoError(t, err)
	u := &entities.User{
		Name:               "Active " + string(role),
		Email:              email,
		Phone:              "+15550001111",
		PasswordHash:       hash,
		Role:               role,
		IsApproved:         true,
		RegistrationStep:   entities.StepComplete,
		RegistrationStatus: entities.RegistrationActive,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}
