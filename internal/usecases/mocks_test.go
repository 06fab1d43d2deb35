package usecases_test

import (
	"context"
	"sync"
	"time"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/infrastructure/notification"
	"agrimarket.backend/pkg/redis"
	"agrimarket.backend/pkg/utils"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) AdvanceRegistrationStep(ctx context.Context, id uint, from, to int, status entities.RegistrationStatus) error {
	args := m.Called(ctx, id, from, to, status)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateApproval(ctx context.Context, id uint, isApproved bool, status entities.RegistrationStatus, approvedAt null.Time) error {
	args := m.Called(ctx, id, isApproved, status, approvedAt)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock SellerRepository
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) CreateProfile(ctx context.Context, profile *entities.SellerProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockSellerRepository) GetProfileByUserID(ctx context.Context, userID uint) (*entities.SellerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SellerProfile), args.Error(1)
}

func (m *MockSellerRepository) StoreNameExists(ctx context.Context, storeName string) (bool, error) {
	args := m.Called(ctx, storeName)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerRepository) UpdateProfileReview(ctx context.Context, profile *entities.SellerProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockSellerRepository) CreateDocument(ctx context.Context, doc *entities.SellerDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockSellerRepository) GetDocumentByUserID(ctx context.Context, userID uint) (*entities.SellerDocument, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SellerDocument), args.Error(1)
}

func (m *MockSellerRepository) UpdateDocumentReview(ctx context.Context, doc *entities.SellerDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockSellerRepository) CreateBankAccount(ctx context.Context, account *entities.SellerBankAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockSellerRepository) GetBankAccountByUserID(ctx context.Context, userID uint) (*entities.SellerBankAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SellerBankAccount), args.Error(1)
}

func (m *MockSellerRepository) UpdateBankAccountReview(ctx context.Context, account *entities.SellerBankAccount) error {
	return m.Called(ctx, account).Error(0)
}

// Mock RiderRepository
type MockRiderRepository struct {
	mock.Mock
}

func (m *MockRiderRepository) CreateProfile(ctx context.Context, profile *entities.RiderProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockRiderRepository) GetProfileByUserID(ctx context.Context, userID uint) (*entities.RiderProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RiderProfile), args.Error(1)
}

func (m *MockRiderRepository) UpdateProfileReview(ctx context.Context, profile *entities.RiderProfile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockRiderRepository) CreateDocument(ctx context.Context, doc *entities.RiderDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockRiderRepository) GetDocumentByUserID(ctx context.Context, userID uint) (*entities.RiderDocument, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RiderDocument), args.Error(1)
}

func (m *MockRiderRepository) UpdateDocumentReview(ctx context.Context, doc *entities.RiderDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockRiderRepository) CreateBankAccount(ctx context.Context, account *entities.RiderBankAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockRiderRepository) GetBankAccountByUserID(ctx context.Context, userID uint) (*entities.RiderBankAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RiderBankAccount), args.Error(1)
}

func (m *MockRiderRepository) UpdateBankAccountReview(ctx context.Context, account *entities.RiderBankAccount) error {
	return m.Called(ctx, account).Error(0)
}

// Mock DashboardRepository
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) CountUsersByRole(ctx context.Context) (entities.StatusCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(entities.StatusCounts), args.Error(1)
}

func (m *MockDashboardRepository) CountRegistrations(ctx context.Context, status entities.RegistrationStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountProductsByStatus(ctx context.Context, farmerID uint) (entities.StatusCounts, error) {
	args := m.Called(ctx, farmerID)
	return args.Get(0).(entities.StatusCounts), args.Error(1)
}

func (m *MockDashboardRepository) CountOrdersByStatus(ctx context.Context, filter entities.OrderFilter) (entities.StatusCounts, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(entities.StatusCounts), args.Error(1)
}

func (m *MockDashboardRepository) SumOrderTotals(ctx context.Context, filter entities.OrderFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountCartItems(ctx context.Context, buyerID uint) (int64, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDashboardRepository) CountAvailableOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CursorStore
type MockCursorStore struct {
	mock.Mock
}

func (m *MockCursorStore) PutValue(ctx context.Context, sessionID, key, value string, expiration time.Duration) error {
	return m.Called(ctx, sessionID, key, value, expiration).Error(0)
}

func (m *MockCursorStore) GetValue(ctx context.Context, sessionID, key string) (string, error) {
	args := m.Called(ctx, sessionID, key)
	return args.String(0), args.Error(1)
}

func (m *MockCursorStore) DeleteValue(ctx context.Context, sessionID, key string) error {
	return m.Called(ctx, sessionID, key).Error(0)
}

// fakeLocker hands out one lock per name
type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	acquired int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (l *fakeLocker) Acquire(_ context.Context, name string, _ time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if l.held[name] {
		return nil, redis.ErrLockHeld
	}
	l.held[name] = true
	l.acquired++
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, name)
	}, nil
}

// memBlobStore keeps blobs in memory and can fail on demand
type memBlobStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
	failPut func(key string) error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{blobs: map[string][]byte{}}
}

func (s *memBlobStore) Put(_ context.Context, key, _ string, data []byte) error {
	if s.failPut != nil {
		if err := s.failPut(key); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = data
	return nil
}

func (s *memBlobStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memBlobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.blobs)
}

// recordingNotifier captures notifications synchronously
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg notification.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *recordingNotifier) subjects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Subject)
	}
	return out
}
