package repositories

import (
	"context"
	"fmt"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/infrastructure/models"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
)

// UserRepository implements user data operations
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	m := &models.User{
		Name:               user.Name,
		Email:              user.Email,
		Phone:              user.Phone,
		Address:            fromNullString(user.Address),
		PasswordHash:       user.PasswordHash,
		Role:               string(user.Role),
		IsApproved:         user.IsApproved,
		RegistrationStep:   user.RegistrationStep,
		RegistrationStatus: string(user.RegistrationStatus),
		ApprovedAt:         fromNullTime(user.ApprovedAt),
	}

	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("email: %w", domainerrors.ErrAlreadyExists)
		}
		return err
	}

	user.ID = m.ID
	user.CreatedAt = m.CreatedAt
	user.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	var m models.User
	if err := GetDB(ctx, r.db).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return r.toEntity(&m), nil
}

// EmailExists reports whether an account already uses email
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AdvanceRegistrationStep moves the wizard cursor from one step to the next
func (r *UserRepository) AdvanceRegistrationStep(ctx context.Context, id uint, from, to int, status entities.RegistrationStatus) error {
	db := GetDB(ctx, r.db)
	result := db.Model(&models.User{}).
		Where("id = ? AND registration_step = ?", id, from).
		Updates(map[string]interface{}{
			"registration_step":   to,
			"registration_status": string(status),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("user %d not at step %d: %w", id, from, domainerrors.ErrStepConflict)
	}
	return nil
}

// UpdateApproval stores the derived approval flags
func (r *UserRepository) UpdateApproval(ctx context.Context, id uint, isApproved bool, status entities.RegistrationStatus, approvedAt null.Time) error {
	result := GetDB(ctx, r.db).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_approved":         isApproved,
			"registration_status": string(status),
			"approved_at":         fromNullTime(approvedAt),
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists users matching filter
func (r *UserRepository) List(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	q := GetDB(ctx, r.db).Model(&models.User{})
	if filter.Role != "" {
		q = q.Where("role = ?", string(filter.Role))
	}
	if filter.RegistrationStatus != "" {
		q = q.Where("registration_status = ?", string(filter.RegistrationStatus))
	}
	if filter.Search != "" {
		term := likePattern(filter.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.User
	if err := paginate(q.Order("created_at DESC, id DESC"), page).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*entities.User, 0, len(rows))
	for i := range rows {
		users = append(users, r.toEntity(&rows[i]))
	}
	return users, total, nil
}

func (r *UserRepository) toEntity(m *models.User) *entities.User {
	return &entities.User{
		ID:                 m.ID,
		Name:               m.Name,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            toNullString(m.Address),
		PasswordHash:       m.PasswordHash,
		Role:               entities.UserRole(m.Role),
		IsApproved:         m.IsApproved,
		RegistrationStep:   m.RegistrationStep,
		RegistrationStatus: entities.RegistrationStatus(m.RegistrationStatus),
		ApprovedAt:         toNullTime(m.ApprovedAt),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

