package repositories

import (
	"context"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
)

// UserRepository defines user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uint) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// AdvanceRegistrationStep moves the cursor only while it still equals from
	AdvanceRegistrationStep(ctx context.Context, id uint, from, to int, status entities.RegistrationStatus) error
	UpdateApproval(ctx context.Context, id uint, isApproved bool, status entities.RegistrationStatus, approvedAt null.Time) error
	List(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error)
}
