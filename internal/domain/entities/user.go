package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// UserRole represents user roles
type UserRole string

const (
	UserRoleBuyer     UserRole = "buyer"
	UserRoleFarmer    UserRole = "farmer"
	UserRoleLogistics UserRole = "logistics"
	UserRoleAdmin     UserRole = "admin"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case UserRoleBuyer, UserRoleFarmer, UserRoleLogistics, UserRoleAdmin:
		return true
	}
	return false
}

// RequiresOnboarding reports whether the role goes through the registration wizard
func (r UserRole) RequiresOnboarding() bool {
	return r == UserRoleFarmer || r == UserRoleLogistics
}

// RegistrationStatus tracks a user's progress through onboarding and approval
type RegistrationStatus string

const (
	RegistrationInProgress      RegistrationStatus = "in_progress"
	RegistrationPendingApproval RegistrationStatus = "pending_approval"
	RegistrationActive          RegistrationStatus = "active"
	RegistrationRejected        RegistrationStatus = "rejected"
)

// RegistrationStepComplete is the cursor value once every wizard step is stored
const RegistrationStepComplete = 5

// User represents a user entity
type User struct {
	ID                 uint               `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Address            null.String        `json:"address"`
	PasswordHash       string             `json:"-"`
	Role               UserRole           `json:"role"`
	IsApproved         bool               `json:"is_approved"`
	RegistrationStep   int                `json:"registration_step"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	ApprovedAt         null.Time          `json:"approved_at"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// IsActive reports whether the account may use role features
func (u *User) IsActive() bool {
	return u.IsApproved && u.RegistrationStatus == RegistrationActive
}

// RegistrationCompleted reports whether the wizard reached its terminal step
func (u *User) RegistrationCompleted() bool {
	return u.RegistrationStep >= RegistrationStepComplete
}

// UserFilter narrows admin user listings
type UserFilter struct {
	Role               UserRole
	RegistrationStatus RegistrationStatus
	Search             string
}

// RegisterBuyerInput represents buyer self registration
type RegisterBuyerInput = BasicInfoInput

// LoginInput represents input for user login
type LoginInput struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	UseSession bool   `json:"useSession"` // store tokens in Redis and return a session id
}

// RefreshInput carries a refresh token
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	SessionID    string `json:"sessionId,omitempty"`
	User         *User  `json:"user"`
}
