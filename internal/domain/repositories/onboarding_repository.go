package repositories

import (
	"context"

	"agrimarket.backend/internal/domain/entities"
)

// SellerRepository stores the farmer onboarding sub-entities
type SellerRepository interface {
	CreateProfile(ctx context.Context, profile *entities.SellerProfile) error
	GetProfileByUserID(ctx context.Context, userID uint) (*entities.SellerProfile, error)
	StoreNameExists(ctx context.Context, storeName string) (bool, error)
	UpdateProfileReview(ctx context.Context, profile *entities.SellerProfile) error

	CreateDocument(ctx context.Context, doc *entities.SellerDocument) error
	GetDocumentByUserID(ctx context.Context, userID uint) (*entities.SellerDocument, error)
	UpdateDocumentReview(ctx context.Context, doc *entities.SellerDocument) error

	CreateBankAccount(ctx context.Context, account *entities.SellerBankAccount) error
	GetBankAccountByUserID(ctx context.Context, userID uint) (*entities.SellerBankAccount, error)
	UpdateBankAccountReview(ctx context.Context, account *entities.SellerBankAccount) error
}

// RiderRepository stores the logistics onboarding sub-entities
type RiderRepository interface {
	CreateProfile(ctx context.Context, profile *entities.RiderProfile) error
	GetProfileByUserID(ctx context.Context, userID uint) (*entities.RiderProfile, error)
	UpdateProfileReview(ctx context.Context, profile *entities.RiderProfile) error

	CreateDocument(ctx context.Context, doc *entities.RiderDocument) error
	GetDocumentByUserID(ctx context.Context, userID uint) (*entities.RiderDocument, error)
	UpdateDocumentReview(ctx context.Context, doc *entities.RiderDocument) error

	CreateBankAccount(ctx context.Context, account *entities.RiderBankAccount) error
	GetBankAccountByUserID(ctx context.Context, userID uint) (*entities.RiderBankAccount, error)
	UpdateBankAccountReview(ctx context.Context, account *entities.RiderBankAccount) error
}
