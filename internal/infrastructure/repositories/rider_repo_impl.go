package repositories

import (
	"context"

	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// RiderRepository implements logistics onboarding persistence
type RiderRepository struct {
	db *gorm.DB
}

// NewRiderRepository creates a new rider repository
func NewRiderRepository(db *gorm.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

// CreateProfile stores a rider's vehicle profile
func (r *RiderRepository) CreateProfile(ctx context.Context, profile *entities.RiderProfile) error {
	m := &models.RiderProfile{
		UserID:              profile.UserID,
		VehicleType:         string(profile.VehicleType),
		PlateNumber:         profile.PlateNumber,
		VehicleRegistration: profile.VehicleRegistration,
		VehicleInsurance:    profile.VehicleInsurance,
		DriversLicense:      profile.DriversLicense,
		Status:              string(profile.Status),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return createErr(err, "rider profile")
	}
	profile.ID = m.ID
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

// GetProfileByUserID loads a rider's vehicle profile
func (r *RiderRepository) GetProfileByUserID(ctx context.Context, userID uint) (*entities.RiderProfile, error) {
	var m models.RiderProfile
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.RiderProfile{
		ID:                  m.ID,
		UserID:              m.UserID,
		VehicleType:         entities.VehicleType(m.VehicleType),
		PlateNumber:         m.PlateNumber,
		VehicleRegistration: m.VehicleRegistration,
		VehicleInsurance:    m.VehicleInsurance,
		DriversLicense:      m.DriversLicense,
		ProfileReview: entities.ProfileReview{
			Status:          entities.ProfileStatus(m.Status),
			RejectionReason: toNullString(m.RejectionReason),
			ReviewedAt:      toNullTime(m.ReviewedAt),
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateProfileReview stores the review fields of a profile
func (r *RiderRepository) UpdateProfileReview(ctx context.Context, profile *entities.RiderProfile) error {
	return updateByUser(GetDB(ctx, r.db), &models.RiderProfile{}, profile.UserID, map[string]interface{}{
		"status":           string(profile.Status),
		"rejection_reason": fromNullString(profile.RejectionReason),
		"reviewed_at":      fromNullTime(profile.ReviewedAt),
	})
}

// CreateDocument stores a rider's identity documents
func (r *RiderRepository) CreateDocument(ctx context.Context, doc *entities.RiderDocument) error {
	m := &models.RiderDocument{
		UserID:             doc.UserID,
		GovernmentID:       doc.GovernmentID,
		LiveSelfie:         doc.LiveSelfie,
		VerificationStatus: string(doc.VerificationStatus),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return createErr(err, "rider documents")
	}
	doc.ID = m.ID
	doc.CreatedAt = m.CreatedAt
	doc.UpdatedAt = m.UpdatedAt
	return nil
}

// GetDocumentByUserID loads a rider's identity documents
func (r *RiderRepository) GetDocumentByUserID(ctx context.Context, userID uint) (*entities.RiderDocument, error) {
	var m models.RiderDocument
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.RiderDocument{
		ID:                   m.ID,
		UserID:               m.UserID,
		GovernmentID:         m.GovernmentID,
		GovernmentIDVerified: m.GovernmentIDVerified,
		LiveSelfie:           m.LiveSelfie,
		LiveSelfieVerified:   m.LiveSelfieVerified,
		VerificationReview: entities.VerificationReview{
			VerificationStatus: entities.VerificationStatus(m.VerificationStatus),
			RejectionReason:    toNullString(m.RejectionReason),
			ReviewedAt:         toNullTime(m.ReviewedAt),
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateDocumentReview stores per-document flags and the overall review
func (r *RiderRepository) UpdateDocumentReview(ctx context.Context, doc *entities.RiderDocument) error {
	return updateByUser(GetDB(ctx, r.db), &models.RiderDocument{}, doc.UserID, map[string]interface{}{
		"government_id_verified": doc.GovernmentIDVerified,
		"live_selfie_verified":   doc.LiveSelfieVerified,
		"verification_status":    string(doc.VerificationStatus),
		"rejection_reason":       fromNullString(doc.RejectionReason),
		"reviewed_at":            fromNullTime(doc.ReviewedAt),
	})
}

// CreateBankAccount stores a rider's payout account
func (r *RiderRepository) CreateBankAccount(ctx context.Context, account *entities.RiderBankAccount) error {
	m := &models.RiderBankAccount{
		UserID:             account.UserID,
		BankName:           account.BankName,
		AccountHolderName:  account.AccountHolderName,
		AccountNumber:      account.AccountNumber,
		WalletAddress:      fromNullString(account.WalletAddress),
		IsVerified:         account.IsVerified,
		VerificationStatus: string(account.VerificationStatus),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return createErr(err, "rider bank account")
	}
	account.ID = m.ID
	account.CreatedAt = m.CreatedAt
	account.UpdatedAt = m.UpdatedAt
	return nil
}

// GetBankAccountByUserID loads a rider's payout account
func (r *RiderRepository) GetBankAccountByUserID(ctx context.Context, userID uint) (*entities.RiderBankAccount, error) {
	var m models.RiderBankAccount
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.RiderBankAccount{
		ID:                m.ID,
		UserID:            m.UserID,
		BankName:          m.BankName,
		AccountHolderName: m.AccountHolderName,
		AccountNumber:     m.AccountNumber,
		WalletAddress:     toNullString(m.WalletAddress),
		IsVerified:        m.IsVerified,
		VerificationReview: entities.VerificationReview{
			VerificationStatus: entities.VerificationStatus(m.VerificationStatus),
			RejectionReason:    toNullString(m.RejectionReason),
			ReviewedAt:         toNullTime(m.ReviewedAt),
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// UpdateBankAccountReview stores the review of a payout account
func (r *RiderRepository) UpdateBankAccountReview(ctx context.Context, account *entities.RiderBankAccount) error {
	return updateByUser(GetDB(ctx, r.db), &models.RiderBankAccount{}, account.UserID, map[string]interface{}{
		"is_verified":         account.IsVerified,
		"verification_status": string(account.VerificationStatus),
		"rejection_reason":    fromNullString(account.RejectionReason),
		"reviewed_at":         fromNullTime(account.ReviewedAt),
	})
}
