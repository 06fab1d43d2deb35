package repositories

import (
	"context"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// SellerRepository implements farmer onboarding persistence
type SellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository creates a new seller repository
func NewSellerRepository(db *gorm.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// CreateProfile stores a seller profile
func (r *SellerRepository) CreateProfile(ctx context.Context, profile *entities.SellerProfile) error {
	m := &models.SellerProfile{
		UserID:          profile.UserID,
		StoreName:       profile.StoreName,
		BusinessType:    string(profile.BusinessType),
		BusinessAddress: fromNullString(profile.BusinessAddress),
		TaxID:           fromNullString(profile.TaxID),
		Status:          string(profile.Status),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if duplicateOn(err, "store_name") {
			return domainerrors.ErrStoreNameTaken
		}
		return createErr(err, "seller profile")
	}
	profile.ID = m.ID
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

// GetProfileByUserID loads a farmer's profile
func (r *SellerRepository) GetProfileByUserID(ctx context.Context, userID uint) (*entities.SellerProfile, error) {
	var m models.SellerProfile
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.SellerProfile{
		ID:              m.ID,
		UserID:          m.UserID,
		StoreName:       m.StoreName,
		BusinessType:    entities.BusinessType(m.BusinessType),
		BusinessAddress: toNullString(m.BusinessAddress),
		TaxID:           toNullString(m.TaxID),
		ProfileReview: entities.ProfileReview{
			Status:          entities.ProfileStatus(m.Status),
			RejectionReason: toNullString(m.RejectionReason),
			ReviewedAt:      toNullTime(m.ReviewedAt),
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

// StoreNameExists reports whether a store name is taken, ignoring case
func (r *SellerRepository) StoreNameExists(ctx context.Context, storeName string) (bool, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&models.SellerProfile{}).
		Where("LOWER(store_name) = LOWER(?)", storeName).
		Count(&count).Error
	return count > 0, err
}

// UpdateProfileReview stores the review fields of a profile
func (r *SellerRepository) UpdateProfileReview(ctx context.Context, profile *entities.SellerProfile) error {
	return updateByUser(GetDB(ctx, r.db), &models.SellerProfile{}, profile.UserID, map[string]interface{}{
		"status":           string(profile.Status),
		"rejection_reason": fromNullString(profile.RejectionReason),
		"reviewed_at":      fromNullTime(profile.ReviewedAt),
	})
}

// CreateDocument stores a farmer's documents
func (r *SellerRepository) CreateDocument(ctx context.Context, doc *entities.SellerDocument) error {
	m := &models.SellerDocument{
		UserID:             doc.UserID,
		GovernmentID:       doc.GovernmentID,
		SelfieVerification: doc.SelfieVerification,
		BusinessLicense:    fromNullString(doc.BusinessLicense),
		TaxCertificate:     fromNullString(doc.TaxCertificate),
		VerificationStatus: string(doc.VerificationStatus),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return createErr(err, "seller documents")
	}
	doc.ID = m.ID
	doc.CreatedAt = m.CreatedAt
	doc.UpdatedAt = m.UpdatedAt
	return nil
}

// GetDocumentByUserID loads a farmer's documents
func (r *SellerRepository) GetDocumentByUserID(ctx context.Context, userID uint) (*entities.SellerDocument, error) {
	var m models.SellerDocument
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.SellerDocument{
		ID:                         m.ID,
		UserID:                     m.UserID,
		GovernmentID:               m.GovernmentID,
		GovernmentIDVerified:       m.GovernmentIDVerified,
		SelfieVerification:         m.SelfieVerification,
		SelfieVerificationVerified: m.SelfieVerificationVerified,
		BusinessLicense:            toNullString(m.BusinessLicense),
		BusinessLicenseVerified:    m.BusinessLicenseVerified,
		TaxCertificate:             toNullString(m.TaxCertificate),
		TaxCertificateVerified:     m.TaxCertificateVerified,
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
func (r *SellerRepository) UpdateDocumentReview(ctx context.Context, doc *entities.SellerDocument) error {
	return updateByUser(GetDB(ctx, r.db), &models.SellerDocument{}, doc.UserID, map[string]interface{}{
		"government_id_verified":       doc.GovernmentIDVerified,
		"selfie_verification_verified": doc.SelfieVerificationVerified,
		"business_license_verified":    doc.BusinessLicenseVerified,
		"tax_certificate_verified":     doc.TaxCertificateVerified,
		"verification_status":          string(doc.VerificationStatus),
		"rejection_reason":             fromNullString(doc.RejectionReason),
		"reviewed_at":                  fromNullTime(doc.ReviewedAt),
	})
}

// CreateBankAccount stores a farmer's payout account
func (r *SellerRepository) CreateBankAccount(ctx context.Context, account *entities.SellerBankAccount) error {
	m := &models.SellerBankAccount{
		UserID:             account.UserID,
		BankName:           account.BankName,
		AccountHolderName:  account.AccountHolderName,
		AccountNumber:      account.AccountNumber,
		BranchCode:         fromNullString(account.BranchCode),
		IsVerified:         account.IsVerified,
		VerificationStatus: string(account.VerificationStatus),
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		return createErr(err, "seller bank account")
	}
	account.ID = m.ID
	account.CreatedAt = m.CreatedAt
	account.UpdatedAt = m.UpdatedAt
	return nil
}

// GetBankAccountByUserID loads a farmer's payout account
func (r *SellerRepository) GetBankAccountByUserID(ctx context.Context, userID uint) (*entities.SellerBankAccount, error) {
	var m models.SellerBankAccount
	if err := GetDB(ctx, r.db).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &entities.SellerBankAccount{
		ID:                m.ID,
		UserID:            m.UserID,
		BankName:          m.BankName,
		AccountHolderName: m.AccountHolderName,
		AccountNumber:     m.AccountNumber,
		BranchCode:        toNullString(m.BranchCode),
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
func (r *SellerRepository) UpdateBankAccountReview(ctx context.Context, account *entities.SellerBankAccount) error {
	return updateByUser(GetDB(ctx, r.db), &models.SellerBankAccount{}, account.UserID, map[string]interface{}{
		"is_verified":         account.IsVerified,
		"verification_status": string(account.VerificationStatus),
		"rejection_reason":    fromNullString(account.RejectionReason),
		"reviewed_at":         fromNullTime(account.ReviewedAt),
	})
}

func updateByUser(db *gorm.DB, model interface{}, userID uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := db.Model(model).Where("user_id = ?", userID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}
