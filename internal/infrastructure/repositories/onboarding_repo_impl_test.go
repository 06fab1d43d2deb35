package repositories

import (
	"context"
	"testing"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestSellerRepository_Profile(t *testing.T) {
	db := newTestDB(t)
	repo := NewSellerRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "s1@farm.test", entities.UserRoleFarmer, 2)
	other := seedUser(t, db, "s2@farm.test", entities.UserRoleFarmer, 2)

	p := &entities.SellerProfile{
		UserID:        u.ID,
		StoreName:     "Green Acres",
		BusinessType:  entities.BusinessTypeCompany,
		TaxID:         null.StringFrom("TX-1"),
		ProfileReview: entities.ProfileReview{Status: entities.ProfileStatusPending},
	}
	require.NoError(t, repo.CreateProfile(ctx, p))
	assert.NotZero(t, p.ID)

	exists, err := repo.StoreNameExists(ctx, "green acres")
	require.NoError(t, err)
	assert.True(t, exists)

	dupName := &entities.SellerProfile{UserID: other.ID, StoreName: "Green Acres", BusinessType: entities.BusinessTypeIndividual, ProfileReview: entities.ProfileReview{Status: entities.ProfileStatusPending}}
	err = repo.CreateProfile(ctx, dupName)
	assert.ErrorIs(t, err, domainerrors.ErrStoreNameTaken)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	dupUser := &entities.SellerProfile{UserID: u.ID, StoreName: "Other Store", BusinessType: entities.BusinessTypeIndividual, ProfileReview: entities.ProfileReview{Status: entities.ProfileStatusPending}}
	assert.ErrorIs(t, repo.CreateProfile(ctx, dupUser), domainerrors.ErrStepConflict)

	got, err := repo.GetProfileByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Acres", got.StoreName)
	assert.Equal(t, entities.ProfileStatusPending, got.Status)
	assert.False(t, got.BusinessAddress.Valid)

	got.Decide(entities.ProfileStatusRejected, "name is misleading", time.Now())
	require.NoError(t, repo.UpdateProfileReview(ctx, got))

	got, err = repo.GetProfileByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ProfileStatusRejected, got.Status)
	assert.Equal(t, "name is misleading", got.RejectionReason.String)

	_, err = repo.GetProfileByUserID(ctx, other.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateProfileReview(ctx, &entities.SellerProfile{UserID: other.ID}), domainerrors.ErrNotFound)
}

func TestSellerRepository_DocumentsAndBank(t *testing.T) {
	db := newTestDB(t)
	repo := NewSellerRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "s@farm.test", entities.UserRoleFarmer, 3)

	doc := &entities.SellerDocument{
		UserID:             u.ID,
		GovernmentID:       "sellers/1/gov.pdf",
		SelfieVerification: "sellers/1/selfie.jpg",
		TaxCertificate:     null.StringFrom("sellers/1/tax.pdf"),
		VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending},
	}
	require.NoError(t, repo.CreateDocument(ctx, doc))
	assert.ErrorIs(t, repo.CreateDocument(ctx, &entities.SellerDocument{UserID: u.ID, GovernmentID: "x", SelfieVerification: "y", VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending}}), domainerrors.ErrStepConflict)

	got, err := repo.GetDocumentByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.BusinessLicense.Valid)
	assert.Equal(t, "sellers/1/tax.pdf", got.TaxCertificate.String)

	got.MarkVerified(entities.DocGovernmentID)
	got.MarkVerified(entities.DocTaxCertificate)
	require.NoError(t, repo.UpdateDocumentReview(ctx, got))

	got, err = repo.GetDocumentByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.GovernmentIDVerified)
	assert.True(t, got.TaxCertificateVerified)
	assert.False(t, got.SelfieVerificationVerified)

	acct := &entities.SellerBankAccount{
		UserID:             u.ID,
		BankName:           "Farm Bank",
		AccountHolderName:  "Ada",
		AccountNumber:      "00112233",
		BranchCode:         null.StringFrom("001"),
		VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending},
	}
	require.NoError(t, repo.CreateBankAccount(ctx, acct))

	gotAcct, err := repo.GetBankAccountByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, gotAcct.IsVerified)
	assert.Equal(t, "001", gotAcct.BranchCode.String)

	gotAcct.IsVerified = true
	gotAcct.Decide(entities.VerificationVerified, "", time.Now())
	require.NoError(t, repo.UpdateBankAccountReview(ctx, gotAcct))

	gotAcct, err = repo.GetBankAccountByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, gotAcct.IsVerified)
	assert.Equal(t, entities.VerificationVerified, gotAcct.VerificationStatus)
}

func TestRiderRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewRiderRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "r@ride.test", entities.UserRoleLogistics, 2)

	doc := &entities.RiderDocument{
		UserID:             u.ID,
		GovernmentID:       "riders/1/gov.png",
		LiveSelfie:         "riders/1/selfie.png",
		VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending},
	}
	require.NoError(t, repo.CreateDocument(ctx, doc))
	assert.ErrorIs(t, repo.CreateDocument(ctx, doc), domainerrors.ErrStepConflict)

	profile := &entities.RiderProfile{
		UserID:              u.ID,
		VehicleType:         entities.VehicleVan,
		PlateNumber:         "AB-123",
		VehicleRegistration: "riders/1/reg.pdf",
		VehicleInsurance:    "riders/1/ins.pdf",
		DriversLicense:      "riders/1/dl.png",
		ProfileReview:       entities.ProfileReview{Status: entities.ProfileStatusPending},
	}
	require.NoError(t, repo.CreateProfile(ctx, profile))

	acct := &entities.RiderBankAccount{
		UserID:             u.ID,
		BankName:           "Road Bank",
		AccountHolderName:  "Bo",
		AccountNumber:      "99887766",
		WalletAddress:      null.StringFrom("0x52908400098527886E0F7030069857D2E4169EE7"),
		VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending},
	}
	require.NoError(t, repo.CreateBankAccount(ctx, acct))

	gotProfile, err := repo.GetProfileByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.VehicleVan, gotProfile.VehicleType)

	gotProfile.Decide(entities.ProfileStatusApproved, "", time.Now())
	require.NoError(t, repo.UpdateProfileReview(ctx, gotProfile))

	gotDoc, err := repo.GetDocumentByUserID(ctx, u.ID)
	require.NoError(t, err)
	gotDoc.MarkVerified(entities.DocLiveSelfie)
	gotDoc.Decide(entities.VerificationRejected, "id expired", time.Now())
	require.NoError(t, repo.UpdateDocumentReview(ctx, gotDoc))

	gotDoc, err = repo.GetDocumentByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, gotDoc.LiveSelfieVerified)
	assert.Equal(t, entities.VerificationRejected, gotDoc.VerificationStatus)
	assert.Equal(t, "id expired", gotDoc.RejectionReason.String)

	gotAcct, err := repo.GetBankAccountByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", gotAcct.WalletAddress.String)
	require.NoError(t, repo.UpdateBankAccountReview(ctx, gotAcct))

	_, err = repo.GetBankAccountByUserID(ctx, 777)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
