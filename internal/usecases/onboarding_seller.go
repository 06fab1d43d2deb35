package usecases

import (
	"context"
	"errors"
	"strings"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
)

// SubmitSellerProfile stores seller step 2: the store profile
func (u *OnboardingUsecase) SubmitSellerProfile(ctx context.Context, wc entities.WizardContext, input *entities.SellerProfileInput) (*entities.StepResult, error) {
	if err := wrongFlow(entities.FlowSeller, wc); err != nil {
		return nil, err
	}
	input.StoreName = strings.TrimSpace(input.StoreName)

	return u.submit(ctx, wc, stepSubmission{
		step:  entities.StepProfileOrIdentity,
		input: input,
		precheck: func(ctx context.Context) error {
			taken, err := u.sellers.StoreNameExists(ctx, input.StoreName)
			if err != nil {
				return err
			}
			if taken {
				return domainerrors.Unique("store_name")
			}
			return nil
		},
		persist: func(ctx context.Context, _ map[entities.DocumentType]string) error {
			err := u.sellers.CreateProfile(ctx, &entities.SellerProfile{
				UserID:          wc.UserID,
				StoreName:       input.StoreName,
				BusinessType:    entities.BusinessType(input.BusinessType),
				BusinessAddress: optionalString(input.BusinessAddress),
				TaxID:           optionalString(input.TaxID),
				ProfileReview:   entities.ProfileReview{Status: entities.ProfileStatusPending},
			})
			if errors.Is(err, domainerrors.ErrStoreNameTaken) {
				return domainerrors.Unique("store_name")
			}
			return err
		},
	})
}

// SubmitSellerDocuments stores seller step 3: identity and business documents
func (u *OnboardingUsecase) SubmitSellerDocuments(ctx context.Context, wc entities.WizardContext, input *entities.SellerDocumentsInput) (*entities.StepResult, error) {
	if err := wrongFlow(entities.FlowSeller, wc); err != nil {
		return nil, err
	}

	return u.submit(ctx, wc, stepSubmission{
		step:  entities.StepDocumentsOrVehicle,
		input: input,
		files: []pendingFile{
			{field: entities.DocGovernmentID, upload: input.GovernmentID},
			{field: entities.DocSelfieVerification, upload: input.SelfieVerification},
			{field: entities.DocBusinessLicense, upload: input.BusinessLicense},
			{field: entities.DocTaxCertificate, upload: input.TaxCertificate},
		},
		persist: func(ctx context.Context, refs map[entities.DocumentType]string) error {
			return u.sellers.CreateDocument(ctx, &entities.SellerDocument{
				UserID:             wc.UserID,
				GovernmentID:       refs[entities.DocGovernmentID],
				SelfieVerification: refs[entities.DocSelfieVerification],
				BusinessLicense:    optionalRef(refs, entities.DocBusinessLicense),
				TaxCertificate:     optionalRef(refs, entities.DocTaxCertificate),
				VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending},
			})
		},
	})
}

// SubmitBankAccount stores step 4 of either flow and completes the wizard
func (u *OnboardingUsecase) SubmitBankAccount(ctx context.Context, wc entities.WizardContext, input *entities.BankAccountInput) (*entities.StepResult, error) {
	if !wc.Flow.Valid() {
		return nil, domainerrors.ErrNotFound
	}

	input.BankName = strings.TrimSpace(input.BankName)
	input.AccountHolderName = strings.TrimSpace(input.AccountHolderName)
	input.AccountNumber = strings.ReplaceAll(strings.TrimSpace(input.AccountNumber), " ", "")
	// each flow only collects its own optional payout field
	if wc.Flow == entities.FlowSeller {
		input.WalletAddress = ""
	} else {
		input.BranchCode = ""
	}

	return u.submit(ctx, wc, stepSubmission{
		step:  entities.StepBankAccount,
		input: input,
		persist: func(ctx context.Context, _ map[entities.DocumentType]string) error {
			pending := entities.VerificationReview{VerificationStatus: entities.VerificationPending}
			if wc.Flow == entities.FlowRider {
				return u.riders.CreateBankAccount(ctx, &entities.RiderBankAccount{
					UserID:             wc.UserID,
					BankName:           input.BankName,
					AccountHolderName:  input.AccountHolderName,
					AccountNumber:      input.AccountNumber,
					WalletAddress:      optionalString(input.WalletAddress),
					IsVerified:         false,
					VerificationReview: pending,
				})
			}
			return u.sellers.CreateBankAccount(ctx, &entities.SellerBankAccount{
				UserID:             wc.UserID,
				BankName:           input.BankName,
				AccountHolderName:  input.AccountHolderName,
				AccountNumber:      input.AccountNumber,
				BranchCode:         optionalString(input.BranchCode),
				IsVerified:         false,
				VerificationReview: pending,
			})
		},
	})
}
