package usecases

import (
	"context"
	"errors"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
)

// registrationRecords is the flow independent view of a registrant's
// profile, documents and bank account. Missing sub-entities stay nil.
type registrationRecords struct {
	flow entities.RegistrationFlow

	profile       interface{}
	profileReview *entities.ProfileReview
	documents     entities.VerifiableDocuments
	bankAccount   interface{}
	bankReview    *entities.VerificationReview
	bankVerified  *bool

	saveProfile   func(ctx context.Context) error
	saveDocuments func(ctx context.Context) error
	saveBank      func(ctx context.Context) error
}

// recordLoader hides the seller/rider repository split
type recordLoader struct {
	sellers repositories.SellerRepository
	riders  repositories.RiderRepository
}

func (l recordLoader) load(ctx context.Context, flow entities.RegistrationFlow, userID uint) (*registrationRecords, error) {
	if flow == entities.FlowRider {
		return l.loadRider(ctx, userID)
	}
	return l.loadSeller(ctx, userID)
}

func (l recordLoader) loadSeller(ctx context.Context, userID uint) (*registrationRecords, error) {
	rec := &registrationRecords{flow: entities.FlowSeller}

	profile, err := l.sellers.GetProfileByUserID(ctx, userID)
	if err = ignoreNotFound(err); err != nil {
		return nil, err
	}
	if profile != nil {
		rec.profile = profile
		rec.profileReview = &profile.ProfileReview
		rec.saveProfile = func(ctx context.Context) error { return l.sellers.UpdateProfileReview(ctx, profile) }
	}

	docs, err := l.sellers.GetDocumentByUserID(ctx, userID)
	if err = ignoreNotFound(err); err != nil {
		return nil, err
	}
	if docs != nil {
		rec.documents = docs
		rec.saveDocuments = func(ctx context.Context) error { return l.sellers.UpdateDocumentReview(ctx, docs) }
	}

	bank, err := l.sellers.GetBankAccountByUserID(ctx, userID)
	if err = ignoreNotFound(err); err != nil {
		return nil, err
	}
	if bank != nil {
		rec.bankAccount = bank
		rec.bankReview = &bank.VerificationReview
		rec.bankVerified = &bank.IsVerified
		rec.saveBank = func(ctx context.Context) error { return l.sellers.UpdateBankAccountReview(ctx, bank) }
	}
	return rec, nil
}

func (l recordLoader) loadRider(ctx context.Context, userID uint) (*registrationRecords, error) {
	rec := &registrationRecords{flow: entities.FlowRider}

	profile, err := l.riders.GetProfileByUserID(ctx, userID)
	if err = ignoreNotFound(err); err != nil {
		return nil, err
	}
	if profile != nil {
		rec.profile = profile
		rec.profileReview = &profile.ProfileReview
		rec.saveProfile = func(ctx context.Context) error { return l.riders.UpdateProfileReview(ctx, profile) }
	}

	docs, err := l.riders.GetDocumentByUserID(ctx, userID)
	if err = ignoreNotFound(err); err != nil {
		return nil, err
	}
	if docs != nil {
		rec.documents = docs
		rec.saveDocuments = func(ctx context.Context) error { return l.riders.UpdateDocumentReview(ctx, docs) }
	}

	bank, err := l.riders.GetBankAccountByUserID(ctx, userID)
	if err = ignoreNotFound(err); err != nil {
		return nil, err
	}
	if bank != nil {
		rec.bankAccount = bank
		rec.bankReview = &bank.VerificationReview
		rec.bankVerified = &bank.IsVerified
		rec.saveBank = func(ctx context.Context) error { return l.riders.UpdateBankAccountReview(ctx, bank) }
	}
	return rec, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil
	}
	return err
}

func (r *registrationRecords) profileStatus() string {
	if r.profileReview == nil {
		return entities.NotStarted
	}
	return string(r.profileReview.Status)
}

func (r *registrationRecords) documentsStatus() string {
	if r.documents == nil {
		return entities.NotStarted
	}
	return string(r.documents.Review().VerificationStatus)
}

func (r *registrationRecords) bankStatus() string {
	if r.bankReview == nil {
		return entities.NotStarted
	}
	return string(r.bankReview.VerificationStatus)
}

func (r *registrationRecords) statusView(user *entities.User) entities.RegistrationStatusView {
	return entities.RegistrationStatusView{
		RegistrationStep:   user.RegistrationStep,
		RegistrationStatus: user.RegistrationStatus,
		ProfileStatus:      r.profileStatus(),
		DocumentsStatus:    r.documentsStatus(),
		BankAccountStatus:  r.bankStatus(),
		IsApproved:         user.IsApproved,
	}
}

// derivedApproval computes is_approved and registration_status from the
// three sub-entities: all approved means active, any rejection means
// rejected, anything else waits for review
func (r *registrationRecords) derivedApproval() (bool, entities.RegistrationStatus) {
	profile, docs, bank := r.profileStatus(), r.documentsStatus(), r.bankStatus()

	if profile == string(entities.ProfileStatusRejected) ||
		docs == string(entities.VerificationRejected) ||
		bank == string(entities.VerificationRejected) {
		return false, entities.RegistrationRejected
	}
	if profile == string(entities.ProfileStatusApproved) &&
		docs == string(entities.VerificationVerified) &&
		bank == string(entities.VerificationVerified) {
		return true, entities.RegistrationActive
	}
	return false, entities.RegistrationPendingApproval
}

func (r *registrationRecords) review(user *entities.User) *entities.RegistrationReview {
	out := &entities.RegistrationReview{
		User:        user,
		Flow:        r.flow,
		Profile:     r.profile,
		BankAccount: r.bankAccount,
		Status:      r.statusView(user),
	}
	if r.documents != nil {
		out.Documents = r.documents
		out.Slots = r.documents.Slots()
	}
	return out
}
