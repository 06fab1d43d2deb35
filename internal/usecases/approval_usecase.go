package usecases

import (
	"context"
	"fmt"
	"time"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
	"agrimarket.backend/internal/infrastructure/metrics"
	"agrimarket.backend/internal/infrastructure/notification"
	"agrimarket.backend/pkg/logger"
	"agrimarket.backend/pkg/utils"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

// Review targets, used for metrics and notifications
const (
	targetProfile   = "profile"
	targetDocuments = "documents"
	targetBank      = "bank_account"

	decisionDocumentVerified = "document_verified"
)

// ApprovalUsecase implements the admin review of completed registrations
type ApprovalUsecase struct {
	users    repositories.UserRepository
	records  recordLoader
	uow      repositories.UnitOfWork
	notifier notification.Notifier
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewApprovalUsecase creates a new approval usecase
func NewApprovalUsecase(
	users repositories.UserRepository,
	sellers repositories.SellerRepository,
	riders repositories.RiderRepository,
	uow repositories.UnitOfWork,
	notifier notification.Notifier,
	m *metrics.Metrics,
) *ApprovalUsecase {
	if notifier == nil {
		notifier = notification.LogNotifier{}
	}
	return &ApprovalUsecase{
		users:    users,
		records:  recordLoader{sellers: sellers, riders: riders},
		uow:      uow,
		notifier: notifier,
		metrics:  m,
		now:      time.Now,
	}
}

// ListRegistrations lists onboarding users for the admin queue. An empty
// status defaults to pending_approval.
func (u *ApprovalUsecase) ListRegistrations(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error) {
	if filter.Role != "" && !filter.Role.RequiresOnboarding() {
		return nil, 0, domainerrors.BadRequest("role must be farmer or logistics")
	}
	if filter.RegistrationStatus == "" {
		filter.RegistrationStatus = entities.RegistrationPendingApproval
	}
	return u.users.List(ctx, filter, page.Normalize())
}

// Review returns the inspection projection of one registrant
func (u *ApprovalUsecase) Review(ctx context.Context, userID uint) (*entities.RegistrationReview, error) {
	user, flow, err := u.registrant(ctx, userID)
	if err != nil {
		return nil, err
	}
	rec, err := u.records.load(ctx, flow, user.ID)
	if err != nil {
		return nil, err
	}
	return rec.review(user), nil
}

func (u *ApprovalUsecase) ApproveProfile(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error) {
	return u.decideProfile(ctx, userID, entities.ProfileStatusApproved, "")
}

func (u *ApprovalUsecase) RejectProfile(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return u.decideProfile(ctx, userID, entities.ProfileStatusRejected, reason)
}

// SuspendProfile takes an approved profile offline until it is approved again
func (u *ApprovalUsecase) SuspendProfile(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return u.decideProfile(ctx, userID, entities.ProfileStatusSuspended, reason)
}

func (u *ApprovalUsecase) decideProfile(ctx context.Context, userID uint, next entities.ProfileStatus, reason string) (*entities.RegistrationStatusView, error) {
	return u.decide(ctx, userID, targetProfile, string(next), reason, func(ctx context.Context, rec *registrationRecords) error {
		if rec.profileReview == nil {
			return fmt.Errorf("profile: %w", domainerrors.ErrNotFound)
		}
		if !rec.profileReview.Status.CanTransitionTo(next) {
			return fmt.Errorf("profile %s -> %s: %w", rec.profileReview.Status, next, domainerrors.ErrInvalidTransition)
		}
		rec.profileReview.Decide(next, reason, u.now())
		return rec.saveProfile(ctx)
	})
}

// VerifyDocument marks one uploaded document as checked
func (u *ApprovalUsecase) VerifyDocument(ctx context.Context, userID uint, docType entities.DocumentType) (*entities.RegistrationStatusView, error) {
	return u.decide(ctx, userID, targetDocuments, decisionDocumentVerified, "", func(ctx context.Context, rec *registrationRecords) error {
		if rec.documents == nil {
			return fmt.Errorf("documents: %w", domainerrors.ErrNotFound)
		}
		review := rec.documents.Review()
		if review.VerificationStatus != entities.VerificationPending {
			return fmt.Errorf("documents already %s: %w", review.VerificationStatus, domainerrors.ErrInvalidTransition)
		}
		if !rec.documents.MarkVerified(docType) {
			return domainerrors.NewValidationError(domainerrors.Field("document_type", domainerrors.FieldInvalid,
				fmt.Sprintf("%q is not an uploaded document of this registration", docType)))
		}
		return rec.saveDocuments(ctx)
	})
}

// ApproveDocuments verifies the document set once every uploaded document
// has been checked
func (u *ApprovalUsecase) ApproveDocuments(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error) {
	return u.decideDocuments(ctx, userID, entities.VerificationVerified, "")
}

func (u *ApprovalUsecase) RejectDocuments(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return u.decideDocuments(ctx, userID, entities.VerificationRejected, reason)
}

func (u *ApprovalUsecase) decideDocuments(ctx context.Context, userID uint, next entities.VerificationStatus, reason string) (*entities.RegistrationStatusView, error) {
	return u.decide(ctx, userID, targetDocuments, string(next), reason, func(ctx context.Context, rec *registrationRecords) error {
		if rec.documents == nil {
			return fmt.Errorf("documents: %w", domainerrors.ErrNotFound)
		}
		review := rec.documents.Review()
		if !review.VerificationStatus.CanTransitionTo(next) {
			return fmt.Errorf("documents %s -> %s: %w", review.VerificationStatus, next, domainerrors.ErrInvalidTransition)
		}
		if next == entities.VerificationVerified {
			if pending := entities.UnverifiedDocuments(rec.documents); len(pending) > 0 {
				verr := domainerrors.NewValidationError()
				for _, doc := range pending {
					verr.Add(string(doc), domainerrors.FieldUnverified, "the document has not been verified")
				}
				return verr
			}
		}
		review.Decide(next, reason, u.now())
		return rec.saveDocuments(ctx)
	})
}

func (u *ApprovalUsecase) VerifyBankAccount(ctx context.Context, userID uint) (*entities.RegistrationStatusView, error) {
	return u.decideBank(ctx, userID, entities.VerificationVerified, "")
}

func (u *ApprovalUsecase) RejectBankAccount(ctx context.Context, userID uint, reason string) (*entities.RegistrationStatusView, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return u.decideBank(ctx, userID, entities.VerificationRejected, reason)
}

func (u *ApprovalUsecase) decideBank(ctx context.Context, userID uint, next entities.VerificationStatus, reason string) (*entities.RegistrationStatusView, error) {
	return u.decide(ctx, userID, targetBank, string(next), reason, func(ctx context.Context, rec *registrationRecords) error {
		if rec.bankReview == nil {
			return fmt.Errorf("bank account: %w", domainerrors.ErrNotFound)
		}
		if !rec.bankReview.VerificationStatus.CanTransitionTo(next) {
			return fmt.Errorf("bank account %s -> %s: %w", rec.bankReview.VerificationStatus, next, domainerrors.ErrInvalidTransition)
		}
		rec.bankReview.Decide(next, reason, u.now())
		*rec.bankVerified = next == entities.VerificationVerified
		return rec.saveBank(ctx)
	})
}

// decide applies one review inside a transaction, then re-derives the
// user's approval from all three sub-entities
func (u *ApprovalUsecase) decide(
	ctx context.Context,
	userID uint,
	target, decision, reason string,
	apply func(ctx context.Context, rec *registrationRecords) error,
) (*entities.RegistrationStatusView, error) {
	var (
		view entities.RegistrationStatusView
		user *entities.User
	)

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		var (
			flow entities.RegistrationFlow
			err  error
		)
		user, flow, err = u.registrant(txCtx, userID)
		if err != nil {
			return err
		}
		if !user.RegistrationCompleted() {
			return domainerrors.ErrRegistrationClosed
		}

		rec, err := u.records.load(txCtx, flow, user.ID)
		if err != nil {
			return err
		}
		if err := apply(txCtx, rec); err != nil {
			return err
		}
		if err := u.syncApproval(txCtx, user, rec); err != nil {
			return err
		}
		view = rec.statusView(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.metrics.IncrementReviewDecision(string(user.Role)+"_"+target, decision)
	logger.Info(ctx, "Registration reviewed",
		zap.Uint("user_id", userID),
		zap.String("target", target),
		zap.String("decision", decision),
	)
	if decision != decisionDocumentVerified {
		_ = u.notifier.Notify(ctx, notification.ReviewMessage(notification.ReviewOutcome{
			Name:     user.Name,
			Email:    user.Email,
			Subject:  reviewSubject(user.Role, target),
			Approved: reason == "",
			Reason:   reason,
		}))
	}
	return &view, nil
}

// syncApproval stores the approval derived from the sub-entities on the user
func (u *ApprovalUsecase) syncApproval(ctx context.Context, user *entities.User, rec *registrationRecords) error {
	approved, status := rec.derivedApproval()

	approvedAt := null.Time{}
	if approved {
		approvedAt = user.ApprovedAt
		if !approvedAt.Valid {
			approvedAt = null.TimeFrom(u.now())
		}
	}

	if err := u.users.UpdateApproval(ctx, user.ID, approved, status, approvedAt); err != nil {
		return err
	}
	user.IsApproved = approved
	user.RegistrationStatus = status
	user.ApprovedAt = approvedAt
	return nil
}

// registrant loads a user that goes through onboarding
func (u *ApprovalUsecase) registrant(ctx context.Context, userID uint) (*entities.User, entities.RegistrationFlow, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	flow, ok := entities.FlowForRole(user.Role)
	if !ok {
		return nil, "", fmt.Errorf("user %d has no registration: %w", userID, domainerrors.ErrNotFound)
	}
	return user, flow, nil
}

func reviewSubject(role entities.UserRole, target string) string {
	who := "seller"
	if role == entities.UserRoleLogistics {
		who = "rider"
	}
	switch target {
	case targetDocuments:
		return who + " documents"
	case targetBank:
		return who + " bank account"
	}
	return who + " profile"
}
