package usecases

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"agrimarket.backend/internal/config"
	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/domain/repositories"
	"agrimarket.backend/internal/infrastructure/metrics"
	"agrimarket.backend/internal/infrastructure/notification"
	"agrimarket.backend/internal/infrastructure/storage"
	"agrimarket.backend/pkg/crypto"
	"agrimarket.backend/pkg/logger"
	"agrimarket.backend/pkg/redis"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
)

const registrationPathPrefix = "/api/v1/register/"

// StepPath is the URL of a wizard step, or of the completion view once the
// wizard is done
func StepPath(flow entities.RegistrationFlow, step int) string {
	if step >= entities.StepComplete {
		return registrationPathPrefix + string(flow) + "/complete"
	}
	if step < entities.StepBasicInfo {
		step = entities.StepBasicInfo
	}
	return registrationPathPrefix + string(flow) + "/step-" + strconv.Itoa(step)
}

// OnboardingDeps wires the onboarding usecase
type OnboardingDeps struct {
	Users    repositories.UserRepository
	Sellers  repositories.SellerRepository
	Riders   repositories.RiderRepository
	UoW      repositories.UnitOfWork
	Cursors  CursorStore
	Locker   StepLocker
	Blobs    storage.BlobStore
	Notifier notification.Notifier
	Metrics  *metrics.Metrics
	Config   config.RegistrationConfig
}

// OnboardingUsecase drives the seller and rider registration wizards
type OnboardingUsecase struct {
	users    repositories.UserRepository
	sellers  repositories.SellerRepository
	riders   repositories.RiderRepository
	uow      repositories.UnitOfWork
	cursors  CursorStore
	locker   StepLocker
	blobs    storage.BlobStore
	notifier notification.Notifier
	metrics  *metrics.Metrics
	records  recordLoader
	cfg      config.RegistrationConfig
	now      func() time.Time
}

// NewOnboardingUsecase creates a new onboarding usecase
func NewOnboardingUsecase(d OnboardingDeps) *OnboardingUsecase {
	if d.Notifier == nil {
		d.Notifier = notification.LogNotifier{}
	}
	if d.Config.CursorTTL <= 0 {
		d.Config.CursorTTL = 24 * time.Hour
	}
	if d.Config.StepLockTTL <= 0 {
		d.Config.StepLockTTL = 30 * time.Second
	}
	if d.Config.MaxUploadSize <= 0 {
		d.Config.MaxUploadSize = 5 << 20
	}
	return &OnboardingUsecase{
		users:    d.Users,
		sellers:  d.Sellers,
		riders:   d.Riders,
		uow:      d.UoW,
		cursors:  d.Cursors,
		locker:   d.Locker,
		blobs:    d.Blobs,
		notifier: d.Notifier,
		metrics:  d.Metrics,
		records:  recordLoader{sellers: d.Sellers, riders: d.Riders},
		cfg:      d.Config,
		now:      time.Now,
	}
}

// ResolveCursor reads the in-progress user id of flow from the session
func (u *OnboardingUsecase) ResolveCursor(ctx context.Context, flow entities.RegistrationFlow, sessionID string) (uint, error) {
	if sessionID == "" {
		return 0, domainerrors.ErrMissingCursor
	}
	raw, err := u.cursors.GetValue(ctx, sessionID, flow.CursorKey())
	if errors.Is(err, redis.ErrSessionValueMissing) {
		return 0, domainerrors.ErrMissingCursor
	}
	if err != nil {
		return 0, fmt.Errorf("read registration cursor: %w", err)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrMissingCursor
	}
	return uint(id), nil
}

// Form returns the display model of the step in wc
func (u *OnboardingUsecase) Form(ctx context.Context, wc entities.WizardContext) (*entities.StepForm, error) {
	form, ok := stepForm(wc.Flow, wc.Step)
	if !ok {
		return nil, domainerrors.ErrNotFound
	}

	if wc.Step == entities.StepBasicInfo {
		form.CurrentStep = entities.StepBasicInfo
		if wc.UserID != 0 {
			if user, err := u.loadRegistrant(ctx, wc); err == nil {
				form.CurrentStep = user.RegistrationStep
			}
		}
		return form, nil
	}

	if wc.UserID == 0 {
		return nil, domainerrors.ErrMissingCursor
	}
	user, err := u.loadRegistrant(ctx, wc)
	if err != nil {
		return nil, err
	}
	if user.RegistrationStep < wc.Step {
		return nil, domainerrors.ErrMissingCursor
	}
	form.CurrentStep = user.RegistrationStep
	return form, nil
}

// SubmitBasicInfo stores step 1: creates the user and opens the cursor
func (u *OnboardingUsecase) SubmitBasicInfo(ctx context.Context, wc entities.WizardContext, input *entities.BasicInfoInput) (res *entities.StepResult, err error) {
	defer func() { u.metrics.IncrementWizardStep(string(wc.Flow), entities.StepBasicInfo, stepOutcome(err)) }()

	if !wc.Flow.Valid() {
		return nil, domainerrors.ErrNotFound
	}
	if wc.SessionID == "" {
		return nil, domainerrors.BadRequest("a registration session is required")
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	exists, err := u.users.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainerrors.Unique("email")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Name:               input.Name,
		Email:              input.Email,
		Phone:              input.Phone,
		Address:            optionalString(input.Address),
		PasswordHash:       hash,
		Role:               wc.Flow.Role(),
		IsApproved:         false,
		RegistrationStep:   entities.StepProfileOrIdentity,
		RegistrationStatus: entities.RegistrationInProgress,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Unique("email")
		}
		return nil, err
	}

	if err := u.openCursor(ctx, wc.Flow, wc.SessionID, user.ID); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Registration started",
		zap.String("flow", string(wc.Flow)),
		zap.Uint("user_id", user.ID),
	)
	return &entities.StepResult{
		UserID:   user.ID,
		NextStep: entities.StepProfileOrIdentity,
		Redirect: StepPath(wc.Flow, entities.StepProfileOrIdentity),
	}, nil
}

// Status reports onboarding and approval progress of an authenticated user
func (u *OnboardingUsecase) Status(ctx context.Context, flow entities.RegistrationFlow, userID uint) (*entities.RegistrationStatusView, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != flow.Role() {
		return nil, fmt.Errorf("%w: %s registration belongs to role %s", domainerrors.ErrUnauthorized, flow, flow.Role())
	}

	rec, err := u.records.load(ctx, flow, user.ID)
	if err != nil {
		return nil, err
	}
	view := rec.statusView(user)
	return &view, nil
}

// Resume re-opens the cursor of an authenticated user whose wizard is
// still in progress, e.g. after the browser session expired
func (u *OnboardingUsecase) Resume(ctx context.Context, flow entities.RegistrationFlow, sessionID string, userID uint) (*entities.StepResult, error) {
	user, err := u.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != flow.Role() {
		return nil, fmt.Errorf("%w: %s registration belongs to role %s", domainerrors.ErrUnauthorized, flow, flow.Role())
	}
	if user.RegistrationCompleted() || user.RegistrationStatus != entities.RegistrationInProgress {
		return nil, domainerrors.ErrRegistrationClosed
	}
	if sessionID == "" {
		return nil, domainerrors.BadRequest("a registration session is required")
	}

	if err := u.openCursor(ctx, flow, sessionID, user.ID); err != nil {
		return nil, err
	}
	return &entities.StepResult{
		UserID:   user.ID,
		NextStep: user.RegistrationStep,
		Redirect: StepPath(flow, user.RegistrationStep),
	}, nil
}

func (u *OnboardingUsecase) openCursor(ctx context.Context, flow entities.RegistrationFlow, sessionID string, userID uint) error {
	value := strconv.FormatUint(uint64(userID), 10)
	if err := u.cursors.PutValue(ctx, sessionID, flow.CursorKey(), value, u.cfg.CursorTTL); err != nil {
		return fmt.Errorf("open registration cursor: %w", err)
	}
	return nil
}

// loadRegistrant loads the cursor user and checks it belongs to the flow
func (u *OnboardingUsecase) loadRegistrant(ctx context.Context, wc entities.WizardContext) (*entities.User, error) {
	user, err := u.users.GetByID(ctx, wc.UserID)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.ErrMissingCursor
	}
	if err != nil {
		return nil, err
	}
	if user.Role != wc.Flow.Role() {
		return nil, domainerrors.ErrMissingCursor
	}
	return user, nil
}

// stepSubmission describes one wizard step after step 1
type stepSubmission struct {
	step  int
	input interface{}
	files []pendingFile
	// precheck runs after validation and before any upload
	precheck func(ctx context.Context) error
	// persist writes the step's sub-entity inside the step transaction
	persist func(ctx context.Context, refs map[entities.DocumentType]string) error
}

// submit runs the shared step pipeline: cursor guard, per-user lock, payload
// validation, uploads, then sub-entity insert and conditional cursor advance
// in one transaction. Stored blobs are removed when anything after the
// upload fails.
func (u *OnboardingUsecase) submit(ctx context.Context, wc entities.WizardContext, sub stepSubmission) (res *entities.StepResult, err error) {
	defer func() { u.metrics.IncrementWizardStep(string(wc.Flow), sub.step, stepOutcome(err)) }()

	if wc.UserID == 0 {
		return nil, domainerrors.ErrMissingCursor
	}

	release, err := u.locker.Acquire(ctx, stepLockName(wc), u.cfg.StepLockTTL)
	if errors.Is(err, redis.ErrLockHeld) {
		return nil, domainerrors.ErrStepInProgress
	}
	if err != nil {
		return nil, fmt.Errorf("acquire step lock: %w", err)
	}
	defer release()

	user, err := u.loadRegistrant(ctx, wc)
	if err != nil {
		return nil, err
	}
	switch {
	case user.RegistrationStep < sub.step:
		return nil, domainerrors.ErrMissingCursor
	case user.RegistrationStep > sub.step:
		return nil, fmt.Errorf("step %d: %w", sub.step, domainerrors.ErrStepConflict)
	}

	if err := validateInput(sub.input); err != nil {
		return nil, err
	}
	if sub.precheck != nil {
		if err := sub.precheck(ctx); err != nil {
			return nil, err
		}
	}

	stored, err := u.storeFiles(ctx, wc.Flow.BlobNamespace(user.ID), sub.files)
	if err != nil {
		return nil, err
	}

	next := sub.step + 1
	status := entities.RegistrationInProgress
	if next == entities.StepComplete {
		status = entities.RegistrationPendingApproval
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := sub.persist(txCtx, refsByField(stored)); err != nil {
			return err
		}
		return u.users.AdvanceRegistrationStep(txCtx, user.ID, sub.step, next, status)
	})
	if err != nil {
		u.discardFiles(ctx, stored)
		return nil, err
	}

	result := &entities.StepResult{
		UserID:   user.ID,
		NextStep: next,
		Redirect: StepPath(wc.Flow, next),
	}
	if next == entities.StepComplete {
		result.Completed = true
		u.finish(ctx, wc, user)
	}
	return result, nil
}

// finish closes the wizard after the last step was committed
func (u *OnboardingUsecase) finish(ctx context.Context, wc entities.WizardContext, user *entities.User) {
	if err := u.cursors.DeleteValue(ctx, wc.SessionID, wc.Flow.CursorKey()); err != nil {
		logger.Warn(ctx, "Failed to clear registration cursor",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}
	logger.Info(ctx, "Registration submitted for approval",
		zap.String("flow", string(wc.Flow)),
		zap.Uint("user_id", user.ID),
	)
	_ = u.notifier.Notify(ctx, notification.RegistrationSubmittedMessage(user.Name, user.Email, string(wc.Flow)))
}

func stepLockName(wc entities.WizardContext) string {
	return fmt.Sprintf("%s:%d", wc.Flow, wc.UserID)
}

func stepOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domainerrors.ErrMissingCursor):
		return "expired"
	case errors.Is(err, domainerrors.ErrStepConflict), errors.Is(err, domainerrors.ErrStepInProgress):
		return "conflict"
	case errors.Is(err, domainerrors.ErrUploadRejected):
		return "upload_rejected"
	case errors.Is(err, domainerrors.ErrInvalidInput):
		return "invalid"
	}
	return "error"
}

func wrongFlow(want entities.RegistrationFlow, wc entities.WizardContext) error {
	if wc.Flow == want {
		return nil
	}
	return fmt.Errorf("%w: %s step submitted on %s registration", domainerrors.ErrNotFound, want, wc.Flow)
}

func optionalString(s string) null.String {
	s = strings.TrimSpace(s)
	return null.NewString(s, s != "")
}
