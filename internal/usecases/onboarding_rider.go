package usecases

import (
	"context"
	"strings"

	"agrimarket.backend/internal/domain/entities"
)

// SubmitRiderIdentity stores rider step 2: government id and live selfie.
// The document record is only written once both files are stored.
func (u *OnboardingUsecase) SubmitRiderIdentity(ctx context.Context, wc entities.WizardContext, input *entities.RiderIdentityInput) (*entities.StepResult, error) {
	if err := wrongFlow(entities.FlowRider, wc); err != nil {
		return nil, err
	}

	return u.submit(ctx, wc, stepSubmission{
		step:  entities.StepProfileOrIdentity,
		input: input,
		files: []pendingFile{
			{field: entities.DocGovernmentID, upload: input.GovernmentID},
			{field: entities.DocLiveSelfie, upload: input.LiveSelfie},
		},
		persist: func(ctx context.Context, refs map[entities.DocumentType]string) error {
			return u.riders.CreateDocument(ctx, &entities.RiderDocument{
				UserID:             wc.UserID,
				GovernmentID:       refs[entities.DocGovernmentID],
				LiveSelfie:         refs[entities.DocLiveSelfie],
				VerificationReview: entities.VerificationReview{VerificationStatus: entities.VerificationPending},
			})
		},
	})
}

// SubmitRiderVehicle stores rider step 3: vehicle details and papers
func (u *OnboardingUsecase) SubmitRiderVehicle(ctx context.Context, wc entities.WizardContext, input *entities.RiderVehicleInput) (*entities.StepResult, error) {
	if err := wrongFlow(entities.FlowRider, wc); err != nil {
		return nil, err
	}
	input.PlateNumber = strings.ToUpper(strings.TrimSpace(input.PlateNumber))

	return u.submit(ctx, wc, stepSubmission{
		step:  entities.StepDocumentsOrVehicle,
		input: input,
		files: []pendingFile{
			{field: entities.DocVehicleRegistration, upload: input.VehicleRegistration},
			{field: entities.DocVehicleInsurance, upload: input.VehicleInsurance},
			{field: entities.DocDriversLicense, upload: input.DriversLicense},
		},
		persist: func(ctx context.Context, refs map[entities.DocumentType]string) error {
			return u.riders.CreateProfile(ctx, &entities.RiderProfile{
				UserID:              wc.UserID,
				VehicleType:         entities.VehicleType(input.VehicleType),
				PlateNumber:         input.PlateNumber,
				VehicleRegistration: refs[entities.DocVehicleRegistration],
				VehicleInsurance:    refs[entities.DocVehicleInsurance],
				DriversLicense:      refs[entities.DocDriversLicense],
				ProfileReview:       entities.ProfileReview{Status: entities.ProfileStatusPending},
			})
		},
	})
}
