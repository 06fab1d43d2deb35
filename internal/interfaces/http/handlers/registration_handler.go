package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/interfaces/http/middleware"
	"agrimarket.backend/internal/interfaces/http/response"
)

// multipartOverhead is the room left for text fields and part headers on top
// of the file payloads of one step
const multipartOverhead = 1 << 20

// maxFilesPerStep is the largest number of uploads any wizard step takes
const maxFilesPerStep = 4

type RegistrationService interface {
	Form(ctx context.Context, wc entities.WizardContext) (*entities.StepForm, error)
	SubmitBasicInfo(ctx context.Context, wc entities.WizardContext, input *entities.BasicInfoInput) (*entities.StepResult, error)
	SubmitSellerProfile(ctx context.Context, wc entities.WizardContext, input *entities.SellerProfileInput) (*entities.StepResult, error)
	SubmitSellerDocuments(ctx context.Context, wc entities.WizardContext, input *entities.SellerDocumentsInput) (*entities.StepResult, error)
	SubmitRiderIdentity(ctx context.Context, wc entities.WizardContext, input *entities.RiderIdentityInput) (*entities.StepResult, error)
	SubmitRiderVehicle(ctx context.Context, wc entities.WizardContext, input *entities.RiderVehicleInput) (*entities.StepResult, error)
	SubmitBankAccount(ctx context.Context, wc entities.WizardContext, input *entities.BankAccountInput) (*entities.StepResult, error)
	Status(ctx context.Context, flow entities.RegistrationFlow, userID uint) (*entities.RegistrationStatusView, error)
	Resume(ctx context.Context, flow entities.RegistrationFlow, sessionID string, userID uint) (*entities.StepResult, error)
}

// RegistrationHandler serves the seller and rider onboarding wizards
type RegistrationHandler struct {
	registration  RegistrationService
	maxUploadSize int64
}

// NewRegistrationHandler creates a new registration handler. maxUploadSize is
// the per-file limit; larger files are still read far enough to be rejected.
func NewRegistrationHandler(registration RegistrationService, maxUploadSize int64) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, maxUploadSize: maxUploadSize}
}

// Form returns the display model of the current step
// GET /api/v1/register/{flow}/step-{n}
func (h *RegistrationHandler) Form(c *gin.Context) {
	wc, err := wizardContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	form, err := h.registration.Form(c.Request.Context(), wc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"form": form})
}

// Submit stores the current step and redirects to the next one
// POST /api/v1/register/{flow}/step-{n}
func (h *RegistrationHandler) Submit(c *gin.Context) {
	wc, err := wizardContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	res, err := h.submit(c, wc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SeeOther(c, res.Redirect, res)
}

func (h *RegistrationHandler) submit(c *gin.Context, wc entities.WizardContext) (*entities.StepResult, error) {
	ctx := c.Request.Context()

	switch wc.Step {
	case entities.StepBasicInfo:
		var input entities.BasicInfoInput
		if err := c.ShouldBind(&input); err != nil {
			return nil, domainerrors.BadRequest(err.Error())
		}
		return h.registration.SubmitBasicInfo(ctx, wc, &input)

	case entities.StepBankAccount:
		var input entities.BankAccountInput
		if err := c.ShouldBind(&input); err != nil {
			return nil, domainerrors.BadRequest(err.Error())
		}
		return h.registration.SubmitBankAccount(ctx, wc, &input)
	}

	if wc.Flow == entities.FlowSeller {
		switch wc.Step {
		case entities.StepProfileOrIdentity:
			var input entities.SellerProfileInput
			if err := c.ShouldBind(&input); err != nil {
				return nil, domainerrors.BadRequest(err.Error())
			}
			return h.registration.SubmitSellerProfile(ctx, wc, &input)

		case entities.StepDocumentsOrVehicle:
			files, err := h.readUploads(c, entities.DocGovernmentID, entities.DocSelfieVerification, entities.DocBusinessLicense, entities.DocTaxCertificate)
			if err != nil {
				return nil, err
			}
			return h.registration.SubmitSellerDocuments(ctx, wc, &entities.SellerDocumentsInput{
				GovernmentID:       files[entities.DocGovernmentID],
				SelfieVerification: files[entities.DocSelfieVerification],
				BusinessLicense:    files[entities.DocBusinessLicense],
				TaxCertificate:     files[entities.DocTaxCertificate],
			})
		}
		return nil, domainerrors.ErrNotFound
	}

	switch wc.Step {
	case entities.StepProfileOrIdentity:
		files, err := h.readUploads(c, entities.DocGovernmentID, entities.DocLiveSelfie)
		if err != nil {
			return nil, err
		}
		return h.registration.SubmitRiderIdentity(ctx, wc, &entities.RiderIdentityInput{
			GovernmentID: files[entities.DocGovernmentID],
			LiveSelfie:   files[entities.DocLiveSelfie],
		})

	case entities.StepDocumentsOrVehicle:
		files, err := h.readUploads(c, entities.DocVehicleRegistration, entities.DocVehicleInsurance, entities.DocDriversLicense)
		if err != nil {
			return nil, err
		}
		return h.registration.SubmitRiderVehicle(ctx, wc, &entities.RiderVehicleInput{
			VehicleType:         c.PostForm("vehicle_type"),
			PlateNumber:         c.PostForm("plate_number"),
			VehicleRegistration: files[entities.DocVehicleRegistration],
			VehicleInsurance:    files[entities.DocVehicleInsurance],
			DriversLicense:      files[entities.DocDriversLicense],
		})
	}
	return nil, domainerrors.ErrNotFound
}

// readUploads reads the named multipart files. Absent files map to nil so the
// step reports them as required fields.
func (h *RegistrationHandler) readUploads(c *gin.Context, fields ...entities.DocumentType) (map[entities.DocumentType]*entities.FileUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFilesPerStep*(h.maxUploadSize+1)+multipartOverhead)

	out := make(map[entities.DocumentType]*entities.FileUpload, len(fields))
	for _, field := range fields {
		fh, err := c.FormFile(string(field))
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
				continue
			case errors.As(err, &tooLarge):
				return nil, domainerrors.NewAppError(http.StatusRequestEntityTooLarge, domainerrors.CodeBadRequest, "request body too large", domainerrors.ErrBadRequest)
			default:
				return nil, domainerrors.BadRequest("invalid multipart form: " + err.Error())
			}
		}

		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		// one byte past the limit is enough for the size check to reject it
		data, err := io.ReadAll(io.LimitReader(f, h.maxUploadSize+1))
		_ = f.Close()
		if err != nil {
			return nil, err
		}

		out[field] = &entities.FileUpload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Data:     data,
		}
	}
	return out, nil
}

// Complete is the landing view after the last step
// GET /api/v1/register/{flow}/complete
func (h *RegistrationHandler) Complete(flow entities.RegistrationFlow) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{
			"flow":    flow,
			"message": "Registration submitted. An administrator will review your application.",
		})
	}
}

// Status reports onboarding and approval progress of the logged in registrant
// GET /api/v1/register/{flow}/status
func (h *RegistrationHandler) Status(flow entities.RegistrationFlow) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticatedUserID(c)
		if err != nil {
			response.Error(c, err)
			return
		}

		view, err := h.registration.Status(c.Request.Context(), flow, userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, view)
	}
}

// Resume re-opens the wizard cursor for the logged in registrant in this browser
// POST /api/v1/register/{flow}/resume
func (h *RegistrationHandler) Resume(flow entities.RegistrationFlow) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authenticatedUserID(c)
		if err != nil {
			response.Error(c, err)
			return
		}

		res, err := h.registration.Resume(c.Request.Context(), flow, middleware.GetBrowserSessionID(c), userID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.SeeOther(c, res.Redirect, res)
	}
}

func wizardContext(c *gin.Context) (entities.WizardContext, error) {
	wc, ok := middleware.GetWizardContext(c)
	if !ok {
		return wc, domainerrors.ErrNotFound
	}
	return wc, nil
}
