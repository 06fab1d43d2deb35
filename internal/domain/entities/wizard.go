package entities

import "strconv"

// RegistrationFlow selects the seller or rider onboarding wizard
type RegistrationFlow string

const (
	FlowSeller RegistrationFlow = "seller"
	FlowRider  RegistrationFlow = "rider"
)

// Wizard step numbers. StepComplete equals RegistrationStepComplete.
const (
	StepBasicInfo          = 1
	StepProfileOrIdentity  = 2
	StepDocumentsOrVehicle = 3
	StepBankAccount        = 4
	StepComplete           = RegistrationStepComplete
)

// Valid reports whether f is a known flow
func (f RegistrationFlow) Valid() bool {
	return f == FlowSeller || f == FlowRider
}

// Role is the user role created by the flow
func (f RegistrationFlow) Role() UserRole {
	if f == FlowRider {
		return UserRoleLogistics
	}
	return UserRoleFarmer
}

// CursorKey is the session key holding the in-progress user id
func (f RegistrationFlow) CursorKey() string {
	return string(f) + "_registration_user_id"
}

// BlobNamespace is the blob store prefix for the user's uploads
func (f RegistrationFlow) BlobNamespace(userID uint) string {
	if f == FlowRider {
		return "riders/" + strconv.FormatUint(uint64(userID), 10)
	}
	return "sellers/" + strconv.FormatUint(uint64(userID), 10)
}

// FlowForRole returns the onboarding flow of an onboarding role
func FlowForRole(role UserRole) (RegistrationFlow, bool) {
	switch role {
	case UserRoleFarmer:
		return FlowSeller, true
	case UserRoleLogistics:
		return FlowRider, true
	}
	return "", false
}

// WizardContext is the explicit wizard state handed to every step.
// UserID is zero before step 1 has been stored.
type WizardContext struct {
	Flow      RegistrationFlow
	SessionID string
	UserID    uint
	Step      int
}

// StepResult tells the caller where the wizard goes next
type StepResult struct {
	UserID    uint   `json:"user_id"`
	NextStep  int    `json:"next_step"`
	Redirect  string `json:"redirect"`
	Completed bool   `json:"completed"`
}

// FileUpload is one multipart file handed to a wizard step
type FileUpload struct {
	Filename string
	Size     int64
	Data     []byte
}

// BasicInfoInput is step 1 of both flows
type BasicInfoInput struct {
	Name                 string `json:"name" form:"name" validate:"required,max=100"`
	Email                string `json:"email" form:"email" validate:"required,email,max=255"`
	Password             string `json:"password" form:"password" validate:"required,strongpassword"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                string `json:"phone" form:"phone" validate:"required,phone"`
	Address              string `json:"address" form:"address" validate:"omitempty,max=500"`
}

// SellerProfileInput is seller step 2
type SellerProfileInput struct {
	StoreName       string `json:"store_name" form:"store_name" validate:"required,min=2,max=100"`
	BusinessType    string `json:"business_type" form:"business_type" validate:"required,oneof=individual company"`
	BusinessAddress string `json:"business_address" form:"business_address" validate:"omitempty,max=500"`
	TaxID           string `json:"tax_id" form:"tax_id" validate:"omitempty,max=50"`
}

// RiderIdentityInput is rider step 2
type RiderIdentityInput struct {
	GovernmentID *FileUpload `form:"government_id" validate:"required"`
	LiveSelfie   *FileUpload `form:"live_selfie" validate:"required"`
}

// SellerDocumentsInput is seller step 3
type SellerDocumentsInput struct {
	GovernmentID       *FileUpload `form:"government_id" validate:"required"`
	SelfieVerification *FileUpload `form:"selfie_verification" validate:"required"`
	BusinessLicense    *FileUpload `form:"business_license"`
	TaxCertificate     *FileUpload `form:"tax_certificate"`
}

// RiderVehicleInput is rider step 3
type RiderVehicleInput struct {
	VehicleType         string      `form:"vehicle_type" validate:"required,oneof=bike car scooter van truck"`
	PlateNumber         string      `form:"plate_number" validate:"required,min=2,max=20"`
	VehicleRegistration *FileUpload `form:"vehicle_registration" validate:"required"`
	VehicleInsurance    *FileUpload `form:"vehicle_insurance" validate:"required"`
	DriversLicense      *FileUpload `form:"drivers_license" validate:"required"`
}

// BankAccountInput is step 4 of both flows. BranchCode applies to sellers,
// WalletAddress to riders.
type BankAccountInput struct {
	BankName          string `json:"bank_name" form:"bank_name" validate:"required,min=2,max=100"`
	AccountHolderName string `json:"account_holder_name" form:"account_holder_name" validate:"required,min=2,max=100"`
	AccountNumber     string `json:"account_number" form:"account_number" validate:"required,alphanum,min=6,max=34"`
	BranchCode        string `json:"branch_code" form:"branch_code" validate:"omitempty,max=20"`
	WalletAddress     string `json:"wallet_address" form:"wallet_address" validate:"omitempty,wallet"`
}

// FormField describes one input of a wizard step form
type FormField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Accept   []string `json:"accept,omitempty"`
}

// StepForm is the display model of a wizard step
type StepForm struct {
	Flow        RegistrationFlow `json:"flow"`
	Step        int              `json:"step"`
	Title       string           `json:"title"`
	Action      string           `json:"action"`
	Fields      []FormField      `json:"fields"`
	CurrentStep int              `json:"current_step"`
}

// RegistrationStatusView summarises onboarding and approval progress
type RegistrationStatusView struct {
	RegistrationStep   int                `json:"registration_step"`
	RegistrationStatus RegistrationStatus `json:"registration_status"`
	ProfileStatus      string             `json:"profile_status"`
	DocumentsStatus    string             `json:"documents_status"`
	BankAccountStatus  string             `json:"bank_account_status"`
	IsApproved         bool               `json:"is_approved"`
}

// RegistrationReview is the admin inspection projection of one registrant
type RegistrationReview struct {
	User        *User                  `json:"user"`
	Flow        RegistrationFlow       `json:"flow"`
	Profile     interface{}            `json:"profile"`
	Documents   interface{}            `json:"documents"`
	Slots       []DocumentSlot         `json:"document_slots"`
	BankAccount interface{}            `json:"bank_account"`
	Status      RegistrationStatusView `json:"status"`
}
