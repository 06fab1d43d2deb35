package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// VehicleType represents a rider's vehicle class
type VehicleType string

const (
	VehicleBike    VehicleType = "bike"
	VehicleCar     VehicleType = "car"
	VehicleScooter VehicleType = "scooter"
	VehicleVan     VehicleType = "van"
	VehicleTruck   VehicleType = "truck"
)

// RiderProfile is the vehicle identity of a logistics user
type RiderProfile struct {
	ID                  uint        `json:"id"`
	UserID              uint        `json:"user_id"`
	VehicleType         VehicleType `json:"vehicle_type"`
	PlateNumber         string      `json:"plate_number"`
	VehicleRegistration string      `json:"vehicle_registration"`
	VehicleInsurance    string      `json:"vehicle_insurance"`
	DriversLicense      string      `json:"drivers_license"`
	ProfileReview
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RiderDocument holds a rider's identity documents
type RiderDocument struct {
	ID                   uint   `json:"id"`
	UserID               uint   `json:"user_id"`
	GovernmentID         string `json:"government_id"`
	GovernmentIDVerified bool   `json:"government_id_verified"`
	LiveSelfie           string `json:"live_selfie"`
	LiveSelfieVerified   bool   `json:"live_selfie_verified"`
	VerificationReview
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slots implements VerifiableDocuments
func (d *RiderDocument) Slots() []DocumentSlot {
	return []DocumentSlot{
		{Type: DocGovernmentID, Ref: d.GovernmentID, Required: true, Verified: d.GovernmentIDVerified},
		{Type: DocLiveSelfie, Ref: d.LiveSelfie, Required: true, Verified: d.LiveSelfieVerified},
	}
}

// MarkVerified implements VerifiableDocuments
func (d *RiderDocument) MarkVerified(t DocumentType) bool {
	switch t {
	case DocGovernmentID:
		d.GovernmentIDVerified = true
	case DocLiveSelfie:
		d.LiveSelfieVerified = true
	default:
		return false
	}
	return true
}

// Review implements VerifiableDocuments
func (d *RiderDocument) Review() *VerificationReview {
	return &d.VerificationReview
}

// RiderBankAccount is a rider's payout destination
type RiderBankAccount struct {
	ID                uint        `json:"id"`
	UserID            uint        `json:"user_id"`
	BankName          string      `json:"bank_name"`
	AccountHolderName string      `json:"account_holder_name"`
	AccountNumber     string      `json:"account_number"`
	WalletAddress     null.String `json:"wallet_address"`
	IsVerified        bool        `json:"is_verified"`
	VerificationReview
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
