package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// BusinessType represents the legal form of a seller
type BusinessType string

const (
	BusinessTypeIndividual BusinessType = "individual"
	BusinessTypeCompany    BusinessType = "company"
)

// SellerProfile is the store identity of a farmer
type SellerProfile struct {
	ID              uint         `json:"id"`
	UserID          uint         `json:"user_id"`
	StoreName       string       `json:"store_name"`
	BusinessType    BusinessType `json:"business_type"`
	BusinessAddress null.String  `json:"business_address"`
	TaxID           null.String  `json:"tax_id"`
	ProfileReview
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SellerDocument holds a farmer's identity and business documents
type SellerDocument struct {
	ID                         uint        `json:"id"`
	UserID                     uint        `json:"user_id"`
	GovernmentID               string      `json:"government_id"`
	GovernmentIDVerified       bool        `json:"government_id_verified"`
	SelfieVerification         string      `json:"selfie_verification"`
	SelfieVerificationVerified bool        `json:"selfie_verification_verified"`
	BusinessLicense            null.String `json:"business_license"`
	BusinessLicenseVerified    bool        `json:"business_license_verified"`
	TaxCertificate             null.String `json:"tax_certificate"`
	TaxCertificateVerified     bool        `json:"tax_certificate_verified"`
	VerificationReview
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slots implements VerifiableDocuments
func (d *SellerDocument) Slots() []DocumentSlot {
	return []DocumentSlot{
		{Type: DocGovernmentID, Ref: d.GovernmentID, Required: true, Verified: d.GovernmentIDVerified},
		{Type: DocSelfieVerification, Ref: d.SelfieVerification, Required: true, Verified: d.SelfieVerificationVerified},
		{Type: DocBusinessLicense, Ref: d.BusinessLicense.String, Verified: d.BusinessLicenseVerified},
		{Type: DocTaxCertificate, Ref: d.TaxCertificate.String, Verified: d.TaxCertificateVerified},
	}
}

// MarkVerified implements VerifiableDocuments
func (d *SellerDocument) MarkVerified(t DocumentType) bool {
	switch t {
	case DocGovernmentID:
		d.GovernmentIDVerified = true
	case DocSelfieVerification:
		d.SelfieVerificationVerified = true
	case DocBusinessLicense:
		if !d.BusinessLicense.Valid {
			return false
		}
		d.BusinessLicenseVerified = true
	case DocTaxCertificate:
		if !d.TaxCertificate.Valid {
			return false
		}
		d.TaxCertificateVerified = true
	default:
		return false
	}
	return true
}

// Review implements VerifiableDocuments
func (d *SellerDocument) Review() *VerificationReview {
	return &d.VerificationReview
}

// SellerBankAccount is a farmer's payout destination
type SellerBankAccount struct {
	ID                uint        `json:"id"`
	UserID            uint        `json:"user_id"`
	BankName          string      `json:"bank_name"`
	AccountHolderName string      `json:"account_holder_name"`
	AccountNumber     string      `json:"account_number"`
	BranchCode        null.String `json:"branch_code"`
	IsVerified        bool        `json:"is_verified"`
	VerificationReview
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
