package entities

import "time"

// DocumentType names one uploaded onboarding document
type DocumentType string

const (
	DocGovernmentID        DocumentType = "government_id"
	DocSelfieVerification  DocumentType = "selfie_verification"
	DocBusinessLicense     DocumentType = "business_license"
	DocTaxCertificate      DocumentType = "tax_certificate"
	DocLiveSelfie          DocumentType = "live_selfie"
	DocVehicleRegistration DocumentType = "vehicle_registration"
	DocVehicleInsurance    DocumentType = "vehicle_insurance"
	DocDriversLicense      DocumentType = "drivers_license"
)

// IsSelfie reports whether only photographs are acceptable for t
func (t DocumentType) IsSelfie() bool {
	return t == DocSelfieVerification || t == DocLiveSelfie
}

// DocumentSlot is the review view of one document field
type DocumentSlot struct {
	Type     DocumentType `json:"type"`
	Ref      string       `json:"ref"`
	Required bool         `json:"required"`
	Verified bool         `json:"verified"`
}

// Uploaded reports whether a blob was stored for the slot
func (s DocumentSlot) Uploaded() bool {
	return s.Ref != ""
}

// VerifiableDocuments is implemented by the per-role document records
type VerifiableDocuments interface {
	Slots() []DocumentSlot
	// MarkVerified flips one per-document flag; false when t is not an uploaded slot
	MarkVerified(t DocumentType) bool
	Review() *VerificationReview
}

// UnverifiedDocuments lists uploaded documents whose flag is still false
func UnverifiedDocuments(docs VerifiableDocuments) []DocumentType {
	var out []DocumentType
	for _, s := range docs.Slots() {
		if (s.Required || s.Uploaded()) && !s.Verified {
			out = append(out, s.Type)
		}
	}
	return out
}

// UploadedFile is a stored blob produced by a wizard step
type UploadedFile struct {
	Field       DocumentType
	Ref         string
	ContentType string
	Size        int64
	StoredAt    time.Time
}
