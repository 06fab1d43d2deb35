package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestSellerDocument_Verification(t *testing.T) {
	doc := &SellerDocument{
		GovernmentID:       "sellers/1/gov.pdf",
		SelfieVerification: "sellers/1/selfie.jpg",
		BusinessLicense:    null.StringFrom("sellers/1/license.pdf"),
	}

	assert.ElementsMatch(t, []DocumentType{DocGovernmentID, DocSelfieVerification, DocBusinessLicense}, UnverifiedDocuments(doc))

	assert.False(t, doc.MarkVerified(DocTaxCertificate), "tax certificate was not uploaded")
	assert.False(t, doc.MarkVerified(DocLiveSelfie))

	assert.True(t, doc.MarkVerified(DocGovernmentID))
	assert.True(t, doc.MarkVerified(DocSelfieVerification))
	assert.Equal(t, []DocumentType{DocBusinessLicense}, UnverifiedDocuments(doc))

	assert.True(t, doc.MarkVerified(DocBusinessLicense))
	assert.Empty(t, UnverifiedDocuments(doc))

	doc.Review().VerificationStatus = VerificationVerified
	assert.Equal(t, VerificationVerified, doc.VerificationStatus)
}

func TestRiderDocument_Verification(t *testing.T) {
	doc := &RiderDocument{GovernmentID: "riders/2/gov.png", LiveSelfie: "riders/2/selfie.png"}

	assert.Len(t, doc.Slots(), 2)
	assert.False(t, doc.MarkVerified(DocBusinessLicense))
	assert.True(t, doc.MarkVerified(DocLiveSelfie))
	assert.Equal(t, []DocumentType{DocGovernmentID}, UnverifiedDocuments(doc))
}

func TestDocumentType_IsSelfie(t *testing.T) {
	assert.True(t, DocLiveSelfie.IsSelfie())
	assert.True(t, DocSelfieVerification.IsSelfie())
	assert.False(t, DocGovernmentID.IsSelfie())
}
