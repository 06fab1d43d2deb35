package usecases

import (
	"agrimarket.backend/internal/domain/entities"
	"agrimarket.backend/internal/infrastructure/storage"
)

var (
	basicInfoFields = []entities.FormField{
		{Name: "name", Type: "text", Required: true},
		{Name: "email", Type: "email", Required: true},
		{Name: "password", Type: "password", Required: true},
		{Name: "password_confirmation", Type: "password", Required: true},
		{Name: "phone", Type: "tel", Required: true},
		{Name: "address", Type: "textarea"},
	}

	bankFields = []entities.FormField{
		{Name: "bank_name", Type: "text", Required: true},
		{Name: "account_holder_name", Type: "text", Required: true},
		{Name: "account_number", Type: "text", Required: true},
	}
)

func fileField(doc entities.DocumentType, required bool) entities.FormField {
	accept := storage.DocumentTypes
	if doc.IsSelfie() {
		accept = storage.ImageTypes
	}
	return entities.FormField{Name: string(doc), Type: "file", Required: required, Accept: accept}
}

// stepForm describes the inputs of one wizard step
func stepForm(flow entities.RegistrationFlow, step int) (*entities.StepForm, bool) {
	if !flow.Valid() {
		return nil, false
	}

	form := &entities.StepForm{Flow: flow, Step: step, Action: StepPath(flow, step)}
	switch step {
	case entities.StepBasicInfo:
		form.Title = "Basic information"
		form.Fields = basicInfoFields
	case entities.StepProfileOrIdentity:
		if flow == entities.FlowSeller {
			form.Title = "Store profile"
			form.Fields = []entities.FormField{
				{Name: "store_name", Type: "text", Required: true},
				{Name: "business_type", Type: "select", Required: true, Options: []string{
					string(entities.BusinessTypeIndividual), string(entities.BusinessTypeCompany),
				}},
				{Name: "business_address", Type: "textarea"},
				{Name: "tax_id", Type: "text"},
			}
		} else {
			form.Title = "Identity verification"
			form.Fields = []entities.FormField{
				fileField(entities.DocGovernmentID, true),
				fileField(entities.DocLiveSelfie, true),
			}
		}
	case entities.StepDocumentsOrVehicle:
		if flow == entities.FlowSeller {
			form.Title = "Identity and business documents"
			form.Fields = []entities.FormField{
				fileField(entities.DocGovernmentID, true),
				fileField(entities.DocSelfieVerification, true),
				fileField(entities.DocBusinessLicense, false),
				fileField(entities.DocTaxCertificate, false),
			}
		} else {
			form.Title = "Vehicle"
			form.Fields = []entities.FormField{
				{Name: "vehicle_type", Type: "select", Required: true, Options: []string{
					string(entities.VehicleBike), string(entities.VehicleCar), string(entities.VehicleScooter),
					string(entities.VehicleVan), string(entities.VehicleTruck),
				}},
				{Name: "plate_number", Type: "text", Required: true},
				fileField(entities.DocVehicleRegistration, true),
				fileField(entities.DocVehicleInsurance, true),
				fileField(entities.DocDriversLicense, true),
			}
		}
	case entities.StepBankAccount:
		form.Title = "Payout account"
		fields := append([]entities.FormField{}, bankFields...)
		if flow == entities.FlowSeller {
			fields = append(fields, entities.FormField{Name: "branch_code", Type: "text"})
		} else {
			fields = append(fields, entities.FormField{Name: "wallet_address", Type: "text"})
		}
		form.Fields = fields
	default:
		return nil, false
	}
	return form, true
}
