package main

import "barangay-request-wizard/models"

// FieldErrors maps a failing draft field to a human-readable message.
// An empty map means the draft is submittable.
type FieldErrors map[string]string

// photoRequiredTypes lists the document types that need a 1x1 photo on file.
var photoRequiredTypes = map[models.DocumentType]bool{
	models.DocTypeClearance:         true,
	models.DocTypeBusinessPermit:    true,
	models.DocTypeBusinessClearance: true,
}

type fieldRule struct {
	Field   string
	Step    Step
	Message string

	// Applies gates conditional rules on the selected document type.
	// Nil means the rule always applies.
	Applies func(models.DocumentType) bool

	// Missing reports whether the rule fails for the given draft.
	Missing func(*models.RequestDraft, AttachmentSet) bool
}

// draftRules is the single source of truth for submit-time requirements.
// Conditional requirements are data-driven off the document type rather
// than scattered membership checks.
var draftRules = []fieldRule{
	{
		Field: "lastName", Step: StepPersonal, Message: "Last name is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Identity.LastName == "" },
	},
	{
		Field: "firstName", Step: StepPersonal, Message: "First name is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Identity.FirstName == "" },
	},
	{
		Field: "dateOfBirth", Step: StepPersonal, Message: "Date of birth is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Identity.DateOfBirth == "" },
	},
	{
		Field: "gender", Step: StepPersonal, Message: "Gender is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Identity.Gender == "" },
	},
	{
		Field: "contactNumber", Step: StepPersonal, Message: "Contact number is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Contact.ContactNumber == "" },
	},
	{
		Field: "emergencyName", Step: StepEmergency, Message: "Emergency contact name is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Emergency.Name == "" },
	},
	{
		Field: "emergencyContact", Step: StepEmergency, Message: "Emergency contact number is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Emergency.ContactNumber == "" },
	},
	{
		Field: "validIDFile", Step: StepFiles, Message: "A valid ID attachment is required",
		Missing: func(_ *models.RequestDraft, att AttachmentSet) bool { return att[models.AttachmentValidID] == nil },
	},
	{
		Field: "photo1x1File", Step: StepFiles, Message: "A 1x1 photo is required for this document type",
		Applies: func(dt models.DocumentType) bool { return photoRequiredTypes[dt] },
		Missing: func(_ *models.RequestDraft, att AttachmentSet) bool { return att[models.AttachmentPhoto1x1] == nil },
	},
	{
		Field: "documentType", Step: StepRequest, Message: "Document type is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Request.DocumentType == "" },
	},
	{
		Field: "purposeOfRequest", Step: StepRequest, Message: "Purpose of request is required",
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Request.PurposeOfRequest == "" },
	},
	{
		Field: "businessName", Step: StepRequest, Message: "Business name is required",
		Applies: models.DocumentType.IsBusiness,
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Business.BusinessName == "" },
	},
	{
		Field: "natureOfBusiness", Step: StepRequest, Message: "Nature of business is required",
		Applies: models.DocumentType.IsBusiness,
		Missing: func(d *models.RequestDraft, _ AttachmentSet) bool { return d.Business.NatureOfBusiness == "" },
	},
}

// ValidateDraft evaluates every rule against the draft; no short-circuit,
// no I/O. Attachment presence is part of validation because two of the
// requirements are about binary parts the draft itself never carries.
func ValidateDraft(draft *models.RequestDraft, attachments AttachmentSet) FieldErrors {
	errs := FieldErrors{}

	docType := draft.Request.DocumentType
	if docType != "" && !docType.Known() {
		errs["documentType"] = "Unknown document type"
	}

	for _, rule := range draftRules {
		if rule.Applies != nil && !rule.Applies(docType) {
			continue
		}
		if rule.Missing(draft, attachments) {
			errs[rule.Field] = rule.Message
		}
	}
	return errs
}
