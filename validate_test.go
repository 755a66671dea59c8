package main

import (
	"testing"

	"barangay-request-wizard/models"

	"github.com/stretchr/testify/require"
)

func withAttachments(kinds ...models.AttachmentKind) AttachmentSet {
	set := AttachmentSet{}
	for _, kind := range kinds {
		set[kind] = &models.Attachment{Kind: kind, FileName: string(kind), Data: []byte{1}}
	}
	return set
}

func TestValidateDraft_CompleteDraftPasses(t *testing.T) {
	errs := ValidateDraft(submittableDraft(), withAttachments(models.AttachmentValidID))
	require.Empty(t, errs)
}

func TestValidateDraft_EmptyDraftReportsAllRequiredFields(t *testing.T) {
	errs := ValidateDraft(&models.RequestDraft{}, AttachmentSet{})

	// Every unconditional rule fails at once; there is no short-circuit.
	for _, field := range []string{
		"lastName", "firstName", "dateOfBirth", "gender", "contactNumber",
		"emergencyName", "emergencyContact", "validIDFile",
		"documentType", "purposeOfRequest",
	} {
		require.Contains(t, errs, field)
	}

	// Conditional rules stay silent without a document type.
	require.NotContains(t, errs, "photo1x1File")
	require.NotContains(t, errs, "businessName")
	require.NotContains(t, errs, "natureOfBusiness")
}

func TestValidateDraft_PhotoRequiredOnlyForPhotoTypes(t *testing.T) {
	draft := submittableDraft()
	atts := withAttachments(models.AttachmentValidID)

	for _, docType := range []models.DocumentType{
		models.DocTypeClearance, models.DocTypeBusinessPermit, models.DocTypeBusinessClearance,
	} {
		draft.Request.DocumentType = docType
		draft.Business.BusinessName = "Sari-Sari Store"
		draft.Business.NatureOfBusiness = "Retail"
		errs := ValidateDraft(draft, atts)
		require.Contains(t, errs, "photo1x1File", "docType %s", docType)
	}

	for _, docType := range []models.DocumentType{
		models.DocTypeResidency, models.DocTypeIndigency, models.DocTypeGoodMoral,
		models.DocTypeSoloParent, models.DocTypeFirstTimeJobseeker,
		models.DocTypeBarangayID, models.DocTypeCedula,
	} {
		draft.Request.DocumentType = docType
		errs := ValidateDraft(draft, atts)
		require.NotContains(t, errs, "photo1x1File", "docType %s", docType)
	}
}

func TestValidateDraft_BusinessFieldsRequiredForBusinessTypes(t *testing.T) {
	draft := submittableDraft()
	draft.Request.DocumentType = models.DocTypeBusinessPermit
	atts := withAttachments(models.AttachmentValidID, models.AttachmentPhoto1x1)

	errs := ValidateDraft(draft, atts)
	require.Contains(t, errs, "businessName")
	require.Contains(t, errs, "natureOfBusiness")

	draft.Business.BusinessName = "Aling Nena's Store"
	draft.Business.NatureOfBusiness = "Retail"
	errs = ValidateDraft(draft, atts)
	require.Empty(t, errs)
}

func TestValidateDraft_BusinessFieldsIgnoredForNonBusinessTypes(t *testing.T) {
	// Leftover business values from an earlier selection never fail a
	// non-business request.
	draft := submittableDraft()
	draft.Request.DocumentType = models.DocTypeIndigency
	draft.Business.BusinessName = ""
	draft.Business.NatureOfBusiness = ""

	errs := ValidateDraft(draft, withAttachments(models.AttachmentValidID))
	require.Empty(t, errs)
}

func TestValidateDraft_UnknownDocumentType(t *testing.T) {
	draft := submittableDraft()
	draft.Request.DocumentType = "marriage_license"

	errs := ValidateDraft(draft, withAttachments(models.AttachmentValidID))
	require.Equal(t, "Unknown document type", errs["documentType"])
}

func TestValidateDraft_IsPureOfSideEffects(t *testing.T) {
	draft := &models.RequestDraft{}
	atts := AttachmentSet{}

	first := ValidateDraft(draft, atts)
	second := ValidateDraft(draft, atts)
	require.Equal(t, first, second)
	require.Equal(t, &models.RequestDraft{}, draft)
}
