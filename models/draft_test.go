package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentTypeKnown(t *testing.T) {
	for _, dt := range []DocumentType{
		DocTypeClearance, DocTypeResidency, DocTypeIndigency,
		DocTypeBusinessPermit, DocTypeBusinessClearance, DocTypeGoodMoral,
		DocTypeSoloParent, DocTypeFirstTimeJobseeker, DocTypeBarangayID, DocTypeCedula,
	} {
		require.True(t, dt.Known(), "%s", dt)
	}
	require.False(t, DocumentType("marriage_license").Known())
	require.False(t, DocumentType("").Known())
}

func TestDocumentTypeIsBusiness(t *testing.T) {
	require.True(t, DocTypeBusinessPermit.IsBusiness())
	require.True(t, DocTypeBusinessClearance.IsBusiness())
	require.False(t, DocTypeClearance.IsBusiness())
	require.False(t, DocTypeResidency.IsBusiness())
}

func TestHasIdentity(t *testing.T) {
	require.False(t, (&RequestDraft{}).HasIdentity())

	var d RequestDraft
	d.Identity.FirstName = "Juan"
	require.True(t, d.HasIdentity())

	d = RequestDraft{}
	d.Identity.LastName = "Dela Cruz"
	require.True(t, d.HasIdentity())

	d = RequestDraft{}
	d.Contact.EmailAddress = "juan@example.com"
	require.True(t, d.HasIdentity())

	// Other fields alone are not an identity signal.
	d = RequestDraft{}
	d.Request.PurposeOfRequest = "Employment"
	d.Identity.MiddleName = "Santos"
	require.False(t, d.HasIdentity())
}

func TestAttachmentDataNeverSerializes(t *testing.T) {
	att := Attachment{
		Kind:        AttachmentValidID,
		FileName:    "id.png",
		ContentType: "image/png",
		Data:        []byte{1, 2, 3},
	}
	payload, err := json.Marshal(att)
	require.NoError(t, err)
	require.NotContains(t, string(payload), "Data")
	require.Contains(t, string(payload), "id.png")
}

func TestDraftUpdateApply(t *testing.T) {
	draft := RequestDraft{}
	draft.Identity.FirstName = "Juan"
	draft.Contact.ContactNumber = "09170000001"

	update := DraftUpdate{
		Identity: &IdentityInfo{FirstName: "Pedro", LastName: "Reyes"},
		Request:  &RequestDetails{DocumentType: DocTypeResidency},
	}
	update.Apply(&draft)

	// Targeted groups are replaced wholesale, others untouched.
	require.Equal(t, "Pedro", draft.Identity.FirstName)
	require.Equal(t, "Reyes", draft.Identity.LastName)
	require.Equal(t, DocTypeResidency, draft.Request.DocumentType)
	require.Equal(t, "09170000001", draft.Contact.ContactNumber)
}
