package main

import (
	"testing"

	"barangay-request-wizard/models"

	"github.com/stretchr/testify/require"
)

func TestSessionStore_BlankSessionOnFirstUse(t *testing.T) {
	sessions := NewSessionStore()

	step, autofill := sessions.Snapshot("res-1")
	require.Equal(t, StepPersonal, step)
	require.Equal(t, AutofillUninitialized, autofill)
	require.Empty(t, sessions.Attachments("res-1"))
}

func TestSessionStore_StepAndAutofillAreIndependent(t *testing.T) {
	sessions := NewSessionStore()

	sessions.SetStep("res-1", StepFiles)
	sessions.SetAutofill("res-1", AutofillFilled)

	step, autofill := sessions.Snapshot("res-1")
	require.Equal(t, StepFiles, step)
	require.Equal(t, AutofillFilled, autofill)

	// Another resident is untouched.
	step, autofill = sessions.Snapshot("res-2")
	require.Equal(t, StepPersonal, step)
	require.Equal(t, AutofillUninitialized, autofill)
}

func TestSessionStore_AttachmentLifecycle(t *testing.T) {
	sessions := NewSessionStore()

	sessions.StoreAttachment("res-1", validIDAttachment())
	require.NotNil(t, sessions.Attachments("res-1")[models.AttachmentValidID])

	// Replacing the same kind overwrites.
	replacement := validIDAttachment()
	replacement.FileName = "new-id.png"
	sessions.StoreAttachment("res-1", replacement)
	require.Equal(t, "new-id.png", sessions.Attachments("res-1")[models.AttachmentValidID].FileName)

	require.True(t, sessions.RemoveAttachment("res-1", models.AttachmentValidID))
	require.False(t, sessions.RemoveAttachment("res-1", models.AttachmentValidID))
}

func TestSessionStore_AttachmentsReturnsACopy(t *testing.T) {
	sessions := NewSessionStore()
	sessions.StoreAttachment("res-1", validIDAttachment())

	snapshot := sessions.Attachments("res-1")
	delete(snapshot, models.AttachmentValidID)

	require.NotNil(t, sessions.Attachments("res-1")[models.AttachmentValidID])
}

func TestSessionStore_ResetDropsEverything(t *testing.T) {
	sessions := NewSessionStore()

	sessions.SetStep("res-1", StepRequest)
	sessions.SetAutofill("res-1", AutofillFilled)
	sessions.StoreAttachment("res-1", validIDAttachment())

	sessions.Reset("res-1")

	step, autofill := sessions.Snapshot("res-1")
	require.Equal(t, StepPersonal, step)
	require.Equal(t, AutofillUninitialized, autofill)
	require.Empty(t, sessions.Attachments("res-1"))
}
