package main

import (
	"testing"

	"barangay-request-wizard/models"

	"github.com/stretchr/testify/require"
)

func TestInMemoryDraftStorage_RoundTrip(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	draft := submittableDraft()
	require.NoError(t, storage.StoreDraft("res-1", draft))

	loaded, err := storage.LoadDraft("res-1")
	require.NoError(t, err)
	require.Equal(t, draft, loaded)
}

func TestInMemoryDraftStorage_LoadAbsent(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	_, err := storage.LoadDraft("res-1")
	require.ErrorIs(t, err, ErrNoDraft)
}

func TestInMemoryDraftStorage_RemoveAbsentIsNotAnError(t *testing.T) {
	storage := NewInMemoryDraftStorage()
	require.NoError(t, storage.RemoveDraft("res-1"))
}

func TestInMemoryDraftStorage_OverwriteReplacesWholesale(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	first := submittableDraft()
	first.Request.Remarks = "first version"
	require.NoError(t, storage.StoreDraft("res-1", first))

	second := submittableDraft()
	second.Request.Remarks = ""
	require.NoError(t, storage.StoreDraft("res-1", second))

	loaded, err := storage.LoadDraft("res-1")
	require.NoError(t, err)
	require.Equal(t, "", loaded.Request.Remarks)
}

func TestInMemoryDraftStorage_PurgesDraftWithoutIdentity(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	// A draft without name or email counts as never written.
	empty := &models.RequestDraft{}
	empty.Request.PurposeOfRequest = "some leftover"
	require.NoError(t, storage.StoreDraft("res-1", empty))

	_, err := storage.LoadDraft("res-1")
	require.ErrorIs(t, err, ErrNoDraft)

	// The stale entry was removed, not just skipped.
	storage.mutex.Lock()
	_, stillThere := storage.drafts["res-1"]
	storage.mutex.Unlock()
	require.False(t, stillThere)
}

func TestInMemoryDraftStorage_EmailAloneIsAnIdentitySignal(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	draft := &models.RequestDraft{}
	draft.Contact.EmailAddress = "juan@example.com"
	require.NoError(t, storage.StoreDraft("res-1", draft))

	loaded, err := storage.LoadDraft("res-1")
	require.NoError(t, err)
	require.Equal(t, "juan@example.com", loaded.Contact.EmailAddress)
}

func TestInMemoryDraftStorage_PurgesMalformedPayload(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	storage.mutex.Lock()
	storage.drafts["res-1"] = "{not json"
	storage.mutex.Unlock()

	_, err := storage.LoadDraft("res-1")
	require.ErrorIs(t, err, ErrNoDraft)
}

func TestInMemoryDraftStorage_IsolatesResidents(t *testing.T) {
	storage := NewInMemoryDraftStorage()

	a := submittableDraft()
	a.Identity.FirstName = "Juan"
	b := submittableDraft()
	b.Identity.FirstName = "Pedro"

	require.NoError(t, storage.StoreDraft("res-a", a))
	require.NoError(t, storage.StoreDraft("res-b", b))

	loadedA, err := storage.LoadDraft("res-a")
	require.NoError(t, err)
	loadedB, err := storage.LoadDraft("res-b")
	require.NoError(t, err)

	require.Equal(t, "Juan", loadedA.Identity.FirstName)
	require.Equal(t, "Pedro", loadedB.Identity.FirstName)

	require.NoError(t, storage.RemoveDraft("res-a"))
	_, err = storage.LoadDraft("res-a")
	require.ErrorIs(t, err, ErrNoDraft)
	_, err = storage.LoadDraft("res-b")
	require.NoError(t, err)
}

func TestCreateDraftKey(t *testing.T) {
	require.Equal(t, "wizard:draft:res-1", createDraftKey("wizard", "res-1"))
}
