package main

import (
	"log/slog"
	"strings"
	"time"
	"unicode"

	"barangay-request-wizard/models"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// AutofillState is the explicit state of the restore-or-autofill machine
// that runs once per wizard session. Filled and Skipped are terminal; a
// session never re-runs auto-fill once it reached either.
type AutofillState string

const (
	AutofillUninitialized   AutofillState = "uninitialized"
	AutofillRestored        AutofillState = "restored"
	AutofillAwaitingProfile AutofillState = "awaiting-profile"
	AutofillFilled          AutofillState = "filled"
	AutofillSkipped         AutofillState = "skipped"
)

// initializeDraft resolves the durable slot first, so a resumed draft always
// wins over profile auto-fill. Only when the slot is empty is the core API
// asked for the resident's profile, one attempt; a failed fetch terminates as
// Skipped with a blank draft rather than blocking the wizard.
func initializeDraft(state *ServerState, residentID, token string) (*models.RequestDraft, AutofillState) {
	if draft, err := state.draftStorage.LoadDraft(residentID); err == nil {
		slog.Info("Restored persisted draft", "resident_id", residentID)
		return draft, AutofillRestored
	}

	slog.Debug("No persisted draft, fetching profile for auto-fill", "resident_id", residentID)
	profile, err := state.coreClient.FetchProfile(token)
	if err != nil {
		slog.Warn("Profile fetch failed, skipping auto-fill", "resident_id", residentID, "error", err)
		return &models.RequestDraft{}, AutofillSkipped
	}

	draft := draftFromProfile(profile)
	if err := state.draftStorage.StoreDraft(residentID, draft); err != nil {
		slog.Error("Failed to persist auto-filled draft", "resident_id", residentID, "error", err)
	}

	slog.Info("Auto-filled draft from profile", "resident_id", residentID)
	return draft, AutofillFilled
}

// draftFromProfile copies the fixed field mapping from the remote profile
// shape into a fresh draft.
func draftFromProfile(p *models.ResidentProfile) *models.RequestDraft {
	draft := &models.RequestDraft{
		Identity: models.IdentityInfo{
			LastName:     normalizeName(p.LastName),
			FirstName:    normalizeName(p.FirstName),
			MiddleName:   normalizeName(p.MiddleName),
			Suffix:       p.Suffix,
			DateOfBirth:  normalizeBirthDate(p.DateOfBirth),
			PlaceOfBirth: p.PlaceOfBirth,
			Gender:       p.Gender,
			CivilStatus:  p.CivilStatus,
			Nationality:  p.Nationality,
		},
		Address: models.AddressInfo{
			HouseNumber: p.Address.HouseNumber,
			Street:      p.Address.Street,
			Subdivision: p.Address.Subdivision,
		},
		Contact: models.ContactInfo{
			ContactNumber:  p.ContactNumber,
			EmailAddress:   p.EmailAddress,
			TinNumber:      p.TinNumber,
			SssGsisNumber:  p.SssGsisNumber,
			PrecinctNumber: p.PrecinctNumber,
			Religion:       p.Religion,
			Occupation:     p.Occupation,
		},
		Spouse: models.SpouseInfo{
			Name:          normalizeName(p.SpouseInfo.Name),
			Occupation:    p.SpouseInfo.Occupation,
			ContactNumber: p.SpouseInfo.ContactNumber,
		},
		Emergency: models.EmergencyInfo{
			Name:          normalizeName(p.EmergencyContact.Name),
			Relationship:  p.EmergencyContact.Relationship,
			ContactNumber: p.EmergencyContact.ContactNumber,
			HouseNumber:   p.EmergencyContact.HouseNumber,
			Street:        p.EmergencyContact.Street,
			Subdivision:   p.EmergencyContact.Subdivision,
		},
	}

	if draft.Identity.Nationality == "" {
		draft.Identity.Nationality = "Filipino"
	}
	return draft
}

const birthDateLayout = "2006-01-02"

// normalizeBirthDate turns the profile's ISO 8601 timestamp into the
// YYYY-MM-DD form the wizard uses. Unparseable values pass through so the
// resident can correct them manually.
func normalizeBirthDate(iso string) string {
	if iso == "" {
		return ""
	}
	if ts, err := time.Parse(time.RFC3339, iso); err == nil {
		return ts.Format(birthDateLayout)
	}
	if len(iso) >= len(birthDateLayout) {
		if _, err := time.Parse(birthDateLayout, iso[:len(birthDateLayout)]); err == nil {
			return iso[:len(birthDateLayout)]
		}
	}
	return iso
}

var nameCaser = cases.Title(language.English)

// normalizeName title-cases PSA-style all-caps names ("DELA CRUZ") and
// leaves anything already mixed-case alone.
func normalizeName(name string) string {
	if name == "" {
		return name
	}
	hasLetter := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return name
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	if !hasLetter {
		return name
	}
	return nameCaser.String(strings.ToLower(name))
}
