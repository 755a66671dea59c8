package models

// DraftUpdate is the inbound payload for a draft mutation. Each logical
// group has its own typed setter instead of a generic path-based one, so a
// request can only touch fields that exist. Nil groups are left untouched.
type DraftUpdate struct {
	Identity  *IdentityInfo   `json:"identity,omitempty"`
	Address   *AddressInfo    `json:"address,omitempty"`
	Contact   *ContactInfo    `json:"contact,omitempty"`
	Spouse    *SpouseInfo     `json:"spouseInfo,omitempty"`
	Emergency *EmergencyInfo  `json:"emergencyContact,omitempty"`
	Business  *BusinessInfo   `json:"businessInfo,omitempty"`
	Request   *RequestDetails `json:"request,omitempty"`
}

// Apply merges the non-nil groups of the update into the draft,
// replacing each targeted group wholesale.
func (u *DraftUpdate) Apply(draft *RequestDraft) {
	if u.Identity != nil {
		draft.Identity = *u.Identity
	}
	if u.Address != nil {
		draft.Address = *u.Address
	}
	if u.Contact != nil {
		draft.Contact = *u.Contact
	}
	if u.Spouse != nil {
		draft.Spouse = *u.Spouse
	}
	if u.Emergency != nil {
		draft.Emergency = *u.Emergency
	}
	if u.Business != nil {
		draft.Business = *u.Business
	}
	if u.Request != nil {
		draft.Request = *u.Request
	}
}
