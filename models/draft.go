package models

// DocumentType enumerates the barangay documents a resident can request.
type DocumentType string

const (
	DocTypeClearance          DocumentType = "clearance"
	DocTypeResidency          DocumentType = "residency"
	DocTypeIndigency          DocumentType = "indigency"
	DocTypeBusinessPermit     DocumentType = "business_permit"
	DocTypeBusinessClearance  DocumentType = "business_clearance"
	DocTypeGoodMoral          DocumentType = "good_moral"
	DocTypeSoloParent         DocumentType = "solo_parent"
	DocTypeFirstTimeJobseeker DocumentType = "first_time_jobseeker"
	DocTypeBarangayID         DocumentType = "barangay_id"
	DocTypeCedula             DocumentType = "cedula"
)

var knownDocumentTypes = map[DocumentType]bool{
	DocTypeClearance:          true,
	DocTypeResidency:          true,
	DocTypeIndigency:          true,
	DocTypeBusinessPermit:     true,
	DocTypeBusinessClearance:  true,
	DocTypeGoodMoral:          true,
	DocTypeSoloParent:         true,
	DocTypeFirstTimeJobseeker: true,
	DocTypeBarangayID:         true,
	DocTypeCedula:             true,
}

func (d DocumentType) Known() bool {
	return knownDocumentTypes[d]
}

// IsBusiness reports whether the document type carries the business
// information sub-record.
func (d DocumentType) IsBusiness() bool {
	return d == DocTypeBusinessPermit || d == DocTypeBusinessClearance
}

type IdentityInfo struct {
	LastName     string `json:"lastName" validate:"omitempty,max=100"`
	FirstName    string `json:"firstName" validate:"omitempty,max=100"`
	MiddleName   string `json:"middleName,omitempty" validate:"omitempty,max=100"`
	Suffix       string `json:"suffix,omitempty" validate:"omitempty,max=20"`
	DateOfBirth  string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	PlaceOfBirth string `json:"placeOfBirth,omitempty" validate:"omitempty,max=150"`
	Gender       string `json:"gender"`
	CivilStatus  string `json:"civilStatus,omitempty"`
	Nationality  string `json:"nationality,omitempty" validate:"omitempty,max=50"`
}

type AddressInfo struct {
	HouseNumber string `json:"houseNumber,omitempty" validate:"omitempty,max=50"`
	Street      string `json:"street,omitempty" validate:"omitempty,max=100"`
	Subdivision string `json:"subdivision,omitempty" validate:"omitempty,max=100"`
}

type ContactInfo struct {
	ContactNumber   string `json:"contactNumber" validate:"omitempty,max=20"`
	EmailAddress    string `json:"emailAddress,omitempty" validate:"omitempty,email"`
	TinNumber       string `json:"tinNumber,omitempty" validate:"omitempty,max=30"`
	SssGsisNumber   string `json:"sssGsisNumber,omitempty" validate:"omitempty,max=30"`
	PrecinctNumber  string `json:"precinctNumber,omitempty" validate:"omitempty,max=30"`
	Religion        string `json:"religion,omitempty" validate:"omitempty,max=50"`
	Occupation      string `json:"occupation,omitempty" validate:"omitempty,max=100"`
	HeightWeight    string `json:"heightWeight,omitempty" validate:"omitempty,max=50"`
	ColorOfHairEyes string `json:"colorOfHairEyes,omitempty" validate:"omitempty,max=50"`
}

type SpouseInfo struct {
	Name          string `json:"name,omitempty" validate:"omitempty,max=150"`
	Occupation    string `json:"occupation,omitempty" validate:"omitempty,max=100"`
	ContactNumber string `json:"contactNumber,omitempty" validate:"omitempty,max=20"`
}

type EmergencyInfo struct {
	Name          string `json:"name" validate:"omitempty,max=150"`
	Relationship  string `json:"relationship,omitempty" validate:"omitempty,max=50"`
	ContactNumber string `json:"contactNumber" validate:"omitempty,max=20"`
	HouseNumber   string `json:"houseNumber,omitempty" validate:"omitempty,max=50"`
	Street        string `json:"street,omitempty" validate:"omitempty,max=100"`
	Subdivision   string `json:"subdivision,omitempty" validate:"omitempty,max=100"`
}

type BusinessInfo struct {
	BusinessName      string `json:"businessName" validate:"omitempty,max=150"`
	NatureOfBusiness  string `json:"natureOfBusiness" validate:"omitempty,max=150"`
	HouseNumber       string `json:"houseNumber,omitempty" validate:"omitempty,max=50"`
	Street            string `json:"street,omitempty" validate:"omitempty,max=100"`
	Subdivision       string `json:"subdivision,omitempty" validate:"omitempty,max=100"`
	ApplicationType   string `json:"applicationType,omitempty" validate:"omitempty,oneof=new renewal"`
	OwnerRep          string `json:"ownerRepresentative,omitempty" validate:"omitempty,max=150"`
	OwnerContact      string `json:"ownerContactNumber,omitempty" validate:"omitempty,max=20"`
	RepresentativeTel string `json:"representativeContactNumber,omitempty" validate:"omitempty,max=20"`
}

type RequestDetails struct {
	DocumentType        DocumentType `json:"documentType"`
	RequestFor          string       `json:"requestFor,omitempty" validate:"omitempty,max=150"`
	PurposeOfRequest    string       `json:"purposeOfRequest" validate:"omitempty,max=300"`
	PreferredPickupDate string       `json:"preferredPickupDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Remarks             string       `json:"remarks,omitempty" validate:"omitempty,max=500"`
}

// RequestDraft is the single in-progress document request of a resident.
// Binary attachments are deliberately not part of the draft: they live in
// the wizard session only and are never written to the durable slot.
type RequestDraft struct {
	Identity  IdentityInfo   `json:"identity"`
	Address   AddressInfo    `json:"address"`
	Contact   ContactInfo    `json:"contact"`
	Spouse    SpouseInfo     `json:"spouseInfo"`
	Emergency EmergencyInfo  `json:"emergencyContact"`
	Business  BusinessInfo   `json:"businessInfo"`
	Request   RequestDetails `json:"request"`
}

// HasIdentity reports whether the draft carries an identifying signal.
// A draft without one is treated as never written and purged on load.
func (d *RequestDraft) HasIdentity() bool {
	return d.Identity.FirstName != "" || d.Identity.LastName != "" || d.Contact.EmailAddress != ""
}

// AttachmentKind names the binary parts a request can carry.
type AttachmentKind string

const (
	AttachmentPhoto1x1 AttachmentKind = "photo1x1"
	AttachmentValidID  AttachmentKind = "validID"
)

func (k AttachmentKind) Known() bool {
	return k == AttachmentPhoto1x1 || k == AttachmentValidID
}

type Attachment struct {
	Kind        AttachmentKind `json:"kind"`
	FileName    string         `json:"fileName"`
	ContentType string         `json:"contentType"`
	Data        []byte         `json:"-"`
}
