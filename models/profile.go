package models

// ResidentProfile is the shape returned by the core API's /api/auth/me
// endpoint. Only the fields the wizard copies into a fresh draft are decoded.
type ResidentProfile struct {
	ID           string `json:"id"`
	LastName     string `json:"lastName"`
	FirstName    string `json:"firstName"`
	MiddleName   string `json:"middleName"`
	Suffix       string `json:"suffix"`
	DateOfBirth  string `json:"dateOfBirth"` // ISO 8601 timestamp
	PlaceOfBirth string `json:"placeOfBirth"`
	Gender       string `json:"gender"`
	CivilStatus  string `json:"civilStatus"`
	Nationality  string `json:"nationality"`

	ContactNumber  string `json:"contactNumber"`
	EmailAddress   string `json:"emailAddress"`
	TinNumber      string `json:"tinNumber"`
	SssGsisNumber  string `json:"sssGsisNumber"`
	PrecinctNumber string `json:"precinctNumber"`
	Religion       string `json:"religion"`
	Occupation     string `json:"occupation"`

	Address struct {
		HouseNumber string `json:"houseNumber"`
		Street      string `json:"street"`
		Subdivision string `json:"subdivision"`
	} `json:"address"`

	SpouseInfo struct {
		Name          string `json:"name"`
		Occupation    string `json:"occupation"`
		ContactNumber string `json:"contactNumber"`
	} `json:"spouseInfo"`

	EmergencyContact struct {
		Name          string `json:"name"`
		Relationship  string `json:"relationship"`
		ContactNumber string `json:"contactNumber"`
		HouseNumber   string `json:"houseNumber"`
		Street        string `json:"street"`
		Subdivision   string `json:"subdivision"`
	} `json:"emergencyContact"`
}

// RequestReceipt is what the core API hands back for a created request.
type RequestReceipt struct {
	RequestID       string `json:"requestId"`
	ReferenceNumber string `json:"referenceNumber,omitempty"`
	Status          string `json:"status,omitempty"`
	ClientReference string `json:"clientReference,omitempty"`
}
