package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"barangay-request-wizard/models"
)

const genericSubmissionError = "Failed to submit request. Please try again."

// SubmissionError is the uniform failure type for the request-creation call.
// Network errors and 4xx/5xx responses are deliberately not distinguished
// and never retried; the message carries the server's own wording when the
// response body had one.
type SubmissionError struct {
	StatusCode int
	Message    string
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// CoreAPIClient talks to the external barangay core REST API. Every call is
// attempt-once; the resident's bearer token is passed through unchanged.
type CoreAPIClient interface {
	// FetchProfile returns the authenticated resident's profile record.
	FetchProfile(token string) (*models.ResidentProfile, error)

	// CreateDocumentRequest submits the draft and attachments as one
	// multipart request and returns the server receipt.
	CreateDocumentRequest(token string, draft *models.RequestDraft, attachments AttachmentSet, clientReference string) (*models.RequestReceipt, error)

	// ListMyRequests returns the resident's prior submissions verbatim.
	ListMyRequests(token string) (json.RawMessage, error)

	// HealthCheck verifies the core API is reachable.
	HealthCheck() error
}

// BarangayCoreClient implements CoreAPIClient over HTTP.
type BarangayCoreClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewBarangayCoreClient(baseURL string) *BarangayCoreClient {
	return &BarangayCoreClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type coreEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *BarangayCoreClient) FetchProfile(token string) (*models.ResidentProfile, error) {
	url := fmt.Sprintf("%s/api/auth/me", c.baseURL)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute profile request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("profile fetch failed with status %d: %s", resp.StatusCode, string(body))
	}

	var envelope coreEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("profile fetch rejected: %s", upstreamMessage(&envelope))
	}

	var profile models.ResidentProfile
	if err := json.Unmarshal(envelope.Data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile data: %w", err)
	}

	slog.Debug("Profile fetched from core API", "resident_id", profile.ID)
	return &profile, nil
}

func (c *BarangayCoreClient) CreateDocumentRequest(token string, draft *models.RequestDraft, attachments AttachmentSet, clientReference string) (*models.RequestReceipt, error) {
	url := fmt.Sprintf("%s/api/document-requests", c.baseURL)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writeDraftForm(writer, draft, attachments, clientReference); err != nil {
		return nil, &SubmissionError{Message: genericSubmissionError}
	}
	if err := writer.Close(); err != nil {
		return nil, &SubmissionError{Message: genericSubmissionError}
	}

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	if err != nil {
		return nil, &SubmissionError{Message: genericSubmissionError}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("Document request submission failed to reach core API", "error", err)
		return nil, &SubmissionError{Message: genericSubmissionError}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var envelope coreEnvelope
	_ = json.Unmarshal(body, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !envelope.Success {
		message := upstreamMessage(&envelope)
		slog.Warn("Core API rejected document request", "status", resp.StatusCode, "message", message)
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Message: message}
	}

	var receipt models.RequestReceipt
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &receipt); err != nil {
			return nil, &SubmissionError{StatusCode: resp.StatusCode, Message: genericSubmissionError}
		}
	}
	receipt.ClientReference = clientReference

	slog.Info("Document request created", "request_id", receipt.RequestID, "client_reference", clientReference)
	return &receipt, nil
}

func (c *BarangayCoreClient) ListMyRequests(token string) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/api/document-requests/my-requests", c.baseURL)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create my-requests request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute my-requests request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read my-requests response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("my-requests failed with status %d: %s", resp.StatusCode, string(body))
	}
	return json.RawMessage(body), nil
}

func (c *BarangayCoreClient) HealthCheck() error {
	url := fmt.Sprintf("%s/api/health", c.baseURL)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to execute health check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// upstreamMessage prefers the server's message field, then error, then the
// generic fallback.
func upstreamMessage(e *coreEnvelope) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	return genericSubmissionError
}

// writeDraftForm encodes the draft the way the core API expects: scalar
// fields as top-level keys, nested groups in bracketed notation, binary
// attachments as named parts. The business group is only serialized for
// business document types; for everything else its values are ignored.
func writeDraftForm(w *multipart.Writer, draft *models.RequestDraft, attachments AttachmentSet, clientReference string) error {
	fields := map[string]string{
		"lastName":        draft.Identity.LastName,
		"firstName":       draft.Identity.FirstName,
		"middleName":      draft.Identity.MiddleName,
		"suffix":          draft.Identity.Suffix,
		"dateOfBirth":     draft.Identity.DateOfBirth,
		"placeOfBirth":    draft.Identity.PlaceOfBirth,
		"gender":          draft.Identity.Gender,
		"civilStatus":     draft.Identity.CivilStatus,
		"nationality":     draft.Identity.Nationality,
		"contactNumber":   draft.Contact.ContactNumber,
		"emailAddress":    draft.Contact.EmailAddress,
		"tinNumber":       draft.Contact.TinNumber,
		"sssGsisNumber":   draft.Contact.SssGsisNumber,
		"precinctNumber":  draft.Contact.PrecinctNumber,
		"religion":        draft.Contact.Religion,
		"occupation":      draft.Contact.Occupation,
		"heightWeight":    draft.Contact.HeightWeight,
		"colorOfHairEyes": draft.Contact.ColorOfHairEyes,

		"address[houseNumber]": draft.Address.HouseNumber,
		"address[street]":      draft.Address.Street,
		"address[subdivision]": draft.Address.Subdivision,

		"spouseInfo[name]":          draft.Spouse.Name,
		"spouseInfo[occupation]":    draft.Spouse.Occupation,
		"spouseInfo[contactNumber]": draft.Spouse.ContactNumber,

		"emergencyContact[name]":          draft.Emergency.Name,
		"emergencyContact[relationship]":  draft.Emergency.Relationship,
		"emergencyContact[contactNumber]": draft.Emergency.ContactNumber,
		"emergencyContact[houseNumber]":   draft.Emergency.HouseNumber,
		"emergencyContact[street]":        draft.Emergency.Street,
		"emergencyContact[subdivision]":   draft.Emergency.Subdivision,

		"documentType":        string(draft.Request.DocumentType),
		"requestFor":          draft.Request.RequestFor,
		"purposeOfRequest":    draft.Request.PurposeOfRequest,
		"preferredPickupDate": draft.Request.PreferredPickupDate,
		"remarks":             draft.Request.Remarks,
		"clientReference":     clientReference,
	}

	if draft.Request.DocumentType.IsBusiness() {
		fields["businessInfo[businessName]"] = draft.Business.BusinessName
		fields["businessInfo[natureOfBusiness]"] = draft.Business.NatureOfBusiness
		fields["businessInfo[houseNumber]"] = draft.Business.HouseNumber
		fields["businessInfo[street]"] = draft.Business.Street
		fields["businessInfo[subdivision]"] = draft.Business.Subdivision
		fields["businessInfo[applicationType]"] = draft.Business.ApplicationType
		fields["businessInfo[ownerRepresentative]"] = draft.Business.OwnerRep
		fields["businessInfo[ownerContactNumber]"] = draft.Business.OwnerContact
		fields["businessInfo[representativeContactNumber]"] = draft.Business.RepresentativeTel
	}

	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", key, err)
		}
	}

	for _, kind := range []models.AttachmentKind{models.AttachmentPhoto1x1, models.AttachmentValidID} {
		att := attachments[kind]
		if att == nil {
			continue
		}
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, string(kind), att.FileName))
		header.Set("Content-Type", att.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return fmt.Errorf("failed to create attachment part %s: %w", kind, err)
		}
		if _, err := part.Write(att.Data); err != nil {
			return fmt.Errorf("failed to write attachment %s: %w", kind, err)
		}
	}
	return nil
}
