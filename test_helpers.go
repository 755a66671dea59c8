package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"testing"
	"time"

	"barangay-request-wizard/models"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

var testConfig = ServerConfig{
	Host:           "localhost",
	Port:           8081,
	UseTls:         false,
	TlsCertPath:    "",
	TlsPrivKeyPath: "",
}

const testBaseURL = "http://localhost:8081"

var testSecret = []byte("test-shared-secret")

func startTestServer(t *testing.T, storage DraftStorage, core CoreAPIClient) *ServerState {
	t.Helper()

	state := &ServerState{
		coreClient:   core,
		draftStorage: storage,
		sessions:     NewSessionStore(),
		jwtSecret:    testSecret,
		validate:     validator.New(),
	}

	srv, err := NewServer(state, testConfig)
	require.NoError(t, err)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("server error: %v", err)
		}
	}()

	waitUntilHealthy(t, testBaseURL+"/api/health")
	t.Cleanup(func() {
		if err := srv.Stop(); err != nil {
			t.Logf("error shutting down server: %v", err)
		}
	})
	return state
}

func waitUntilHealthy(t *testing.T, url string) {
	t.Helper()
	const maxAttempts = 50
	for i := 0; i < maxAttempts; i++ {
		if resp, err := http.Get(url); err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("server did not start in time")
}

func signTestToken(t *testing.T, residentID string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   residentID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

// doJSON performs an authenticated JSON request and decodes the response
// body into T on a best-effort basis.
func doJSON[T any](t *testing.T, method, url, token string, payload any) (*http.Response, []byte, *T) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(b)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var v T
	_ = json.Unmarshal(respBody, &v)
	return resp, respBody, &v
}

func mustStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	require.Equalf(t, want, resp.StatusCode, "body: %s", body)
}

func uploadAttachment(t *testing.T, token string, kind models.AttachmentKind, filename string, data []byte) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	url := fmt.Sprintf("%s/api/wizard/attachments/%s", testBaseURL, kind)
	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, body
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// submittableDraft builds a draft that passes every validation rule for a
// non-business, non-photo document type.
func submittableDraft() *models.RequestDraft {
	return &models.RequestDraft{
		Identity: models.IdentityInfo{
			LastName:    "Dela Cruz",
			FirstName:   "Juan",
			DateOfBirth: "1990-05-17",
			Gender:      "Male",
			Nationality: "Filipino",
		},
		Contact: models.ContactInfo{
			ContactNumber: "09170000001",
			EmailAddress: "juan@example.com",
		},
		Emergency: models.EmergencyInfo{
			Name:          "Maria Dela Cruz",
			Relationship:  "Spouse",
			ContactNumber: "09170000002",
		},
		Request: models.RequestDetails{
			DocumentType:     models.DocTypeResidency,
			PurposeOfRequest: "Employment requirement",
		},
	}
}

func validIDAttachment() *models.Attachment {
	return &models.Attachment{
		Kind:        models.AttachmentValidID,
		FileName:    "id.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 0x50, 0x4e, 0x47},
	}
}

func photoAttachment() *models.Attachment {
	return &models.Attachment{
		Kind:        models.AttachmentPhoto1x1,
		FileName:    "photo.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff},
	}
}

// test doubles

func testProfile() *models.ResidentProfile {
	p := &models.ResidentProfile{
		ID:            "res-1",
		FirstName:     "JUAN",
		LastName:      "DELA CRUZ",
		MiddleName:    "SANTOS",
		DateOfBirth:   "1990-05-17T00:00:00.000Z",
		Gender:        "Male",
		CivilStatus:   "Married",
		ContactNumber: "09170000001",
		EmailAddress:  "juan@example.com",
	}
	p.Address.HouseNumber = "12"
	p.Address.Street = "Mabini St"
	p.EmergencyContact.Name = "MARIA DELA CRUZ"
	p.EmergencyContact.ContactNumber = "09170000002"
	return p
}

type fakeCoreClient struct {
	mutex sync.Mutex

	profile    *models.ResidentProfile
	profileErr error

	receipt   *models.RequestReceipt
	submitErr error

	myRequests json.RawMessage

	profileCalls        int
	submitCalls         int
	lastDraft           *models.RequestDraft
	lastAttachments     AttachmentSet
	lastClientReference string
	lastToken           string
}

func (f *fakeCoreClient) FetchProfile(token string) (*models.ResidentProfile, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.profileCalls++
	f.lastToken = token
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return testProfile(), nil
}

func (f *fakeCoreClient) CreateDocumentRequest(token string, draft *models.RequestDraft, attachments AttachmentSet, clientReference string) (*models.RequestReceipt, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.submitCalls++
	f.lastToken = token
	f.lastDraft = draft
	f.lastAttachments = attachments
	f.lastClientReference = clientReference
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.receipt != nil {
		return f.receipt, nil
	}
	return &models.RequestReceipt{
		RequestID:       "req-1",
		ReferenceNumber: "BRG-2026-0001",
		Status:          "pending",
		ClientReference: clientReference,
	}, nil
}

func (f *fakeCoreClient) ListMyRequests(token string) (json.RawMessage, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.lastToken = token
	if f.myRequests != nil {
		return f.myRequests, nil
	}
	return json.RawMessage(`{"success":true,"data":[]}`), nil
}

func (f *fakeCoreClient) HealthCheck() error {
	return nil
}
