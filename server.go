package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
	"unicode"

	"barangay-request-wizard/images"
	"barangay-request-wizard/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const ERR_MARSHAL = "failed to marshal response message"
const ERR_UNAUTHORIZED = "missing or invalid bearer token"
const ERR_DECODE_BODY = "invalid request body"
const ERR_DRAFT_LOAD = "failed to load draft"
const ERR_DRAFT_STORE = "failed to persist draft"
const ERR_UNKNOWN_STEP = "unknown wizard step"
const ERR_UNKNOWN_ATTACHMENT = "unknown attachment kind"
const ERR_ATTACHMENT_READ = "failed to read attachment upload"
const ERR_ATTACHMENT_IMAGE = "attachment must be a JPEG or PNG image"
const ERR_VALIDATION = "Please complete the highlighted fields"
const ERR_MY_REQUESTS = "failed to load prior requests"

// Attachments larger than this on either axis are downscaled before they
// are held in the session.
const maxPhotoDimension = 1024

const maxUploadBytes = 16 << 20

type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	UseTls         bool   `json:"use_tls,omitempty"`
	TlsPrivKeyPath string `json:"tls_priv_key_path,omitempty"`
	TlsCertPath    string `json:"tls_cert_path,omitempty"`
}

type ServerState struct {
	coreClient   CoreAPIClient
	draftStorage DraftStorage
	sessions     *SessionStore
	events       EventPublisher
	jwtSecret    []byte
	validate     *validator.Validate
}

type SpaHandler struct {
	staticPath string
	indexPath  string
}

type Server struct {
	server *http.Server
	config ServerConfig
}

func (s *Server) ListenAndServe() error {
	if s.config.UseTls {
		slog.Info("Starting server with TLS", "host", s.config.Host, "port", s.config.Port, "cert", s.config.TlsCertPath, "key", s.config.TlsPrivKeyPath)
		return s.server.ListenAndServeTLS(s.config.TlsCertPath, s.config.TlsPrivKeyPath)
	} else {
		slog.Info("Starting server without TLS", "host", s.config.Host, "port", s.config.Port)
		return s.server.ListenAndServe()
	}
}

func (s *Server) Stop() error {
	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("Error during server shutdown", "error", err)
	} else {
		slog.Info("Server shut down successfully")
	}
	return err
}

// ServeHTTP inspects the URL path to locate a file within the static dir
// on the SPA handler. If a file is found, it will be served. If not, the
// file located at the index path on the SPA handler will be served. This
// is suitable behavior for serving an SPA (single page application).
// https://github.com/gorilla/mux?tab=readme-ov-file#serving-single-page-applications
func (h SpaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slog.Debug("SPA handler serving request", "path", r.URL.Path)
	// Join internally call path.Clean to prevent directory traversal
	path := filepath.Join(h.staticPath, r.URL.Path)
	fi, err := os.Stat(path)
	if os.IsNotExist(err) || fi.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	if err != nil {
		slog.Error("Error stating file", "path", path, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
}

func NewServer(state *ServerState, config ServerConfig) (*Server, error) {
	slog.Info("Creating new server", "host", config.Host, "port", config.Port, "tls", config.UseTls)
	router := mux.NewRouter()

	router.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Health check request received")
		err := json.NewEncoder(w).Encode(map[string]bool{"ok": true})
		if err != nil {
			slog.Error("failed to write body to http response", "error", err)
		}
	}).Methods(http.MethodGet)

	router.HandleFunc("/api/wizard/start", func(w http.ResponseWriter, r *http.Request) {
		handleWizardStart(state, w, r)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/draft", func(w http.ResponseWriter, r *http.Request) {
		handleGetDraft(state, w, r)
	}).Methods(http.MethodGet)
	router.HandleFunc("/api/wizard/draft", func(w http.ResponseWriter, r *http.Request) {
		handleUpdateDraft(state, w, r)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/draft", func(w http.ResponseWriter, r *http.Request) {
		handleAbandonDraft(state, w, r)
	}).Methods(http.MethodDelete)
	router.HandleFunc("/api/wizard/step", func(w http.ResponseWriter, r *http.Request) {
		handleSetStep(state, w, r)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/step/next", func(w http.ResponseWriter, r *http.Request) {
		handleStepMove(state, w, r, NextStep)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/step/back", func(w http.ResponseWriter, r *http.Request) {
		handleStepMove(state, w, r, PrevStep)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/attachments/{kind}", func(w http.ResponseWriter, r *http.Request) {
		handleUploadAttachment(state, w, r)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/attachments/{kind}", func(w http.ResponseWriter, r *http.Request) {
		handleDeleteAttachment(state, w, r)
	}).Methods(http.MethodDelete)
	router.HandleFunc("/api/wizard/submit", func(w http.ResponseWriter, r *http.Request) {
		handleSubmit(state, w, r)
	}).Methods(http.MethodPost)
	router.HandleFunc("/api/wizard/my-requests", func(w http.ResponseWriter, r *http.Request) {
		handleMyRequests(state, w, r)
	}).Methods(http.MethodGet)

	slog.Debug("Registered all API routes")

	spa := SpaHandler{staticPath: "../frontend/build", indexPath: "index.html"}
	router.PathPrefix("/").Handler(spa)

	addr := fmt.Sprintf("%v:%v", config.Host, config.Port)
	srv := &http.Server{
		Handler: router,
		Addr:    addr,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	slog.Info("Server created successfully", "address", addr)
	return &Server{
		server: srv,
		config: config,
	}, nil
}

// APIResponse is the envelope every wizard endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// WizardStateResponse carries the draft plus the session state a front-end
// needs to render the wizard.
type WizardStateResponse struct {
	Draft       *models.RequestDraft `json:"draft"`
	Step        Step                 `json:"step"`
	Autofill    AutofillState        `json:"autofillState"`
	Attachments []models.Attachment  `json:"attachments"`
}

// SubmitFailureResponse reports validation failures together with the step
// the wizard should jump to.
type SubmitFailureResponse struct {
	Errors FieldErrors `json:"errors"`
	Step   Step        `json:"step"`
}

type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// -----------------------------------------------------------------------------------

func handleWizardStart(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, token, ok := authorize(state, w, r)
	if !ok {
		return
	}

	slog.Info("Received request to start wizard", "resident_id", residentID)

	_, autofill := state.sessions.Snapshot(residentID)
	switch autofill {
	case AutofillRestored, AutofillFilled, AutofillSkipped:
		// Terminal states never re-trigger within a session instance.
		slog.Debug("Wizard already initialized", "resident_id", residentID, "state", autofill)
		respondWizardState(state, w, residentID)
		return
	}

	state.sessions.SetAutofill(residentID, AutofillAwaitingProfile)
	_, result := initializeDraft(state, residentID, token)
	state.sessions.SetAutofill(residentID, result)
	state.sessions.SetStep(residentID, StepPersonal)

	slog.Info("Wizard started", "resident_id", residentID, "state", result)
	respondWizardState(state, w, residentID)
}

func handleGetDraft(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}
	respondWizardState(state, w, residentID)
}

func handleUpdateDraft(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}

	var update models.DraftUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, ERR_DECODE_BODY, err.Error())
		return
	}

	if err := state.validate.Struct(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed", payloadErrors(err))
		return
	}

	draft, err := loadOrEmptyDraft(state, residentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ERR_DRAFT_LOAD, nil)
		return
	}

	update.Apply(draft)

	// Write-through: every accepted mutation lands in the durable slot.
	if err := state.draftStorage.StoreDraft(residentID, draft); err != nil {
		slog.Error("Failed to store draft", "resident_id", residentID, "error", err)
		respondError(w, http.StatusInternalServerError, ERR_DRAFT_STORE, nil)
		return
	}

	slog.Debug("Draft updated", "resident_id", residentID)
	respondWizardState(state, w, residentID)
}

func handleAbandonDraft(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}

	if err := state.draftStorage.RemoveDraft(residentID); err != nil {
		slog.Error("Failed to remove draft", "resident_id", residentID, "error", err)
		respondError(w, http.StatusInternalServerError, ERR_DRAFT_STORE, nil)
		return
	}
	state.sessions.Reset(residentID)

	slog.Info("Draft abandoned", "resident_id", residentID)
	respondData(w, http.StatusOK, "Draft cleared", nil)
}

type setStepRequest struct {
	Step Step `json:"step"`
}

func handleSetStep(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}

	var req setStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, ERR_DECODE_BODY, err.Error())
		return
	}
	if !req.Step.Known() {
		respondError(w, http.StatusBadRequest, ERR_UNKNOWN_STEP, nil)
		return
	}

	state.sessions.SetStep(residentID, req.Step)
	respondStep(w, req.Step)
}

func handleStepMove(state *ServerState, w http.ResponseWriter, r *http.Request, move func(Step) Step) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}

	current, _ := state.sessions.Snapshot(residentID)
	next := move(current)
	state.sessions.SetStep(residentID, next)

	slog.Debug("Wizard step changed", "resident_id", residentID, "from", current, "to", next)
	respondStep(w, next)
}

func handleUploadAttachment(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}

	kind := models.AttachmentKind(mux.Vars(r)["kind"])
	if !kind.Known() {
		respondError(w, http.StatusBadRequest, ERR_UNKNOWN_ATTACHMENT, nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, ERR_ATTACHMENT_READ, err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, ERR_ATTACHMENT_READ, err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, ERR_ATTACHMENT_READ, err.Error())
		return
	}

	format, width, height, err := images.Inspect(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, ERR_ATTACHMENT_IMAGE, err.Error())
		return
	}

	contentType := "image/" + format
	if width > maxPhotoDimension || height > maxPhotoDimension {
		slog.Debug("Downscaling oversized attachment", "resident_id", residentID, "kind", kind, "width", width, "height", height)
		data, err = images.Downscale(data, maxPhotoDimension)
		if err != nil {
			respondError(w, http.StatusBadRequest, ERR_ATTACHMENT_IMAGE, err.Error())
			return
		}
		contentType = "image/jpeg"
	}

	att := &models.Attachment{
		Kind:        kind,
		FileName:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}
	state.sessions.StoreAttachment(residentID, att)

	slog.Info("Attachment stored in session", "resident_id", residentID, "kind", kind, "bytes", len(data))
	respondData(w, http.StatusOK, "Attachment uploaded", att)
}

func handleDeleteAttachment(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, _, ok := authorize(state, w, r)
	if !ok {
		return
	}

	kind := models.AttachmentKind(mux.Vars(r)["kind"])
	if !kind.Known() {
		respondError(w, http.StatusBadRequest, ERR_UNKNOWN_ATTACHMENT, nil)
		return
	}

	if !state.sessions.RemoveAttachment(residentID, kind) {
		respondError(w, http.StatusNotFound, "no such attachment", nil)
		return
	}
	respondData(w, http.StatusOK, "Attachment removed", nil)
}

func handleSubmit(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	residentID, token, ok := authorize(state, w, r)
	if !ok {
		return
	}

	slog.Info("Received request to submit document request", "resident_id", residentID)

	draft, err := loadOrEmptyDraft(state, residentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ERR_DRAFT_LOAD, nil)
		return
	}
	attachments := state.sessions.Attachments(residentID)

	// Validation gates the network call: an invalid draft never leaves
	// this process, and the wizard jumps to the earliest failing step.
	if errs := ValidateDraft(draft, attachments); len(errs) > 0 {
		jump := JumpStep(errs)
		state.sessions.SetStep(residentID, jump)
		slog.Info("Submission blocked by validation", "resident_id", residentID, "fields", len(errs), "jump", jump)
		respondJSON(w, http.StatusBadRequest, APIResponse{
			Success: false,
			Message: ERR_VALIDATION,
			Data:    SubmitFailureResponse{Errors: errs, Step: jump},
			Errors:  errs,
		})
		return
	}

	clientReference := uuid.New().String()
	receipt, err := state.coreClient.CreateDocumentRequest(token, draft, attachments, clientReference)
	if err != nil {
		// Uniform one-shot failure: the draft and attachments stay
		// intact for a manual retry.
		code := http.StatusBadGateway
		message := genericSubmissionError
		if se, isSubmission := err.(*SubmissionError); isSubmission {
			message = se.Message
			if se.StatusCode >= 400 {
				code = se.StatusCode
			}
		}
		slog.Warn("Submission failed", "resident_id", residentID, "error", err)
		respondError(w, code, message, nil)
		return
	}

	if err := state.draftStorage.RemoveDraft(residentID); err != nil {
		slog.Error("Failed to clear draft after submission", "resident_id", residentID, "error", err)
	}
	state.sessions.Reset(residentID)

	if state.events != nil {
		state.events.PublishSubmitted(SubmittedEvent{
			ResidentID:      residentID,
			RequestID:       receipt.RequestID,
			ClientReference: clientReference,
			DocumentType:    string(draft.Request.DocumentType),
		})
	}

	slog.Info("Document request submitted", "resident_id", residentID, "request_id", receipt.RequestID)
	respondData(w, http.StatusOK, "Request submitted successfully", receipt)
}

func handleMyRequests(state *ServerState, w http.ResponseWriter, r *http.Request) {
	defer closeRequestBody(r)

	_, token, ok := authorize(state, w, r)
	if !ok {
		return
	}

	raw, err := state.coreClient.ListMyRequests(token)
	if err != nil {
		slog.Warn("Failed to fetch prior requests", "error", err)
		respondError(w, http.StatusBadGateway, ERR_MY_REQUESTS, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(raw); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// -----------------------------------------------------------------------------------

// authorize resolves the resident behind the bearer token, answering 401
// itself when the token is missing or bad.
func authorize(state *ServerState, w http.ResponseWriter, r *http.Request) (residentID, token string, ok bool) {
	token, err := bearerToken(r)
	if err == nil {
		residentID, err = residentFromToken(state.jwtSecret, token)
	}
	if err != nil {
		slog.Warn("Unauthorized wizard request", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusUnauthorized, ERR_UNAUTHORIZED, nil)
		return "", "", false
	}
	return residentID, token, true
}

// loadOrEmptyDraft treats an absent slot as a fresh empty draft; anything
// else is a storage failure the caller must surface.
func loadOrEmptyDraft(state *ServerState, residentID string) (*models.RequestDraft, error) {
	draft, err := state.draftStorage.LoadDraft(residentID)
	if err == nil {
		return draft, nil
	}
	if err == ErrNoDraft {
		return &models.RequestDraft{}, nil
	}
	slog.Error("Failed to load draft", "resident_id", residentID, "error", err)
	return nil, err
}

func respondWizardState(state *ServerState, w http.ResponseWriter, residentID string) {
	draft, err := loadOrEmptyDraft(state, residentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ERR_DRAFT_LOAD, nil)
		return
	}

	step, autofill := state.sessions.Snapshot(residentID)
	attachments := state.sessions.Attachments(residentID)
	meta := make([]models.Attachment, 0, len(attachments))
	for _, kind := range []models.AttachmentKind{models.AttachmentPhoto1x1, models.AttachmentValidID} {
		if att := attachments[kind]; att != nil {
			meta = append(meta, *att)
		}
	}

	respondData(w, http.StatusOK, "", WizardStateResponse{
		Draft:       draft,
		Step:        step,
		Autofill:    autofill,
		Attachments: meta,
	})
}

func respondStep(w http.ResponseWriter, step Step) {
	respondData(w, http.StatusOK, "", map[string]Step{"step": step})
}

func respondData(w http.ResponseWriter, status int, message string, data interface{}) {
	respondJSON(w, status, APIResponse{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string, errs interface{}) {
	respondJSON(w, status, APIResponse{Success: false, Message: message, Errors: errs})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Error(ERR_MARSHAL, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		slog.Error("failed to write body to http response", "error", err)
	}
}

// payloadErrors flattens go-playground validation errors into field/message
// pairs the front-end can render inline.
func payloadErrors(err error) []FieldValidationError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldValidationError{{Field: "", Message: err.Error()}}
	}
	out := make([]FieldValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldValidationError{
			Field:   lowerFirst(fe.Field()),
			Message: payloadErrorMessage(fe),
		})
	}
	return out
}

func payloadErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "email":
		return "Invalid email format"
	case "datetime":
		return "Invalid date, use YYYY-MM-DD"
	case "max":
		return "Too long"
	case "oneof":
		return "Invalid value"
	default:
		return "Invalid value"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func closeRequestBody(r *http.Request) {
	if err := r.Body.Close(); err != nil {
		slog.Error("failed to close request body", "error", err)
	}
}
