// Package httphandler is the REST driving adapter for the credential API.
package httphandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ericfisherdev/credvault/internal/application"
	"github.com/ericfisherdev/credvault/internal/domain/port/driven"
)

const credentialsPath = "/api/v1/credentials"

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	credentialSvc *application.CredentialService
	healthSvc     *application.HealthService
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	credentialSvc *application.CredentialService,
	healthSvc *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		credentialSvc: credentialSvc,
		healthSvc:     healthSvc,
		validate:      newValidator(),
		logger:        logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with instrumentation and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST "+credentialsPath, h.CreateCredential)
	mux.HandleFunc("GET "+credentialsPath, h.ListCredentials)
	mux.HandleFunc("GET "+credentialsPath+"/{id}", h.GetCredential)
	mux.HandleFunc("PUT "+credentialsPath+"/{id}", h.UpdateCredential)
	mux.HandleFunc("DELETE "+credentialsPath+"/{id}", h.DeleteCredential)
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.Handle("GET /metrics", MetricsHandler())

	// Recovery innermost so a panic is logged and counted as a 500.
	return instrumentMiddleware(logger, recoveryMiddleware(logger, mux))
}

// CreateCredential stores a new credential. The response echoes the stored
// record, whose secret is in encoded form.
func (h *Handler) CreateCredential(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentialRequest(w, r)
	if !ok {
		return
	}

	created, err := h.credentialSvc.Add(r.Context(), req.toModel())
	if err != nil {
		h.logger.Error("failed to create credential", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", credentialsPath, created.ID))
	writeJSON(w, http.StatusCreated, toCredentialResponse(created))
}

// ListCredentials returns every credential with its secret in stored form.
func (h *Handler) ListCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := h.credentialSvc.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list credentials", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CredentialResponse, 0, len(creds))
	for _, c := range creds {
		resp = append(resp, toCredentialResponse(c))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetCredential returns one credential. With ?reveal=true (or the older
// ?includeDecrypted=true) the secret is decoded before it is returned.
func (h *Handler) GetCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	reveal, err := parseReveal(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reveal flag: expected true or false")
		return
	}

	cred, err := h.credentialSvc.GetByID(r.Context(), id, reveal)
	if errors.Is(err, driven.ErrMalformedSecret) {
		h.logger.Error("stored secret is malformed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "stored secret is malformed")
		return
	}
	if err != nil {
		h.logger.Error("failed to get credential", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if cred == nil {
		writeError(w, http.StatusNotFound, "credential not found")
		return
	}

	writeJSON(w, http.StatusOK, toCredentialResponse(*cred))
}

// UpdateCredential replaces all fields of an existing credential.
func (h *Handler) UpdateCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, ok := h.decodeCredentialRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.credentialSvc.Update(r.Context(), id, req.toModel())
	if err != nil {
		h.logger.Error("failed to update credential", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if updated == nil {
		writeError(w, http.StatusNotFound, "credential not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteCredential removes a credential.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	deleted, err := h.credentialSvc.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete credential", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !deleted {
		writeError(w, http.StatusNotFound, "credential not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports readiness. It returns 503 when the store cannot be reached.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.healthSvc.Check(r.Context())
	resp := HealthResponse{
		Status: "ok",
		Codec:  status.Codec,
		Time:   status.Checked.Format(time.RFC3339),
	}

	if !status.OK {
		h.logger.Warn("health check failed", "error", status.Err)
		resp.Status = "unavailable"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseID extracts the {id} path value. On failure it writes a 400 response.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid credential id")
		return 0, false
	}
	return id, true
}

// parseReveal reads the reveal flag, falling back to includeDecrypted.
// An absent flag means false.
func parseReveal(r *http.Request) (bool, error) {
	q := r.URL.Query()
	raw := q.Get("reveal")
	if raw == "" {
		raw = q.Get("includeDecrypted")
	}
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
