package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/credvault/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// CredentialRequest is the JSON body for the create and update endpoints.
// Secret carries the caller's plaintext.
type CredentialRequest struct {
	Category    string `json:"category" validate:"required"`
	Application string `json:"application" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Secret      string `json:"secret" validate:"required"`
}

// CredentialResponse is the JSON representation of a stored credential.
type CredentialResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Application string `json:"application"`
	Username    string `json:"username"`
	Secret      string `json:"secret"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Codec  string `json:"codec"`
	Time   string `json:"time"`
}

func (req CredentialRequest) toModel() model.Credential {
	return model.Credential{
		Category:    req.Category,
		Application: req.Application,
		Username:    req.Username,
		Secret:      req.Secret,
	}
}

func toCredentialResponse(c model.Credential) CredentialResponse {
	return CredentialResponse{
		ID:          c.ID,
		Category:    c.Category,
		Application: c.Application,
		Username:    c.Username,
		Secret:      c.Secret,
	}
}
