// Package api exposes the signing contract over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

const defaultExpiry = time.Hour

// SignHandler serves presigned-URL requests for a named set of provider
// signers.
type SignHandler struct {
	signers         map[string]cloudsigner.FileSigner
	defaultProvider string
}

// NewSignHandler creates a handler over the given signers. defaultProvider
// is used when the request does not name one.
func NewSignHandler(signers map[string]cloudsigner.FileSigner, defaultProvider string) *SignHandler {
	return &SignHandler{
		signers:         signers,
		defaultProvider: defaultProvider,
	}
}

// Routes returns the router for signing endpoints.
func (h *SignHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Sign)
	r.Post("/{provider}", h.Sign)
	return r
}

// SignRequest asks for one presigned URL.
type SignRequest struct {
	Path             string `json:"path"`
	Permission       string `json:"permission"`
	ExpiresInSeconds int64  `json:"expires_in_seconds,omitempty"`
}

// SignResponse carries the presigned URL and its validity window.
type SignResponse struct {
	RequestID  string    `json:"request_id"`
	Provider   string    `json:"provider"`
	URL        string    `json:"url"`
	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`
}

// ErrorResponse reports a failed signing request. Kind is the stable
// SignerError kind string when the failure came from a signer.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Kind      string `json:"kind,omitempty"`
	Error     string `json:"error"`
}

// Sign handles POST /sign and POST /sign/{provider}.
func (h *SignHandler) Sign(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req SignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode sign request", "request_id", requestID, "error", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{RequestID: requestID, Error: "invalid request body: " + err.Error()})
		return
	}

	provider := chi.URLParam(r, "provider")
	if provider == "" {
		provider = h.defaultProvider
	}
	signer, ok := h.signers[provider]
	if !ok {
		slog.Error("Unknown provider requested", "request_id", requestID, "provider", provider)
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{RequestID: requestID, Error: "unknown provider: " + provider})
		return
	}

	permission, err := cloudsigner.ParsePermission(req.Permission)
	if err != nil {
		h.renderSignerError(w, r, requestID, provider, err)
		return
	}

	expiresIn := time.Duration(req.ExpiresInSeconds) * time.Second
	if expiresIn == 0 {
		expiresIn = defaultExpiry
	}

	var signed cloudsigner.PresignedURL
	switch permission {
	case cloudsigner.PermissionRead:
		signed, err = cloudsigner.SignReadOnlyStartingNow(r.Context(), signer, req.Path, expiresIn)
	case cloudsigner.PermissionWrite:
		signed, err = cloudsigner.SignWriteOnlyStartingNow(r.Context(), signer, req.Path, expiresIn)
	}
	if err != nil {
		h.renderSignerError(w, r, requestID, provider, err)
		return
	}

	slog.Info("Signed URL issued",
		"request_id", requestID,
		"provider", provider,
		"permission", permission.String(),
		"valid_until", signed.ValidUntil())

	render.JSON(w, r, SignResponse{
		RequestID:  requestID,
		Provider:   provider,
		URL:        signed.URL(),
		ValidFrom:  signed.ValidFrom(),
		ValidUntil: signed.ValidUntil(),
	})
}

func (h *SignHandler) renderSignerError(w http.ResponseWriter, r *http.Request, requestID, provider string, err error) {
	resp := ErrorResponse{RequestID: requestID, Error: err.Error()}

	status := http.StatusInternalServerError
	if kind, ok := cloudsigner.KindOf(err); ok {
		resp.Kind = kind.String()
		status = statusForKind(kind)
	}

	slog.Error("Sign request failed",
		"request_id", requestID,
		"provider", provider,
		"kind", resp.Kind,
		"error", err)

	render.Status(r, status)
	render.JSON(w, r, resp)
}

func statusForKind(kind cloudsigner.ErrorKind) int {
	switch kind {
	case cloudsigner.KindCloudURIParse, cloudsigner.KindPermissionNotSupported, cloudsigner.KindExpirationTooLong:
		return http.StatusBadRequest
	case cloudsigner.KindSigning:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
