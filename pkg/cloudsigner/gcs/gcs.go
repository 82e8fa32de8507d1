// Package gcs implements the cloudsigner.FileSigner contract for Google
// Cloud Storage. GCS signing is read-only: write URLs are not offered.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

// maxSignedURLExpiry is the v4 ceiling on how far past signing time a signed
// URL may stay valid.
const maxSignedURLExpiry = 7 * 24 * time.Hour

// Signer signs URLs for objects in Google Cloud Storage. It is an immutable
// handle around the storage client and is safe to share across goroutines.
type Signer struct {
	client         *storage.Client
	googleAccessID string
	privateKey     []byte
	now            func() time.Time
}

// Option configures a Signer.
type Option func(*Signer)

// WithServiceAccount pins the signing identity instead of deriving it from
// the client's credentials. privateKey is a PEM-encoded service-account key.
func WithServiceAccount(googleAccessID string, privateKey []byte) Option {
	return func(s *Signer) {
		s.googleAccessID = googleAccessID
		s.privateKey = privateKey
	}
}

// New creates a signer around an existing storage client.
func New(client *storage.Client, opts ...Option) *Signer {
	s := &Signer{
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewFromEnv creates a signer using application default credentials.
func NewFromEnv(ctx context.Context, opts ...Option) (*Signer, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return New(client, opts...), nil
}

// Sign implements cloudsigner.FileSigner. Only Read is supported; Write fails
// with PermissionNotSupported.
func (s *Signer) Sign(ctx context.Context, path string, validFrom time.Time, expiresIn time.Duration, permission cloudsigner.Permission) (cloudsigner.PresignedURL, error) {
	_ = ctx

	uri, err := ParseURI(path)
	if err != nil {
		return cloudsigner.PresignedURL{}, err
	}

	switch permission {
	case cloudsigner.PermissionRead:
	case cloudsigner.PermissionWrite:
		return cloudsigner.PresignedURL{}, cloudsigner.NewPermissionNotSupportedError(
			"write permission is not supported by the GCS signer")
	default:
		return cloudsigner.PresignedURL{}, cloudsigner.NewPermissionNotSupportedError(
			"permission %s is not supported by the GCS signer", permission)
	}

	if expiresIn <= 0 {
		return cloudsigner.PresignedURL{}, cloudsigner.NewSigningError("expiration must be positive, got %s", expiresIn)
	}

	// v4 signing anchors the window at signing time, so the ceiling applies
	// to the remainder of the requested window measured from now.
	now := s.now()
	remaining := validFrom.Add(expiresIn).Sub(now)
	if remaining > maxSignedURLExpiry {
		return cloudsigner.PresignedURL{}, cloudsigner.NewExpirationTooLongError(
			"GCS signed URLs cannot be valid for longer than one week; requested window ends %s after signing time", remaining)
	}
	if remaining <= 0 {
		return cloudsigner.PresignedURL{}, cloudsigner.NewSigningError(
			"requested validity window (from %s for %s) has already ended", validFrom.UTC().Format(time.RFC3339), expiresIn)
	}

	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: validFrom.Add(expiresIn),
	}
	if s.googleAccessID != "" {
		opts.GoogleAccessID = s.googleAccessID
		opts.PrivateKey = s.privateKey
	}

	signed, err := s.client.Bucket(uri.Bucket()).SignedURL(uri.Key(), opts)
	if err != nil {
		return cloudsigner.PresignedURL{}, translateError(err)
	}

	return cloudsigner.NewPresignedURL(signed, validFrom, expiresIn), nil
}

// translateError re-classifies SDK failures into the uniform taxonomy so no
// provider-specific error type escapes the contract.
func translateError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return cloudsigner.NewOtherError("gcs signing failed: %s (status %d)", apiErr.Message, apiErr.Code)
	}
	// The SDK enforces the same one-week ceiling against its own clock.
	if strings.Contains(err.Error(), "seven days") || strings.Contains(err.Error(), "within a week") {
		return cloudsigner.NewExpirationTooLongError("GCS signed URLs cannot be valid for longer than one week: %v", err)
	}
	return cloudsigner.NewOtherError("gcs signing failed: %v", err)
}
