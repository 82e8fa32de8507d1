// Package azure implements the cloudsigner.FileSigner contract for Azure
// Blob Storage using shared-key SAS tokens.
package azure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

// Signer signs URLs for blobs in one Azure storage account. A signer is
// bound to the account its credential belongs to; URIs naming any other
// account are rejected before signing.
type Signer struct {
	storageAccount string
	credential     *azblob.SharedKeyCredential
	serviceURL     string
}

// Option configures a Signer.
type Option func(*Signer)

// WithServiceURL overrides the default https://<account>.blob.core.windows.net
// base URL, for Azurite and sovereign clouds.
func WithServiceURL(serviceURL string) Option {
	return func(s *Signer) {
		s.serviceURL = serviceURL
	}
}

// New creates a signer for the given storage account and shared key.
func New(storageAccount, accountKey string, opts ...Option) (*Signer, error) {
	credential, err := azblob.NewSharedKeyCredential(storageAccount, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build shared key credential: %w", err)
	}

	s := &Signer{
		storageAccount: storageAccount,
		credential:     credential,
		serviceURL:     fmt.Sprintf("https://%s.blob.core.windows.net", storageAccount),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromEnv creates a signer from the AZURE_STORAGE_ACCOUNT and
// AZURE_STORAGE_KEY environment variables.
func NewFromEnv(opts ...Option) (*Signer, error) {
	account := os.Getenv("AZURE_STORAGE_ACCOUNT")
	key := os.Getenv("AZURE_STORAGE_KEY")
	if account == "" || key == "" {
		return nil, errors.New("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set")
	}
	return New(account, key, opts...)
}

// StorageAccount returns the account this signer is configured for.
func (s *Signer) StorageAccount() string { return s.storageAccount }

// Sign implements cloudsigner.FileSigner. The SAS start time is validFrom and
// the expiry is validFrom plus expiresIn. Shared-key SAS computation is local;
// the context is accepted for contract uniformity only.
func (s *Signer) Sign(ctx context.Context, path string, validFrom time.Time, expiresIn time.Duration, permission cloudsigner.Permission) (cloudsigner.PresignedURL, error) {
	_ = ctx

	uri, err := ParseURI(path)
	if err != nil {
		return cloudsigner.PresignedURL{}, err
	}

	if uri.StorageAccount() != s.storageAccount {
		return cloudsigner.PresignedURL{}, cloudsigner.NewOtherError(
			"storage account %q in URI does not match signer account %q", uri.StorageAccount(), s.storageAccount)
	}

	if expiresIn <= 0 {
		return cloudsigner.PresignedURL{}, cloudsigner.NewSigningError("expiration must be positive, got %s", expiresIn)
	}

	var permissions sas.BlobPermissions
	switch permission {
	case cloudsigner.PermissionRead:
		permissions.Read = true
	case cloudsigner.PermissionWrite:
		// Uploading a blob that does not exist yet needs Create on top of Write.
		permissions.Write = true
		permissions.Create = true
	default:
		return cloudsigner.PresignedURL{}, cloudsigner.NewPermissionNotSupportedError(
			"permission %s is not supported by the Azure signer", permission)
	}

	values := sas.BlobSignatureValues{
		StartTime:     validFrom.UTC(),
		ExpiryTime:    validFrom.Add(expiresIn).UTC(),
		Permissions:   permissions.String(),
		ContainerName: uri.Container(),
		BlobName:      uri.Blob(),
	}

	query, err := values.SignWithSharedKey(s.credential)
	if err != nil {
		return cloudsigner.PresignedURL{}, translateError(err)
	}

	signed := fmt.Sprintf("%s/%s/%s?%s", s.serviceURL, uri.Container(), uri.Blob(), query.Encode())
	return cloudsigner.NewPresignedURL(signed, validFrom, expiresIn), nil
}

// translateError re-classifies SDK failures into the uniform taxonomy so no
// provider-specific error type escapes the contract.
func translateError(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return cloudsigner.NewOtherError("azure SAS signing failed: %s (status %d)", respErr.ErrorCode, respErr.StatusCode)
	}
	return cloudsigner.NewOtherError("azure SAS signing failed: %v", err)
}
