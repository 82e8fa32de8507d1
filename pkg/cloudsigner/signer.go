package cloudsigner

import (
	"context"
	"time"
)

// FileSigner is the uniform signing contract implemented by every provider.
//
// Implementations are safe for concurrent use: a signer is an immutable
// handle around a provider client and holds no per-call state. Sign may
// suspend once, at the delegated call into the provider SDK; cancellation of
// the supplied context affects only the call it was passed to.
type FileSigner interface {
	// Sign creates a presigned URL for the object at path. The URL is valid
	// from validFrom for expiresIn and grants the given permission.
	//
	// path accepts the provider's URI syntaxes (for example s3://bucket/key,
	// abfss://container@account.dfs.core.windows.net/blob, gs://bucket/key).
	// Every failure is reported as a *SignerError.
	Sign(ctx context.Context, path string, validFrom time.Time, expiresIn time.Duration, permission Permission) (PresignedURL, error)
}

// SignReadOnlyStartingNow signs a read-only URL valid for expiresIn starting
// now. The clock is sampled exactly once, here, so the recorded ValidFrom and
// the delegated expiration computation agree.
func SignReadOnlyStartingNow(ctx context.Context, s FileSigner, path string, expiresIn time.Duration) (PresignedURL, error) {
	return s.Sign(ctx, path, timeNow(), expiresIn, PermissionRead)
}

// SignWriteOnlyStartingNow signs a write-only URL valid for expiresIn
// starting now. The clock is sampled exactly once, here.
func SignWriteOnlyStartingNow(ctx context.Context, s FileSigner, path string, expiresIn time.Duration) (PresignedURL, error) {
	return s.Sign(ctx, path, timeNow(), expiresIn, PermissionWrite)
}
