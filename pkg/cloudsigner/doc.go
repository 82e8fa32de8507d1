// Package cloudsigner provides a uniform interface for creating presigned
// URLs for objects held in cloud object storage.
//
// A presigned URL carries its authorization in the query string, so a caller
// without standing credentials can perform one specific operation (read or
// write) against one specific object for a bounded time window. Provider
// implementations are provided under subpackages for Amazon S3 (and
// S3-compatible stores), Azure Blob Storage and Google Cloud Storage.
//
// Each provider signer resolves heterogeneous URI syntaxes (scheme-qualified,
// virtual-hosted-style, path-style) into a canonical address, validates the
// requested permission against the provider's capability set, and delegates
// the actual signature computation to the provider SDK. Failures are reported
// through a single SignerError taxonomy so callers can branch without
// depending on provider-specific error types.
package cloudsigner
