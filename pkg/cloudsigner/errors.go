package cloudsigner

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a SignerError. The set is closed: every failure a
// signer can report maps onto exactly one of these kinds.
type ErrorKind int

const (
	// KindCloudURIParse indicates the input path failed address resolution.
	KindCloudURIParse ErrorKind = iota

	// KindPermissionNotSupported indicates the requested permission is not
	// offered by the provider, or a permission string failed to parse.
	KindPermissionNotSupported

	// KindExpirationTooLong indicates the requested validity window exceeds
	// the provider's maximum.
	KindExpirationTooLong

	// KindSigning indicates a signature-computation failure local to this
	// layer's validation.
	KindSigning

	// KindOther is the catch-all for provider SDK failures and
	// identity-mismatch failures.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindCloudURIParse:
		return "CLOUD_URI_PARSE_ERROR"
	case KindPermissionNotSupported:
		return "PERMISSION_NOT_SUPPORTED"
	case KindExpirationTooLong:
		return "EXPIRATION_TOO_LONG"
	case KindSigning:
		return "SIGNING_ERROR"
	default:
		return "OTHER_ERROR"
	}
}

// SignerError is the uniform error returned by every FileSigner. It carries a
// stable kind for programmatic branching and a free-text message for
// diagnostics. The message echoes back the offending input where one exists.
type SignerError struct {
	Kind    ErrorKind
	Message string
}

func (e *SignerError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// NewURIParseError returns a SignerError of kind KindCloudURIParse.
func NewURIParseError(format string, args ...any) *SignerError {
	return &SignerError{Kind: KindCloudURIParse, Message: fmt.Sprintf(format, args...)}
}

// NewPermissionNotSupportedError returns a SignerError of kind
// KindPermissionNotSupported.
func NewPermissionNotSupportedError(format string, args ...any) *SignerError {
	return &SignerError{Kind: KindPermissionNotSupported, Message: fmt.Sprintf(format, args...)}
}

// NewExpirationTooLongError returns a SignerError of kind KindExpirationTooLong.
func NewExpirationTooLongError(format string, args ...any) *SignerError {
	return &SignerError{Kind: KindExpirationTooLong, Message: fmt.Sprintf(format, args...)}
}

// NewSigningError returns a SignerError of kind KindSigning.
func NewSigningError(format string, args ...any) *SignerError {
	return &SignerError{Kind: KindSigning, Message: fmt.Sprintf(format, args...)}
}

// NewOtherError returns a SignerError of kind KindOther.
func NewOtherError(format string, args ...any) *SignerError {
	return &SignerError{Kind: KindOther, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err when err is (or wraps) a SignerError. The
// second return is false otherwise.
func KindOf(err error) (ErrorKind, bool) {
	var se *SignerError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is (or wraps) a SignerError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
