package cloudsigner

import "strings"

// Permission selects the operation a presigned URL grants. The set is closed:
// a URL grants either read access or write access, never both.
type Permission int

const (
	// PermissionRead grants read access to the object.
	PermissionRead Permission = iota

	// PermissionWrite grants write access to the object.
	PermissionWrite
)

func (p Permission) String() string {
	switch p {
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	default:
		return "unknown"
	}
}

// ParsePermission parses a configuration-style permission string.
// Accepted forms are "r", "read" and "readonly" for PermissionRead, and "w",
// "write" and "writeonly" for PermissionWrite. Matching is case-insensitive.
// Anything else fails with a PermissionNotSupported error echoing the input.
func ParsePermission(s string) (Permission, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "read", "readonly":
		return PermissionRead, nil
	case "w", "write", "writeonly":
		return PermissionWrite, nil
	default:
		return 0, NewPermissionNotSupportedError("unknown permission %q (expected one of r, read, readonly, w, write, writeonly)", s)
	}
}
