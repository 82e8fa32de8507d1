package azure

import (
	"net/url"
	"strings"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

// expectedFormat is restated in every resolution error so malformed paths are
// easy to fix from the message alone.
const expectedFormat = "abfss://<container>@<storage_account>.dfs.core.windows.net/<blob>"

// URI is the canonical address of one blob in Azure Blob Storage.
type URI struct {
	storageAccount string
	container      string
	blob           string
}

// StorageAccount returns the storage account name.
func (u URI) StorageAccount() string { return u.storageAccount }

// Container returns the container name.
func (u URI) Container() string { return u.container }

// Blob returns the blob path, without a leading slash.
func (u URI) Blob() string { return u.blob }

// ParseURI resolves an abfss:// or abfs:// URI into a canonical address. The
// storage account is the authority host up to its first dot; the container is
// the user-info part of the authority; the blob is the path with its leading
// slash stripped.
func ParseURI(raw string) (URI, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return URI{}, cloudsigner.NewURIParseError("invalid Azure URI %q: %v", raw, err)
	}

	switch parsed.Scheme {
	case "abfss", "abfs":
		return parseABFSURI(raw, parsed)
	case "":
		return URI{}, cloudsigner.NewURIParseError("invalid Azure URI %q: missing scheme (expected abfss or abfs)", raw)
	default:
		return URI{}, cloudsigner.NewURIParseError("unsupported scheme %q in Azure URI %q (expected abfss or abfs)", parsed.Scheme, raw)
	}
}

func parseABFSURI(raw string, parsed *url.URL) (URI, error) {
	account, _, found := strings.Cut(parsed.Hostname(), ".")
	if !found || account == "" {
		return URI{}, cloudsigner.NewURIParseError("invalid Azure URI %q: couldn't extract storage account name (expected %s)", raw, expectedFormat)
	}

	container := parsed.User.Username()
	if container == "" {
		return URI{}, cloudsigner.NewURIParseError("invalid Azure URI %q: couldn't extract container name (expected %s)", raw, expectedFormat)
	}

	blob, ok := strings.CutPrefix(parsed.Path, "/")
	if !ok {
		return URI{}, cloudsigner.NewURIParseError("invalid Azure URI %q: couldn't extract blob name (expected %s)", raw, expectedFormat)
	}

	return URI{storageAccount: account, container: container, blob: blob}, nil
}
