package gcs

import (
	"net/url"
	"strings"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

// URI is the canonical address of one object in Google Cloud Storage.
type URI struct {
	bucket string
	key    string
}

// Bucket returns the bucket name.
func (u URI) Bucket() string { return u.bucket }

// Key returns the object key, without a leading slash.
func (u URI) Key() string { return u.key }

// ParseURI resolves a gs://<bucket>/<key> URI into a canonical address.
func ParseURI(raw string) (URI, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return URI{}, cloudsigner.NewURIParseError("invalid GCS URI %q: %v", raw, err)
	}

	switch parsed.Scheme {
	case "gs":
		return parseGsURI(raw, parsed)
	case "":
		return URI{}, cloudsigner.NewURIParseError("invalid GCS URI %q: missing scheme (expected gs)", raw)
	default:
		return URI{}, cloudsigner.NewURIParseError("unsupported scheme %q in GCS URI %q (expected gs)", parsed.Scheme, raw)
	}
}

func parseGsURI(raw string, parsed *url.URL) (URI, error) {
	if parsed.Host == "" {
		return URI{}, cloudsigner.NewURIParseError("invalid GCS URI %q: missing bucket (expected gs://<bucket>/<key>)", raw)
	}
	key, ok := strings.CutPrefix(parsed.Path, "/")
	if !ok {
		return URI{}, cloudsigner.NewURIParseError("invalid GCS URI %q: missing object key (expected gs://<bucket>/<key>)", raw)
	}
	return URI{bucket: parsed.Host, key: key}, nil
}
