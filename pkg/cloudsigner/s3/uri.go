package s3

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

// endpointPattern discriminates S3 endpoint hostnames. A non-empty first
// capture means the URL is virtual-hosted-style and the capture (minus its
// trailing dot) is the bucket; the second capture is the region.
var endpointPattern = regexp.MustCompile(`^(.+\.)?s3[.-]([a-z0-9-]+)\.`)

// URI is the canonical address of one S3 object.
type URI struct {
	bucket string
	key    string
	region string
}

// Bucket returns the bucket name.
func (u URI) Bucket() string { return u.bucket }

// Key returns the object key, without a leading slash.
func (u URI) Key() string { return u.key }

// Region returns the region parsed from an http(s) endpoint hostname, or ""
// for scheme-qualified URIs. It is informational only and does not select an
// endpoint; the client the signer was built with decides where requests go.
func (u URI) Region() string { return u.region }

// ParseURI resolves any of the accepted S3 URI forms into a canonical
// address:
//
//	s3://<bucket>/<key> (also s3a, s3n)
//	https://<bucket>.s3[.-]<region>.amazonaws.com/<key>   (virtual-hosted-style)
//	https://s3[.-]<region>.amazonaws.com/<bucket>/<key>   (path-style)
//
// plus the http equivalents of the last two.
func ParseURI(raw string) (URI, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: %v", raw, err)
	}

	switch parsed.Scheme {
	case "s3", "s3a", "s3n":
		return parseScheme(raw, parsed)
	case "http", "https":
		return parseEndpointURL(raw, parsed)
	case "":
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: missing scheme (expected s3, s3a, s3n, http or https)", raw)
	default:
		return URI{}, cloudsigner.NewURIParseError("unsupported scheme %q in S3 URI %q (expected s3, s3a, s3n, http or https)", parsed.Scheme, raw)
	}
}

func parseScheme(raw string, parsed *url.URL) (URI, error) {
	if parsed.Host == "" {
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: missing bucket (expected %s://<bucket>/<key>)", raw, parsed.Scheme)
	}
	key, ok := strings.CutPrefix(parsed.Path, "/")
	if !ok {
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: missing object key (expected %s://<bucket>/<key>)", raw, parsed.Scheme)
	}
	return URI{bucket: parsed.Host, key: key}, nil
}

func parseEndpointURL(raw string, parsed *url.URL) (URI, error) {
	host := parsed.Hostname()
	m := endpointPattern.FindStringSubmatch(host)
	if m == nil {
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: hostname %q does not look like an S3 endpoint", raw, host)
	}
	prefix, region := m[1], m[2]

	path, ok := strings.CutPrefix(parsed.Path, "/")
	if !ok {
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: missing path", raw)
	}

	if prefix != "" {
		// Virtual-hosted-style: the bucket is the hostname prefix.
		return URI{bucket: strings.TrimSuffix(prefix, "."), key: path, region: region}, nil
	}

	// Path-style: the bucket is the first path segment.
	bucket, key, found := strings.Cut(path, "/")
	if !found {
		return URI{}, cloudsigner.NewURIParseError("invalid S3 URI %q: missing object key after bucket %q", raw, bucket)
	}
	return URI{bucket: bucket, key: key, region: region}, nil
}
