package s3_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/s3"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		wantBucket string
		wantKey    string
		wantRegion string
	}{
		{"s3 scheme", "s3://bucket/key", "bucket", "key", ""},
		{"s3a scheme", "s3a://bucket/key", "bucket", "key", ""},
		{"s3n scheme", "s3n://bucket/key", "bucket", "key", ""},
		{"nested key", "s3://bucket/key/nested", "bucket", "key/nested", ""},
		{"virtual-hosted http", "http://bucket.s3.us-east-1.amazonaws.com/key", "bucket", "key", "us-east-1"},
		{"virtual-hosted https", "https://bucket.s3.us-east-1.amazonaws.com/key", "bucket", "key", "us-east-1"},
		{"virtual-hosted regional nested", "https://bucket.s3.us-east-1.amazonaws.com/key/nested", "bucket", "key/nested", "us-east-1"},
		{"virtual-hosted global", "https://bucket.s3.amazonaws.com/key/nested", "bucket", "key/nested", "amazonaws"},
		{"virtual-hosted dash form", "https://bucket.s3-eu-west-1.amazonaws.com/key", "bucket", "key", "eu-west-1"},
		{"virtual-hosted dotted bucket", "https://my.bucket.s3.us-east-1.amazonaws.com/key", "my.bucket", "key", "us-east-1"},
		{"path-style global", "https://s3.amazonaws.com/bucket/key", "bucket", "key", "amazonaws"},
		{"path-style regional", "https://s3.us-east-1.amazonaws.com/bucket/key", "bucket", "key", "us-east-1"},
		{"path-style nested", "https://s3.us-east-1.amazonaws.com/bucket/key/nested", "bucket", "key/nested", "us-east-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri, err := s3.ParseURI(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, uri.Bucket())
			assert.Equal(t, tt.wantKey, uri.Key())
			assert.Equal(t, tt.wantRegion, uri.Region())
		})
	}
}

func TestParseURIErrors(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		wantMsg string
	}{
		{"empty string", "", "missing scheme"},
		{"no scheme", "bucket", "missing scheme"},
		{"unsupported scheme", "abfss://bucket.s3.us-east-1.amazonaws.com/key", `unsupported scheme "abfss"`},
		{"gs scheme", "gs://bucket/key", `unsupported scheme "gs"`},
		{"missing bucket", "s3:///key", "missing bucket"},
		{"missing key", "s3://bucket", "missing object key"},
		{"not an s3 endpoint", "https://example.com/bucket/key", "does not look like an S3 endpoint"},
		{"path-style without key", "https://s3.us-east-1.amazonaws.com/bucket", "missing object key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s3.ParseURI(tt.uri)
			require.Error(t, err)
			assert.True(t, cloudsigner.IsKind(err, cloudsigner.KindCloudURIParse))
			assert.Contains(t, err.Error(), tt.wantMsg)
			// Diagnostics echo the offending input.
			assert.Contains(t, err.Error(), tt.uri)
		})
	}
}
