package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

func newTestSigner(now func() time.Time) *Signer {
	awsCfg := aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
	}
	signer := NewFromClient(s3.NewFromConfig(awsCfg))
	if now != nil {
		signer.now = now
	}
	return signer
}

func TestSignProducesSignedURL(t *testing.T) {
	signer := newTestSigner(nil)
	validFrom := time.Now()

	u, err := signer.Sign(context.Background(), "s3://bucket/key/nested", validFrom, time.Hour, cloudsigner.PermissionRead)
	require.NoError(t, err)

	assert.Equal(t, validFrom, u.ValidFrom())
	assert.Equal(t, time.Hour, u.ValidFor())
	assert.Contains(t, u.URL(), "X-Amz-Signature=")
	assert.Contains(t, u.URL(), "bucket")
	assert.Contains(t, u.URL(), "key/nested")
}

func TestSignWritePresignsPut(t *testing.T) {
	signer := newTestSigner(nil)

	u, err := signer.Sign(context.Background(), "s3://bucket/key", time.Now(), time.Hour, cloudsigner.PermissionWrite)
	require.NoError(t, err)
	assert.Contains(t, u.URL(), "X-Amz-Signature=")
}

func TestSignValidation(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	signer := newTestSigner(func() time.Time { return now })

	tests := []struct {
		name      string
		path      string
		validFrom time.Time
		expiresIn time.Duration
		wantKind  cloudsigner.ErrorKind
	}{
		{"unparseable path", "invalid://bucket/key", now, time.Hour, cloudsigner.KindCloudURIParse},
		{"zero duration", "s3://bucket/key", now, 0, cloudsigner.KindSigning},
		{"negative duration", "s3://bucket/key", now, -time.Minute, cloudsigner.KindSigning},
		{"window longer than a week", "s3://bucket/key", now, 8 * 24 * time.Hour, cloudsigner.KindExpirationTooLong},
		{"window already ended", "s3://bucket/key", now.Add(-2 * time.Hour), time.Hour, cloudsigner.KindSigning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Sign(context.Background(), tt.path, tt.validFrom, tt.expiresIn, cloudsigner.PermissionRead)
			require.Error(t, err)
			assert.True(t, cloudsigner.IsKind(err, tt.wantKind), "got %v", err)
		})
	}
}

// objectStoreDouble imitates the provider side: it serves objects only to
// requests carrying an unexpired presigned query string.
type objectStoreDouble struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (d *objectStoreDouble) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dateStr := q.Get("X-Amz-Date")
	expiresStr := q.Get("X-Amz-Expires")
	if q.Get("X-Amz-Signature") == "" || dateStr == "" || expiresStr == "" {
		http.Error(w, "AccessDenied: request is not presigned", http.StatusForbidden)
		return
	}
	signedAt, err := time.Parse("20060102T150405Z", dateStr)
	if err != nil {
		http.Error(w, "AccessDenied: malformed X-Amz-Date", http.StatusForbidden)
		return
	}
	expires, err := strconv.Atoi(expiresStr)
	if err != nil {
		http.Error(w, "AccessDenied: malformed X-Amz-Expires", http.StatusForbidden)
		return
	}
	if time.Now().UTC().After(signedAt.Add(time.Duration(expires) * time.Second)) {
		http.Error(w, "AccessDenied: request has expired", http.StatusForbidden)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		body, ok := d.objects[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(body)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		d.objects[r.URL.Path] = body
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func TestSignEndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps to let a signed URL expire")
	}

	double := &objectStoreDouble{objects: map[string][]byte{
		"/bucket/known/key": []byte("object bytes"),
	}}
	srv := httptest.NewServer(double)
	defer srv.Close()

	signer, err := New(context.Background(), Config{
		Region:          "us-east-1",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        srv.URL,
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	// Read: a URL valid for an hour fetches the object with a plain GET.
	readURL, err := cloudsigner.SignReadOnlyStartingNow(context.Background(), signer, "s3://bucket/known/key", time.Hour)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(readURL.URL(), srv.URL))

	resp, err := http.Get(readURL.URL())
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte("object bytes"), body)

	// Write: a write-only URL uploads with a plain PUT.
	writeURL, err := cloudsigner.SignWriteOnlyStartingNow(context.Background(), signer, "s3://bucket/uploaded/key", time.Hour)
	require.NoError(t, err)

	putReq, err := http.NewRequest(http.MethodPut, writeURL.URL(), strings.NewReader("uploaded bytes"))
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(putReq)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)
	assert.Equal(t, []byte("uploaded bytes"), double.objects["/bucket/uploaded/key"])

	// Expiry: a URL valid for one second is rejected by the provider, not by
	// this layer, once the window has passed.
	shortURL, err := cloudsigner.SignReadOnlyStartingNow(context.Background(), signer, "s3://bucket/known/key", time.Second)
	require.NoError(t, err)

	time.Sleep(2 * time.Second)

	expiredResp, err := http.Get(shortURL.URL())
	require.NoError(t, err)
	expiredResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, expiredResp.StatusCode)
	assert.False(t, shortURL.IsValid())
}
