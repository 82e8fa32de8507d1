// Package s3 implements the cloudsigner.FileSigner contract for Amazon S3
// and S3-compatible object stores.
package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
)

// maxPresignExpiry is the SigV4 ceiling on how far past signing time a
// presigned URL may stay valid.
const maxPresignExpiry = 7 * 24 * time.Hour

// Config options for the S3 signer client.
type Config struct {
	Region          string // AWS region (default: us-east-1)
	AccessKeyID     string // AWS access key ID; empty uses the default credential chain
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (MinIO and friends)
}

// Signer signs URLs for objects in S3. It is an immutable handle around the
// SDK presign client and is safe to share across goroutines.
type Signer struct {
	presign *s3.PresignClient
	now     func() time.Time
}

// New creates a signer from Config. Explicit keys take precedence over the
// default credential chain.
func New(ctx context.Context, cfg Config) (*Signer, error) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	return NewFromClient(s3.NewFromConfig(awsCfg, s3Options...)), nil
}

// NewFromClient creates a signer around an existing S3 client.
func NewFromClient(client *s3.Client) *Signer {
	return &Signer{
		presign: s3.NewPresignClient(client),
		now:     time.Now,
	}
}

// NewFromKeys creates a signer from static credentials.
func NewFromKeys(ctx context.Context, region, accessKeyID, secretAccessKey string) (*Signer, error) {
	return New(ctx, Config{
		Region:          region,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
	})
}

// NewFromEnv creates a signer using the default credential chain and region
// resolution (environment, shared config, instance metadata).
func NewFromEnv(ctx context.Context) (*Signer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewFromClient(s3.NewFromConfig(awsCfg)), nil
}

// Sign implements cloudsigner.FileSigner. Read presigns a GetObject request,
// Write presigns a PutObject request.
func (s *Signer) Sign(ctx context.Context, path string, validFrom time.Time, expiresIn time.Duration, permission cloudsigner.Permission) (cloudsigner.PresignedURL, error) {
	uri, err := ParseURI(path)
	if err != nil {
		return cloudsigner.PresignedURL{}, err
	}

	if expiresIn <= 0 {
		return cloudsigner.PresignedURL{}, cloudsigner.NewSigningError("expiration must be positive, got %s", expiresIn)
	}

	// SigV4 query signing anchors the window at signing time, so the SDK
	// expiry is the remainder of the requested window measured from now.
	now := s.now()
	remaining := validFrom.Add(expiresIn).Sub(now)
	if remaining > maxPresignExpiry {
		return cloudsigner.PresignedURL{}, cloudsigner.NewExpirationTooLongError(
			"S3 presigned URLs cannot be valid for longer than one week; requested window ends %s after signing time", remaining)
	}
	if remaining <= 0 {
		return cloudsigner.PresignedURL{}, cloudsigner.NewSigningError(
			"requested validity window (from %s for %s) has already ended", validFrom.UTC().Format(time.RFC3339), expiresIn)
	}

	var signed string
	switch permission {
	case cloudsigner.PermissionRead:
		signed, err = s.presignGet(ctx, uri, remaining)
	case cloudsigner.PermissionWrite:
		signed, err = s.presignPut(ctx, uri, remaining)
	default:
		return cloudsigner.PresignedURL{}, cloudsigner.NewPermissionNotSupportedError(
			"permission %s is not supported by the S3 signer", permission)
	}
	if err != nil {
		return cloudsigner.PresignedURL{}, translateError(err)
	}

	return cloudsigner.NewPresignedURL(signed, validFrom, expiresIn), nil
}

func (s *Signer) presignGet(ctx context.Context, uri URI, expires time.Duration) (string, error) {
	result, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(uri.Bucket()),
		Key:    aws.String(uri.Key()),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func (s *Signer) presignPut(ctx context.Context, uri URI, expires time.Duration) (string, error) {
	result, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(uri.Bucket()),
		Key:    aws.String(uri.Key()),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expires
	})
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

// translateError re-classifies SDK failures into the uniform taxonomy so no
// provider-specific error type escapes the contract.
func translateError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return cloudsigner.NewOtherError("s3 presign failed: %s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage())
	}
	return cloudsigner.NewOtherError("s3 presign failed: %v", err)
}
