// Package config assembles provider signers from declarative configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/azure"
	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/gcs"
	s3signer "github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/s3"
)

// Option applies configuration to a Config instance.
type Option func(*Config) error

// Load constructs a Config by applying the supplied options on top of
// library defaults.
func Load(opts ...Option) (*Config, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() Config {
	return Config{
		DefaultProvider: "s3",
		S3: &S3Config{
			Region: "us-east-1",
		},
	}
}

// Config declares which provider signers to build. A nil provider section
// means that provider is not configured.
type Config struct {
	DefaultProvider string // "s3", "azure" or "gcs"

	S3    *S3Config
	Azure *AzureConfig
	GCS   *GCSConfig
}

// S3Config configures the S3 signer.
type S3Config struct {
	Region          string
	AccessKeyID     string // empty uses the default credential chain
	SecretAccessKey string
	Endpoint        string // optional custom endpoint for S3-compatible services
	UsePathStyle    bool
}

// AzureConfig configures the Azure Blob Storage signer.
type AzureConfig struct {
	StorageAccount string
	StorageKey     string
	ServiceURL     string // optional override, for Azurite and sovereign clouds
}

// GCSConfig configures the Google Cloud Storage signer.
type GCSConfig struct {
	CredentialsFile string // optional service-account JSON; empty uses ADC
	GoogleAccessID  string // optional explicit signing identity
	PrivateKeyFile  string // PEM key for GoogleAccessID
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.S3 == nil && c.Azure == nil && c.GCS == nil {
		return errors.New("at least one provider must be configured")
	}

	switch c.DefaultProvider {
	case "s3":
		if c.S3 == nil {
			return errors.New("default provider is s3 but no s3 section is configured")
		}
	case "azure":
		if c.Azure == nil {
			return errors.New("default provider is azure but no azure section is configured")
		}
	case "gcs":
		if c.GCS == nil {
			return errors.New("default provider is gcs but no gcs section is configured")
		}
	default:
		return fmt.Errorf("default_provider must be 's3', 'azure' or 'gcs', got %q", c.DefaultProvider)
	}

	if c.Azure != nil && (c.Azure.StorageAccount == "" || c.Azure.StorageKey == "") {
		return errors.New("azure requires both storage_account and storage_key")
	}
	if c.GCS != nil && (c.GCS.GoogleAccessID == "") != (c.GCS.PrivateKeyFile == "") {
		return errors.New("gcs google_access_id and private_key_file must be set together")
	}

	return nil
}

// WithDefaultProvider sets the provider BuildDefaultSigner uses.
func WithDefaultProvider(provider string) Option {
	return func(c *Config) error {
		c.DefaultProvider = provider
		return nil
	}
}

// WithS3 configures the S3 signer.
func WithS3(s3cfg S3Config) Option {
	return func(c *Config) error {
		c.S3 = &s3cfg
		return nil
	}
}

// WithAzure configures the Azure signer.
func WithAzure(azureCfg AzureConfig) Option {
	return func(c *Config) error {
		c.Azure = &azureCfg
		return nil
	}
}

// WithGCS configures the GCS signer.
func WithGCS(gcsCfg GCSConfig) Option {
	return func(c *Config) error {
		c.GCS = &gcsCfg
		return nil
	}
}

// BuildSigner builds the signer for one configured provider.
func (c *Config) BuildSigner(ctx context.Context, provider string) (cloudsigner.FileSigner, error) {
	switch provider {
	case "s3":
		if c.S3 == nil {
			return nil, errors.New("s3 is not configured")
		}
		return s3signer.New(ctx, s3signer.Config{
			Region:          c.S3.Region,
			AccessKeyID:     c.S3.AccessKeyID,
			SecretAccessKey: c.S3.SecretAccessKey,
			Endpoint:        c.S3.Endpoint,
			UsePathStyle:    c.S3.UsePathStyle,
		})
	case "azure":
		if c.Azure == nil {
			return nil, errors.New("azure is not configured")
		}
		var opts []azure.Option
		if c.Azure.ServiceURL != "" {
			opts = append(opts, azure.WithServiceURL(c.Azure.ServiceURL))
		}
		return azure.New(c.Azure.StorageAccount, c.Azure.StorageKey, opts...)
	case "gcs":
		if c.GCS == nil {
			return nil, errors.New("gcs is not configured")
		}
		return c.buildGCSSigner(ctx)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// BuildDefaultSigner builds the signer for the configured default provider.
func (c *Config) BuildDefaultSigner(ctx context.Context) (cloudsigner.FileSigner, error) {
	return c.BuildSigner(ctx, c.DefaultProvider)
}

// BuildSigners builds one signer per configured provider, keyed by provider
// name.
func (c *Config) BuildSigners(ctx context.Context) (map[string]cloudsigner.FileSigner, error) {
	signers := make(map[string]cloudsigner.FileSigner)

	for _, provider := range []string{"s3", "azure", "gcs"} {
		switch provider {
		case "s3":
			if c.S3 == nil {
				continue
			}
		case "azure":
			if c.Azure == nil {
				continue
			}
		case "gcs":
			if c.GCS == nil {
				continue
			}
		}
		signer, err := c.BuildSigner(ctx, provider)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s signer: %w", provider, err)
		}
		signers[provider] = signer
	}

	return signers, nil
}

func (c *Config) buildGCSSigner(ctx context.Context) (cloudsigner.FileSigner, error) {
	var clientOpts []option.ClientOption
	if c.GCS.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(c.GCS.CredentialsFile))
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	var opts []gcs.Option
	if c.GCS.GoogleAccessID != "" {
		key, err := os.ReadFile(c.GCS.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read gcs private key: %w", err)
		}
		opts = append(opts, gcs.WithServiceAccount(c.GCS.GoogleAccessID, key))
	}

	return gcs.New(client, opts...), nil
}
