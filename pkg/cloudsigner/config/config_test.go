package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3", cfg.DefaultProvider)
	require.NotNil(t, cfg.S3)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Nil(t, cfg.Azure)
	assert.Nil(t, cfg.GCS)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []config.Option
		wantErr string
	}{
		{
			"unknown default provider",
			[]config.Option{config.WithDefaultProvider("ftp")},
			"default_provider",
		},
		{
			"default provider without section",
			[]config.Option{config.WithDefaultProvider("azure")},
			"no azure section",
		},
		{
			"azure without key",
			[]config.Option{config.WithAzure(config.AzureConfig{StorageAccount: "acct"})},
			"storage_key",
		},
		{
			"gcs access id without key file",
			[]config.Option{config.WithGCS(config.GCSConfig{GoogleAccessID: "sa@project.iam"})},
			"must be set together",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(tt.opts...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWithEnv(t *testing.T) {
	t.Setenv("SIGNER_DEFAULT_PROVIDER", "azure")
	t.Setenv("SIGNER_S3_REGION", "eu-west-1")
	t.Setenv("SIGNER_S3_USE_PATH_STYLE", "true")
	t.Setenv("SIGNER_AZURE_STORAGE_ACCOUNT", "mystorageaccount")
	t.Setenv("SIGNER_AZURE_STORAGE_KEY", "c2VjcmV0")

	cfg, err := config.Load(config.WithEnv("SIGNER"))
	require.NoError(t, err)

	assert.Equal(t, "azure", cfg.DefaultProvider)
	require.NotNil(t, cfg.S3)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.True(t, cfg.S3.UsePathStyle)
	require.NotNil(t, cfg.Azure)
	assert.Equal(t, "mystorageaccount", cfg.Azure.StorageAccount)
	assert.Nil(t, cfg.GCS)
}

func TestBuildSigners(t *testing.T) {
	cfg, err := config.Load(
		config.WithS3(config.S3Config{
			Region:          "us-east-1",
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "secret",
		}),
		config.WithAzure(config.AzureConfig{
			StorageAccount: "mystorageaccount",
			StorageKey:     "c2hhcmVkLWtleS1mb3ItdGVzdHM=",
		}),
	)
	require.NoError(t, err)

	signers, err := cfg.BuildSigners(context.Background())
	require.NoError(t, err)
	require.Len(t, signers, 2)

	// The built signers satisfy the uniform contract end to end.
	u, err := signers["s3"].Sign(context.Background(), "s3://bucket/key", time.Now(), time.Hour, cloudsigner.PermissionRead)
	require.NoError(t, err)
	assert.Contains(t, u.URL(), "X-Amz-Signature=")

	u, err = signers["azure"].Sign(context.Background(),
		"abfss://container@mystorageaccount.dfs.core.windows.net/blob",
		time.Now(), time.Hour, cloudsigner.PermissionRead)
	require.NoError(t, err)
	assert.Contains(t, u.URL(), "sig=")
}

func TestBuildSignerUnknownProvider(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.BuildSigner(context.Background(), "ftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
