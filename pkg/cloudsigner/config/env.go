package config

import (
	"fmt"
	"os"
	"strconv"
)

// WithEnv applies environment variable overrides using the provided prefix
// (variables are named <PREFIX>_<NAME>, or just <NAME> when the prefix is
// empty).
//
// Recognized variables:
//
//	DEFAULT_PROVIDER - "s3", "azure" or "gcs" (default: "s3")
//
//	S3_REGION            - AWS region
//	S3_ACCESS_KEY_ID     - explicit keys; unset uses the SDK credential chain
//	S3_SECRET_ACCESS_KEY
//	S3_ENDPOINT          - custom endpoint for S3-compatible services
//	S3_USE_PATH_STYLE    - "true" for path-style addressing
//
//	AZURE_STORAGE_ACCOUNT - configures the Azure signer when set
//	AZURE_STORAGE_KEY
//	AZURE_SERVICE_URL     - optional base URL override
//
//	GCS_ENABLED          - "true" configures the GCS signer
//	GCS_CREDENTIALS_FILE - service-account JSON; unset uses ADC
//	GCS_ACCESS_ID        - optional explicit signing identity
//	GCS_PRIVATE_KEY_FILE - PEM key for GCS_ACCESS_ID
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if v, ok := lookupEnv(prefix, "DEFAULT_PROVIDER"); ok && v != "" {
			c.DefaultProvider = v
		}

		applyS3Env(prefix, c)
		applyAzureEnv(prefix, c)
		if err := applyGCSEnv(prefix, c); err != nil {
			return err
		}

		return nil
	}
}

func applyS3Env(prefix string, c *Config) {
	if c.S3 == nil {
		c.S3 = &S3Config{Region: "us-east-1"}
	}
	if v, ok := lookupEnv(prefix, "S3_REGION"); ok && v != "" {
		c.S3.Region = v
	}
	if v, ok := lookupEnv(prefix, "S3_ACCESS_KEY_ID"); ok {
		c.S3.AccessKeyID = v
	}
	if v, ok := lookupEnv(prefix, "S3_SECRET_ACCESS_KEY"); ok {
		c.S3.SecretAccessKey = v
	}
	if v, ok := lookupEnv(prefix, "S3_ENDPOINT"); ok {
		c.S3.Endpoint = v
	}
	if v, ok := lookupEnv(prefix, "S3_USE_PATH_STYLE"); ok {
		c.S3.UsePathStyle = parseBool(v)
	}
}

func applyAzureEnv(prefix string, c *Config) {
	account, _ := lookupEnv(prefix, "AZURE_STORAGE_ACCOUNT")
	if account == "" {
		return
	}
	key, _ := lookupEnv(prefix, "AZURE_STORAGE_KEY")
	serviceURL, _ := lookupEnv(prefix, "AZURE_SERVICE_URL")
	c.Azure = &AzureConfig{
		StorageAccount: account,
		StorageKey:     key,
		ServiceURL:     serviceURL,
	}
}

func applyGCSEnv(prefix string, c *Config) error {
	enabled, _ := lookupEnv(prefix, "GCS_ENABLED")
	credsFile, _ := lookupEnv(prefix, "GCS_CREDENTIALS_FILE")
	accessID, _ := lookupEnv(prefix, "GCS_ACCESS_ID")
	keyFile, _ := lookupEnv(prefix, "GCS_PRIVATE_KEY_FILE")

	if !parseBool(enabled) && credsFile == "" && accessID == "" {
		return nil
	}
	if (accessID == "") != (keyFile == "") {
		return fmt.Errorf("GCS_ACCESS_ID and GCS_PRIVATE_KEY_FILE must be set together")
	}

	c.GCS = &GCSConfig{
		CredentialsFile: credsFile,
		GoogleAccessID:  accessID,
		PrivateKeyFile:  keyFile,
	}
	return nil
}

func lookupEnv(prefix, name string) (string, bool) {
	if prefix != "" {
		name = prefix + "_" + name
	}
	return os.LookupEnv(name)
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
