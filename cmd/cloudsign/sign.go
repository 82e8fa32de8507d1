package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner"
	"github.com/cloudutil/cloud-file-signer/pkg/cloudsigner/config"
)

var signCmd = &cobra.Command{
	Use:   "sign <uri>",
	Short: "Presign a cloud object URI",
	Long: `Presign a cloud object URI and print the resulting URL.

The provider is chosen by the URI scheme's configured provider, or
explicitly with --provider. Examples:

  cloudsign sign s3://my-bucket/path/to/file
  cloudsign sign --permission write --expires-in 15m s3://my-bucket/upload
  cloudsign sign --provider azure abfss://container@account.dfs.core.windows.net/blob`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	signCmd.Flags().String("provider", "", "signer provider: s3, azure, gcs (default: configured default)")
	signCmd.Flags().String("permission", "read", "requested permission: read, write")
	signCmd.Flags().Duration("expires-in", time.Hour, "how long the URL stays valid")
	signCmd.Flags().String("valid-from", "", "start of the validity window, RFC 3339 (default: now)")

	_ = viper.BindPFlag("sign.provider", signCmd.Flags().Lookup("provider"))

	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	uri := args[0]

	permissionStr, _ := cmd.Flags().GetString("permission")
	permission, err := cloudsigner.ParsePermission(permissionStr)
	if err != nil {
		return err
	}

	expiresIn, _ := cmd.Flags().GetDuration("expires-in")

	cfg, err := config.Load(config.WithEnv("CLOUDSIGN"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	provider := viper.GetString("sign.provider")
	if provider == "" {
		provider = cfg.DefaultProvider
	}

	signer, err := cfg.BuildSigner(cmd.Context(), provider)
	if err != nil {
		return fmt.Errorf("build %s signer: %w", provider, err)
	}

	var signed cloudsigner.PresignedURL
	if validFromStr, _ := cmd.Flags().GetString("valid-from"); validFromStr != "" {
		validFrom, err := time.Parse(time.RFC3339, validFromStr)
		if err != nil {
			return fmt.Errorf("parse --valid-from: %w", err)
		}
		signed, err = signer.Sign(cmd.Context(), uri, validFrom, expiresIn, permission)
		if err != nil {
			return err
		}
	} else {
		switch permission {
		case cloudsigner.PermissionWrite:
			signed, err = cloudsigner.SignWriteOnlyStartingNow(cmd.Context(), signer, uri, expiresIn)
		default:
			signed, err = cloudsigner.SignReadOnlyStartingNow(cmd.Context(), signer, uri, expiresIn)
		}
		if err != nil {
			return err
		}
	}

	slog.Debug("presigned URL",
		"provider", provider,
		"permission", permission.String(),
		"valid_from", signed.ValidFrom(),
		"valid_until", signed.ValidUntil())

	fmt.Fprintln(cmd.OutOrStdout(), signed.URL())
	return nil
}
