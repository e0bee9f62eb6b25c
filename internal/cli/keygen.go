package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/shinkansenfinance/shinkansen-go/internal/keyio"
)

// keygenCmd represents the keygen command
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an RSA key pair and self-signed certificate",
	Long: `Generate a new RSA key pair and self-signed certificate for signing messages.

The certificate must be registered with Shinkansen so counterparties can
whitelist it before any signed message is accepted.

Example:
  shinkansen keygen --common-name "Acme SpA" --output ./keys/acme`,
	RunE: runKeygen,
}

var (
	keygenCommonName string
	keygenOutputPath string
	keygenValidYears int
	keygenSaveJWK    bool
)

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.Flags().StringVar(&keygenCommonName, "common-name", "", "Certificate subject common name (required)")
	keygenCmd.Flags().StringVar(&keygenOutputPath, "output", "./keys/shinkansen", "Output path prefix for key and certificate files")
	keygenCmd.Flags().IntVar(&keygenValidYears, "valid-years", 5, "Certificate validity in years")
	keygenCmd.Flags().BoolVar(&keygenSaveJWK, "jwk", false, "Also save the private key in JWK format")
	keygenCmd.MarkFlagRequired("common-name")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	key, err := keyio.GenerateRSAKeyPair()
	if err != nil {
		return err
	}

	validFor := time.Duration(keygenValidYears) * 365 * 24 * time.Hour
	certificate, err := keyio.NewSelfSignedCertificate(key, keygenCommonName, validFor)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(keygenOutputPath)
	prefix := filepath.Base(keygenOutputPath)

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	keyFile := prefix + ".key.pem"
	certFile := prefix + ".crt.pem"

	if err := keyio.SaveRSAPrivateKeyToPEMFile(key, baseDir, keyFile); err != nil {
		return err
	}
	if err := keyio.SaveCertificateToPEMFile(certificate, baseDir, certFile); err != nil {
		return err
	}

	appLogger.Info("generated key pair and certificate",
		slog.String("private_key", filepath.Join(baseDir, keyFile)),
		slog.String("certificate", filepath.Join(baseDir, certFile)),
		slog.String("common_name", keygenCommonName),
		slog.Time("not_after", certificate.NotAfter))

	if keygenSaveJWK {
		jwkFile := prefix + ".key.jwk"
		if err := keyio.SaveRSAPrivateKeyToJWKFile(key, baseDir, jwkFile); err != nil {
			return err
		}
		appLogger.Info("saved private key in JWK format",
			slog.String("jwk", filepath.Join(baseDir, jwkFile)))
	}

	appLogger.Warn("keep the private key secure; only the certificate should be shared")
	return nil
}
