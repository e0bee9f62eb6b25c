package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinkansenfinance/shinkansen-go/internal/jws"
	"github.com/shinkansenfinance/shinkansen-go/internal/keyio"
)

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a message file with detached JWS",
	Long: `Sign a JSON message file and print the detached JWS signature.

The signature is computed over the exact bytes of the file; send those same
bytes alongside the signature.

Example:
  shinkansen sign --message ./payout.json --key ./keys/acme.key.pem --cert ./keys/acme.crt.pem`,
	RunE: runSign,
}

var (
	signMessagePath string
	signKeyPath     string
	signCertPath    string
)

func init() {
	rootCmd.AddCommand(signCmd)

	signCmd.Flags().StringVar(&signMessagePath, "message", "", "Path to the JSON message file (required)")
	signCmd.Flags().StringVar(&signKeyPath, "key", "", "Path to the private key PEM file (required)")
	signCmd.Flags().StringVar(&signCertPath, "cert", "", "Path to the certificate PEM file (required)")
	signCmd.MarkFlagRequired("message")
	signCmd.MarkFlagRequired("key")
	signCmd.MarkFlagRequired("cert")
}

func runSign(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(signMessagePath)
	if err != nil {
		return fmt.Errorf("failed to read message file: %w", err)
	}

	key, err := keyio.ReadRSAPrivateKeyFromPEMFile(signKeyPath)
	if err != nil {
		return err
	}

	certificate, err := keyio.ReadCertificateFromPEMFile(signCertPath)
	if err != nil {
		return err
	}

	signature, err := jws.Sign(payload, key, certificate)
	if err != nil {
		return err
	}

	appLogger.Info("signed message",
		slog.String("message", signMessagePath),
		slog.Int("payload_bytes", len(payload)))

	fmt.Fprintln(cmd.OutOrStdout(), signature)
	return nil
}
