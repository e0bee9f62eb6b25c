package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinkansenfinance/shinkansen-go/internal/jws"
	"github.com/shinkansenfinance/shinkansen-go/internal/keyio"
	"github.com/shinkansenfinance/shinkansen-go/internal/message"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the detached JWS signature of a message file",
	Long: `Verify a detached JWS signature against a message file and a certificate whitelist.

The whitelist is a PEM file containing one or more trusted certificates.
When --sender or --receiver are given, the message header identities are
checked as well.

Example:
  shinkansen verify --message ./response.json --signature "eyJ..." --whitelist ./keys/shinkansen.crt.pem --sender SHINKANSEN`,
	RunE: runVerify,
}

var (
	verifyMessagePath   string
	verifySignature     string
	verifySignaturePath string
	verifyWhitelistPath string
	verifySenderFinID   string
	verifyReceiverFinID string
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyMessagePath, "message", "", "Path to the JSON message file (required)")
	verifyCmd.Flags().StringVar(&verifySignature, "signature", "", "Detached JWS signature")
	verifyCmd.Flags().StringVar(&verifySignaturePath, "signature-file", "", "Path to a file containing the detached JWS signature")
	verifyCmd.Flags().StringVar(&verifyWhitelistPath, "whitelist", "", "Path to the PEM file with trusted certificates (required)")
	verifyCmd.Flags().StringVar(&verifySenderFinID, "sender", "", "Expected sender fin_id")
	verifyCmd.Flags().StringVar(&verifyReceiverFinID, "receiver", "", "Expected receiver fin_id")
	verifyCmd.MarkFlagRequired("message")
	verifyCmd.MarkFlagRequired("whitelist")
	verifyCmd.MarkFlagsOneRequired("signature", "signature-file")
	verifyCmd.MarkFlagsMutuallyExclusive("signature", "signature-file")
}

func runVerify(cmd *cobra.Command, args []string) error {
	payload, err := os.ReadFile(verifyMessagePath)
	if err != nil {
		return fmt.Errorf("failed to read message file: %w", err)
	}

	signature := verifySignature
	if verifySignaturePath != "" {
		data, err := os.ReadFile(verifySignaturePath)
		if err != nil {
			return fmt.Errorf("failed to read signature file: %w", err)
		}
		signature = strings.TrimSpace(string(data))
	}

	whitelist, err := keyio.ReadCertificatesFromPEMFile(verifyWhitelistPath)
	if err != nil {
		return err
	}

	if err := jws.VerifyDetached(payload, signature, whitelist); err != nil {
		return err
	}

	if verifySenderFinID != "" || verifyReceiverFinID != "" {
		if err := checkHeaderIdentities(payload, verifySenderFinID, verifyReceiverFinID); err != nil {
			return err
		}
	}

	appLogger.Info("signature verified",
		slog.String("message", verifyMessagePath),
		slog.Int("whitelist_certificates", len(whitelist)))

	fmt.Fprintln(cmd.OutOrStdout(), "OK")
	return nil
}

// checkHeaderIdentities compares the message header identities to the
// expected fin_ids, where given.
func checkHeaderIdentities(payload []byte, expectedSender, expectedReceiver string) error {
	var wire struct {
		Document struct {
			Header message.MessageHeader `json:"header"`
		} `json:"document"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return fmt.Errorf("failed to decode message header: %w", err)
	}

	header := wire.Document.Header
	if expectedSender != "" && header.Sender.FinID != expectedSender {
		return fmt.Errorf("unexpected sender: got %q, want %q", header.Sender.FinID, expectedSender)
	}
	if expectedReceiver != "" && header.Receiver.FinID != expectedReceiver {
		return fmt.Errorf("unexpected receiver: got %q, want %q", header.Receiver.FinID, expectedReceiver)
	}
	return nil
}
