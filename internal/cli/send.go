package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinkansenfinance/shinkansen-go/internal/client"
	"github.com/shinkansenfinance/shinkansen-go/internal/config"
	"github.com/shinkansenfinance/shinkansen-go/internal/keyio"
	"github.com/shinkansenfinance/shinkansen-go/internal/message"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a message file and send it to the Shinkansen API",
	Long: `Sign a payin or payout message file and post it to the Shinkansen API.

Requires SHINKANSEN_API_KEY, SIGNING_KEY_PATH, SIGNING_CERT_PATH and the
sender identity variables in the environment.

Example:
  shinkansen send --type payout --message ./payout.json`,
	RunE: runSend,
}

var (
	sendMessagePath string
	sendMessageType string
)

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendMessagePath, "message", "", "Path to the JSON message file (required)")
	sendCmd.Flags().StringVar(&sendMessageType, "type", "", "Message type: payin or payout (required)")
	sendCmd.MarkFlagRequired("message")
	sendCmd.MarkFlagRequired("type")
}

func runSend(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewClientConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	key, err := keyio.ReadRSAPrivateKeyFromPEMFile(cfg.SigningKeyPath)
	if err != nil {
		return err
	}
	certificate, err := keyio.ReadCertificateFromPEMFile(cfg.SigningCertPath)
	if err != nil {
		return err
	}

	apiClient, err := client.NewClientFromConfig(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(sendMessagePath)
	if err != nil {
		return fmt.Errorf("failed to read message file: %w", err)
	}

	ctx := cmd.Context()

	switch sendMessageType {
	case "payin":
		msg, err := message.ParsePayinMessage(data)
		if err != nil {
			return err
		}
		signature, resp, err := apiClient.SignAndSendPayinMessage(ctx, msg, key, certificate)
		if err != nil {
			return err
		}
		appLogger.Info("payin message sent",
			slog.String("message_id", msg.Header.MessageID),
			slog.Int("http_status", resp.HTTPStatusCode),
			slog.Int("accepted_transactions", len(resp.TransactionIDs)),
			slog.Int("errors", len(resp.Errors)))
		for transactionID, url := range resp.InteractivePaymentURLs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", transactionID, url)
		}
		reportErrors(cmd, resp.Errors)
		fmt.Fprintln(cmd.OutOrStdout(), signature)

	case "payout":
		msg, err := message.ParsePayoutMessage(data)
		if err != nil {
			return err
		}
		signature, resp, err := apiClient.SignAndSendPayoutMessage(ctx, msg, key, certificate)
		if err != nil {
			return err
		}
		appLogger.Info("payout message sent",
			slog.String("message_id", msg.Header.MessageID),
			slog.Int("http_status", resp.HTTPStatusCode),
			slog.Int("accepted_transactions", len(resp.TransactionIDs)),
			slog.Int("errors", len(resp.Errors)))
		reportErrors(cmd, resp.Errors)
		fmt.Fprintln(cmd.OutOrStdout(), signature)

	default:
		return fmt.Errorf("invalid message type %q: must be payin or payout", sendMessageType)
	}
	return nil
}

func reportErrors(cmd *cobra.Command, errors []client.HTTPResponseError) {
	for _, e := range errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
	}
}
