package message

// verify.go layers sender/receiver identity checks on top of detached JWS
// verification for inbound response messages.

import (
	"crypto/x509"
	"fmt"

	"github.com/shinkansenfinance/shinkansen-go/internal/jws"
)

// Verify verifies the detached signature of a response message against its
// retained wire bytes and the certificate whitelist, then checks the message
// was sent by expectedSender and addressed to expectedReceiver.
//
// A cryptographically valid, whitelisted signature alone does not prove the
// message was meant for this recipient or genuinely originated from the
// expected counterparty role; the identity checks block replay and
// misrouting of otherwise-legitimate signed messages. They therefore run
// only after signature verification succeeds, and always over the bytes as
// received off the wire - never a re-serialization.
//
// Signature failures surface as jws package errors; identity failures as
// ErrCodeUnexpectedSender or ErrCodeUnexpectedReceiver.
func (m *ResponseMessage) Verify(detachedJWS string, whitelist []*x509.Certificate, expectedSender, expectedReceiver FinancialInstitution) error {
	if m.raw == nil {
		return NewVerificationError("message has no wire bytes: only messages parsed from the wire can be verified")
	}

	if err := jws.VerifyDetached(m.raw, detachedJWS, whitelist); err != nil {
		return err
	}

	if !m.Header.Sender.Equal(expectedSender) {
		return NewUnexpectedSenderError(fmt.Sprintf(
			"message sent by %s (%s), expected %s (%s)",
			m.Header.Sender.FinID, m.Header.Sender.FinIDSchema,
			expectedSender.FinID, expectedSender.FinIDSchema))
	}
	if !m.Header.Receiver.Equal(expectedReceiver) {
		return NewUnexpectedReceiverError(fmt.Sprintf(
			"message addressed to %s (%s), expected %s (%s)",
			m.Header.Receiver.FinID, m.Header.Receiver.FinIDSchema,
			expectedReceiver.FinID, expectedReceiver.FinIDSchema))
	}
	return nil
}
