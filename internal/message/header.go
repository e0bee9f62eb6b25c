package message

import (
	"time"

	"github.com/google/uuid"
)

// newID generates the ids auto-filled on headers, transactions and responses.
// It is a variable so tests can pin deterministic ids.
var newID = func() string {
	return uuid.NewString()
}

// nowISO8601 produces the auto-filled creation and execution timestamps as
// ISO-8601 UTC strings. It is a variable so tests can pin a fixed clock.
var nowISO8601 = func() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// MessageHeader identifies the sender and receiver of a message, plus the
// message id and creation date.
type MessageHeader struct {

	// Sender: The institution originating the message
	Sender FinancialInstitution `json:"sender"`

	// Receiver: The institution the message is addressed to
	Receiver FinancialInstitution `json:"receiver"`

	// MessageID: Unique id of the message (UUID string)
	MessageID string `json:"message_id"`

	// CreationDate: ISO-8601 UTC timestamp of message creation
	CreationDate string `json:"creation_date"`
}

// NewMessageHeader creates a header for a message from sender to receiver,
// generating the message id and creation date.
//
// Uniqueness of message ids is a caller and server concern; this layer only
// guarantees a fresh UUID per call.
func NewMessageHeader(sender, receiver FinancialInstitution) MessageHeader {
	return MessageHeader{
		Sender:       sender,
		Receiver:     receiver,
		MessageID:    newID(),
		CreationDate: nowISO8601(),
	}
}

// ValidateStructure checks that all required fields are present.
func (h MessageHeader) ValidateStructure() error {
	if err := h.Sender.ValidateStructure(); err != nil {
		return WrapValidationError(err, "sender")
	}
	if err := h.Receiver.ValidateStructure(); err != nil {
		return WrapValidationError(err, "receiver")
	}
	if h.MessageID == "" {
		return NewValidationError("message_id is required")
	}
	if h.CreationDate == "" {
		return NewValidationError("creation_date is required")
	}
	return nil
}
