package message

// response.go implements inbound status response messages.
//
// Responses are polymorphic: the transaction_type field of each response
// object selects its decoded shape from an open registry. Unknown types fall
// back to the generic Response shape so new transaction types never break
// existing consumers; unrecognized fields are discarded without error for the
// same reason.

import (
	"bytes"
	"encoding/json"
)

// ResponseStatusOK is the response_status of an accepted response.
const ResponseStatusOK = "ok"

// Response carries the fields shared by every response variant.
type Response struct {

	// TransactionID: The id of the original transaction this response
	// corresponds to
	TransactionID string `json:"transaction_id"`

	// ShinkansenTransactionID: The Shinkansen-assigned id for the original
	// transaction
	ShinkansenTransactionID string `json:"shinkansen_transaction_id"`

	// ShinkansenTransactionStatus: The resulting status of the transaction
	ShinkansenTransactionStatus string `json:"shinkansen_transaction_status"`

	// ShinkansenTransactionMessage: Human-readable message further explaining
	// the status of the transaction
	ShinkansenTransactionMessage string `json:"shinkansen_transaction_message"`

	// ResponseStatus: The status of the response. Valid values depend on the
	// transaction type
	ResponseStatus string `json:"response_status"`

	// ResponseMessage: Human-readable message explaining the response status
	ResponseMessage string `json:"response_message"`

	// TransactionType: The type of the original transaction
	TransactionType string `json:"transaction_type"`

	// ResponseID: The id of the response itself (UUID string, generated when
	// absent)
	ResponseID string `json:"response_id"`
}

// Base returns the response's shared fields. It makes Response usable as the
// generic fallback shape of the registry.
func (r *Response) Base() *Response { return r }

// IsOK reports whether the response status is ok.
func (r *Response) IsOK() bool { return r.ResponseStatus == ResponseStatusOK }

// fillDefaults generates a response id when the wire form carried none.
func (r *Response) fillDefaults() {
	if r.ResponseID == "" {
		r.ResponseID = newID()
	}
}

// TransactionResponse is a status response for one original transaction.
// Concrete variants embed Response and may add fields of their own.
type TransactionResponse interface {

	// Base returns the fields shared by every response variant.
	Base() *Response
}

// PayoutResponse is the response to a payout transaction. It carries no
// fields beyond the shared ones.
type PayoutResponse struct {
	Response
}

// PayinResponse is the response to a payin transaction. It carries no fields
// beyond the shared ones.
type PayinResponse struct {
	Response
}

// ResponseDecoder decodes a single response object into its concrete shape.
type ResponseDecoder func(data json.RawMessage) (TransactionResponse, error)

// responseDecoders maps a transaction_type tag to its decoder. The registry
// is populated at init time and read-only afterwards, so concurrent
// deserialization needs no locking.
var responseDecoders = map[string]ResponseDecoder{}

// RegisterResponseDecoder registers the decoder used for responses with the
// given transaction_type. Call it from an init function; the registry must
// not be mutated once messages are being parsed.
func RegisterResponseDecoder(transactionType string, decoder ResponseDecoder) {
	responseDecoders[transactionType] = decoder
}

func init() {
	RegisterResponseDecoder("payout", func(data json.RawMessage) (TransactionResponse, error) {
		var response PayoutResponse
		if err := json.Unmarshal(data, &response); err != nil {
			return nil, WrapDecodeError(err, "failed to parse payout response")
		}
		response.fillDefaults()
		return &response, nil
	})
	RegisterResponseDecoder("payin", func(data json.RawMessage) (TransactionResponse, error) {
		var response PayinResponse
		if err := json.Unmarshal(data, &response); err != nil {
			return nil, WrapDecodeError(err, "failed to parse payin response")
		}
		response.fillDefaults()
		return &response, nil
	})
}

// decodeResponse dispatches one response object to the decoder registered
// for its transaction_type, falling back to the generic shape for unknown
// types.
func decodeResponse(data json.RawMessage) (TransactionResponse, error) {
	var tag struct {
		TransactionType string `json:"transaction_type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, WrapDecodeError(err, "failed to parse response object")
	}
	if decoder, ok := responseDecoders[tag.TransactionType]; ok {
		return decoder(data)
	}
	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, WrapDecodeError(err, "failed to parse response object")
	}
	response.fillDefaults()
	return &response, nil
}

// ResponseMessage is an inbound message carrying one or more responses, in
// wire order, paired with the raw bytes it was parsed from.
//
// The raw bytes are immutable once captured and are the only valid
// verification payload for the message.
type ResponseMessage struct {
	Header    MessageHeader
	Responses []TransactionResponse

	// raw is the verbatim wire form, nil for messages built in memory.
	raw []byte
}

// NewResponseMessage builds a response message in memory. It exists for
// serialization and tests only: a message built this way has no wire bytes
// and can never be verified.
func NewResponseMessage(header MessageHeader, responses ...TransactionResponse) *ResponseMessage {
	if responses == nil {
		responses = make([]TransactionResponse, 0)
	}
	return &ResponseMessage{Header: header, Responses: responses}
}

// Raw returns a copy of the wire bytes the message was parsed from, or nil
// for messages built in memory.
func (m *ResponseMessage) Raw() []byte {
	return bytes.Clone(m.raw)
}

type responseWireDocument struct {
	Header    MessageHeader     `json:"header"`
	Responses []json.RawMessage `json:"responses"`
}

type responseWire struct {
	Document responseWireDocument `json:"document"`
}

// ParseResponseMessage decodes a response message from the bytes received
// off the wire, retaining a private copy of those exact bytes for later
// verification.
func ParseResponseMessage(data []byte) (*ResponseMessage, error) {
	var wire responseWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, WrapDecodeError(err, "failed to parse response message")
	}

	responses := make([]TransactionResponse, 0, len(wire.Document.Responses))
	for _, rawResponse := range wire.Document.Responses {
		response, err := decodeResponse(rawResponse)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}

	return &ResponseMessage{
		Header:    wire.Document.Header,
		Responses: responses,
		raw:       bytes.Clone(data),
	}, nil
}

type responseDocument struct {
	Header    MessageHeader         `json:"header"`
	Responses []TransactionResponse `json:"responses"`
}

// ToJSON serializes the message to its {"document": ...} form.
//
// This is a construction/serialization helper only. It must never be used to
// produce a verification payload: the bytes handed to signature verification
// are always the ones captured at parse time.
func (m *ResponseMessage) ToJSON() ([]byte, error) {
	responses := m.Responses
	if responses == nil {
		responses = make([]TransactionResponse, 0)
	}
	data, err := json.Marshal(struct {
		Document responseDocument `json:"document"`
	}{Document: responseDocument{Header: m.Header, Responses: responses}})
	if err != nil {
		return nil, WrapDecodeError(err, "failed to serialize response message")
	}
	return data, nil
}
