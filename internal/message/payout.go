package message

// payout.go implements payout (disbursement) messages: instructions to move
// money out of the caller's account towards a creditor.

import (
	"encoding/json"
	"fmt"
)

// PayoutDebtor is the debtor (origin) of a payout. All fields are required:
// the payout is drawn from a fully identified account.
type PayoutDebtor struct {

	// Name: The name of the debtor
	Name string `json:"name"`

	// Identification: The ID of the debtor
	Identification PersonID `json:"identification"`

	// FinancialInstitution: The financial institution of the debtor
	FinancialInstitution FinancialInstitution `json:"financial_institution"`

	// Account: The account of the debtor
	Account string `json:"account"`

	// AccountType: The type of account of the debtor
	AccountType AccountType `json:"account_type"`

	// Email: The email of the debtor
	Email string `json:"email"`
}

// ValidateStructure checks that all required fields are present.
func (d PayoutDebtor) ValidateStructure() error {
	if d.Name == "" {
		return NewValidationError("name is required")
	}
	if err := d.Identification.ValidateStructure(); err != nil {
		return WrapValidationError(err, "identification")
	}
	if err := d.FinancialInstitution.ValidateStructure(); err != nil {
		return WrapValidationError(err, "financial_institution")
	}
	if d.Account == "" {
		return NewValidationError("account is required")
	}
	if d.AccountType == "" {
		return NewValidationError("account_type is required")
	}
	if d.Email == "" {
		return NewValidationError("email is required")
	}
	return nil
}

// PayoutCreditor is the creditor (destination) of a payout. The financial
// institution is optional: some payment rails resolve it from the account.
type PayoutCreditor struct {

	// Name: The name of the creditor
	Name string `json:"name"`

	// Identification: The ID of the creditor
	Identification PersonID `json:"identification"`

	// FinancialInstitution: The financial institution of the creditor (optional)
	FinancialInstitution *FinancialInstitution `json:"financial_institution,omitempty"`

	// Account: The account of the creditor
	Account string `json:"account"`

	// AccountType: The type of account of the creditor
	AccountType AccountType `json:"account_type"`

	// Email: The email of the creditor
	Email string `json:"email"`
}

// ValidateStructure checks that all required fields are present.
func (c PayoutCreditor) ValidateStructure() error {
	if c.Name == "" {
		return NewValidationError("name is required")
	}
	if err := c.Identification.ValidateStructure(); err != nil {
		return WrapValidationError(err, "identification")
	}
	if c.FinancialInstitution != nil {
		if err := c.FinancialInstitution.ValidateStructure(); err != nil {
			return WrapValidationError(err, "financial_institution")
		}
	}
	if c.Account == "" {
		return NewValidationError("account is required")
	}
	if c.AccountType == "" {
		return NewValidationError("account_type is required")
	}
	if c.Email == "" {
		return NewValidationError("email is required")
	}
	return nil
}

// PayoutTransaction is a single payout instruction. Field order follows the
// serialized document shape and must not be reordered.
type PayoutTransaction struct {

	// TransactionType is always "payout".
	TransactionType string `json:"transaction_type"`

	// TransactionID: The ID of the transaction (UUID string)
	TransactionID string `json:"transaction_id"`

	// Currency: The currency of the transaction
	Currency Currency `json:"currency"`

	// Amount: The amount of the transaction as a string
	Amount string `json:"amount"`

	// Description: The description of the transaction
	Description string `json:"description"`

	// ExecutionDate: The date the transaction should preferably be executed
	ExecutionDate string `json:"execution_date"`

	// Debtor: The debtor of the transaction
	Debtor PayoutDebtor `json:"debtor"`

	// Creditor: The creditor of the transaction
	Creditor PayoutCreditor `json:"creditor"`

	// ReferenceNumber: Caller-side reference for reconciliation (optional)
	ReferenceNumber string `json:"reference_number,omitempty"`

	// TrackingKey: Rail-level tracking key (optional)
	TrackingKey string `json:"tracking_key,omitempty"`

	// PaymentPurposeCategory: Routing metadata (optional, "default" when unset)
	PaymentPurposeCategory string `json:"payment_purpose_category,omitempty"`

	// PaymentRail: Routing metadata (optional, "default" when unset)
	PaymentRail string `json:"payment_rail,omitempty"`

	// ExecutionMode: Routing metadata (optional, "default" when unset)
	ExecutionMode string `json:"execution_mode,omitempty"`

	// POConnection: Routing metadata (optional, "default" when unset)
	POConnection string `json:"po_connection,omitempty"`
}

// ValidateStructure checks that all required fields are present.
func (t PayoutTransaction) ValidateStructure() error {
	if t.TransactionType != "payout" {
		return NewValidationError(fmt.Sprintf("transaction_type must be payout, got %q", t.TransactionType))
	}
	if t.TransactionID == "" {
		return NewValidationError("transaction_id is required")
	}
	if t.Currency == "" {
		return NewValidationError("currency is required")
	}
	if t.Amount == "" {
		return NewValidationError("amount is required")
	}
	if t.ExecutionDate == "" {
		return NewValidationError("execution_date is required")
	}
	if err := t.Debtor.ValidateStructure(); err != nil {
		return WrapValidationError(err, "debtor")
	}
	if err := t.Creditor.ValidateStructure(); err != nil {
		return WrapValidationError(err, "creditor")
	}
	return nil
}

// PayoutTransactionBuilder helps build a PayoutTransaction.
type PayoutTransactionBuilder struct {
	transaction PayoutTransaction
}

// NewPayoutTransactionBuilder creates a new builder for PayoutTransaction.
func NewPayoutTransactionBuilder() *PayoutTransactionBuilder {
	return &PayoutTransactionBuilder{
		transaction: PayoutTransaction{
			PaymentPurposeCategory: "default",
			PaymentRail:            "default",
			ExecutionMode:          "default",
			POConnection:           "default",
		},
	}
}

// WithTransactionID sets an explicit transaction id. When not set, Build
// generates one.
func (b *PayoutTransactionBuilder) WithTransactionID(transactionID string) *PayoutTransactionBuilder {
	b.transaction.TransactionID = transactionID
	return b
}

// WithCurrency sets the currency (required).
func (b *PayoutTransactionBuilder) WithCurrency(currency Currency) *PayoutTransactionBuilder {
	b.transaction.Currency = currency
	return b
}

// WithAmount sets the amount (required).
func (b *PayoutTransactionBuilder) WithAmount(amount string) *PayoutTransactionBuilder {
	b.transaction.Amount = amount
	return b
}

// WithDescription sets the description (required).
func (b *PayoutTransactionBuilder) WithDescription(description string) *PayoutTransactionBuilder {
	b.transaction.Description = description
	return b
}

// WithExecutionDate sets an explicit execution date. When not set, Build
// uses the current time.
func (b *PayoutTransactionBuilder) WithExecutionDate(executionDate string) *PayoutTransactionBuilder {
	b.transaction.ExecutionDate = executionDate
	return b
}

// WithDebtor sets the debtor (required).
func (b *PayoutTransactionBuilder) WithDebtor(debtor PayoutDebtor) *PayoutTransactionBuilder {
	b.transaction.Debtor = debtor
	return b
}

// WithCreditor sets the creditor (required).
func (b *PayoutTransactionBuilder) WithCreditor(creditor PayoutCreditor) *PayoutTransactionBuilder {
	b.transaction.Creditor = creditor
	return b
}

// WithReferenceNumber sets the reference number.
func (b *PayoutTransactionBuilder) WithReferenceNumber(referenceNumber string) *PayoutTransactionBuilder {
	b.transaction.ReferenceNumber = referenceNumber
	return b
}

// WithTrackingKey sets the tracking key.
func (b *PayoutTransactionBuilder) WithTrackingKey(trackingKey string) *PayoutTransactionBuilder {
	b.transaction.TrackingKey = trackingKey
	return b
}

// WithRouting sets the payment routing metadata in one call.
func (b *PayoutTransactionBuilder) WithRouting(purposeCategory, rail, executionMode, poConnection string) *PayoutTransactionBuilder {
	b.transaction.PaymentPurposeCategory = purposeCategory
	b.transaction.PaymentRail = rail
	b.transaction.ExecutionMode = executionMode
	b.transaction.POConnection = poConnection
	return b
}

// Build validates the transaction and fills the fixed transaction type and,
// when absent, a generated transaction id and current execution date.
func (b *PayoutTransactionBuilder) Build() (PayoutTransaction, error) {
	transaction := b.transaction
	transaction.TransactionType = "payout"
	if transaction.TransactionID == "" {
		transaction.TransactionID = newID()
	}
	if transaction.ExecutionDate == "" {
		transaction.ExecutionDate = nowISO8601()
	}
	if err := transaction.ValidateStructure(); err != nil {
		return PayoutTransaction{}, err
	}
	return transaction, nil
}

// PayoutMessage is an outbound message carrying one or more payout
// transactions. Transaction order is significant and preserved.
type PayoutMessage struct {
	Header       MessageHeader
	Transactions []PayoutTransaction
}

// NewPayoutMessage creates a payout message. The transaction list is kept in
// the given order; an empty list still serializes as [].
func NewPayoutMessage(header MessageHeader, transactions ...PayoutTransaction) *PayoutMessage {
	if transactions == nil {
		transactions = make([]PayoutTransaction, 0)
	}
	return &PayoutMessage{Header: header, Transactions: transactions}
}

// ID returns the message id.
func (m *PayoutMessage) ID() string { return m.Header.MessageID }

// payoutDocument is the wire shape of the document attribute.
type payoutDocument struct {
	Header       MessageHeader       `json:"header"`
	Transactions []PayoutTransaction `json:"transactions"`
}

type payoutWire struct {
	Document payoutDocument `json:"document"`
}

// ToJSON serializes the message to its canonical {"document": ...} form.
// These exact bytes are what gets signed; once signed the message must be
// treated as read-only.
func (m *PayoutMessage) ToJSON() ([]byte, error) {
	transactions := m.Transactions
	if transactions == nil {
		transactions = make([]PayoutTransaction, 0)
	}
	data, err := json.Marshal(payoutWire{Document: payoutDocument{Header: m.Header, Transactions: transactions}})
	if err != nil {
		return nil, WrapDecodeError(err, "failed to serialize payout message")
	}
	return data, nil
}

// ParsePayoutMessage decodes a payout message from its wire JSON form.
func ParsePayoutMessage(data []byte) (*PayoutMessage, error) {
	var wire payoutWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, WrapDecodeError(err, "failed to parse payout message")
	}
	if wire.Document.Transactions == nil {
		wire.Document.Transactions = make([]PayoutTransaction, 0)
	}
	return &PayoutMessage{Header: wire.Document.Header, Transactions: wire.Document.Transactions}, nil
}
