package message

// payin.go implements payin (collection) messages: requests for a debtor to
// pay the caller, either interactively or through an automated debit.

import (
	"encoding/json"
	"fmt"
)

// Payin types:
const (
	InteractivePayment = "interactive_payment"
	AutomatedPayment   = "automated_payment"
	ExpectedPayment    = "expected_payment"
)

// PayinDebtor is the debtor (origin) of a payin. Every field is optional:
// for interactive payments the debtor is discovered during the payment flow.
type PayinDebtor struct {

	// Name: The name of the debtor (optional)
	Name string `json:"name,omitempty"`

	// Identification: The ID of the debtor (optional)
	Identification *PersonID `json:"identification,omitempty"`

	// FinancialInstitution: The financial institution of the debtor (optional)
	FinancialInstitution *FinancialInstitution `json:"financial_institution,omitempty"`

	// Account: The account of the debtor (optional)
	Account string `json:"account,omitempty"`

	// AccountType: The type of account of the debtor (optional)
	AccountType AccountType `json:"account_type,omitempty"`

	// Email: The email of the debtor (optional)
	Email string `json:"email,omitempty"`
}

// PayinCreditor is the creditor (destination) of a payin. All fields are
// required: the money must land in a fully identified account.
type PayinCreditor struct {

	// Name: The name of the creditor
	Name string `json:"name"`

	// Identification: The ID of the creditor
	Identification PersonID `json:"identification"`

	// FinancialInstitution: The financial institution of the creditor
	FinancialInstitution FinancialInstitution `json:"financial_institution"`

	// Account: The account of the creditor
	Account string `json:"account"`

	// AccountType: The type of account of the creditor
	AccountType AccountType `json:"account_type"`

	// Email: The email of the creditor
	Email string `json:"email"`
}

// ValidateStructure checks that all required fields are present.
func (c PayinCreditor) ValidateStructure() error {
	if c.Name == "" {
		return NewValidationError("name is required")
	}
	if err := c.Identification.ValidateStructure(); err != nil {
		return WrapValidationError(err, "identification")
	}
	if err := c.FinancialInstitution.ValidateStructure(); err != nil {
		return WrapValidationError(err, "financial_institution")
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

// PayinTransaction is a single payin instruction. Field order follows the
// serialized document shape and must not be reordered.
type PayinTransaction struct {

	// TransactionType is always "payin".
	TransactionType string `json:"transaction_type"`

	// PayinType: one of InteractivePayment, AutomatedPayment or ExpectedPayment
	PayinType string `json:"payin_type"`

	// InteractivePaymentProvider: The provider of the interactive payment (optional)
	InteractivePaymentProvider string `json:"interactive_payment_provider,omitempty"`

	// InteractivePaymentSuccessRedirectURL: Where to send the payer after a
	// successful interactive payment (required for interactive payments)
	InteractivePaymentSuccessRedirectURL string `json:"interactive_payment_success_redirect_url,omitempty"`

	// InteractivePaymentFailureRedirectURL: Where to send the payer after a
	// failed interactive payment (required for interactive payments)
	InteractivePaymentFailureRedirectURL string `json:"interactive_payment_failure_redirect_url,omitempty"`

	// TransactionID: The ID of the transaction (UUID string)
	TransactionID string `json:"transaction_id"`

	// Currency: The currency of the transaction
	Currency Currency `json:"currency"`

	// Amount: The amount of the transaction as a string (optional)
	Amount string `json:"amount,omitempty"`

	// Description: The description of the transaction (optional)
	Description string `json:"description,omitempty"`

	// ExpirationDate: The last date the payment can be executed, after which
	// it is considered failed (optional)
	ExpirationDate string `json:"expiration_date,omitempty"`

	// Debtor: The debtor of the transaction (optional)
	Debtor *PayinDebtor `json:"debtor,omitempty"`

	// Creditor: The creditor of the transaction
	Creditor PayinCreditor `json:"creditor"`
}

// ValidateStructure checks that all required fields are present.
func (t PayinTransaction) ValidateStructure() error {
	if t.TransactionType != "payin" {
		return NewValidationError(fmt.Sprintf("transaction_type must be payin, got %q", t.TransactionType))
	}
	if t.PayinType == "" {
		return NewValidationError("payin_type is required")
	}
	if t.TransactionID == "" {
		return NewValidationError("transaction_id is required")
	}
	if t.Currency == "" {
		return NewValidationError("currency is required")
	}
	if err := t.Creditor.ValidateStructure(); err != nil {
		return WrapValidationError(err, "creditor")
	}
	return nil
}

// PayinTransactionBuilder helps build a PayinTransaction.
type PayinTransactionBuilder struct {
	transaction PayinTransaction
}

// NewPayinTransactionBuilder creates a new builder for PayinTransaction.
func NewPayinTransactionBuilder() *PayinTransactionBuilder {
	return &PayinTransactionBuilder{}
}

// WithPayinType sets the payin type (required).
func (b *PayinTransactionBuilder) WithPayinType(payinType string) *PayinTransactionBuilder {
	b.transaction.PayinType = payinType
	return b
}

// WithInteractivePayment sets the payin type to interactive_payment together
// with the redirect URLs the payment flow requires.
func (b *PayinTransactionBuilder) WithInteractivePayment(provider, successRedirectURL, failureRedirectURL string) *PayinTransactionBuilder {
	b.transaction.PayinType = InteractivePayment
	b.transaction.InteractivePaymentProvider = provider
	b.transaction.InteractivePaymentSuccessRedirectURL = successRedirectURL
	b.transaction.InteractivePaymentFailureRedirectURL = failureRedirectURL
	return b
}

// WithTransactionID sets an explicit transaction id. When not set, Build
// generates one.
func (b *PayinTransactionBuilder) WithTransactionID(transactionID string) *PayinTransactionBuilder {
	b.transaction.TransactionID = transactionID
	return b
}

// WithCurrency sets the currency (required).
func (b *PayinTransactionBuilder) WithCurrency(currency Currency) *PayinTransactionBuilder {
	b.transaction.Currency = currency
	return b
}

// WithAmount sets the amount.
func (b *PayinTransactionBuilder) WithAmount(amount string) *PayinTransactionBuilder {
	b.transaction.Amount = amount
	return b
}

// WithDescription sets the description.
func (b *PayinTransactionBuilder) WithDescription(description string) *PayinTransactionBuilder {
	b.transaction.Description = description
	return b
}

// WithExpirationDate sets the expiration date.
func (b *PayinTransactionBuilder) WithExpirationDate(expirationDate string) *PayinTransactionBuilder {
	b.transaction.ExpirationDate = expirationDate
	return b
}

// WithDebtor sets the debtor.
func (b *PayinTransactionBuilder) WithDebtor(debtor PayinDebtor) *PayinTransactionBuilder {
	b.transaction.Debtor = &debtor
	return b
}

// WithCreditor sets the creditor (required).
func (b *PayinTransactionBuilder) WithCreditor(creditor PayinCreditor) *PayinTransactionBuilder {
	b.transaction.Creditor = creditor
	return b
}

// Build validates the transaction and fills the fixed transaction type and,
// when absent, a generated transaction id.
func (b *PayinTransactionBuilder) Build() (PayinTransaction, error) {
	transaction := b.transaction
	transaction.TransactionType = "payin"
	if transaction.TransactionID == "" {
		transaction.TransactionID = newID()
	}
	if err := transaction.ValidateStructure(); err != nil {
		return PayinTransaction{}, err
	}
	return transaction, nil
}

// PayinMessage is an outbound message carrying one or more payin
// transactions. Transaction order is significant and preserved.
type PayinMessage struct {
	Header       MessageHeader
	Transactions []PayinTransaction
}

// NewPayinMessage creates a payin message. The transaction list is kept in
// the given order; an empty list still serializes as [].
func NewPayinMessage(header MessageHeader, transactions ...PayinTransaction) *PayinMessage {
	if transactions == nil {
		transactions = make([]PayinTransaction, 0)
	}
	return &PayinMessage{Header: header, Transactions: transactions}
}

// ID returns the message id.
func (m *PayinMessage) ID() string { return m.Header.MessageID }

// payinDocument is the wire shape of the document attribute.
type payinDocument struct {
	Header       MessageHeader      `json:"header"`
	Transactions []PayinTransaction `json:"transactions"`
}

type payinWire struct {
	Document payinDocument `json:"document"`
}

// ToJSON serializes the message to its canonical {"document": ...} form.
// These exact bytes are what gets signed; once signed the message must be
// treated as read-only.
func (m *PayinMessage) ToJSON() ([]byte, error) {
	transactions := m.Transactions
	if transactions == nil {
		transactions = make([]PayinTransaction, 0)
	}
	data, err := json.Marshal(payinWire{Document: payinDocument{Header: m.Header, Transactions: transactions}})
	if err != nil {
		return nil, WrapDecodeError(err, "failed to serialize payin message")
	}
	return data, nil
}

// ParsePayinMessage decodes a payin message from its wire JSON form.
func ParsePayinMessage(data []byte) (*PayinMessage, error) {
	var wire payinWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, WrapDecodeError(err, "failed to parse payin message")
	}
	if wire.Document.Transactions == nil {
		wire.Document.Transactions = make([]PayinTransaction, 0)
	}
	return &PayinMessage{Header: wire.Document.Header, Transactions: wire.Document.Transactions}, nil
}
