package message

import (
	"strings"
	"testing"
)

func TestPayinTransactionBuilderDefaults(t *testing.T) {
	stubIDs(t, "tx-1")

	transaction, err := NewPayinTransactionBuilder().
		WithPayinType(AutomatedPayment).
		WithCurrency(CLP).
		WithAmount("428617").
		WithCreditor(testPayinCreditor()).
		Build()
	if err != nil {
		t.Fatalf("could not build transaction: %v", err)
	}

	if transaction.TransactionType != "payin" {
		t.Errorf("transaction_type = %q, want payin", transaction.TransactionType)
	}
	if transaction.TransactionID != "tx-1" {
		t.Errorf("transaction_id = %q, want generated tx-1", transaction.TransactionID)
	}
}

func TestPayinTransactionBuilderInteractive(t *testing.T) {
	stubIDs(t, "tx-1")

	transaction, err := NewPayinTransactionBuilder().
		WithInteractivePayment("webpay", "https://ok.example", "https://fail.example").
		WithCurrency(CLP).
		WithCreditor(testPayinCreditor()).
		Build()
	if err != nil {
		t.Fatalf("could not build transaction: %v", err)
	}

	if transaction.PayinType != InteractivePayment {
		t.Errorf("payin_type = %q, want %q", transaction.PayinType, InteractivePayment)
	}
	if transaction.InteractivePaymentProvider != "webpay" {
		t.Errorf("provider = %q, want webpay", transaction.InteractivePaymentProvider)
	}
	if transaction.InteractivePaymentSuccessRedirectURL != "https://ok.example" {
		t.Errorf("success url = %q", transaction.InteractivePaymentSuccessRedirectURL)
	}
}

func TestPayinTransactionBuilderValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() *PayinTransactionBuilder
	}{
		{
			name: "missing payin type",
			build: func() *PayinTransactionBuilder {
				return NewPayinTransactionBuilder().
					WithCurrency(CLP).
					WithCreditor(testPayinCreditor())
			},
		},
		{
			name: "missing currency",
			build: func() *PayinTransactionBuilder {
				return NewPayinTransactionBuilder().
					WithPayinType(AutomatedPayment).
					WithCreditor(testPayinCreditor())
			},
		},
		{
			name: "missing creditor",
			build: func() *PayinTransactionBuilder {
				return NewPayinTransactionBuilder().
					WithPayinType(AutomatedPayment).
					WithCurrency(CLP)
			},
		},
		{
			name: "incomplete creditor",
			build: func() *PayinTransactionBuilder {
				creditor := testPayinCreditor()
				creditor.Email = ""
				return NewPayinTransactionBuilder().
					WithPayinType(AutomatedPayment).
					WithCurrency(CLP).
					WithCreditor(creditor)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			if err == nil {
				t.Fatal("expected build to fail")
			}
			var msgErr *MessageError
			if !asMessageError(err, &msgErr) || msgErr.Code() != ErrCodeValidation {
				t.Errorf("expected validation error, got: %v", err)
			}
		})
	}
}

func TestPayinMessageToJSON(t *testing.T) {
	stubIDs(t, "tx-1", "msg-1")

	transaction, err := NewPayinTransactionBuilder().
		WithPayinType(AutomatedPayment).
		WithCurrency(CLP).
		WithAmount("428617").
		WithDescription("Invoice 1234").
		WithCreditor(testPayinCreditor()).
		Build()
	if err != nil {
		t.Fatalf("could not build transaction: %v", err)
	}

	msg := NewPayinMessage(NewMessageHeader(NewFinancialInstitution("ACME_SPA"), Shinkansen), transaction)

	got, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("could not serialize message: %v", err)
	}

	assertJSONEqual(t, got, []byte(`{
	  "document": {
	    "header": {
	      "sender": {"fin_id": "ACME_SPA", "fin_id_schema": "SHINKANSEN"},
	      "receiver": {"fin_id": "SHINKANSEN", "fin_id_schema": "SHINKANSEN"},
	      "message_id": "msg-1",
	      "creation_date": "2023-06-23T15:00:00Z"
	    },
	    "transactions": [{
	      "transaction_type": "payin",
	      "payin_type": "automated_payment",
	      "transaction_id": "tx-1",
	      "currency": "CLP",
	      "amount": "428617",
	      "description": "Invoice 1234",
	      "creditor": {
	        "name": "Acme SpA",
	        "identification": {"id_schema": "CLID", "id": "76000000-1"},
	        "financial_institution": {"fin_id": "BANCO_BICE_CL", "fin_id_schema": "SHINKANSEN"},
	        "account": "4242424242",
	        "account_type": "current_account",
	        "email": "treasury@acme.example"
	      }
	    }]
	  }
	}`))

	// Optional fields that were never set must be absent, not null
	for _, field := range []string{"debtor", "expiration_date", "interactive_payment_provider", "null"} {
		if strings.Contains(string(got), field) {
			t.Errorf("unset optional field %q leaked into wire form: %s", field, got)
		}
	}
}

func TestPayinMessageEmptyTransactionList(t *testing.T) {
	stubIDs(t, "msg-1")

	msg := NewPayinMessage(NewMessageHeader(NewFinancialInstitution("ACME_SPA"), Shinkansen))

	got, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("could not serialize message: %v", err)
	}
	if !strings.Contains(string(got), `"transactions":[]`) {
		t.Errorf("empty transaction list must serialize as [], got: %s", got)
	}
}

func TestParsePayinMessageRoundTrip(t *testing.T) {
	stubIDs(t, "tx-1", "msg-1")

	transaction, err := NewPayinTransactionBuilder().
		WithInteractivePayment("webpay", "https://ok.example", "https://fail.example").
		WithCurrency(CLP).
		WithAmount("1000").
		WithDebtor(PayinDebtor{Email: "payer@example.com"}).
		WithCreditor(testPayinCreditor()).
		Build()
	if err != nil {
		t.Fatalf("could not build transaction: %v", err)
	}

	original := NewPayinMessage(NewMessageHeader(NewFinancialInstitution("ACME_SPA"), Shinkansen), transaction)
	wire, err := original.ToJSON()
	if err != nil {
		t.Fatalf("could not serialize message: %v", err)
	}

	parsed, err := ParsePayinMessage(wire)
	if err != nil {
		t.Fatalf("could not parse message: %v", err)
	}

	if parsed.ID() != "msg-1" {
		t.Errorf("message id = %q, want msg-1", parsed.ID())
	}
	if len(parsed.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(parsed.Transactions))
	}
	got := parsed.Transactions[0]
	if got.PayinType != InteractivePayment {
		t.Errorf("payin_type = %q", got.PayinType)
	}
	if got.Debtor == nil || got.Debtor.Email != "payer@example.com" {
		t.Errorf("debtor not preserved: %+v", got.Debtor)
	}
	if got.Creditor != testPayinCreditor() {
		t.Errorf("creditor not preserved: %+v", got.Creditor)
	}

	reserialized, err := parsed.ToJSON()
	if err != nil {
		t.Fatalf("could not reserialize message: %v", err)
	}
	assertJSONEqual(t, reserialized, wire)
}

func TestParsePayinMessageRejectsGarbage(t *testing.T) {
	_, err := ParsePayinMessage([]byte("not json"))
	if err == nil {
		t.Fatal("expected parse to fail")
	}
	var msgErr *MessageError
	if !asMessageError(err, &msgErr) || msgErr.Code() != ErrCodeDecode {
		t.Errorf("expected decode error, got: %v", err)
	}
}
