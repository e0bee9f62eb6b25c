package message

import (
	"errors"
	"testing"

	"github.com/gowebpki/jcs"
)

func asMessageError(err error, target **MessageError) bool {
	return errors.As(err, target)
}

// stubIDs pins the id generator to a deterministic sequence and the clock to
// a fixed timestamp for the duration of the test.
func stubIDs(t *testing.T, ids ...string) {
	t.Helper()

	origNewID := newID
	origNow := nowISO8601
	t.Cleanup(func() {
		newID = origNewID
		nowISO8601 = origNow
	})

	next := 0
	newID = func() string {
		if next >= len(ids) {
			t.Fatalf("id generator exhausted after %d ids", len(ids))
		}
		id := ids[next]
		next++
		return id
	}
	nowISO8601 = func() string {
		return "2023-06-23T15:00:00Z"
	}
}

// assertJSONEqual compares two JSON documents after canonicalization, so the
// comparison is over content rather than formatting.
func assertJSONEqual(t *testing.T, got, want []byte) {
	t.Helper()

	canonicalGot, err := jcs.Transform(got)
	if err != nil {
		t.Fatalf("could not canonicalize produced JSON: %v\n%s", err, got)
	}
	canonicalWant, err := jcs.Transform(want)
	if err != nil {
		t.Fatalf("could not canonicalize expected JSON: %v\n%s", err, want)
	}
	if string(canonicalGot) != string(canonicalWant) {
		t.Errorf("JSON mismatch\ngot:  %s\nwant: %s", canonicalGot, canonicalWant)
	}
}

func testPayinCreditor() PayinCreditor {
	return PayinCreditor{
		Name:                 "Acme SpA",
		Identification:       PersonID{IDSchema: "CLID", ID: "76000000-1"},
		FinancialInstitution: NewFinancialInstitution("BANCO_BICE_CL"),
		Account:              "4242424242",
		AccountType:          CurrentAccount,
		Email:                "treasury@acme.example",
	}
}

func testPayoutDebtor() PayoutDebtor {
	return PayoutDebtor{
		Name:                 "Acme SpA",
		Identification:       PersonID{IDSchema: "CLID", ID: "76000000-1"},
		FinancialInstitution: NewFinancialInstitution("BANCO_BICE_CL"),
		Account:              "4242424242",
		AccountType:          CurrentAccount,
		Email:                "treasury@acme.example",
	}
}

func testPayoutCreditor() PayoutCreditor {
	fi := NewFinancialInstitution("BANCO_DE_CHILE_CL")
	return PayoutCreditor{
		Name:                 "Juana Pérez",
		Identification:       PersonID{IDSchema: "CLID", ID: "11111111-1"},
		FinancialInstitution: &fi,
		Account:              "123456789",
		AccountType:          CashAccount,
		Email:                "juana@example.com",
	}
}
