package message

// common.go holds the value types and reference data shared by every message
// variant: financial institutions, person identifiers, account types,
// currencies and the main bank tables.

// DefaultFinIDSchema is the id schema assumed for financial institutions that
// don't specify one.
const DefaultFinIDSchema = "SHINKANSEN"

// FinancialInstitution identifies a financial institution by id and id schema.
// It is a value type: two institutions are equal when both fields are equal.
type FinancialInstitution struct {

	// FinID: The ID of the financial institution
	FinID string `json:"fin_id"`

	// FinIDSchema: The schema of the financial institution's ID
	FinIDSchema string `json:"fin_id_schema"`
}

// NewFinancialInstitution creates a FinancialInstitution in the default
// SHINKANSEN id schema.
func NewFinancialInstitution(finID string) FinancialInstitution {
	return FinancialInstitution{FinID: finID, FinIDSchema: DefaultFinIDSchema}
}

// Equal reports whether both institutions have the same id and id schema.
func (f FinancialInstitution) Equal(other FinancialInstitution) bool {
	return f.FinID == other.FinID && f.FinIDSchema == other.FinIDSchema
}

// ValidateStructure checks that all required fields are present.
func (f FinancialInstitution) ValidateStructure() error {
	if f.FinID == "" {
		return NewValidationError("fin_id is required")
	}
	if f.FinIDSchema == "" {
		return NewValidationError("fin_id_schema is required")
	}
	return nil
}

// Shinkansen is the well-known institution representing Shinkansen itself,
// the receiver of outbound messages and the sender of inbound responses.
var Shinkansen = NewFinancialInstitution("SHINKANSEN")

// PersonID identifies a person for a given id schema (e.g. "CLID" for a
// Chilean RUT). It is a value type: equality is over both fields.
type PersonID struct {

	// IDSchema: The schema of the person's ID
	IDSchema string `json:"id_schema"`

	// ID: The ID of the person
	ID string `json:"id"`
}

// Equal reports whether both ids have the same schema and value.
func (p PersonID) Equal(other PersonID) bool {
	return p.IDSchema == other.IDSchema && p.ID == other.ID
}

// ValidateStructure checks that all required fields are present.
func (p PersonID) ValidateStructure() error {
	if p.IDSchema == "" {
		return NewValidationError("id_schema is required")
	}
	if p.ID == "" {
		return NewValidationError("id is required")
	}
	return nil
}

// AccountType classifies a counterparty bank account.
type AccountType string

const (
	CurrentAccount AccountType = "current_account"
	CashAccount    AccountType = "cash_account"
	SavingsAccount AccountType = "savings_account"
)

// AccountTypes lists every valid account type.
var AccountTypes = []AccountType{CurrentAccount, CashAccount, SavingsAccount}

// Currency is an ISO 4217 currency code.
type Currency string

// CLP is the Chilean peso, the main currency moved over the network.
const CLP Currency = "CLP"

// MainBanks maps ISO 3166-1 alpha-2 country codes to the fin_id -> display
// name table of the main institutions reachable in that country.
var MainBanks = map[string]map[string]string{
	"CL": {
		"BANCO_DE_CHILE_CL":      "Banco de Chile",
		"BANCO_CONSORCIO_CL":     "Banco Consorcio",
		"BANCO_ESTADO_CL":        "Banco del Estado",
		"BANCO_RIPLEY_CL":        "Banco Ripley",
		"SCOTIABANK_CL":          "Scotiabank",
		"SCOTIABANK_AZUL_CL":     "Scotiabank Azul",
		"BANCO_FALABELLA_CL":     "Banco Falabella",
		"BANCO_BICE_CL":          "Banco BICE",
		"HSBC_CL":                "HSBC",
		"BANCO_INTERNACIONAL_CL": "Banco Internacional",
		"BANCO_ITAU_CL":          "Banco Itau",
		"BANCO_SANTANDER_CL":     "Banco Santander",
		"BANCO_SECURITY_CL":      "Banco Security",
		"BCI_CL":                 "Bci",
		"COOPEUCH_CL":            "Coopeuch",
		"JP_MORGAN_CL":           "JP Morgan",
		"TENPO_CL":               "Tenpo",
		"PREPAGO_LOS_HEROES_CL":  "Prepago Los Héroes",
		"TAPP_CL":                "Tapp Caja Los Andes",
		"MERCADO_PAGO_CL":        "Mercado Pago",
	},
}
