package database

import (
	"database/sql"
	"time"
)

// Company is a registered company whose invoices the service collects.
// Invoices are matched to a company by the recipient NIT on the parsed XML.
type Company struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	NIT        string    `json:"nit"`
	APIKeyHash *string   `json:"-"` // bcrypt hash, never exposed
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Accountant is an API user who can query invoices across companies
type Accountant struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    *string   `json:"first_name,omitempty"`
	LastName     *string   `json:"last_name,omitempty"`
	PasswordHash *string   `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Issuer is the party that issued an invoice
type Issuer struct {
	ID                string    `json:"id"`
	NIT               string    `json:"nit"`
	Name              string    `json:"name"`
	CommercialName    *string   `json:"commercial_name,omitempty"`
	EstablishmentCode *string   `json:"establishment_code,omitempty"`
	Address           *string   `json:"address,omitempty"`
	Department        *string   `json:"department,omitempty"`
	Municipality      *string   `json:"municipality,omitempty"`
	PostalCode        *string   `json:"postal_code,omitempty"`
	Country           *string   `json:"country,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Recipient is the party an invoice was issued to
type Recipient struct {
	ID        string    `json:"id"`
	NIT       string    `json:"nit"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invoice is one processed SAT invoice
type Invoice struct {
	ID                  string    `json:"id"`
	CompanyID           string    `json:"company_id"`
	IssuerID            string    `json:"-"`
	RecipientID         string    `json:"-"`
	AuthorizationNumber string    `json:"authorization_number"`
	Series              string    `json:"series"`
	Number              string    `json:"number"`
	DocumentType        string    `json:"document_type"`
	Total               float64   `json:"total"`
	VAT                 float64   `json:"vat"`
	Currency            string    `json:"currency"`
	XMLURL              string    `json:"xml_url"`
	EmissionDate        time.Time `json:"emission_date"`
	ProcessingDate      time.Time `json:"processing_date"`
	CreatedAt           time.Time `json:"created_at"`

	// Hydrated by list queries
	Issuer    *Issuer    `json:"issuer,omitempty"`
	Recipient *Recipient `json:"recipient,omitempty"`
	Items     []Item     `json:"items,omitempty"`
}

// Item is a line entry in an invoice. Taxes holds the tax detail as JSON.
type Item struct {
	ID            string    `json:"id"`
	InvoiceID     string    `json:"-"`
	LineNumber    int       `json:"line_number"`
	GoodOrService string    `json:"good_or_service"`
	Quantity      float64   `json:"quantity"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	Description   string    `json:"description"`
	UnitPrice     float64   `json:"unit_price"`
	Price         float64   `json:"price"`
	Discount      float64   `json:"discount"`
	Total         float64   `json:"total"`
	Taxes         *string   `json:"taxes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
