package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testCompany(t *testing.T, db *DB, nit string) *Company {
	t.Helper()

	hash := "$2a$10$fakehashfakehashfakehash"
	c := &Company{
		Email:      nit + "@example.com.gt",
		Name:       "Company " + nit,
		NIT:        nit,
		APIKeyHash: &hash,
		IsActive:   true,
	}
	if err := db.CreateCompany(context.Background(), c); err != nil {
		t.Fatalf("CreateCompany failed: %v", err)
	}
	return c
}

func testInvoiceGraph(authNumber string) (*Invoice, *Issuer, *Recipient, []Item) {
	commercial := "ACME S.A."
	inv := &Invoice{
		AuthorizationNumber: authNumber,
		Series:              "A1B2",
		Number:              "12345",
		DocumentType:        "FACT",
		Total:               1120.00,
		VAT:                 120.00,
		Currency:            "GTQ",
		XMLURL:              "https://felav02.c.sat.gob.gt/abc/descargaXml/" + authNumber,
		EmissionDate:        time.Date(2025, 5, 20, 10, 30, 0, 0, time.UTC),
	}
	issuer := &Issuer{NIT: "1234567-8", Name: "ACME", CommercialName: &commercial}
	recipient := &Recipient{NIT: "7654321-0", Name: "Cliente S.A."}
	taxes := `{"nombre":"IVA","monto_impuesto":120}`
	items := []Item{
		{LineNumber: 1, GoodOrService: "B", Quantity: 2, UnitOfMeasure: "UND", Description: "Widget", UnitPrice: 500, Price: 1000, Total: 1120, Taxes: &taxes},
	}
	return inv, issuer, recipient, items
}

func TestOpen(t *testing.T) {
	db := setupTestDB(t)

	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='invoices'").Scan(&count)
	if err != nil {
		t.Fatalf("failed to query tables: %v", err)
	}
	if count != 1 {
		t.Errorf("expected invoices table to exist")
	}
}

func TestAccountantCRUD(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	firstName := "Ana"
	a := &Accountant{
		Email:     "ana@example.com.gt",
		FirstName: &firstName,
	}

	if err := db.CreateAccountant(ctx, a); err != nil {
		t.Fatalf("CreateAccountant failed: %v", err)
	}
	if a.ID == "" {
		t.Error("expected ID to be set after create")
	}

	fetched, err := db.GetAccountantByEmail(ctx, "ana@example.com.gt")
	if err != nil {
		t.Fatalf("GetAccountantByEmail failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected accountant to be found")
	}
	if fetched.IsActive {
		t.Error("expected new accountant to be inactive")
	}

	hash := "$2a$10$somethinghashed"
	if err := db.UpdateAccountantStatus(ctx, a.Email, true, &hash); err != nil {
		t.Fatalf("UpdateAccountantStatus failed: %v", err)
	}

	fetched, _ = db.GetAccountantByEmail(ctx, a.Email)
	if !fetched.IsActive {
		t.Error("expected accountant to be active")
	}
	if fetched.PasswordHash == nil || *fetched.PasswordHash != hash {
		t.Error("expected password hash to be stored")
	}

	missing, err := db.GetAccountantByEmail(ctx, "nobody@example.com")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown accountant")
	}
}

func TestUpdateAccountantStatusUnknown(t *testing.T) {
	db := setupTestDB(t)

	err := db.UpdateAccountantStatus(context.Background(), "ghost@example.com", true, nil)
	if err == nil {
		t.Error("expected error for unknown accountant")
	}
}

func TestCompanyLookup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	created := testCompany(t, db, "7654321-0")

	fetched, err := db.GetCompanyByNIT(ctx, "7654321-0")
	if err != nil {
		t.Fatalf("GetCompanyByNIT failed: %v", err)
	}
	if fetched == nil || fetched.ID != created.ID {
		t.Fatalf("expected company %s, got %+v", created.ID, fetched)
	}

	missing, err := db.GetCompanyByNIT(ctx, "0000000-0")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for unknown NIT")
	}

	companies, err := db.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("ListCompanies failed: %v", err)
	}
	if len(companies) != 1 {
		t.Errorf("expected 1 company, got %d", len(companies))
	}
}

func TestCreateAndListInvoices(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	company := testCompany(t, db, "7654321-0")

	inv, issuer, recipient, items := testInvoiceGraph("AUTH-001")
	inv.CompanyID = company.ID

	if err := db.CreateInvoice(ctx, inv, issuer, recipient, items); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	exists, err := db.InvoiceExists(ctx, "AUTH-001")
	if err != nil {
		t.Fatalf("InvoiceExists failed: %v", err)
	}
	if !exists {
		t.Error("expected invoice to exist")
	}

	exists, _ = db.InvoiceExists(ctx, "AUTH-999")
	if exists {
		t.Error("did not expect AUTH-999 to exist")
	}

	invoices, err := db.ListInvoicesByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("ListInvoicesByCompany failed: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(invoices))
	}

	got := invoices[0]
	if got.AuthorizationNumber != "AUTH-001" {
		t.Errorf("authorization = %q", got.AuthorizationNumber)
	}
	if got.Issuer == nil || got.Issuer.NIT != "1234567-8" {
		t.Errorf("issuer not hydrated: %+v", got.Issuer)
	}
	if got.Recipient == nil || got.Recipient.NIT != "7654321-0" {
		t.Errorf("recipient not hydrated: %+v", got.Recipient)
	}
	if len(got.Items) != 1 || got.Items[0].Description != "Widget" {
		t.Errorf("items not hydrated: %+v", got.Items)
	}

	count, err := db.CountInvoicesByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("CountInvoicesByCompany failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}
}

func TestCreateInvoiceReusesIssuerAndRecipient(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	company := testCompany(t, db, "7654321-0")

	inv1, issuer1, recipient1, items1 := testInvoiceGraph("AUTH-001")
	inv1.CompanyID = company.ID
	if err := db.CreateInvoice(ctx, inv1, issuer1, recipient1, items1); err != nil {
		t.Fatalf("first CreateInvoice failed: %v", err)
	}

	inv2, issuer2, recipient2, items2 := testInvoiceGraph("AUTH-002")
	inv2.CompanyID = company.ID
	if err := db.CreateInvoice(ctx, inv2, issuer2, recipient2, items2); err != nil {
		t.Fatalf("second CreateInvoice failed: %v", err)
	}

	var issuerCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM issuers").Scan(&issuerCount); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if issuerCount != 1 {
		t.Errorf("expected 1 issuer row, got %d", issuerCount)
	}

	var recipientCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM recipients").Scan(&recipientCount); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if recipientCount != 1 {
		t.Errorf("expected 1 recipient row, got %d", recipientCount)
	}
}

func TestCreateInvoiceDuplicateAuthorizationFails(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	company := testCompany(t, db, "7654321-0")

	inv1, issuer1, recipient1, items1 := testInvoiceGraph("AUTH-001")
	inv1.CompanyID = company.ID
	if err := db.CreateInvoice(ctx, inv1, issuer1, recipient1, items1); err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	inv2, issuer2, recipient2, items2 := testInvoiceGraph("AUTH-001")
	inv2.CompanyID = company.ID
	if err := db.CreateInvoice(ctx, inv2, issuer2, recipient2, items2); err == nil {
		t.Error("expected unique constraint violation for duplicate authorization number")
	}
}
