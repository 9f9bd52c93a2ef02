package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAccountant inserts a new accountant
func (db *DB) CreateAccountant(ctx context.Context, a *Accountant) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO accountants (
			id, email, first_name, last_name, password_hash, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		a.ID, a.Email, NullString(a.FirstName), NullString(a.LastName),
		NullString(a.PasswordHash), a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

// GetAccountantByEmail retrieves an accountant by email, nil when absent
func (db *DB) GetAccountantByEmail(ctx context.Context, email string) (*Accountant, error) {
	a := &Accountant{}
	var firstName, lastName, passwordHash sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, password_hash, is_active, created_at, updated_at
		FROM accountants WHERE email = ?
	`, email).Scan(
		&a.ID, &a.Email, &firstName, &lastName, &passwordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.FirstName = StringPtr(firstName)
	a.LastName = StringPtr(lastName)
	a.PasswordHash = StringPtr(passwordHash)
	return a, nil
}

// GetAccountantByID retrieves an accountant by id, nil when absent
func (db *DB) GetAccountantByID(ctx context.Context, id string) (*Accountant, error) {
	a := &Accountant{}
	var firstName, lastName, passwordHash sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, password_hash, is_active, created_at, updated_at
		FROM accountants WHERE id = ?
	`, id).Scan(
		&a.ID, &a.Email, &firstName, &lastName, &passwordHash, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	a.FirstName = StringPtr(firstName)
	a.LastName = StringPtr(lastName)
	a.PasswordHash = StringPtr(passwordHash)
	return a, nil
}

// UpdateAccountantStatus activates or deactivates an accountant. A non-nil
// passwordHash replaces the stored credential (set on activation).
func (db *DB) UpdateAccountantStatus(ctx context.Context, email string, active bool, passwordHash *string) error {
	var result sql.Result
	var err error

	if passwordHash != nil {
		result, err = db.ExecContext(ctx, `
			UPDATE accountants SET is_active = ?, password_hash = ?, updated_at = ?
			WHERE email = ?
		`, active, *passwordHash, time.Now(), email)
	} else {
		result, err = db.ExecContext(ctx, `
			UPDATE accountants SET is_active = ?, updated_at = ?
			WHERE email = ?
		`, active, time.Now(), email)
	}
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("accountant not found: %s", email)
	}
	return nil
}

// CreateCompany inserts a new company
func (db *DB) CreateCompany(ctx context.Context, c *Company) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	_, err := db.ExecContext(ctx, `
		INSERT INTO companies (
			id, email, name, nit, api_key_hash, is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID, c.Email, c.Name, c.NIT, NullString(c.APIKeyHash), c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetCompanyByNIT retrieves a company by NIT, nil when absent
func (db *DB) GetCompanyByNIT(ctx context.Context, nit string) (*Company, error) {
	c := &Company{}
	var apiKeyHash sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, email, name, nit, api_key_hash, is_active, created_at, updated_at
		FROM companies WHERE nit = ?
	`, nit).Scan(
		&c.ID, &c.Email, &c.Name, &c.NIT, &apiKeyHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.APIKeyHash = StringPtr(apiKeyHash)
	return c, nil
}

// GetCompanyByID retrieves a company by ID, nil when absent
func (db *DB) GetCompanyByID(ctx context.Context, id string) (*Company, error) {
	c := &Company{}
	var apiKeyHash sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, email, name, nit, api_key_hash, is_active, created_at, updated_at
		FROM companies WHERE id = ?
	`, id).Scan(
		&c.ID, &c.Email, &c.Name, &c.NIT, &apiKeyHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.APIKeyHash = StringPtr(apiKeyHash)
	return c, nil
}

// ListCompanies retrieves all companies. Used for API-key verification,
// which has to bcrypt-compare against every stored hash.
func (db *DB) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, email, name, nit, api_key_hash, is_active, created_at, updated_at
		FROM companies ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c := Company{}
		var apiKeyHash sql.NullString

		if err := rows.Scan(
			&c.ID, &c.Email, &c.Name, &c.NIT, &apiKeyHash, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}

		c.APIKeyHash = StringPtr(apiKeyHash)
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

// InvoiceExists reports whether an invoice with the given authorization
// number is already stored. Used to dedup reprocessed messages.
func (db *DB) InvoiceExists(ctx context.Context, authorizationNumber string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invoices WHERE authorization_number = ?
	`, authorizationNumber).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateInvoice stores an invoice with its issuer, recipient and items in
// one transaction. Issuer and recipient rows are reused by NIT when they
// already exist.
func (db *DB) CreateInvoice(ctx context.Context, inv *Invoice, issuer *Issuer, recipient *Recipient, items []Item) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		issuerID, err := findOrCreateIssuer(ctx, tx, issuer)
		if err != nil {
			return fmt.Errorf("failed to store issuer: %w", err)
		}

		recipientID, err := findOrCreateRecipient(ctx, tx, recipient)
		if err != nil {
			return fmt.Errorf("failed to store recipient: %w", err)
		}

		if inv.ID == "" {
			inv.ID = uuid.New().String()
		}
		inv.IssuerID = issuerID
		inv.RecipientID = recipientID
		inv.CreatedAt = time.Now()
		if inv.ProcessingDate.IsZero() {
			inv.ProcessingDate = time.Now()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO invoices (
				id, company_id, issuer_id, recipient_id, authorization_number,
				series, number, document_type, total, vat, currency, xml_url,
				emission_date, processing_date, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			inv.ID, inv.CompanyID, inv.IssuerID, inv.RecipientID, inv.AuthorizationNumber,
			inv.Series, inv.Number, inv.DocumentType, inv.Total, inv.VAT, inv.Currency,
			inv.XMLURL, inv.EmissionDate, inv.ProcessingDate, inv.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to store invoice: %w", err)
		}

		for i := range items {
			it := &items[i]
			if it.ID == "" {
				it.ID = uuid.New().String()
			}
			it.InvoiceID = inv.ID
			it.CreatedAt = time.Now()

			_, err := tx.ExecContext(ctx, `
				INSERT INTO items (
					id, invoice_id, line_number, good_or_service, quantity,
					unit_of_measure, description, unit_price, price, discount,
					total, taxes, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				it.ID, it.InvoiceID, it.LineNumber, it.GoodOrService, it.Quantity,
				it.UnitOfMeasure, it.Description, it.UnitPrice, it.Price, it.Discount,
				it.Total, NullString(it.Taxes), it.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to store item %d: %w", it.LineNumber, err)
			}
		}

		return nil
	})
}

func findOrCreateIssuer(ctx context.Context, tx *sql.Tx, issuer *Issuer) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM issuers WHERE nit = ? AND name = ? LIMIT 1
	`, issuer.NIT, issuer.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	issuer.ID = uuid.New().String()
	issuer.CreatedAt = time.Now()
	issuer.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO issuers (
			id, nit, name, commercial_name, establishment_code, address,
			department, municipality, postal_code, country, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		issuer.ID, issuer.NIT, issuer.Name, NullString(issuer.CommercialName),
		NullString(issuer.EstablishmentCode), NullString(issuer.Address),
		NullString(issuer.Department), NullString(issuer.Municipality),
		NullString(issuer.PostalCode), NullString(issuer.Country),
		issuer.CreatedAt, issuer.UpdatedAt,
	)
	if err != nil {
		return "", err
	}
	return issuer.ID, nil
}

func findOrCreateRecipient(ctx context.Context, tx *sql.Tx, recipient *Recipient) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM recipients WHERE nit = ? AND name = ? LIMIT 1
	`, recipient.NIT, recipient.Name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	recipient.ID = uuid.New().String()
	recipient.CreatedAt = time.Now()
	recipient.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO recipients (id, nit, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		recipient.ID, recipient.NIT, recipient.Name, NullString(recipient.Email),
		recipient.CreatedAt, recipient.UpdatedAt,
	)
	if err != nil {
		return "", err
	}
	return recipient.ID, nil
}

// ListInvoicesByCompany retrieves a company's invoices with issuer,
// recipient and items hydrated, newest emission first.
func (db *DB) ListInvoicesByCompany(ctx context.Context, companyID string) ([]Invoice, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT i.id, i.company_id, i.issuer_id, i.recipient_id, i.authorization_number,
		       i.series, i.number, i.document_type, i.total, i.vat, i.currency, i.xml_url,
		       i.emission_date, i.processing_date, i.created_at,
		       s.id, s.nit, s.name, s.commercial_name, s.address,
		       r.id, r.nit, r.name, r.email
		FROM invoices i
		JOIN issuers s ON s.id = i.issuer_id
		JOIN recipients r ON r.id = i.recipient_id
		WHERE i.company_id = ?
		ORDER BY i.emission_date DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv := Invoice{Issuer: &Issuer{}, Recipient: &Recipient{}}
		var commercialName, address, recipientEmail sql.NullString

		if err := rows.Scan(
			&inv.ID, &inv.CompanyID, &inv.IssuerID, &inv.RecipientID, &inv.AuthorizationNumber,
			&inv.Series, &inv.Number, &inv.DocumentType, &inv.Total, &inv.VAT, &inv.Currency,
			&inv.XMLURL, &inv.EmissionDate, &inv.ProcessingDate, &inv.CreatedAt,
			&inv.Issuer.ID, &inv.Issuer.NIT, &inv.Issuer.Name, &commercialName, &address,
			&inv.Recipient.ID, &inv.Recipient.NIT, &inv.Recipient.Name, &recipientEmail,
		); err != nil {
			return nil, err
		}

		inv.Issuer.CommercialName = StringPtr(commercialName)
		inv.Issuer.Address = StringPtr(address)
		inv.Recipient.Email = StringPtr(recipientEmail)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range invoices {
		items, err := db.listItems(ctx, invoices[i].ID)
		if err != nil {
			return nil, err
		}
		invoices[i].Items = items
	}

	return invoices, nil
}

func (db *DB) listItems(ctx context.Context, invoiceID string) ([]Item, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, invoice_id, line_number, good_or_service, quantity,
		       unit_of_measure, description, unit_price, price, discount,
		       total, taxes, created_at
		FROM items WHERE invoice_id = ?
		ORDER BY line_number
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		it := Item{}
		var taxes sql.NullString

		if err := rows.Scan(
			&it.ID, &it.InvoiceID, &it.LineNumber, &it.GoodOrService, &it.Quantity,
			&it.UnitOfMeasure, &it.Description, &it.UnitPrice, &it.Price, &it.Discount,
			&it.Total, &taxes, &it.CreatedAt,
		); err != nil {
			return nil, err
		}

		it.Taxes = StringPtr(taxes)
		items = append(items, it)
	}

	return items, rows.Err()
}

// CountInvoicesByCompany returns the number of stored invoices for a company
func (db *DB) CountInvoicesByCompany(ctx context.Context, companyID string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM invoices WHERE company_id = ?
	`, companyID).Scan(&count)
	return count, err
}
