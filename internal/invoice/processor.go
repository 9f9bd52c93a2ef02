package invoice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gtfel/sat-invoices/internal/database"
	"github.com/gtfel/sat-invoices/internal/extract"
	"github.com/gtfel/sat-invoices/internal/zoho"
)

var (
	messagesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satinvoices_messages_processed_total",
		Help: "Unread messages examined by the processor.",
	})
	invoicesStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satinvoices_invoices_stored_total",
		Help: "Invoices parsed and written to the database.",
	})
	processErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "satinvoices_process_errors_total",
		Help: "Messages that failed at any pipeline stage.",
	})
)

// MailClient is the subset of the Zoho client the processor needs
type MailClient interface {
	ListUnread(ctx context.Context, folderID string) ([]zoho.Message, error)
	GetContent(ctx context.Context, folderID, messageID string) (string, error)
	MarkRead(ctx context.Context, messageIDs []string) error
}

// Fetcher downloads invoice XML documents
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Store is the subset of database operations the processor needs
type Store interface {
	InvoiceExists(ctx context.Context, authorizationNumber string) (bool, error)
	GetCompanyByNIT(ctx context.Context, nit string) (*database.Company, error)
	CreateInvoice(ctx context.Context, inv *database.Invoice, issuer *database.Issuer, recipient *database.Recipient, items []database.Item) error
}

// ProcessError records why one message failed
type ProcessError struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// Report summarizes one processing run
type Report struct {
	Processed  int            `json:"processed"`
	Stored     int            `json:"stored"`
	Duplicates int            `json:"duplicates"`
	Errors     []ProcessError `json:"errors,omitempty"`
}

// Processor runs the mailbox-to-database pipeline: list unread messages,
// extract the SAT download link from each, fetch and parse the XML, match
// the recipient NIT to a registered company and store the invoice. Messages
// are only marked read once fully handled, so failures are retried on the
// next run.
type Processor struct {
	mail       MailClient
	downloader Fetcher
	store      Store
	folderID   string
	logger     *slog.Logger
}

// NewProcessor wires the pipeline stages together
func NewProcessor(mail MailClient, downloader Fetcher, store Store, folderID string, logger *slog.Logger) *Processor {
	return &Processor{
		mail:       mail,
		downloader: downloader,
		store:      store,
		folderID:   folderID,
		logger:     logger,
	}
}

// ProcessUnread handles every unread message in the configured folder.
// One failing message never aborts the run; its error lands in the report.
func (p *Processor) ProcessUnread(ctx context.Context) (*Report, error) {
	messages, err := p.mail.ListUnread(ctx, p.folderID)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, msg := range messages {
		report.Processed++
		messagesProcessed.Inc()

		stored, err := p.processMessage(ctx, msg)
		if err != nil {
			processErrors.Inc()
			report.Errors = append(report.Errors, ProcessError{
				MessageID: msg.MessageID,
				Error:     err.Error(),
			})
			p.logger.Error("failed to process message",
				"message_id", msg.MessageID,
				"subject", msg.Subject,
				"error", err)
			continue
		}

		if stored {
			report.Stored++
			invoicesStored.Inc()
		} else {
			report.Duplicates++
		}
	}

	p.logger.Info("processing run complete",
		"processed", report.Processed,
		"stored", report.Stored,
		"duplicates", report.Duplicates,
		"errors", len(report.Errors))

	return report, nil
}

// processMessage runs one message through the pipeline. stored is false for
// messages whose invoice was already in the database.
func (p *Processor) processMessage(ctx context.Context, msg zoho.Message) (stored bool, err error) {
	content, err := p.mail.GetContent(ctx, p.folderID, msg.MessageID)
	if err != nil {
		return false, err
	}
	if content == "" {
		return false, fmt.Errorf("message has no content")
	}

	link := extract.XMLLink(content)
	if !extract.Found(link) {
		return false, fmt.Errorf("no XML download link in message body")
	}

	data, err := p.downloader.Fetch(ctx, link)
	if err != nil {
		return false, err
	}

	parsed, err := Parse(data, link)
	if err != nil {
		return false, err
	}

	exists, err := p.store.InvoiceExists(ctx, parsed.Invoice.AuthorizationNumber)
	if err != nil {
		return false, err
	}
	if exists {
		// Already stored by an earlier run; finish the mark-read
		if err := p.mail.MarkRead(ctx, []string{msg.MessageID}); err != nil {
			return false, err
		}
		return false, nil
	}

	company, err := p.store.GetCompanyByNIT(ctx, parsed.Recipient.NIT)
	if err != nil {
		return false, err
	}
	if company == nil {
		return false, fmt.Errorf("no registered company for recipient NIT %s", parsed.Recipient.NIT)
	}

	parsed.Invoice.CompanyID = company.ID
	if err := p.store.CreateInvoice(ctx, &parsed.Invoice, &parsed.Issuer, &parsed.Recipient, parsed.Items); err != nil {
		return false, err
	}

	// The invoice is stored at this point. A mark-read failure is logged
	// rather than returned: the next run dedups on the authorization
	// number and retries the mark-read.
	if err := p.mail.MarkRead(ctx, []string{msg.MessageID}); err != nil {
		p.logger.Warn("failed to mark message read",
			"message_id", msg.MessageID,
			"error", err)
	}

	p.logger.Info("invoice stored",
		"authorization", parsed.Invoice.AuthorizationNumber,
		"company", company.Name,
		"total", parsed.Invoice.Total)

	return true, nil
}
