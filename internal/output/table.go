package output

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/gtfel/sat-invoices/internal/database"
	"github.com/gtfel/sat-invoices/internal/invoice"
	"github.com/gtfel/sat-invoices/internal/zoho"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []database.Invoice:
		return invoicesTable(w, v)
	case []database.Company:
		return companiesTable(w, v)
	case []zoho.Folder:
		return foldersTable(w, v)
	case *invoice.Report:
		return reportDetail(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func invoicesTable(w io.Writer, invoices []database.Invoice) error {
	if len(invoices) == 0 {
		fmt.Fprintln(w, "No invoices found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("DATE", "AUTHORIZATION", "ISSUER", "TYPE", "TOTAL", "CURRENCY")

	for _, inv := range invoices {
		issuer := ""
		if inv.Issuer != nil {
			issuer = truncate(inv.Issuer.Name, 30)
		}
		if err := table.Append(
			inv.EmissionDate.Format("2006-01-02"),
			truncate(inv.AuthorizationNumber, 20),
			issuer,
			inv.DocumentType,
			fmt.Sprintf("%.2f", inv.Total),
			inv.Currency,
		); err != nil {
			return err
		}
	}

	return table.Render()
}

func companiesTable(w io.Writer, companies []database.Company) error {
	if len(companies) == 0 {
		fmt.Fprintln(w, "No companies registered.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("NIT", "NAME", "EMAIL", "ACTIVE")

	for _, c := range companies {
		if err := table.Append(
			c.NIT,
			truncate(c.Name, 30),
			truncate(c.Email, 30),
			strconv.FormatBool(c.IsActive),
		); err != nil {
			return err
		}
	}

	return table.Render()
}

func foldersTable(w io.Writer, folders []zoho.Folder) error {
	if len(folders) == 0 {
		fmt.Fprintln(w, "No folders found.")
		return nil
	}

	table := tablewriter.NewTable(w)
	table.Header("ID", "NAME", "PATH")

	for _, f := range folders {
		if err := table.Append(f.ID, f.Name, f.Path); err != nil {
			return err
		}
	}

	return table.Render()
}

func reportDetail(w io.Writer, report *invoice.Report) error {
	fmt.Fprintf(w, "Processed:  %d\n", report.Processed)
	fmt.Fprintf(w, "Stored:     %d\n", report.Stored)
	fmt.Fprintf(w, "Duplicates: %d\n", report.Duplicates)

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "Errors:     %d\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  %s: %s\n", e.MessageID, e.Error)
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
