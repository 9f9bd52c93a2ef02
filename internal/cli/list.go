package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gtfel/sat-invoices/internal/output"
)

var listNIT string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored invoices or registered companies",
	Long: `List shows stored invoices for a company, or all registered
companies when no NIT is given.

Examples:
  satinvoices list                    # registered companies
  satinvoices list --nit=1234567-8    # invoices for one company
  satinvoices list --nit=1234567-8 -o json`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listNIT, "nit", "", "company NIT to list invoices for")
}

func runList(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(newLogger(false))
	if err != nil {
		return err
	}
	defer d.close()

	ctx := cmd.Context()

	if listNIT == "" {
		companies, err := d.db.ListCompanies(ctx)
		if err != nil {
			return fmt.Errorf("failed to list companies: %w", err)
		}
		return output.Output(outputFmt, companies)
	}

	company, err := d.db.GetCompanyByNIT(ctx, listNIT)
	if err != nil {
		return fmt.Errorf("failed to look up company: %w", err)
	}
	if company == nil {
		return fmt.Errorf("no company registered with NIT %s", listNIT)
	}

	invoices, err := d.db.ListInvoicesByCompany(ctx, company.ID)
	if err != nil {
		return fmt.Errorf("failed to list invoices: %w", err)
	}

	return output.Output(outputFmt, invoices)
}
