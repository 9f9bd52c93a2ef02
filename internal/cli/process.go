package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gtfel/sat-invoices/internal/output"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process unread invoice notifications once",
	Long: `Process lists unread messages in the configured mailbox folder,
downloads and parses any referenced SAT XML documents, and stores the
invoices. Messages that fail stay unread and are retried on the next run.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(newLogger(false))
	if err != nil {
		return err
	}
	defer d.close()

	report, err := d.processor.ProcessUnread(cmd.Context())
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	return output.Output(outputFmt, report)
}
