package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gtfel/sat-invoices/internal/output"
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List mailbox folders",
	Long: `Folders lists the folders of the configured Zoho account. Use it
to find the folder ID for zoho.folder_id in the config file.`,
	RunE: runFolders,
}

func init() {
	rootCmd.AddCommand(foldersCmd)
}

func runFolders(cmd *cobra.Command, args []string) error {
	d, err := buildDeps(newLogger(false))
	if err != nil {
		return err
	}
	defer d.close()

	folders, err := d.mail.ListFolders(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list folders: %w", err)
	}

	return output.Output(outputFmt, folders)
}
