package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "satinvoices")
	dataDir := filepath.Join(home, ".local", "share", "satinvoices")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'satinvoices config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Create a Zoho API client at https://api-console.zoho.com")
	fmt.Println("  2. Export ZOHO_CLIENT_ID, ZOHO_CLIENT_SECRET and ZOHO_REFRESH_TOKEN")
	fmt.Println("  3. Run 'satinvoices folders' to find the folder ID to watch")
	fmt.Println("  4. Set zoho.account_id and zoho.folder_id in the config file")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'satinvoices config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# satinvoices configuration

[zoho]
accounts_url = "https://accounts.zoho.com"
api_domain = "https://mail.zoho.com/api/accounts"
account_id = ""   # from 'satinvoices folders' error output or the Zoho console
folder_id = ""    # folder to watch, see 'satinvoices folders'
from_address = "" # sender address for notification mails
# client_id, client_secret and refresh_token are read from
# ZOHO_CLIENT_ID, ZOHO_CLIENT_SECRET and ZOHO_REFRESH_TOKEN

[database]
path = "~/.local/share/satinvoices/satinvoices.db"

[server]
addr = ":8080"
# api_key guards admin endpoints; read from SATINVOICES_API_KEY

[auth]
access_token_expire_minutes = 30
refresh_token_expire_minutes = 4320
# jwt_secret is read from SATINVOICES_JWT_SECRET
`
