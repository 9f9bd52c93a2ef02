package cli

import (
	"fmt"
	"log/slog"

	"github.com/gtfel/sat-invoices/internal/config"
	"github.com/gtfel/sat-invoices/internal/database"
	"github.com/gtfel/sat-invoices/internal/invoice"
	"github.com/gtfel/sat-invoices/internal/zoho"
)

// deps holds the wired application components shared by commands
type deps struct {
	cfg       *config.Config
	db        *database.DB
	mail      *zoho.Client
	processor *invoice.Processor
	logger    *slog.Logger
}

func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
}

// buildDeps loads configuration and wires the mail client, database and
// processing pipeline
func buildDeps(logger *slog.Logger) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	tokens := zoho.NewTokenManager(zoho.Credentials{
		ClientID:     cfg.Zoho.ClientID,
		ClientSecret: cfg.Zoho.ClientSecret,
		RefreshToken: cfg.Zoho.RefreshToken,
	}, cfg.Zoho.AccountsURL, logger)

	mail := zoho.NewClient(tokens, cfg.Zoho.APIDomain, cfg.Zoho.AccountID, logger)
	downloader := invoice.NewDownloader(logger)
	processor := invoice.NewProcessor(mail, downloader, db, cfg.Zoho.FolderID, logger)

	return &deps{
		cfg:       cfg,
		db:        db,
		mail:      mail,
		processor: processor,
		logger:    logger,
	}, nil
}
