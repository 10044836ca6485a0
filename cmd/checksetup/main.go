package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/xavierca1/spinnata-waitlist/internal/config"
	"github.com/xavierca1/spinnata-waitlist/internal/infra/database"
)

type check struct {
	name     string
	run      func(ctx context.Context) error
	hint     string
	optional bool
}

func main() {
	os.Exit(run(os.Stdout, ".env"))
}

func run(out io.Writer, envFile string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fmt.Fprintln(out, "🔍 Checking waitlist setup...")
	fmt.Fprintln(out)

	checks := buildChecks(envFile)

	allPassed := true
	for _, c := range checks {
		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(out, "✅ %s\n", c.name)
		case c.optional:
			fmt.Fprintf(out, "➖ %s\n   → %s\n", c.name, c.hint)
		default:
			fmt.Fprintf(out, "❌ %s\n   → %s (%v)\n", c.name, c.hint, err)
			allPassed = false
		}
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, "⚠️  Please fix the issues above")
		return 1
	}

	fmt.Fprintln(out, "🎉 Setup looks good! Run: go run ./cmd/api")
	return 0
}

func buildChecks(envFile string) []check {
	// checks run in order; later ones use the config and connection earlier ones produced
	var (
		cfg *config.Config
		db  *databaseHandle
	)

	return []check{
		{
			name: ".env file exists",
			hint: "Create .env (DATABASE_URL is required)",
			run: func(context.Context) error {
				_, err := os.Stat(envFile)
				return err
			},
			optional: true,
		},
		{
			name: "configuration loads",
			hint: "Set DATABASE_URL and check numeric settings",
			run: func(context.Context) error {
				c, err := config.Load(envFile)
				if err != nil {
					return err
				}
				cfg = c
				return nil
			},
		},
		{
			name: "database reachable",
			hint: "Check DATABASE_URL and that the database is running",
			run: func(ctx context.Context) error {
				if cfg == nil {
					return fmt.Errorf("configuration not loaded")
				}
				h, err := openDatabase(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				db = h
				return nil
			},
		},
		{
			name: "migrations applied",
			hint: "Start the API once (it migrates on boot)",
			run: func(ctx context.Context) error {
				if db == nil {
					return fmt.Errorf("database not reachable")
				}
				defer db.conn.Close()

				version, pending, err := database.MigrationStatus(ctx, db.conn, db.driver)
				if err != nil {
					return err
				}
				if version == 0 || pending {
					return fmt.Errorf("schema version %d, pending migrations: %t", version, pending)
				}
				return nil
			},
		},
		{
			name:     "Mailchimp configured",
			hint:     "Optional: set MAILCHIMP_API_KEY and MAILCHIMP_AUDIENCE_ID",
			optional: true,
			run: func(context.Context) error {
				if cfg == nil || !cfg.MailchimpEnabled() {
					return fmt.Errorf("not configured")
				}
				return nil
			},
		},
		{
			name:     "SMTP notifications configured",
			hint:     "Optional: set MAIL_HOST and OWNER_EMAIL",
			optional: true,
			run: func(context.Context) error {
				if cfg == nil || !cfg.SMTPEnabled() {
					return fmt.Errorf("not configured")
				}
				return nil
			},
		},
	}
}
