package cmd

import (
	"context"
	"database/sql"
	"log"

	"github.com/spf13/cobra"

	"github.com/acahn/sourcedesk/internal/config"
	"github.com/acahn/sourcedesk/internal/model"
	"github.com/acahn/sourcedesk/internal/store"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Migrate creates the schema if it does not exist. With --seed it also
upserts a starter set of jurisdiction rule sets, keyed by state code, so
due dates work before any manual data entry.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		log.Println("Connecting to database...")
		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := store.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Schema is up to date")

		if migrateSeed {
			if err := seedJurisdictions(context.Background(), store.NewJurisdictionStore(db)); err != nil {
				log.Fatalf("Seeding failed: %v", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Upsert starter jurisdiction rule sets")
}

// seedJurisdictions upserts rule sets for a handful of states. Statutes
// with no fixed response window (e.g. Florida's "reasonable time") carry
// null deadline columns.
func seedJurisdictions(ctx context.Context, jurisdictions *store.JurisdictionStore) error {
	seed := []model.Jurisdiction{
		rules("NY", "Freedom of Information Law", 5, true, "America/New_York"),
		rules("CA", "California Public Records Act", 10, false, "America/Los_Angeles"),
		rules("IL", "Freedom of Information Act", 5, true, "America/Chicago"),
		rules("TX", "Public Information Act", 10, true, "America/Chicago"),
		rules("MA", "Public Records Law", 10, true, "America/New_York"),
		rules("WA", "Public Records Act", 5, true, "America/Los_Angeles"),
		{
			Code:        "FL",
			StatuteName: sql.NullString{String: "Public Records Act", Valid: true},
			Timezone:    sql.NullString{String: "America/New_York", Valid: true},
		},
	}

	for i := range seed {
		if err := jurisdictions.Upsert(ctx, &seed[i]); err != nil {
			return err
		}
		log.Printf("Seeded jurisdiction %s", seed[i].Code)
	}
	return nil
}

func rules(code, statute string, maxDays int64, businessDays bool, tz string) model.Jurisdiction {
	return model.Jurisdiction{
		Code:             code,
		StatuteName:      sql.NullString{String: statute, Valid: true},
		MaxResponseDays:  sql.NullInt64{Int64: maxDays, Valid: true},
		BusinessDaysOnly: sql.NullBool{Bool: businessDays, Valid: true},
		Timezone:         sql.NullString{String: tz, Valid: true},
	}
}
