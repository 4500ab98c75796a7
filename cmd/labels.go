package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/acahn/sourcedesk/internal/config"
	"github.com/acahn/sourcedesk/internal/foia"
	"github.com/acahn/sourcedesk/internal/mail"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Ensure the request labels exist in the mail account",
	Long: `Labels creates the mailbox labels used to file outgoing requests
("FOIA" and "FOIA - UNFINISHED") if they do not already exist.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		ctx := context.Background()
		mailer := mail.NewGmailClient(cfg.GmailBaseURL, cfg.GmailToken)

		existing, err := mailer.ListLabels(ctx)
		if err != nil {
			log.Fatalf("Failed to list labels: %v", err)
		}

		for _, name := range []string{foia.LabelFiled, foia.LabelFallback} {
			if id, ok := existing[name]; ok {
				log.Printf("Label %q already exists (%s)", name, id)
				continue
			}
			id, err := mailer.CreateLabel(ctx, name)
			if err != nil {
				log.Fatalf("Failed to create label %q: %v", name, err)
			}
			log.Printf("Created label %q (%s)", name, id)
		}
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
