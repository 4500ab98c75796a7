package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/acahn/sourcedesk/internal/config"
	"github.com/acahn/sourcedesk/internal/foia"
	"github.com/acahn/sourcedesk/internal/mail"
	"github.com/acahn/sourcedesk/internal/model"
	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templatestore"
)

var (
	sendSubject     string
	sendRecordsFile string
	sendAgencyIDs   []int
	sendRecipient   string
	sendExpedited   string
	sendFeeWaiver   string
	sendCC          []string
	sendBCC         []string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "File a records request with one or more agencies",
	Long: `Send composes and emails a public records request to each listed
agency, persisting the request and one item per agency.

Examples:
  # File with a single agency
  ./sourcedesk send --subject "2024 towing contracts" --records body.txt --agency 3

  # File with several agencies, CCing an editor
  ./sourcedesk send --subject "Use-of-force reports" --records body.txt \
      --agency 3 --agency 7 --cc editor@example.com`,
	Run: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendSubject, "subject", "s", "", "Subject line for the request (required)")
	sendCmd.Flags().StringVarP(&sendRecordsFile, "records", "r", "", "Path to a text file describing the requested records (required)")
	sendCmd.Flags().IntSliceVarP(&sendAgencyIDs, "agency", "a", nil, "Agency id to file with (repeatable, required)")
	sendCmd.Flags().StringVar(&sendRecipient, "recipient", "", "Name of the records officer, if known")
	sendCmd.Flags().StringVar(&sendExpedited, "expedited", "", "Justification for expedited processing")
	sendCmd.Flags().StringVar(&sendFeeWaiver, "fee-waiver", "", "Justification for a fee waiver")
	sendCmd.Flags().StringSliceVar(&sendCC, "cc", nil, "CC address (repeatable)")
	sendCmd.Flags().StringSliceVar(&sendBCC, "bcc", nil, "BCC address (repeatable)")

	sendCmd.MarkFlagRequired("subject")
	sendCmd.MarkFlagRequired("records")
	sendCmd.MarkFlagRequired("agency")
}

func runSend(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	records, err := os.ReadFile(sendRecordsFile)
	if err != nil {
		log.Fatalf("Failed to read records file: %v", err)
	}
	if strings.TrimSpace(string(records)) == "" {
		log.Fatal("Records file is empty")
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	log.Println("Connecting to database...")
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	requestStore := store.NewRequestStore(db)
	agencyStore := store.NewAgencyStore(db)
	assets := templatestore.New(cfg.TemplateDir)
	mailer := mail.NewGmailClient(cfg.GmailBaseURL, cfg.GmailToken)
	composer := foia.NewComposer(assets, mailer, cfg.FromEmail, cfg.BaseTemplate, cfg.FederalTemplate)

	outLog := log.New(os.Stdout, "", log.LstdFlags)
	errLog := log.New(os.Stderr, "ERROR: ", log.LstdFlags)

	content := &model.RequestContent{
		Subject:             sendSubject,
		RequestedRecords:    string(records),
		ExpeditedProcessing: sendExpedited,
		FeeWaiver:           sendFeeWaiver,
		FiledAt:             time.Now(),
	}
	if err := requestStore.CreateContent(ctx, content); err != nil {
		log.Fatalf("Failed to save request: %v", err)
	}

	// Each agency is an independent unit of work: a failure for one does
	// not undo earlier sends.
	sent, failed := 0, 0
	for _, agencyID := range sendAgencyIDs {
		if ctx.Err() != nil {
			errLog.Println("Cancelled before all agencies were processed")
			break
		}

		agency, err := agencyStore.GetByID(ctx, agencyID)
		if err != nil || agency == nil {
			errLog.Printf("Agency %d not found", agencyID)
			failed++
			continue
		}
		jur, err := agencyStore.Jurisdiction(ctx, agency)
		if err != nil {
			errLog.Printf("Failed to load jurisdiction for %s: %v", agency.Name, err)
			failed++
			continue
		}

		item := &model.RequestItem{
			ContentID:     content.ID,
			AgencyID:      agency.ID,
			RecipientName: sendRecipient,
		}
		if err := requestStore.CreateItem(ctx, item); err != nil {
			errLog.Printf("Failed to save item for %s: %v", agency.Name, err)
			failed++
			continue
		}

		receipt, err := composer.ComposeAndSend(ctx, foia.SendInput{
			Content:      *content,
			Item:         *item,
			Agency:       *agency,
			Jurisdiction: jur,
			CC:           sendCC,
			BCC:          sendBCC,
		})
		if err != nil && receipt == nil {
			errLog.Printf("Failed to send to %s: %v", agency.Name, err)
			failed++
			continue
		}
		if err != nil {
			// Delivered but not labeled; still a sent request.
			errLog.Printf("Sent to %s but labeling failed: %v", agency.Name, err)
		}

		if err := requestStore.SetItemMessageID(ctx, item.ID, receipt.MessageID); err != nil {
			errLog.Printf("Sent to %s but failed to record message id: %v", agency.Name, err)
		}
		outLog.Printf("Sent to %s (message %s, label %s)", agency.Name, receipt.MessageID, receipt.Label)
		sent++
	}

	outLog.Printf("Done: %d sent, %d failed", sent, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
