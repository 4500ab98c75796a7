package cmd

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/cobra"

	"github.com/acahn/sourcedesk/internal/config"
	"github.com/acahn/sourcedesk/internal/foia"
	"github.com/acahn/sourcedesk/internal/handlers"
	"github.com/acahn/sourcedesk/internal/mail"
	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templatestore"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sourcedesk web server",
	Long:  `Start the web server for browsing sources, requests, and agencies.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// An explicit --port wins over the PORT env var
		if port != "8080" {
			cfg.Port = port
		}

		db, err := store.NewDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Initialize stores and collaborators
		requestStore := store.NewRequestStore(db)
		agencyStore := store.NewAgencyStore(db)
		jurisdictionStore := store.NewJurisdictionStore(db)
		sourceStore := store.NewSourceStore(db)
		projectStore := store.NewProjectStore(db)

		assets := templatestore.New(cfg.TemplateDir)
		mailer := mail.NewGmailClient(cfg.GmailBaseURL, cfg.GmailToken)
		composer := foia.NewComposer(assets, mailer, cfg.FromEmail, cfg.BaseTemplate, cfg.FederalTemplate)
		holidays := foia.NewUSHolidayCalendar()

		app := fiber.New(fiber.Config{
			AppName: "Sourcedesk",
		})

		app.Use(logger.New())

		// Routes
		app.Get("/", handlers.HomeHandler(requestStore, agencyStore, sourceStore))

		// Request routes
		app.Get("/requests", handlers.RequestsHandler(requestStore))
		app.Get("/requests/new", handlers.NewRequestFormHandler(agencyStore))
		app.Post("/requests/new", handlers.CreateRequestHandler(requestStore, agencyStore, composer))
		app.Get("/requests/:id", handlers.RequestDetailHandler(requestStore, agencyStore, holidays))
		app.Post("/requests/items/:id/status", handlers.UpdateItemStatusHandler(requestStore))

		// Agency routes
		app.Get("/agencies", handlers.AgenciesHandler(agencyStore))
		app.Get("/agencies/new", handlers.NewAgencyFormHandler(jurisdictionStore))
		app.Post("/agencies/new", handlers.CreateAgencyHandler(agencyStore))
		app.Get("/agencies/:id", handlers.AgencyDetailHandler(agencyStore))

		// Source, project, and story routes
		app.Get("/sources", handlers.SourcesHandler(sourceStore))
		app.Get("/sources/:id", handlers.SourceDetailHandler(sourceStore))
		app.Get("/projects", handlers.ProjectsHandler(projectStore))
		app.Get("/stories", handlers.StoriesHandler(projectStore))

		// Template management
		app.Get("/templates/upload", handlers.TemplateUploadFormHandler())
		app.Post("/templates/upload", handlers.UploadTemplateHandler(assets, jurisdictionStore))

		log.Printf("Starting server on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "8080", "Port to run the server on")
}
