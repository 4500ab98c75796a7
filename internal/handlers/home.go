package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templates"
)

func render(c *fiber.Ctx, component templ.Component) error {
	handler := adaptor.HTTPHandler(templ.Handler(component))
	return handler(c)
}

// HomeHandler renders the dashboard: request totals and response-time
// aggregates over completed items.
func HomeHandler(requestStore *store.RequestStore, agencyStore *store.AgencyStore, sourceStore *store.SourceStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		metrics := templates.HomeMetrics{}

		stats, err := requestStore.GetStats(ctx)
		if err != nil {
			log.Printf("Error loading request stats: %v", err)
		} else {
			metrics.TotalRequests = stats.TotalItems
			metrics.FiledThisYear = stats.FiledThisYear
			metrics.HasData = stats.TotalItems > 0
			if stats.AvgDays.Valid {
				metrics.AvgDays = fmt.Sprintf("%.0f", stats.AvgDays.Float64)
				metrics.MinDays = fmt.Sprintf("%.0f", stats.MinDays.Float64)
				metrics.MaxDays = fmt.Sprintf("%.0f", stats.MaxDays.Float64)
			}
		}

		if totalAgencies, err := agencyStore.CountAgencies(ctx); err != nil {
			log.Printf("Error counting agencies: %v", err)
		} else {
			metrics.TotalAgencies = totalAgencies
		}

		if totalSources, err := sourceStore.CountSources(ctx); err != nil {
			log.Printf("Error counting sources: %v", err)
		} else {
			metrics.TotalSources = totalSources
		}

		return render(c, templates.Home(metrics))
	}
}
