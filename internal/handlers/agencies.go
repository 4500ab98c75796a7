package handlers

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/acahn/sourcedesk/internal/model"
	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templates"
)

// AgenciesHandler lists all agencies.
func AgenciesHandler(agencyStore *store.AgencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		agencies, err := agencyStore.GetAll(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading agencies")
		}
		return render(c, templates.Agencies(agencies))
	}
}

// AgencyDetailHandler shows one agency with its jurisdiction rules.
func AgencyDetailHandler(agencyStore *store.AgencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid agency id")
		}

		agency, err := agencyStore.GetByID(ctx, id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading agency")
		}
		if agency == nil {
			return c.Status(fiber.StatusNotFound).SendString("Agency not found")
		}

		jur, err := agencyStore.Jurisdiction(ctx, agency)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading jurisdiction")
		}

		return render(c, templates.AgencyDetail(*agency, jur))
	}
}

// NewAgencyFormHandler renders the agency creation form.
func NewAgencyFormHandler(jurisdictionStore *store.JurisdictionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		jurisdictions, err := jurisdictionStore.GetAll(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading jurisdictions")
		}
		return render(c, templates.NewAgency(jurisdictions))
	}
}

// CreateAgencyHandler persists a new agency.
func CreateAgencyHandler(agencyStore *store.AgencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		name := strings.TrimSpace(c.FormValue("name"))
		if name == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Name is required")
		}

		agency := &model.Agency{
			Name:          name,
			StreetAddress: strings.TrimSpace(c.FormValue("street_address")),
			Municipality:  strings.TrimSpace(c.FormValue("municipality")),
			ZipCode:       strings.TrimSpace(c.FormValue("zip_code")),
			IsFederal:     c.FormValue("is_federal") == "true",
		}
		if email := strings.TrimSpace(c.FormValue("foia_email")); email != "" {
			agency.FoiaEmail = sql.NullString{String: email, Valid: true}
		}
		if raw := c.FormValue("jurisdiction_id"); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).SendString("Invalid jurisdiction id")
			}
			agency.JurisdictionID = sql.NullInt64{Int64: int64(id), Valid: true}
		}

		if err := agencyStore.Create(ctx, agency); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error creating agency")
		}
		return c.Redirect("/agencies/" + strconv.Itoa(agency.ID))
	}
}
