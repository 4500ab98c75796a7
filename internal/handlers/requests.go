package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/acahn/sourcedesk/internal/foia"
	"github.com/acahn/sourcedesk/internal/model"
	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templates"
)

// RequestsHandler lists request bodies, filtered by the q keyword.
func RequestsHandler(requestStore *store.RequestStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		q := c.Query("q")
		contents, err := requestStore.SearchContents(ctx, q)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading requests")
		}

		// HTMX search requests swap only the table body.
		if c.Get("HX-Request") == "true" {
			return render(c, templates.RequestsTableBody(contents))
		}
		return render(c, templates.Requests(contents, q))
	}
}

// RequestDetailHandler shows one request with per-agency status and the
// computed response due date. Due dates are computed lazily on read from
// the filing date and the agency's jurisdiction rules.
func RequestDetailHandler(requestStore *store.RequestStore, agencyStore *store.AgencyStore, holidays foia.HolidayProvider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid request id")
		}

		content, err := requestStore.GetContent(ctx, id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading request")
		}
		if content == nil {
			return c.Status(fiber.StatusNotFound).SendString("Request not found")
		}

		items, err := requestStore.GetItemsForContent(ctx, id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading request items")
		}

		var rows []templates.RequestRow
		for _, item := range items {
			agency, err := agencyStore.GetByID(ctx, item.AgencyID)
			if err != nil || agency == nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Error loading agency")
			}
			jur, err := agencyStore.Jurisdiction(ctx, agency)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Error loading jurisdiction")
			}
			rows = append(rows, templates.RequestRow{
				Item:    item,
				Agency:  *agency,
				DueDate: foia.AgencyDueDate(*agency, jur, content.FiledAt, holidays),
			})
		}

		return render(c, templates.RequestDetail(*content, rows))
	}
}

// NewRequestFormHandler renders the batch filing form. Only agencies with
// a FOIA email on file can be targeted.
func NewRequestFormHandler(agencyStore *store.AgencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		agencies, err := agencyStore.GetAllWithEmail(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading agencies")
		}
		return render(c, templates.NewRequest(agencies))
	}
}

func splitAddressList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}

// CreateRequestHandler files a request batch: persists the content, then
// per agency persists an item and composes and sends the email. The loop
// is sequential with no atomicity across the batch: a failure for agency N
// leaves agencies 1..N-1 sent and persisted.
func CreateRequestHandler(requestStore *store.RequestStore, agencyStore *store.AgencyStore, composer *foia.Composer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		subject := strings.TrimSpace(c.FormValue("subject"))
		records := strings.TrimSpace(c.FormValue("requested_records"))
		if subject == "" || records == "" {
			return c.Status(fiber.StatusBadRequest).SendString("Subject and requested records are required")
		}

		var agencyIDs []int
		for _, v := range c.Request().PostArgs().PeekMulti("agency_id") {
			id, err := strconv.Atoi(string(v))
			if err != nil {
				return c.Status(fiber.StatusBadRequest).SendString("Invalid agency id")
			}
			agencyIDs = append(agencyIDs, id)
		}
		if len(agencyIDs) == 0 {
			return c.Status(fiber.StatusBadRequest).SendString("Select at least one agency")
		}

		cc := splitAddressList(c.FormValue("cc"))
		bcc := splitAddressList(c.FormValue("bcc"))

		content := &model.RequestContent{
			Subject:             subject,
			RequestedRecords:    records,
			ExpeditedProcessing: strings.TrimSpace(c.FormValue("expedited_processing")),
			FeeWaiver:           strings.TrimSpace(c.FormValue("fee_waiver")),
			FiledAt:             time.Now(),
		}
		if err := requestStore.CreateContent(ctx, content); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error saving request")
		}

		var results []templates.SendResult
		for _, agencyID := range agencyIDs {
			results = append(results, fileWithAgency(ctx, requestStore, agencyStore, composer, *content, agencyID, c.FormValue("recipient_name"), cc, bcc))
		}

		return render(c, templates.SendResults(results))
	}
}

// fileWithAgency persists one request item and sends its email. Each item
// is an independent unit of work; errors are reported, not rolled back.
func fileWithAgency(ctx context.Context, requestStore *store.RequestStore, agencyStore *store.AgencyStore, composer *foia.Composer, content model.RequestContent, agencyID int, recipientName string, cc, bcc []string) templates.SendResult {
	agency, err := agencyStore.GetByID(ctx, agencyID)
	if err != nil || agency == nil {
		return templates.SendResult{AgencyName: strconv.Itoa(agencyID), Err: "agency not found"}
	}
	result := templates.SendResult{AgencyName: agency.Name}

	jur, err := agencyStore.Jurisdiction(ctx, agency)
	if err != nil {
		result.Err = "error loading jurisdiction"
		return result
	}

	item := &model.RequestItem{
		ContentID:     content.ID,
		AgencyID:      agency.ID,
		RecipientName: strings.TrimSpace(recipientName),
	}
	if err := requestStore.CreateItem(ctx, item); err != nil {
		result.Err = "error saving request item"
		return result
	}

	receipt, err := composer.ComposeAndSend(ctx, foia.SendInput{
		Content:      content,
		Item:         *item,
		Agency:       *agency,
		Jurisdiction: jur,
		CC:           cc,
		BCC:          bcc,
	})
	if err != nil {
		// A receipt alongside the error means the email was delivered and
		// only labeling failed; record the send so nobody resends it.
		if receipt != nil {
			if err := requestStore.SetItemMessageID(ctx, item.ID, receipt.MessageID); err != nil {
				result.Err = "sent, but failed to record message id"
				return result
			}
			result.MessageID = receipt.MessageID
			result.Err = "sent, but labeling the message failed"
			return result
		}
		switch {
		case errors.Is(err, foia.ErrTemplateNotFound):
			result.Err = "no template uploaded for this agency"
		case errors.Is(err, foia.ErrTemplateMalformed):
			result.Err = "template references an unknown field"
		case errors.Is(err, foia.ErrInvalidRecipient):
			result.Err = "invalid recipient address"
		default:
			result.Err = "delivery failed: " + err.Error()
		}
		return result
	}

	if err := requestStore.SetItemMessageID(ctx, item.ID, receipt.MessageID); err != nil {
		result.Err = "sent, but failed to record message id"
		return result
	}
	result.MessageID = receipt.MessageID
	return result
}

// UpdateItemStatusHandler applies an administrative status change after
// checking the transition is legal.
func UpdateItemStatusHandler(requestStore *store.RequestStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid item id")
		}
		status := model.Status(c.FormValue("status"))
		if !model.ValidStatus(status) {
			return c.Status(fiber.StatusBadRequest).SendString("Unknown status")
		}

		item, err := requestStore.GetItem(ctx, id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading item")
		}
		if item == nil {
			return c.Status(fiber.StatusNotFound).SendString("Item not found")
		}
		if !model.CanTransition(item.Status, status) {
			return c.Status(fiber.StatusBadRequest).SendString("Illegal status transition")
		}

		if err := requestStore.UpdateItemStatus(ctx, id, status); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error updating status")
		}
		return c.Redirect("/requests/" + strconv.Itoa(item.ContentID))
	}
}
