package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templates"
)

// SourcesHandler lists all sources.
func SourcesHandler(sourceStore *store.SourceStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		sources, err := sourceStore.GetAll(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading sources")
		}
		return render(c, templates.Sources(sources))
	}
}

// SourceDetailHandler shows one source with their contact log.
func SourceDetailHandler(sourceStore *store.SourceStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		id, err := strconv.Atoi(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("Invalid source id")
		}

		source, err := sourceStore.GetByID(ctx, id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading source")
		}
		if source == nil {
			return c.Status(fiber.StatusNotFound).SendString("Source not found")
		}

		contacts, err := sourceStore.GetContactsForSource(ctx, id)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading contacts")
		}

		return render(c, templates.SourceDetail(*source, contacts))
	}
}

// ProjectsHandler lists projects.
func ProjectsHandler(projectStore *store.ProjectStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		projects, err := projectStore.GetAll(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading projects")
		}
		return render(c, templates.Projects(projects))
	}
}

// StoriesHandler lists published stories.
func StoriesHandler(projectStore *store.ProjectStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		stories, err := projectStore.GetStories(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString("Error loading stories")
		}
		return render(c, templates.Stories(stories))
	}
}
