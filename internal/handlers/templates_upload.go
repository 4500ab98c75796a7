package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/acahn/sourcedesk/internal/store"
	"github.com/acahn/sourcedesk/internal/templates"
	"github.com/acahn/sourcedesk/internal/templatestore"
)

// TemplateUploadFormHandler renders the upload form.
func TemplateUploadFormHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return render(c, templates.TemplateUpload("", false))
	}
}

// UploadTemplateHandler validates and stores a request template. When a
// jurisdiction code is supplied the asset is recorded as that
// jurisdiction's template.
func UploadTemplateHandler(assets *templatestore.Store, jurisdictionStore *store.JurisdictionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()

		fileHeader, err := c.FormFile("template")
		if err != nil {
			return render(c, templates.TemplateUpload("No file uploaded", true))
		}
		if fileHeader.Size > templatestore.MaxTemplateSize {
			return render(c, templates.TemplateUpload(templatestore.ErrTooLarge.Error(), true))
		}

		file, err := fileHeader.Open()
		if err != nil {
			return render(c, templates.TemplateUpload("Could not read upload", true))
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, templatestore.MaxTemplateSize+1))
		if err != nil {
			return render(c, templates.TemplateUpload("Could not read upload", true))
		}

		if err := assets.Save(fileHeader.Filename, data); err != nil {
			return render(c, templates.TemplateUpload(err.Error(), true))
		}

		if code := strings.ToUpper(strings.TrimSpace(c.FormValue("jurisdiction"))); code != "" {
			if err := jurisdictionStore.SetTemplateAsset(ctx, code, fileHeader.Filename); err != nil {
				return render(c, templates.TemplateUpload("Stored, but could not link to jurisdiction "+code, true))
			}
		}

		return render(c, templates.TemplateUpload("Template "+fileHeader.Filename+" uploaded", false))
	}
}
