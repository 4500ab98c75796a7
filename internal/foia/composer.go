package foia

import (
	"context"
	"fmt"
	netmail "net/mail"
	"strings"

	"github.com/acahn/sourcedesk/internal/mail"
	"github.com/acahn/sourcedesk/internal/model"
)

// Labels applied to outbound requests after delivery. The fallback label
// marks requests sent with the generic base template instead of an
// agency-specific one, so they can be reviewed later.
const (
	LabelFiled    = "FOIA"
	LabelFallback = "FOIA - UNFINISHED"
)

// DefaultRecipientName addresses requests when no officer is named.
const DefaultRecipientName = "Public Records Officer"

// TemplateStore is the asset lookup boundary the composer depends on.
type TemplateStore interface {
	Exists(name string) bool
	Text(name string) (string, error)
	HTML(name string) (string, error)
}

// Composer resolves a template for an agency, fills its fields, renders
// rich and plain bodies, and hands the result to the mailer.
type Composer struct {
	templates       TemplateStore
	mailer          mail.Mailer
	from            string
	baseTemplate    string
	federalTemplate string
}

// NewComposer wires a composer to its collaborators. baseTemplate and
// federalTemplate name the global fallback and federal assets.
func NewComposer(templates TemplateStore, mailer mail.Mailer, from, baseTemplate, federalTemplate string) *Composer {
	return &Composer{
		templates:       templates,
		mailer:          mailer,
		from:            from,
		baseTemplate:    baseTemplate,
		federalTemplate: federalTemplate,
	}
}

// SendInput is everything needed to file one request with one agency.
type SendInput struct {
	Content      model.RequestContent
	Item         model.RequestItem
	Agency       model.Agency
	Jurisdiction *model.Jurisdiction // nil when the agency has none
	CC           []string
	BCC          []string
}

// DeliveryReceipt reports a successful send.
type DeliveryReceipt struct {
	MessageID    string
	Label        string
	UsedFallback bool
}

// resolution is the outcome of template resolution: which asset to render
// and whether the global fallback was used in place of a dedicated one.
type resolution struct {
	asset        string
	usedFallback bool
}

// resolveTemplate picks the template asset for an agency.
//
// Federal agencies want the dedicated federal asset and may fall back to
// the global base template. Non-federal agencies use their jurisdiction's
// named asset when one is configured; a named asset that is missing is an
// error, never a silent fallback. Only a jurisdiction that names no asset
// falls through to the base template.
func (c *Composer) resolveTemplate(agency model.Agency, jur *model.Jurisdiction) (resolution, error) {
	if agency.IsFederal {
		if c.federalTemplate != "" && c.templates.Exists(c.federalTemplate) {
			return resolution{asset: c.federalTemplate}, nil
		}
		if c.baseTemplate != "" && c.templates.Exists(c.baseTemplate) {
			return resolution{asset: c.baseTemplate, usedFallback: true}, nil
		}
		return resolution{}, fmt.Errorf("%w: no federal or base template", ErrTemplateNotFound)
	}

	if jur != nil && jur.TemplateAsset.Valid && jur.TemplateAsset.String != "" {
		named := jur.TemplateAsset.String
		if !c.templates.Exists(named) {
			return resolution{}, fmt.Errorf("%w: jurisdiction %s names missing asset %s", ErrTemplateNotFound, jur.Code, named)
		}
		return resolution{asset: named}, nil
	}

	if c.baseTemplate != "" && c.templates.Exists(c.baseTemplate) {
		return resolution{asset: c.baseTemplate, usedFallback: true}, nil
	}
	return resolution{}, fmt.Errorf("%w: no base template", ErrTemplateNotFound)
}

// statuteName returns the act named in the subject line: FOIA for federal
// agencies, the jurisdiction's configured statute otherwise, or the
// generic "Public Records" when neither applies.
func statuteName(agency model.Agency, jur *model.Jurisdiction) string {
	if agency.IsFederal {
		return "Freedom of Information Act"
	}
	if jur == nil || !jur.StatuteName.Valid || jur.StatuteName.String == "" {
		return "Public Records"
	}
	return jur.StatuteName.String
}

// maxResponseTime renders the statutory window as a human-readable string,
// or empty when the jurisdiction defines none.
func maxResponseTime(agency model.Agency, jur *model.Jurisdiction) string {
	if agency.IsFederal {
		return fmt.Sprintf("%d business days", FederalMaxResponseDays)
	}
	if jur == nil || !jur.MaxResponseDays.Valid || !jur.BusinessDaysOnly.Valid {
		return ""
	}
	unit := "days"
	if jur.BusinessDaysOnly.Bool {
		unit = "business days"
	}
	return fmt.Sprintf("%d %s", jur.MaxResponseDays.Int64, unit)
}

// buildFields produces the placeholder mapping for one request, populated
// once per compose call.
func buildFields(in SendInput) map[string]string {
	recipient := strings.TrimSpace(in.Item.RecipientName)
	if recipient == "" {
		recipient = DefaultRecipientName
	}
	state := ""
	if in.Jurisdiction != nil {
		state = in.Jurisdiction.Code
	}
	return map[string]string{
		"subject_line":          in.Content.Subject,
		"requested_records":     in.Content.RequestedRecords,
		"expedited_processing":  in.Content.ExpeditedProcessing,
		"fee_waiver":            in.Content.FeeWaiver,
		"foia_email":            in.Agency.FoiaEmail.String,
		"recipient_name":        recipient,
		"public_records_act":    statuteName(in.Agency, in.Jurisdiction),
		"max_response_time":     maxResponseTime(in.Agency, in.Jurisdiction),
		"agency_name":           in.Agency.Name,
		"agency_street_address": in.Agency.StreetAddress,
		"agency_municipality":   in.Agency.Municipality,
		"state":                 state,
		"zip_code":              in.Agency.ZipCode,
	}
}

// validateRecipients checks every address before any mail call is made, so
// a bad CC fails the send with nothing delivered.
func validateRecipients(to string, lists ...[]string) error {
	if _, err := netmail.ParseAddress(to); err != nil {
		return fmt.Errorf("%w: agency address %q", ErrInvalidRecipient, to)
	}
	for _, list := range lists {
		for _, addr := range list {
			if _, err := netmail.ParseAddress(addr); err != nil {
				return fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
			}
		}
	}
	return nil
}

// ComposeAndSend files one request item: resolves the template, renders
// both bodies, delivers the email, and labels the sent message. Delivery
// failures propagate to the caller; no retry is attempted here.
//
// A labeling failure after a successful delivery returns BOTH the receipt
// and the error: a non-nil receipt always means the email went out, so
// callers can persist the message id instead of prompting a resend.
func (c *Composer) ComposeAndSend(ctx context.Context, in SendInput) (*DeliveryReceipt, error) {
	resolved, err := c.resolveTemplate(in.Agency, in.Jurisdiction)
	if err != nil {
		return nil, err
	}

	fields := buildFields(in)

	if !in.Agency.FoiaEmail.Valid {
		return nil, fmt.Errorf("%w: agency %s has no FOIA email", ErrInvalidRecipient, in.Agency.Name)
	}
	if err := validateRecipients(in.Agency.FoiaEmail.String, in.CC, in.BCC); err != nil {
		return nil, err
	}

	htmlDoc, err := c.templates.HTML(resolved.asset)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", resolved.asset, err)
	}
	textDoc, err := c.templates.Text(resolved.asset)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", resolved.asset, err)
	}

	htmlBody, err := renderTemplate(htmlDoc, fields)
	if err != nil {
		return nil, err
	}
	textBody, err := renderTemplate(textDoc, fields)
	if err != nil {
		return nil, err
	}

	msg := &mail.Message{
		From:    c.from,
		To:      []string{in.Agency.FoiaEmail.String},
		CC:      in.CC,
		BCC:     in.BCC,
		Subject: fmt.Sprintf("%s Request: %s", fields["public_records_act"], in.Content.Subject),
		Text:    textBody,
		HTML:    htmlBody,
	}

	messageID, err := c.mailer.Send(ctx, msg)
	if err != nil {
		return nil, err
	}

	label := LabelFiled
	if resolved.usedFallback {
		label = LabelFallback
	}
	receipt := &DeliveryReceipt{
		MessageID:    messageID,
		Label:        label,
		UsedFallback: resolved.usedFallback,
	}

	labelID, err := c.ensureLabel(ctx, label)
	if err != nil {
		return receipt, fmt.Errorf("label sent message %s: %w", messageID, err)
	}
	if err := c.mailer.ApplyLabels(ctx, messageID, []string{labelID}); err != nil {
		return receipt, fmt.Errorf("label sent message %s: %w", messageID, err)
	}

	return receipt, nil
}

// ensureLabel finds a label id by name, creating the label if missing.
func (c *Composer) ensureLabel(ctx context.Context, name string) (string, error) {
	labels, err := c.mailer.ListLabels(ctx)
	if err != nil {
		return "", err
	}
	if id, ok := labels[name]; ok {
		return id, nil
	}
	return c.mailer.CreateLabel(ctx, name)
}
