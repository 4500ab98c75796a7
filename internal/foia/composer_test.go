package foia

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/acahn/sourcedesk/internal/mail"
	"github.com/acahn/sourcedesk/internal/model"
)

// memTemplates is an in-memory TemplateStore keyed by asset name.
type memTemplates map[string]string

func (m memTemplates) Exists(name string) bool { _, ok := m[name]; return ok }

func (m memTemplates) HTML(name string) (string, error) {
	doc, ok := m[name]
	if !ok {
		return "", fmt.Errorf("no asset %s", name)
	}
	return doc, nil
}

func (m memTemplates) Text(name string) (string, error) { return m.HTML(name) }

const requestDoc = `Dear {{ recipient_name }},

Under the {{ public_records_act }}, I request {{ requested_records }}.

Please respond within {{ max_response_time }}.`

func testAgency() model.Agency {
	return model.Agency{
		ID:            1,
		Name:          "Dept of Transportation",
		StreetAddress: "1 Main St",
		Municipality:  "Albany",
		ZipCode:       "12201",
		FoiaEmail:     sql.NullString{String: "records@dot.example.gov", Valid: true},
	}
}

func testJurisdiction() *model.Jurisdiction {
	return &model.Jurisdiction{
		Code:             "NY",
		StatuteName:      sql.NullString{String: "Freedom of Information Law", Valid: true},
		MaxResponseDays:  sql.NullInt64{Int64: 5, Valid: true},
		BusinessDaysOnly: sql.NullBool{Bool: true, Valid: true},
	}
}

func testInput() SendInput {
	return SendInput{
		Content: model.RequestContent{
			Subject:          "2024 towing contracts",
			RequestedRecords: "all towing contracts from 2024",
		},
		Item:         model.RequestItem{RecipientName: "Jordan Smith"},
		Agency:       testAgency(),
		Jurisdiction: testJurisdiction(),
	}
}

func TestComposeAndSend(t *testing.T) {
	t.Run("renders and labels a jurisdiction-template send", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc, "ny.html": requestDoc}
		recorder := mail.NewRecorder(map[string]string{LabelFiled: "lbl-1"})
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.Jurisdiction.TemplateAsset = sql.NullString{String: "ny.html", Valid: true}

		receipt, err := composer.ComposeAndSend(context.Background(), in)
		if err != nil {
			t.Fatalf("ComposeAndSend() error = %v", err)
		}
		if receipt.Label != LabelFiled || receipt.UsedFallback {
			t.Errorf("receipt = %+v, want label %q without fallback", receipt, LabelFiled)
		}

		if len(recorder.Sent) != 1 {
			t.Fatalf("sent %d messages, want 1", len(recorder.Sent))
		}
		msg := recorder.Sent[0]
		if want := "Freedom of Information Law Request: 2024 towing contracts"; msg.Subject != want {
			t.Errorf("subject = %q, want %q", msg.Subject, want)
		}
		if msg.To[0] != "records@dot.example.gov" {
			t.Errorf("to = %q", msg.To[0])
		}
		if !strings.Contains(msg.Text, "Dear Jordan Smith") {
			t.Errorf("body missing recipient: %q", msg.Text)
		}
		if !strings.Contains(msg.Text, "5 business days") {
			t.Errorf("body missing response window: %q", msg.Text)
		}
		if strings.Contains(msg.Text, "{{") {
			t.Errorf("body contains unrendered placeholders: %q", msg.Text)
		}
		if got := recorder.Applied[receipt.MessageID]; len(got) != 1 || got[0] != "lbl-1" {
			t.Errorf("applied labels = %v, want [lbl-1]", got)
		}
	})

	t.Run("base fallback gets the unfinished label", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		receipt, err := composer.ComposeAndSend(context.Background(), testInput())
		if err != nil {
			t.Fatalf("ComposeAndSend() error = %v", err)
		}
		if receipt.Label != LabelFallback || !receipt.UsedFallback {
			t.Errorf("receipt = %+v, want fallback label %q", receipt, LabelFallback)
		}
		// Label was not pre-seeded, so it must have been created.
		if _, ok := recorder.Labels[LabelFallback]; !ok {
			t.Errorf("label %q was not created", LabelFallback)
		}
	})

	t.Run("federal agency prefers the federal template", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc, "federal.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.Agency.IsFederal = true

		receipt, err := composer.ComposeAndSend(context.Background(), in)
		if err != nil {
			t.Fatalf("ComposeAndSend() error = %v", err)
		}
		if receipt.UsedFallback {
			t.Error("federal template present, fallback should not be used")
		}
		msg := recorder.Sent[0]
		if want := "Freedom of Information Act Request: 2024 towing contracts"; msg.Subject != want {
			t.Errorf("subject = %q, want %q", msg.Subject, want)
		}
		if !strings.Contains(msg.Text, "20 business days") {
			t.Errorf("body missing the federal response window: %q", msg.Text)
		}
	})

	t.Run("federal agency falls back to base when no federal asset", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.Agency.IsFederal = true

		receipt, err := composer.ComposeAndSend(context.Background(), in)
		if err != nil {
			t.Fatalf("ComposeAndSend() error = %v", err)
		}
		if !receipt.UsedFallback || receipt.Label != LabelFallback {
			t.Errorf("receipt = %+v, want fallback", receipt)
		}
	})

	t.Run("named jurisdiction asset that is missing is an error", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.Jurisdiction.TemplateAsset = sql.NullString{String: "gone.html", Valid: true}

		_, err := composer.ComposeAndSend(context.Background(), in)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Fatalf("error = %v, want ErrTemplateNotFound", err)
		}
		if recorder.Calls() != 0 {
			t.Errorf("mailer was called %d times before resolution failed", recorder.Calls())
		}
	})

	t.Run("default recipient when no officer named", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.Item.RecipientName = "  "

		if _, err := composer.ComposeAndSend(context.Background(), in); err != nil {
			t.Fatalf("ComposeAndSend() error = %v", err)
		}
		if !strings.Contains(recorder.Sent[0].Text, "Dear "+DefaultRecipientName) {
			t.Errorf("body = %q, want default recipient", recorder.Sent[0].Text)
		}
	})

	t.Run("invalid cc fails before any mail call", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.CC = []string{"not-an-email"}

		_, err := composer.ComposeAndSend(context.Background(), in)
		if !errors.Is(err, ErrInvalidRecipient) {
			t.Fatalf("error = %v, want ErrInvalidRecipient", err)
		}
		if recorder.Calls() != 0 {
			t.Errorf("mailer was called %d times for an invalid recipient", recorder.Calls())
		}
	})

	t.Run("agency without a records email cannot be filed with", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		in := testInput()
		in.Agency.FoiaEmail = sql.NullString{}

		if _, err := composer.ComposeAndSend(context.Background(), in); !errors.Is(err, ErrInvalidRecipient) {
			t.Fatalf("error = %v, want ErrInvalidRecipient", err)
		}

		// An empty-but-non-null email column is just as unusable.
		in.Agency.FoiaEmail = sql.NullString{String: "", Valid: true}
		if _, err := composer.ComposeAndSend(context.Background(), in); !errors.Is(err, ErrInvalidRecipient) {
			t.Fatalf("error = %v, want ErrInvalidRecipient for empty address", err)
		}
	})

	t.Run("malformed template placeholder surfaces", func(t *testing.T) {
		templates := memTemplates{"base.html": "Records: {{ requested_records }} and {{ bogus_field }}"}
		recorder := mail.NewRecorder(nil)
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		_, err := composer.ComposeAndSend(context.Background(), testInput())
		if !errors.Is(err, ErrTemplateMalformed) {
			t.Fatalf("error = %v, want ErrTemplateMalformed", err)
		}
		if len(recorder.Sent) != 0 {
			t.Error("nothing should have been sent")
		}
	})

	t.Run("batch failure leaves earlier sends intact", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc, "ny.html": requestDoc}
		recorder := mail.NewRecorder(map[string]string{LabelFiled: "lbl-1"})
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		first := testInput()
		first.Jurisdiction.TemplateAsset = sql.NullString{String: "ny.html", Valid: true}

		second := testInput()
		second.Agency.Name = "Dept of Corrections"
		second.Jurisdiction.TemplateAsset = sql.NullString{String: "gone.html", Valid: true}

		receipt, err := composer.ComposeAndSend(context.Background(), first)
		if err != nil {
			t.Fatalf("first send error = %v", err)
		}
		if _, err := composer.ComposeAndSend(context.Background(), second); !errors.Is(err, ErrTemplateNotFound) {
			t.Fatalf("second send error = %v, want ErrTemplateNotFound", err)
		}

		// The first agency's send and labeling survive the second failure.
		if len(recorder.Sent) != 1 {
			t.Errorf("sent %d messages, want 1", len(recorder.Sent))
		}
		if got := recorder.Applied[receipt.MessageID]; len(got) != 1 {
			t.Errorf("applied labels = %v", got)
		}
	})

	t.Run("send failure propagates", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		recorder.SendErr = errors.New("gateway down")
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		receipt, err := composer.ComposeAndSend(context.Background(), testInput())
		if err == nil {
			t.Fatal("expected send error")
		}
		if receipt != nil {
			t.Errorf("receipt = %+v, want nil when nothing was delivered", receipt)
		}
	})

	t.Run("labeling failure still reports the delivery", func(t *testing.T) {
		templates := memTemplates{"base.html": requestDoc}
		recorder := mail.NewRecorder(nil)
		recorder.LabelErr = errors.New("labels api down")
		composer := NewComposer(templates, recorder, "me@example.com", "base.html", "federal.html")

		receipt, err := composer.ComposeAndSend(context.Background(), testInput())
		if err == nil {
			t.Fatal("expected labeling error")
		}
		if !strings.Contains(err.Error(), "label sent message") {
			t.Errorf("error = %v, want a post-send labeling error", err)
		}
		if receipt == nil || receipt.MessageID == "" {
			t.Fatalf("receipt = %+v, want the delivered message id", receipt)
		}
		if len(recorder.Sent) != 1 {
			t.Errorf("sent %d messages, want 1", len(recorder.Sent))
		}
	})
}

func TestStatuteName(t *testing.T) {
	tests := []struct {
		name   string
		agency model.Agency
		jur    *model.Jurisdiction
		want   string
	}{
		{"federal", model.Agency{IsFederal: true}, testJurisdiction(), "Freedom of Information Act"},
		{"configured statute", model.Agency{}, testJurisdiction(), "Freedom of Information Law"},
		{"no jurisdiction", model.Agency{}, nil, "Public Records"},
		{"jurisdiction without statute name", model.Agency{}, &model.Jurisdiction{Code: "AL"}, "Public Records"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statuteName(tt.agency, tt.jur); got != tt.want {
				t.Errorf("statuteName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMaxResponseTime(t *testing.T) {
	calendarJur := testJurisdiction()
	calendarJur.BusinessDaysOnly = sql.NullBool{Bool: false, Valid: true}
	calendarJur.MaxResponseDays = sql.NullInt64{Int64: 10, Valid: true}

	tests := []struct {
		name   string
		agency model.Agency
		jur    *model.Jurisdiction
		want   string
	}{
		{"federal", model.Agency{IsFederal: true}, nil, "20 business days"},
		{"business days", model.Agency{}, testJurisdiction(), "5 business days"},
		{"calendar days", model.Agency{}, calendarJur, "10 days"},
		{"no deadline", model.Agency{}, &model.Jurisdiction{Code: "AL"}, ""},
		{"no jurisdiction", model.Agency{}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maxResponseTime(tt.agency, tt.jur); got != tt.want {
				t.Errorf("maxResponseTime() = %q, want %q", got, tt.want)
			}
		})
	}
}
