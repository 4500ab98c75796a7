package foia

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	fields := map[string]string{
		"recipient_name":    "Jordan Smith",
		"requested_records": "all towing contracts from 2024",
	}

	t.Run("substitutes every placeholder", func(t *testing.T) {
		doc := "Dear {{ recipient_name }},\n\nI request {{requested_records}}."
		got, err := renderTemplate(doc, fields)
		if err != nil {
			t.Fatalf("renderTemplate() error = %v", err)
		}
		want := "Dear Jordan Smith,\n\nI request all towing contracts from 2024."
		if got != want {
			t.Errorf("renderTemplate() = %q, want %q", got, want)
		}
		if strings.Contains(got, "{{") {
			t.Error("rendered output still contains placeholder markers")
		}
	})

	t.Run("unknown placeholder is malformed", func(t *testing.T) {
		_, err := renderTemplate("Hello {{ no_such_field }}", fields)
		if !errors.Is(err, ErrTemplateMalformed) {
			t.Fatalf("renderTemplate() error = %v, want ErrTemplateMalformed", err)
		}
		if !strings.Contains(err.Error(), "no_such_field") {
			t.Errorf("error %q should name the offending field", err)
		}
	})

	t.Run("repeated placeholders all resolve", func(t *testing.T) {
		got, err := renderTemplate("{{ recipient_name }} / {{ recipient_name }}", fields)
		if err != nil {
			t.Fatalf("renderTemplate() error = %v", err)
		}
		if got != "Jordan Smith / Jordan Smith" {
			t.Errorf("renderTemplate() = %q", got)
		}
	})

	t.Run("document without placeholders passes through", func(t *testing.T) {
		got, err := renderTemplate("plain text only", fields)
		if err != nil || got != "plain text only" {
			t.Errorf("renderTemplate() = %q, %v", got, err)
		}
	})
}
