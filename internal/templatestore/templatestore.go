// Package templatestore manages the uploaded request-template assets:
// HTML documents containing {{ field }} placeholders, stored on disk.
package templatestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MaxTemplateSize is the upload size ceiling.
const MaxTemplateSize = 2 * 1024 * 1024

var (
	// ErrBadExtension indicates an upload with an unsupported file type.
	ErrBadExtension = errors.New("template must be an .html or .htm file")
	// ErrTooLarge indicates an upload over the size ceiling.
	ErrTooLarge = errors.New("template exceeds the 2 MiB size limit")
	// ErrMissingRecordsField indicates a template without the required
	// requested_records placeholder.
	ErrMissingRecordsField = errors.New("template must contain a {{ requested_records }} placeholder")
)

var (
	validExtensions = map[string]bool{".html": true, ".htm": true}

	recordsPattern = regexp.MustCompile(`\{\{\s*requested_records\s*\}\}`)
)

// Store reads template assets from a single directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Exists reports whether the named asset is present.
func (s *Store) Exists(name string) bool {
	if name == "" {
		return false
	}
	info, err := os.Stat(s.path(name))
	return err == nil && !info.IsDir()
}

// HTML returns the rich form of an asset: the raw stored document.
func (s *Store) HTML(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(data), nil
}

// Text returns the plain-text form of an asset, with markup stripped.
func (s *Store) Text(name string) (string, error) {
	html, err := s.HTML(name)
	if err != nil {
		return "", err
	}
	return extractText(html)
}

// Save validates and stores an uploaded template.
func (s *Store) Save(name string, data []byte) error {
	if err := Validate(name, data); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create template dir: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0o644); err != nil {
		return fmt.Errorf("write template %s: %w", name, err)
	}
	return nil
}

// path keeps asset lookups inside the store directory.
func (s *Store) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Validate enforces the upload preconditions: accepted extension, size
// ceiling, and the required requested-records placeholder somewhere in the
// document body.
func Validate(name string, data []byte) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !validExtensions[ext] {
		return ErrBadExtension
	}
	if len(data) > MaxTemplateSize {
		return ErrTooLarge
	}
	text, err := extractText(string(data))
	if err != nil {
		return err
	}
	if !recordsPattern.MatchString(text) {
		return ErrMissingRecordsField
	}
	return nil
}

// extractText strips markup, joining block-level text with newlines.
func extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse template html: %w", err)
	}

	var lines []string
	blocks := doc.Find("p, h1, h2, h3, h4, li, div")
	if blocks.Length() == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	blocks.Each(func(_ int, sel *goquery.Selection) {
		// Skip containers whose text is fully covered by nested blocks.
		if sel.Children().Filter("p, h1, h2, h3, h4, li, div").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})
	return strings.Join(lines, "\n"), nil
}
