package foia

import (
	"fmt"
	"regexp"
)

// placeholderPattern matches {{ identifier }} markers: alphanumeric or
// underscore identifiers, optional surrounding whitespace.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_]+)\s*\}\}`)

// renderTemplate substitutes every placeholder in doc with its value from
// fields. A placeholder with no resolution fails with ErrTemplateMalformed.
func renderTemplate(doc string, fields map[string]string) (string, error) {
	var missing []string
	out := placeholderPattern.ReplaceAllStringFunc(doc, func(marker string) string {
		name := placeholderPattern.FindStringSubmatch(marker)[1]
		value, ok := fields[name]
		if !ok {
			missing = append(missing, name)
			return marker
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrTemplateMalformed, missing[0])
	}
	return out, nil
}
