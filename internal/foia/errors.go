package foia

import "errors"

var (
	// ErrTemplateNotFound indicates no resolvable template asset exists
	// for the targeted agency. Fatal to that one request item.
	ErrTemplateNotFound = errors.New("no template found for agency")
	// ErrTemplateMalformed indicates the template references a placeholder
	// with no resolved value.
	ErrTemplateMalformed = errors.New("template references an unknown field")
	// ErrInvalidRecipient indicates a recipient address failed syntax
	// validation. Raised before any mail call is made.
	ErrInvalidRecipient = errors.New("invalid recipient address")
)
