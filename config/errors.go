package config

import (
	"fmt"
	"strings"
)

// StructuralError reports input that cannot be read as a site config at
// all. Loading stops at the first one.
type StructuralError struct {
	Source string
	Msg    string
	Err    error
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StructuralError) Unwrap() error { return e.Err }

const (
	CodeRequired      = "required"
	CodeBasePath      = "base_path"
	CodeEmptyLink     = "empty_link"
	CodeInvalidLink   = "invalid_link"
	CodeDuplicatePath = "duplicate_path"
	CodeNegativeDepth = "negative_depth"
	CodeSharedNode    = "shared_node"
	CodeEmptyItem     = "empty_item"
	CodeMissingPage   = "missing_page"
)

// ValidationError is a single semantic problem. Field is the dotted path
// to the offending value, Group the trail of sidebar group titles above it.
type ValidationError struct {
	Field   string `json:"field" yaml:"field"`
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
}

func (e ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Field)
	if e.Group != "" {
		fmt.Fprintf(&b, " (in %s)", e.Group)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("%d validation error(s):\n  %s", len(v), strings.Join(msgs, "\n  "))
}

// Err returns nil when there is nothing to report.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ByCode returns the errors carrying the given code.
func (v ValidationErrors) ByCode(code string) ValidationErrors {
	var out ValidationErrors
	for _, e := range v {
		if e.Code == code {
			out = append(out, e)
		}
	}
	return out
}
