package gqllog

import (
	"encoding/json"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

const redactedValue = "***"

// Stringifier renders a parsed document and its variables as one log line.
type Stringifier interface {
	Stringify(doc *ast.QueryDocument, variables map[string]any) string
}

// StringifierFunc adapts a function to Stringifier.
type StringifierFunc func(doc *ast.QueryDocument, variables map[string]any) string

// Stringify calls f.
func (f StringifierFunc) Stringify(doc *ast.QueryDocument, variables map[string]any) string {
	return f(doc, variables)
}

// DocumentStringifier prints documents with the gqlparser formatter on a single
// line, followed by the variables as JSON. Variables named in redact print as "***".
type DocumentStringifier struct {
	redact map[string]struct{}
}

// NewDocumentStringifier creates a DocumentStringifier that masks the named variables.
func NewDocumentStringifier(redact ...string) *DocumentStringifier {
	s := &DocumentStringifier{redact: make(map[string]struct{}, len(redact))}
	for _, name := range redact {
		s.redact[name] = struct{}{}
	}
	return s
}

// Stringify implements Stringifier.
func (s *DocumentStringifier) Stringify(doc *ast.QueryDocument, variables map[string]any) string {
	if doc == nil {
		return ""
	}

	var sb strings.Builder
	formatter.NewFormatter(&sb).FormatQueryDocument(doc)

	lines := strings.Split(sb.String(), "\n")
	parts := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	text := strings.Join(parts, " ")

	if len(variables) == 0 {
		return text
	}

	vars := make(map[string]any, len(variables))
	for name, value := range variables {
		if _, ok := s.redact[name]; ok {
			value = redactedValue
		}
		vars[name] = value
	}

	encoded, err := json.Marshal(vars)
	if err != nil {
		return text
	}
	return text + " variables: " + string(encoded)
}
