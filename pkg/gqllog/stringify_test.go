package gqllog

import (
	"strings"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"
)

func TestDocumentStringifier(t *testing.T) {
	doc := mustParse(t, `
		query Check($input: Int!, $token: String) {
			healthCheck(input: $input)
			label: health
		}
	`)

	tests := []struct {
		name      string
		redact    []string
		variables map[string]any
		contains  []string
		excludes  []string
	}{
		{
			name:     "no variables",
			contains: []string{"query Check", "healthCheck", "label: health"},
			excludes: []string{"variables:"},
		},
		{
			name:      "variables appended",
			variables: map[string]any{"input": 1, "token": "abc"},
			contains:  []string{`variables: {"input":1,"token":"abc"}`},
		},
		{
			name:      "redacted variables",
			redact:    []string{"token"},
			variables: map[string]any{"input": 1, "token": "abc"},
			contains:  []string{`variables: {"input":1,"token":"***"}`},
			excludes:  []string{"abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDocumentStringifier(tt.redact...).Stringify(doc, tt.variables)

			if strings.ContainsAny(got, "\n\t") {
				t.Errorf("Stringify() = %q, want a single line", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Stringify() = %q, want it to contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Stringify() = %q, want it not to contain %q", got, unwanted)
				}
			}
		})
	}
}

func TestDocumentStringifierNil(t *testing.T) {
	if got := NewDocumentStringifier().Stringify(nil, map[string]any{"a": 1}); got != "" {
		t.Errorf("Stringify(nil) = %q, want empty", got)
	}
}

func TestDocumentStringifierKeepsCallerVariables(t *testing.T) {
	vars := map[string]any{"token": "abc"}
	NewDocumentStringifier("token").Stringify(mustParse(t, `{ health }`), vars)

	if vars["token"] != "abc" {
		t.Errorf("variables mutated: %v", vars)
	}
}

func TestStringifierFunc(t *testing.T) {
	var s Stringifier = StringifierFunc(func(doc *ast.QueryDocument, _ map[string]any) string {
		return "ops=" + doc.Operations[0].Name
	})

	if got := s.Stringify(mustParse(t, `query Health { health }`), nil); got != "ops=Health" {
		t.Errorf("Stringify() = %q, want %q", got, "ops=Health")
	}
}
