package gqllog

import (
	"github.com/vektah/gqlparser/v2/ast"
)

const schemaField = "__schema"

// IsSchemaQuery reports whether any query operation in doc selects __schema at
// its top level. Nested selections and fragment spreads are not inspected.
func IsSchemaQuery(doc *ast.QueryDocument) bool {
	if doc == nil {
		return false
	}

	for _, op := range doc.Operations {
		if op.Operation != ast.Query {
			continue
		}
		for _, sel := range op.SelectionSet {
			if field, ok := sel.(*ast.Field); ok && field.Name == schemaField {
				return true
			}
		}
	}
	return false
}
