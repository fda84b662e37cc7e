package gqllog

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/errcode"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

const extensionName = "GraphQLQueryLogger"

var (
	_ graphql.HandlerExtension        = (*Extension)(nil)
	_ graphql.OperationContextMutator = (*Extension)(nil)
	_ graphql.ResponseInterceptor     = (*Extension)(nil)
)

// stage is the pipeline step a response belongs to.
type stage int

const (
	stageExecute stage = iota
	stageParse
	stageValidation
	stageStream
)

// ExtensionName implements graphql.HandlerExtension.
func (e *Extension) ExtensionName() string {
	return extensionName
}

// Validate implements graphql.HandlerExtension.
func (e *Extension) Validate(graphql.ExecutableSchema) error {
	return nil
}

// MutateOperationContext runs the parse hook. gqlgen calls it once the query
// has been parsed and validated, with the document and coerced variables in opCtx.
func (e *Extension) MutateOperationContext(ctx context.Context, opCtx *graphql.OperationContext) *gqlerror.Error {
	_, _ = e.ParseQuery(ctx, opCtx.RawQuery, opCtx.Variables,
		func(context.Context, string, map[string]any) (*ast.QueryDocument, error) {
			return opCtx.Doc, nil
		})
	return nil
}

// InterceptResponse routes a response to the validation or execute hook.
// Parse failures, subscription events and the end-of-stream nil pass through
// without logging.
func (e *Extension) InterceptResponse(ctx context.Context, next graphql.ResponseHandler) *graphql.Response {
	resp := next(ctx)
	if resp == nil {
		return nil
	}

	qc, ok := QueryContextFrom(ctx)
	if !ok {
		return resp
	}

	switch responseStage(ctx, qc, resp) {
	case stageParse, stageStream:
		return resp
	case stageValidation:
		e.Validation(ctx, func(context.Context) gqlerror.List {
			return resp.Errors
		})
		return resp
	}

	return e.Execute(ctx, operationName(ctx), func(context.Context) *graphql.Response {
		return resp
	})
}

// responseStage works out where resp comes from using the operation state,
// not the presented errors, which a custom error presenter may rewrite.
//
// gqlgen leaves opCtx.Doc nil for both parse and validation failures, so the
// raw query is parsed again to tell them apart. A document that never reached
// the parse hook failed validation or variable coercion. Requests rejected
// before parsing started, such as an unknown persisted query, fall back to the
// error code.
func responseStage(ctx context.Context, qc *QueryContext, resp *graphql.Response) stage {
	if !graphql.HasOperationContext(ctx) {
		return stageFromCode(resp)
	}
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Doc == nil && opCtx.Stats.Parsing.Start.IsZero() {
		return stageFromCode(resp)
	}

	switch {
	case opCtx.Doc == nil:
		if _, err := parser.ParseQuery(&ast.Source{Input: opCtx.RawQuery}); err != nil {
			return stageParse
		}
		return stageValidation
	case !qc.Parsed():
		return stageValidation
	case opCtx.Operation != nil && opCtx.Operation.Operation == ast.Subscription:
		return stageStream
	}
	return stageExecute
}

// stageFromCode classifies a response dispatched without an operation
// context by the gqlgen error code of its first error.
func stageFromCode(resp *graphql.Response) stage {
	if len(resp.Data) != 0 || len(resp.Errors) == 0 {
		return stageExecute
	}

	code, _ := resp.Errors[0].Extensions["code"].(string)
	switch code {
	case errcode.ParseFailed:
		return stageParse
	case errcode.ValidationFailed:
		return stageValidation
	}
	return stageExecute
}

func operationName(ctx context.Context) string {
	if !graphql.HasOperationContext(ctx) {
		return ""
	}

	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.OperationName != "" {
		return opCtx.OperationName
	}
	if opCtx.Operation != nil {
		return opCtx.Operation.Name
	}
	return ""
}
