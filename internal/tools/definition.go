package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fullbor/finance-mcp/internal/apperrors"
)

// Call runs a tool whose input has already been validated.
type Call func(ctx context.Context) (any, error)

// Definition pairs an MCP tool schema with its typed handler.
type Definition struct {
	Tool mcp.Tool
	bind func(req mcp.CallToolRequest) (Call, error)
}

// Name returns the tool name.
func (d Definition) Name() string {
	return d.Tool.Name
}

// Bind decodes and validates args, returning the call to execute.
// Failures are always *apperrors.Error of kind Validation.
func (d Definition) Bind(args any) (Call, error) {
	var req mcp.CallToolRequest
	req.Params.Name = d.Tool.Name
	req.Params.Arguments = args
	return d.bind(req)
}

// Define builds a Definition whose input type In starts from defaults(),
// is overlaid with the call arguments and checked against its validate tags.
func Define[In any](tool mcp.Tool, defaults func() In, run func(context.Context, In) (any, error)) Definition {
	return Definition{
		Tool: tool,
		bind: func(req mcp.CallToolRequest) (Call, error) {
			in := defaults()
			if err := req.BindArguments(&in); err != nil {
				return nil, decodeError(err)
			}
			if err := validate.Struct(in); err != nil {
				return nil, validationError(err)
			}
			return func(ctx context.Context) (any, error) {
				return run(ctx, in)
			}, nil
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation(typeErr.Field, fmt.Sprintf("%s must be a %s", typeErr.Field, jsonKind(typeErr.Type)))
	}
	return apperrors.Validation("", "invalid arguments: "+err.Error())
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "whole number"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.Kind().String()
	}
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Validation("", err.Error())
	}
	fe := fieldErrs[0]
	field := fe.Field()

	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", field)
	case "min", "gte":
		msg = fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		msg = fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		msg = fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		msg = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		msg = fmt.Sprintf("%s is invalid", field)
	}
	return apperrors.Validation(field, msg)
}
