package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/example/ec-shop-core/internal/apperr"
)

// Validate coerces raw input against the schema and returns the cleaned
// field map. Failures return a Validation error carrying one entry per
// violated constraint. A nil input is treated as an empty object.
func (s *Schema) Validate(raw any) (map[string]any, error) {
	input, err := asObject(raw)
	if err != nil {
		return nil, err
	}

	cleaned := make(map[string]any, len(s.fields))
	var fieldErrs []apperr.FieldError

	for _, f := range s.fields {
		value, present := input[f.name]
		if !present || value == nil || value == "" {
			if f.hasDefault {
				cleaned[f.name] = f.def
			} else if f.required {
				fieldErrs = append(fieldErrs, apperr.FieldError{Field: f.name, Message: "is required"})
			}
			continue
		}

		coerced, ferr := f.coerce(value)
		if ferr != nil {
			fieldErrs = append(fieldErrs, *ferr)
			continue
		}
		cleaned[f.name] = coerced
	}

	if len(fieldErrs) > 0 {
		return nil, apperr.Validation("invalid input", fieldErrs)
	}
	return cleaned, nil
}

// coerce converts a single present value to the field's type and checks its
// constraints.
func (f *Field) coerce(value any) (any, *apperr.FieldError) {
	switch f.kind {
	case kindString:
		return f.coerceString(value)
	case kindEnum:
		return f.coerceEnum(value)
	case kindInt:
		return f.coerceInt(value)
	case kindBool:
		return f.coerceBool(value)
	case kindDate:
		return f.coerceDate(value)
	}
	return nil, &apperr.FieldError{Field: f.name, Message: "unsupported field type"}
}

func (f *Field) coerceString(value any) (any, *apperr.FieldError) {
	s, ok := value.(string)
	if !ok {
		return nil, &apperr.FieldError{Field: f.name, Message: "must be a string"}
	}
	if f.minLen != nil && len(s) < *f.minLen {
		return nil, &apperr.FieldError{Field: f.name, Message: fmt.Sprintf("must be at least %d characters", *f.minLen)}
	}
	if f.maxLen != nil && len(s) > *f.maxLen {
		return nil, &apperr.FieldError{Field: f.name, Message: fmt.Sprintf("must be at most %d characters", *f.maxLen)}
	}
	return s, nil
}

func (f *Field) coerceEnum(value any) (any, *apperr.FieldError) {
	s, ok := value.(string)
	if !ok {
		return nil, &apperr.FieldError{Field: f.name, Message: "must be a string"}
	}
	for _, allowed := range f.enum {
		if s == allowed {
			return s, nil
		}
	}
	return nil, &apperr.FieldError{
		Field:   f.name,
		Message: "must be one of: " + strings.Join(f.enum, ", "),
	}
}

func (f *Field) coerceInt(value any) (any, *apperr.FieldError) {
	var n int
	switch v := value.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, &apperr.FieldError{Field: f.name, Message: "must be an integer"}
		}
		n = int(v)
	case json.Number:
		parsed, err := strconv.Atoi(v.String())
		if err != nil {
			return nil, &apperr.FieldError{Field: f.name, Message: "must be an integer"}
		}
		n = parsed
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, &apperr.FieldError{Field: f.name, Message: "must be an integer"}
		}
		n = parsed
	default:
		return nil, &apperr.FieldError{Field: f.name, Message: "must be an integer"}
	}

	if f.clampLo != nil && n < *f.clampLo {
		n = *f.clampLo
	}
	if f.clampHi != nil && n > *f.clampHi {
		n = *f.clampHi
	}
	if f.min != nil && n < *f.min {
		return nil, &apperr.FieldError{Field: f.name, Message: fmt.Sprintf("must be at least %d", *f.min)}
	}
	if f.max != nil && n > *f.max {
		return nil, &apperr.FieldError{Field: f.name, Message: fmt.Sprintf("must be at most %d", *f.max)}
	}
	return n, nil
}

func (f *Field) coerceBool(value any) (any, *apperr.FieldError) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &apperr.FieldError{Field: f.name, Message: "must be a boolean"}
		}
		return parsed, nil
	}
	return nil, &apperr.FieldError{Field: f.name, Message: "must be a boolean"}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func (f *Field) coerceDate(value any) (any, *apperr.FieldError) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
	}
	return nil, &apperr.FieldError{Field: f.name, Message: "must be an ISO 8601 date"}
}

// asObject accepts the raw usecase input shapes: nil, a decoded JSON object,
// or a string map (query parameters).
func asObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, nil
	}
	return nil, apperr.Validation("invalid input", []apperr.FieldError{
		{Field: "", Message: "input must be an object"},
	})
}

// Parse validates raw input and decodes the cleaned fields into T. Field
// names must match T's json tags.
func Parse[T any](s *Schema, raw any) (T, error) {
	var out T
	cleaned, err := s.Validate(raw)
	if err != nil {
		return out, err
	}
	data, err := json.Marshal(cleaned)
	if err != nil {
		return out, apperr.Internal("encode validated input", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, apperr.Internal("decode validated input", err)
	}
	return out, nil
}

// Result is the non-throwing validation outcome for call sites that prefer
// branching over error propagation.
type Result[T any] struct {
	Success bool
	Data    T
	Errors  []apperr.FieldError
}

// TryParse is Parse with a discriminated result instead of an error.
func TryParse[T any](s *Schema, raw any) Result[T] {
	out, err := Parse[T](s, raw)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindValidation {
			return Result[T]{Errors: appErr.FieldErrors}
		}
		return Result[T]{Errors: []apperr.FieldError{{Field: "", Message: err.Error()}}}
	}
	return Result[T]{Success: true, Data: out}
}

// ParseCtx is Parse followed by a context-aware refinement, for schemas whose
// constraints need a collaborator lookup (for example uniqueness checks).
func ParseCtx[T any](ctx context.Context, s *Schema, raw any, refine func(context.Context, T) error) (T, error) {
	out, err := Parse[T](s, raw)
	if err != nil {
		return out, err
	}
	if refine != nil {
		if err := refine(ctx, out); err != nil {
			return out, err
		}
	}
	return out, nil
}
