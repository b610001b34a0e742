package schema

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/ec-shop-core/internal/apperr"
)

type paginationInput struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func paginationSchema() *Schema {
	return New(
		Int("page").Default(1).Min(1),
		Int("limit").Default(20).Clamp(1, 100),
	)
}

// ============================================
// Coercion Tests
// ============================================

func TestParse_StringToIntCoercion(t *testing.T) {
	out, err := Parse[paginationInput](paginationSchema(), map[string]any{
		"page":  "2",
		"limit": "10",
	})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Page)
	assert.Equal(t, 10, out.Limit)
}

func TestParse_JSONNumberCoercion(t *testing.T) {
	// Decoded JSON bodies deliver numbers as float64.
	out, err := Parse[paginationInput](paginationSchema(), map[string]any{
		"page": float64(3),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, out.Page)
	assert.Equal(t, 20, out.Limit)
}

func TestParse_FractionRejected(t *testing.T) {
	_, err := Parse[paginationInput](paginationSchema(), map[string]any{
		"page": 1.5,
	})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestParse_Defaults(t *testing.T) {
	out, err := Parse[paginationInput](paginationSchema(), nil)

	require.NoError(t, err)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 20, out.Limit)
}

func TestParse_Clamp(t *testing.T) {
	out, err := Parse[paginationInput](paginationSchema(), map[string]any{
		"limit": "500",
	})

	require.NoError(t, err)
	assert.Equal(t, 100, out.Limit)

	out, err = Parse[paginationInput](paginationSchema(), map[string]any{
		"limit": 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Limit)
}

func TestParse_QueryStringMap(t *testing.T) {
	out, err := Parse[paginationInput](paginationSchema(), map[string]string{
		"page": "4",
	})

	require.NoError(t, err)
	assert.Equal(t, 4, out.Page)
}

func TestValidate_DateCoercion(t *testing.T) {
	s := New(Date("since"))

	cleaned, err := s.Validate(map[string]any{"since": "2026-03-01T10:00:00Z"})
	require.NoError(t, err)
	since, ok := cleaned["since"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2026, since.Year())

	cleaned, err = s.Validate(map[string]any{"since": "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, time.March, cleaned["since"].(time.Time).Month())

	_, err = s.Validate(map[string]any{"since": "yesterday"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestValidate_BoolCoercion(t *testing.T) {
	s := New(Bool("active"))

	cleaned, err := s.Validate(map[string]any{"active": "true"})
	require.NoError(t, err)
	assert.Equal(t, true, cleaned["active"])
}

// ============================================
// Constraint Tests
// ============================================

func TestValidate_RequiredMissing(t *testing.T) {
	s := New(
		String("name").Required().MaxLen(200),
		Int("price").Required().Min(0),
	)

	_, err := s.Validate(map[string]any{})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Len(t, appErr.FieldErrors, 2)
}

func TestValidate_OneErrorPerConstraint(t *testing.T) {
	s := New(
		String("name").Required().MaxLen(3),
		Int("price").Min(0),
		Enum("status", "draft", "published"),
	)

	_, err := s.Validate(map[string]any{
		"name":   "too long",
		"price":  -5,
		"status": "bogus",
	})

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	require.Len(t, appErr.FieldErrors, 3)

	fields := make([]string, 0, 3)
	for _, fe := range appErr.FieldErrors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"name", "price", "status"}, fields)
}

func TestValidate_EnumAccepted(t *testing.T) {
	s := New(Enum("status", "draft", "published", "archived"))

	cleaned, err := s.Validate(map[string]any{"status": "published"})
	require.NoError(t, err)
	assert.Equal(t, "published", cleaned["status"])
}

func TestValidate_NonObjectInput(t *testing.T) {
	s := New(String("name"))

	_, err := s.Validate("not an object")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

// ============================================
// TryParse / ParseCtx Tests
// ============================================

func TestTryParse_Success(t *testing.T) {
	res := TryParse[paginationInput](paginationSchema(), map[string]any{"page": "7"})

	require.True(t, res.Success)
	assert.Equal(t, 7, res.Data.Page)
	assert.Empty(t, res.Errors)
}

func TestTryParse_Failure(t *testing.T) {
	res := TryParse[paginationInput](paginationSchema(), map[string]any{"page": "zero"})

	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "page", res.Errors[0].Field)
}

func TestParseCtx_RefinementRuns(t *testing.T) {
	s := New(String("email").Required())
	type input struct {
		Email string `json:"email"`
	}

	taken := apperr.Conflict("email already registered")
	_, err := ParseCtx(context.Background(), s, map[string]any{"email": "a@b.c"},
		func(ctx context.Context, in input) error {
			return taken
		})

	assert.ErrorIs(t, err, error(taken))
}

func TestParseCtx_SkipsRefinementOnInvalidInput(t *testing.T) {
	s := New(String("email").Required())
	type input struct {
		Email string `json:"email"`
	}

	called := false
	_, err := ParseCtx(context.Background(), s, map[string]any{},
		func(ctx context.Context, in input) error {
			called = true
			return nil
		})

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.False(t, called)
}
