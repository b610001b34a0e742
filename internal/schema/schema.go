// Package schema validates and coerces untyped usecase input against a
// declared contract. Numeric strings coerce to numbers, ISO date strings to
// time values, and missing optional fields receive declared defaults, so the
// same schema serves JSON bodies and query parameters alike.
package schema

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindEnum
	kindDate
)

// Field declares the contract for a single input field. Constraints are
// attached through the chainable builders.
type Field struct {
	name       string
	kind       fieldKind
	required   bool
	def        any
	hasDefault bool
	min        *int
	max        *int
	clampLo    *int
	clampHi    *int
	minLen     *int
	maxLen     *int
	enum       []string
}

// String declares a string field.
func String(name string) *Field { return &Field{name: name, kind: kindString} }

// Int declares an integer field; numeric strings are coerced.
func Int(name string) *Field { return &Field{name: name, kind: kindInt} }

// Bool declares a boolean field; "true"/"false" strings are coerced.
func Bool(name string) *Field { return &Field{name: name, kind: kindBool} }

// Enum declares a string field restricted to the given values.
func Enum(name string, values ...string) *Field {
	return &Field{name: name, kind: kindEnum, enum: values}
}

// Date declares a timestamp field; RFC 3339 and YYYY-MM-DD strings are coerced.
func Date(name string) *Field { return &Field{name: name, kind: kindDate} }

// Required marks the field as mandatory.
func (f *Field) Required() *Field {
	f.required = true
	return f
}

// Default supplies a value used when the field is absent.
func (f *Field) Default(v any) *Field {
	f.def = v
	f.hasDefault = true
	return f
}

// Min rejects integers below n.
func (f *Field) Min(n int) *Field {
	f.min = &n
	return f
}

// Max rejects integers above n.
func (f *Field) Max(n int) *Field {
	f.max = &n
	return f
}

// Clamp silently pulls integers into [lo, hi] instead of rejecting them.
func (f *Field) Clamp(lo, hi int) *Field {
	f.clampLo = &lo
	f.clampHi = &hi
	return f
}

// MinLen rejects strings shorter than n.
func (f *Field) MinLen(n int) *Field {
	f.minLen = &n
	return f
}

// MaxLen rejects strings longer than n.
func (f *Field) MaxLen(n int) *Field {
	f.maxLen = &n
	return f
}

// Schema is an ordered set of field contracts.
type Schema struct {
	fields []*Field
}

// New builds a schema from field declarations.
func New(fields ...*Field) *Schema {
	return &Schema{fields: fields}
}
