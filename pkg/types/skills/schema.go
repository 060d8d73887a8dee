package skills

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// FieldType is the runtime type a schema field accepts.
type FieldType int

const (
	TypeString FieldType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeStrings
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeStrings:
		return "string list"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

func (t FieldType) jsonType() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "number"
	case TypeBool:
		return "boolean"
	case TypeStrings:
		return "array"
	default:
		return "string"
	}
}

// Field declares one named input field: its type, whether it is required,
// the default substituted when an optional field is absent, and value
// constraints.
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Required    bool
	Default     any      // substituted when an optional field is absent
	Enum        []string // allowed values; for string lists, allowed elements
	Min         *float64 // inclusive lower bound for numeric fields
	Max         *float64 // inclusive upper bound for numeric fields
	NonEmpty    bool     // strings and lists must not be empty
}

// check coerces value to the field's canonical runtime type and evaluates
// the field's constraints. The returned error states the violated rule.
func (f Field) check(value any) (any, error) {
	switch f.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, f.typeMismatch(value)
		}
		if f.NonEmpty && s == "" {
			return nil, errors.New("must not be empty")
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, s) {
			return nil, f.enumViolation()
		}
		return s, nil
	case TypeInt:
		n, ok := asInt(value)
		if !ok {
			return nil, f.typeMismatch(value)
		}
		if err := f.checkBounds(float64(n)); err != nil {
			return nil, err
		}
		return n, nil
	case TypeFloat:
		x, ok := asFloat(value)
		if !ok {
			return nil, f.typeMismatch(value)
		}
		if err := f.checkBounds(x); err != nil {
			return nil, err
		}
		return x, nil
	case TypeBool:
		b, ok := value.(bool)
		if !ok {
			return nil, f.typeMismatch(value)
		}
		return b, nil
	case TypeStrings:
		ss, ok := asStrings(value)
		if !ok {
			return nil, f.typeMismatch(value)
		}
		if f.NonEmpty && len(ss) == 0 {
			return nil, errors.New("must not be empty")
		}
		if len(f.Enum) > 0 {
			for _, s := range ss {
				if !slices.Contains(f.Enum, s) {
					return nil, f.enumViolation()
				}
			}
		}
		return ss, nil
	default:
		return nil, errors.Errorf("unsupported field type %s", f.Type)
	}
}

func (f Field) typeMismatch(value any) error {
	return errors.Errorf("expected %s, got %T", f.Type, value)
}

func (f Field) enumViolation() error {
	return errors.Errorf("must be one of [%s]", strings.Join(f.Enum, ", "))
}

func (f Field) checkBounds(x float64) error {
	if f.Min != nil && x < *f.Min {
		return errors.Errorf("must be at least %v", *f.Min)
	}
	if f.Max != nil && x > *f.Max {
		return errors.Errorf("must be at most %v", *f.Max)
	}
	return nil
}

func asInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return asInt(float64(n))
	case float64:
		// JSON numbers decode as float64; accept integral values only.
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}

func asFloat(value any) (float64, bool) {
	switch x := value.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v), true
	case []any:
		out := make([]string, 0, len(v))
		for _, el := range v {
			s, ok := el.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Schema is an ordered list of field declarations. It is built once, at
// skill definition time; Validate runs once per call.
type Schema struct {
	fields []Field
	index  map[string]struct{}
}

// NewSchema checks the declarations and returns the schema. Declaration
// problems are programming errors, not input errors, so they are all
// collected and reported together.
func NewSchema(fields ...Field) (*Schema, error) {
	var errs *multierror.Error
	index := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			errs = multierror.Append(errs, errors.New("field with empty name"))
			continue
		}
		if _, dup := index[f.Name]; dup {
			errs = multierror.Append(errs, errors.Errorf("field %q declared twice", f.Name))
			continue
		}
		index[f.Name] = struct{}{}
		if len(f.Enum) > 0 && f.Type != TypeString && f.Type != TypeStrings {
			errs = multierror.Append(errs, errors.Errorf("field %q: enum constraint on %s field", f.Name, f.Type))
		}
		if (f.Min != nil || f.Max != nil) && f.Type != TypeInt && f.Type != TypeFloat {
			errs = multierror.Append(errs, errors.Errorf("field %q: numeric bounds on %s field", f.Name, f.Type))
		}
		if f.Required && f.Default != nil {
			errs = multierror.Append(errs, errors.Errorf("field %q: required field cannot have a default", f.Name))
		}
		if !f.Required && f.Default != nil {
			if _, err := f.check(f.Default); err != nil {
				errs = multierror.Append(errs, errors.Wrapf(err, "field %q: default value", f.Name))
			}
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Schema{fields: fields, index: index}, nil
}

// MustSchema is NewSchema for statically known declarations.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	return slices.Clone(s.fields)
}

// Validate checks raw against the declared fields, in declaration order,
// stopping at the first violation. Absent optional fields get their
// defaults; absent required fields, type mismatches, constraint violations
// and undeclared keys fail with a *ValidationError naming the offending
// field. The validated copy is returned and raw is never mutated. A nil
// schema declares no fields.
func (s *Schema) Validate(raw map[string]any) (map[string]any, error) {
	if s == nil {
		s = &Schema{}
	}
	validated := make(map[string]any, len(s.fields))
	for _, f := range s.fields {
		value, present := raw[f.Name]
		if !present {
			if f.Required {
				return nil, &ValidationError{Field: f.Name, Rule: "required field is missing"}
			}
			if f.Default != nil {
				// Already vetted by NewSchema.
				coerced, _ := f.check(f.Default)
				validated[f.Name] = coerced
			}
			continue
		}
		coerced, err := f.check(value)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Rule: err.Error()}
		}
		validated[f.Name] = coerced
	}

	var unknown []string
	for name := range raw {
		if _, declared := s.index[name]; !declared {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &ValidationError{Field: unknown[0], Rule: "field is not declared by the skill's schema"}
	}

	return validated, nil
}

// JSONSchema renders the declarations as a JSON schema document for
// describe surfaces and model-facing skill definitions.
func (s *Schema) JSONSchema() *jsonschema.Schema {
	properties := jsonschema.NewProperties()
	var required []string
	if s != nil {
		for _, f := range s.fields {
			prop := &jsonschema.Schema{
				Type:        f.Type.jsonType(),
				Description: f.Description,
			}
			enum := make([]any, len(f.Enum))
			for i, v := range f.Enum {
				enum[i] = v
			}
			switch {
			case f.Type == TypeStrings && len(enum) > 0:
				prop.Items = &jsonschema.Schema{Type: "string", Enum: enum}
			case f.Type == TypeStrings:
				prop.Items = &jsonschema.Schema{Type: "string"}
			case len(enum) > 0:
				prop.Enum = enum
			}
			if f.Min != nil {
				prop.Minimum = jsonNumber(*f.Min)
			}
			if f.Max != nil {
				prop.Maximum = jsonNumber(*f.Max)
			}
			if f.Default != nil {
				prop.Default = f.Default
			}
			if f.Required {
				required = append(required, f.Name)
			}
			properties.Set(f.Name, prop)
		}
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: jsonschema.FalseSchema,
	}
}

func jsonNumber(x float64) json.Number {
	return json.Number(strconv.FormatFloat(x, 'f', -1, 64))
}
