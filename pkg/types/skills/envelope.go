package skills

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Input is the validated input record handed to a skill's Execute. It is
// owned by a single execution and never shared across calls; defaults for
// omitted optional fields have already been substituted by the schema.
type Input struct {
	fields map[string]any
}

// NewInput wraps an already validated field map. The map is copied so later
// mutation by the caller cannot leak into the execution.
func NewInput(fields map[string]any) Input {
	return Input{fields: maps.Clone(fields)}
}

// Get returns a raw field value and whether it is present.
func (in Input) Get(name string) (any, bool) {
	v, ok := in.fields[name]
	return v, ok
}

// String returns a string field, or "" when absent.
func (in Input) String(name string) string {
	s, _ := in.fields[name].(string)
	return s
}

// Int returns an integer field, or 0 when absent.
func (in Input) Int(name string) int {
	n, _ := asInt(in.fields[name])
	return n
}

// Float returns a numeric field, or 0 when absent.
func (in Input) Float(name string) float64 {
	f, _ := asFloat(in.fields[name])
	return f
}

// Bool returns a boolean field, or false when absent.
func (in Input) Bool(name string) bool {
	b, _ := in.fields[name].(bool)
	return b
}

// Strings returns a string-list field, or nil when absent.
func (in Input) Strings(name string) []string {
	ss, _ := asStrings(in.fields[name])
	return ss
}

// Fields returns a copy of the whole record.
func (in Input) Fields() map[string]any {
	return maps.Clone(in.fields)
}

// Decode maps the record onto a skill's typed input struct, matching
// json-tagged field names.
func (in Input) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	})
	if err != nil {
		return errors.Wrap(err, "failed to build input decoder")
	}
	return errors.Wrap(dec.Decode(in.fields), "failed to decode input")
}

// Output is the uniform result envelope every execution produces. A
// successful output carries no error and its Fields hold the skill's
// declared result fields; a failed output carries a non-empty diagnostic
// and no result fields.
type Output struct {
	Success bool
	Error   string
	Fields  map[string]any
}

// OK returns a successful output carrying the given result fields.
func OK(fields map[string]any) Output {
	return Output{Success: true, Fields: maps.Clone(fields)}
}

// Fail returns a failed output with a formatted diagnostic.
func Fail(format string, args ...any) Output {
	return Output{Error: fmt.Sprintf(format, args...)}
}

// FailErr returns a failed output from an error.
func FailErr(err error) Output {
	if err == nil {
		return Fail("skill reported failure without an error")
	}
	return Output{Error: err.Error()}
}

// Get returns a named result field.
func (o Output) Get(name string) (any, bool) {
	v, ok := o.Fields[name]
	return v, ok
}

// Normalize returns a copy that satisfies the envelope invariant: a
// successful output drops any stray error text, a failed output without a
// diagnostic gets a generic one and its result fields are discarded.
func (o Output) Normalize() Output {
	if o.Success {
		o.Error = ""
		return o
	}
	if o.Error == "" {
		o.Error = "skill reported failure without an error message"
	}
	o.Fields = nil
	return o
}

// MarshalJSON flattens the result fields next to success and error, the
// shape callers above this layer put on the wire.
func (o Output) MarshalJSON() ([]byte, error) {
	record := make(map[string]any, len(o.Fields)+2)
	for k, v := range o.Fields {
		if k == "success" || k == "error" {
			continue
		}
		record[k] = v
	}
	record["success"] = o.Success
	if o.Error != "" {
		record["error"] = o.Error
	}
	return json.Marshal(record)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (o *Output) UnmarshalJSON(data []byte) error {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}
	success, ok := record["success"].(bool)
	if !ok {
		return errors.New("output envelope has no boolean success field")
	}
	errMsg, _ := record["error"].(string)
	delete(record, "success")
	delete(record, "error")
	if len(record) == 0 {
		record = nil
	}
	*o = Output{Success: success, Error: errMsg, Fields: record}
	return nil
}
