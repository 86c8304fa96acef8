package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidCalendar is returned when a holiday file does not match fileSchema.
var ErrInvalidCalendar = errors.New("invalid holiday calendar")

const fileSchema = `{
	"type": "object",
	"properties": {
		"version": {"type": ["string", "number"]},
		"holidays": {
			"type": "array",
			"items": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
		}
	}
}`

// validateDocument checks decoded calendar settings against fileSchema.
func validateDocument(settings map[string]any) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("calendar.json", strings.NewReader(fileSchema)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("calendar.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	b, err := json.Marshal(jsonSafe(settings))
	if err != nil {
		return fmt.Errorf("marshal calendar: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("unmarshal calendar: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCalendar, err)
	}
	return nil
}

// jsonSafe rewrites decoded timestamps as calendar days so they validate
// like quoted dates.
func jsonSafe(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.Format(DateLayout)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = jsonSafe(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonSafe(item)
		}
		return out
	default:
		return v
	}
}
