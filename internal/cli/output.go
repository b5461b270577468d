package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// render writes payload as JSON (optionally narrowed by a JSONPath query) or
// hands off to pretty for human output.
func render(w io.Writer, g *globalOptions, payload any, pretty func(io.Writer)) error {
	query := strings.TrimSpace(g.query)

	switch g.format {
	case "json":
		if query == "" {
			return writeJSON(w, payload)
		}
		v, err := applyQuery(payload, query)
		if err != nil {
			return err
		}
		return writeJSON(w, v)
	case "pretty", "":
		if query != "" {
			return fmt.Errorf("--query requires --format json")
		}
		pretty(w)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", g.format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// applyQuery evaluates expr against the JSON form of payload.
func applyQuery(payload any, expr string) (any, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	v, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", expr, err)
	}
	if isEmptyValue(v) {
		return nil, fmt.Errorf("query %q: no value found", expr)
	}
	return v, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
