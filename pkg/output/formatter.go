package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Formatter renders result data into a serialized output format
type Formatter interface {
	Format(data any, pretty bool) ([]byte, error)
}

// NewFormatter returns the formatter for the given output format name,
// defaulting to JSON for unknown formats
func NewFormatter(format string) Formatter {
	switch format {
	case "yaml":
		return &YAMLFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "table":
		return &TableFormatter{}
	default:
		return &JSONFormatter{}
	}
}

// JSONFormatter renders data as JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

// YAMLFormatter renders data as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(data any, _ bool) ([]byte, error) {
	return yaml.Marshal(data)
}

// CSVFormatter renders flat data as key,value CSV rows
type CSVFormatter struct{}

func (f *CSVFormatter) Format(data any, _ bool) ([]byte, error) {
	fields, err := flattenFields(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"field", "value"}); err != nil {
		return nil, err
	}
	for _, kv := range fields {
		if err := w.Write([]string{kv.key, kv.value}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// TableFormatter renders flat data as an aligned two-column table
type TableFormatter struct{}

func (f *TableFormatter) Format(data any, _ bool) ([]byte, error) {
	fields, err := flattenFields(data)
	if err != nil {
		return nil, err
	}

	titleCaser := cases.Title(language.English)

	width := 0
	for _, kv := range fields {
		if len(kv.key) > width {
			width = len(kv.key)
		}
	}

	var buf bytes.Buffer
	for _, kv := range fields {
		label := titleCaser.String(strings.ReplaceAll(kv.key, "_", " "))
		fmt.Fprintf(&buf, "%-*s  %s\n", width+2, label, kv.value)
	}
	return buf.Bytes(), nil
}

type fieldValue struct {
	key   string
	value string
}

// flattenFields reduces arbitrary result structs to sorted dotted
// key/value pairs via their JSON representation
func flattenFields(data any) ([]fieldValue, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal data for formatting: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode data for formatting: %w", err)
	}

	fields := map[string]string{}
	flattenInto(fields, "", decoded)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]fieldValue, 0, len(keys))
	for _, k := range keys {
		out = append(out, fieldValue{key: k, value: fields[k]})
	}
	return out, nil
}

func flattenInto(fields map[string]string, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for k, child := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(fields, key, child)
		}
	case []any:
		for i, child := range v {
			flattenInto(fields, fmt.Sprintf("%s.%d", prefix, i), child)
		}
	default:
		fields[prefix] = fmt.Sprintf("%v", v)
	}
}
