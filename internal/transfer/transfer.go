// Package transfer exports the task list as a JSON or YAML document and
// imports such documents back after validating them against a JSON Schema.
//
// The document looks like:
//
//	{
//	  "schema_version": 1,
//	  "exported_at": "2024-01-01T00:00:00Z",
//	  "tasks": ["Buy milk", "Walk dog"]
//	}
//
// YAML documents use the same keys.
package transfer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the document version written by Export.
const SchemaVersion = 1

const schemaURL = "https://dailytasks.invalid/export.schema.json"

//go:embed schema.json
var schemaJSON string

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the export document.
type Document struct {
	SchemaVersion int      `json:"schema_version" yaml:"schema_version"`
	ExportedAt    string   `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Tasks         []string `json:"tasks" yaml:"tasks"`
}

// Export writes tasks to w as a document in the given format.
func Export(w io.Writer, tasks []string, format Format, now time.Time) error {
	doc := Document{
		SchemaVersion: SchemaVersion,
		Tasks:         tasks,
	}
	if doc.Tasks == nil {
		doc.Tasks = []string{}
	}
	if !now.IsZero() {
		doc.ExportedAt = now.UTC().Format(time.RFC3339)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// SchemaError lists every schema violation found in a document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid document: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid document: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Import reads a document from r, validates it and returns its tasks.
func Import(r io.Reader, format Format) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	instance, err := decodeInstance(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(instance); err != nil {
		return nil, schemaError(err)
	}

	// The instance is valid, so this cannot fail on shape.
	normalized, err := json.Marshal(instance)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Tasks == nil {
		doc.Tasks = []string{}
	}
	return doc.Tasks, nil
}

// decodeInstance turns raw bytes into the generic JSON value the schema
// validator expects. YAML is round-tripped through JSON so numbers and maps
// have JSON types.
func decodeInstance(data []byte, format Format) (interface{}, error) {
	var raw []byte
	switch format {
	case FormatJSON:
		raw = data
	case FormatYAML:
		var v interface{}
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		converted, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		raw = converted
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var instance interface{}
	if err := dec.Decode(&instance); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return instance, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func schemaError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	result := &SchemaError{}
	collectSchemaErrors(result, ve)
	if len(result.Problems) == 0 {
		result.Problems = append(result.Problems, ve.Message)
	}
	return result
}

func collectSchemaErrors(result *SchemaError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		if path == "" {
			result.Problems = append(result.Problems, err.Message)
		} else {
			result.Problems = append(result.Problems, path+": "+err.Message)
		}
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation path.
// For example, "/tasks/2" becomes "tasks[2]".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
