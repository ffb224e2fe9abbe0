// iojson are utilities for reading and writing JSON (and YAML) IO from a
// command line interface perspective
package iojson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a document serialization format.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// DetectFormat picks a format from the file extension of path, falling back
// to sniffing data: input starting with '{' or '[' is JSON.
func DetectFormat(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses data as JSON or YAML; see [DetectFormat].
func Decode[T any](data []byte, path string) (T, error) {
	var out T

	switch DetectFormat(path, data) {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("decode JSON: %w", err)
		}
	}

	return out, nil
}

// Encode serializes obj in the format implied by path's extension. Paths
// without a YAML extension are written as indented JSON.
func Encode(path string, obj any) ([]byte, error) {
	if DetectFormat(path, []byte("{")) == FormatYAML {
		return yaml.Marshal(obj)
	}

	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bits, '\n'), nil
}

// WriteFile encodes obj with [Encode] and replaces path with the result.
func WriteFile(path string, obj any) error {
	data, err := Encode(path, obj)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// Error is the standard error format type that is returned when errors
// happen.
type Error struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func jsonError(msg string, jsonErr error) string {
	// Use json.Marshal to properly escape strings
	msgBytes, _ := json.Marshal(msg)
	errBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"message":%s,"data":{"json_error":%s}}`, msgBytes, errBytes)
}

func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		errStr := jsonError("error marshaling in iojson.Write", err)
		_, err = fmt.Fprintln(ew, errStr)
		return err
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr]
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
