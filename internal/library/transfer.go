package library

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/cmdshelf/cmdshelf/pkg/types"
)

// Format names a library document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat resolves a format name, defaulting to JSON for empty input.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q, expected json or yaml", name)
}

// DecodeDocument parses a library document into a forest. The only schema
// requirement is a top-level commands array; individual nodes are accepted
// as-is.
func DecodeDocument(raw []byte, format Format) ([]types.TreeNode, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImport, err)
		}
		raw = converted
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadImport, err)
	}
	rawCommands, ok := probe["commands"]
	if !ok {
		return nil, ErrBadImport
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawCommands, &items); err != nil {
		return nil, fmt.Errorf("%w: commands is not an array", ErrBadImport)
	}

	nodes := make([]types.TreeNode, 0, len(items))
	for _, item := range items {
		node, err := types.UnmarshalNode(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadImport, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// EncodeDocument serializes a forest as a library document in the given
// format. JSON output is pretty-printed with a trailing newline so exported
// files diff cleanly.
func EncodeDocument(nodes []types.TreeNode, format Format) ([]byte, error) {
	data := types.CommandData{Commands: nodes}

	if format == FormatYAML {
		// YAML goes through the JSON representation so the tagged-union
		// marshaling rules apply to both formats.
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode library: %w", err)
		}
		var doc any
		if err := json.Unmarshal(jsonBytes, &doc); err != nil {
			return nil, fmt.Errorf("failed to encode library: %w", err)
		}
		return yaml.Marshal(doc)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode library: %w", err)
	}
	return append(out, '\n'), nil
}

// yamlToJSON re-encodes a YAML document as JSON so one decode path serves
// both formats.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML converts map[any]any keys produced by older YAML documents
// into string keys so the value survives json.Marshal.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeYAML(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = normalizeYAML(item)
		}
		return val
	}
	return v
}

// DiffPreview renders a line-oriented preview of replacing the current
// forest with the incoming one, for confirmation before a destructive
// import.
func DiffPreview(current, incoming []types.TreeNode) (string, error) {
	before, err := EncodeDocument(current, FormatJSON)
	if err != nil {
		return "", err
	}
	after, err := EncodeDocument(incoming, FormatJSON)
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(before), string(after), false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffPrettyText(diffs), nil
}
