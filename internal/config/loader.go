package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source locates a config value in a file.
type Source struct {
	File   string
	Line   int
	Column int
}

// LoadResult is a loaded config plus where its values came from.
type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> position
	File    string            // empty when running on defaults
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/tagtile/config.yaml, falling back
// to ~/.config.
func DefaultConfigPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tagtile", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "tagtile", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	res, err := LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadFromPath merges the file at path over DefaultConfig and validates the
// result. A missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Sources: map[string]Source{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	if err := decodeStrictYAML(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sources := collectSources(&doc, path)

	if err := cfg.Validate(); err != nil {
		return nil, attachSourceContext(err, sources)
	}
	return &LoadResult{Config: cfg, Sources: sources, File: path}, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func collectSources(doc *yaml.Node, file string) map[string]Source {
	out := make(map[string]Source)
	if doc == nil {
		return out
	}
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	collectSourcesRec(node, file, "", out)
	return out
}

func collectSourcesRec(node *yaml.Node, file string, prefix string, out map[string]Source) {
	if node == nil {
		return
	}
	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			path := keyNode.Value
			if prefix != "" {
				path = prefix + "." + keyNode.Value
			}
			out[path] = Source{File: file, Line: valNode.Line, Column: valNode.Column}
			collectSourcesRec(valNode, file, path, out)
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			path := fmt.Sprintf("%s[%d]", prefix, i)
			out[path] = Source{File: file, Line: item.Line, Column: item.Column}
			collectSourcesRec(item, file, path, out)
		}
	}
}

func attachSourceContext(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}

// Explain returns the effective value at a dotted YAML path such as
// "colors.sel.border" or "keys[3].action". fromFile reports whether the value
// was set in the config file rather than taken from the defaults.
func (r *LoadResult) Explain(path string) (value any, src Source, fromFile bool, err error) {
	var doc yaml.Node
	if err := doc.Encode(r.Config); err != nil {
		return nil, Source{}, false, fmt.Errorf("failed to encode config: %w", err)
	}
	node, err := lookupPath(&doc, path)
	if err != nil {
		return nil, Source{}, false, err
	}
	if err := node.Decode(&value); err != nil {
		return nil, Source{}, false, fmt.Errorf("%s: %w", path, err)
	}
	src, fromFile = r.Sources[path]
	return value, src, fromFile, nil
}

func lookupPath(node *yaml.Node, path string) (*yaml.Node, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for _, seg := range strings.Split(path, ".") {
		name, indexes, err := splitSegment(seg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if name != "" {
			next := mappingValue(node, name)
			if next == nil {
				return nil, fmt.Errorf("%s: no such key %q", path, name)
			}
			node = next
		}
		for _, idx := range indexes {
			if node.Kind != yaml.SequenceNode || idx < 0 || idx >= len(node.Content) {
				return nil, fmt.Errorf("%s: index %d out of range", path, idx)
			}
			node = node.Content[idx]
		}
	}
	return node, nil
}

// splitSegment parses "keys[3]" into "keys" and [3].
func splitSegment(seg string) (string, []int, error) {
	name, rest, _ := strings.Cut(seg, "[")
	if rest == "" {
		return name, nil, nil
	}
	var indexes []int
	for _, part := range strings.Split("["+rest, "[")[1:] {
		num, ok := strings.CutSuffix(part, "]")
		if !ok {
			return "", nil, fmt.Errorf("malformed index in %q", seg)
		}
		idx, err := strconv.Atoi(num)
		if err != nil {
			return "", nil, fmt.Errorf("malformed index in %q", seg)
		}
		indexes = append(indexes, idx)
	}
	return name, indexes, nil
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
