// Package yamlutil edits YAML documents through yaml.Node so that keys and
// comments the program does not know about survive a rewrite.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrNotMapping = errors.New("yaml node is not a mapping")

// ReadFile parses path into a document node whose root is a mapping.
// A missing file returns an error wrapping os.ErrNotExist. An empty file
// yields an empty mapping.
func ReadFile(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc yaml.Node

	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
		}
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: root: %w", path, ErrNotMapping)
	}

	return &doc, nil
}

// NewDocument returns a document with an empty root mapping.
func NewDocument() *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}
}

// Root returns the top-level mapping of doc.
func Root(doc *yaml.Node) *yaml.Node {
	return doc.Content[0]
}

// Lookup returns the value stored under key in mapping m, or nil.
func Lookup(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}

	return nil
}

// Pairs calls fn for every key/value pair of mapping m.
func Pairs(m *yaml.Node, fn func(key string, value *yaml.Node)) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}

	for i := 0; i+1 < len(m.Content); i += 2 {
		fn(m.Content[i].Value, m.Content[i+1])
	}
}

// EnsureMapping returns the mapping under key, appending an empty one
// when key is absent. A non-mapping value under key is an error.
func EnsureMapping(m *yaml.Node, key string) (*yaml.Node, error) {
	if v := Lookup(m, key); v != nil {
		if v.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("key %q: %w", key, ErrNotMapping)
		}

		return v, nil
	}

	v := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	m.Content = append(m.Content, strKey(key), v)

	return v, nil
}

// SetScalar stores value with tag under key, keeping the key's position
// and comments when it already exists.
func SetScalar(m *yaml.Node, key, value, tag string) {
	if v := Lookup(m, key); v != nil {
		v.Kind = yaml.ScalarNode
		v.Tag = tag
		v.Value = value
		v.Style = 0
		v.Content = nil

		return
	}

	m.Content = append(m.Content, strKey(key), &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value})
}

// WriteFile encodes doc to a temp file next to path and renames it over
// path, so readers never observe a partial file.
func WriteFile(path string, doc *yaml.Node) (err error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	err = enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	err = enc.Close()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(buf.Bytes())
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}

	err = tmp.Sync()
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	err = os.Rename(tmp.Name(), path)
	if err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	return nil
}

func strKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
