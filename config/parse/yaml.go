// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package parse

import (
	"errors"
	"fmt"
	"io"

	"github.com/z5labs/pgrest/config"

	"gopkg.in/yaml.v3"
)

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

var errNotAMapping = errors.New("top level value must be a mapping")

// Yaml parses a YAML document whose top level value is a mapping.
// Mapping keys keep their document order.
func Yaml(r io.Reader) (config.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	t, err := parseYaml(b)
	if err != nil {
		return nil, InvalidYamlError{Cause: err}
	}
	return t, nil
}

func parseYaml(b []byte) (config.Table, error) {
	var doc yaml.Node
	err := yaml.Unmarshal(b, &doc)
	if err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		// empty document
		return config.Table{}, nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, errNotAMapping
	}
	return mappingTable(root)
}

func mappingTable(n *yaml.Node) (config.Table, error) {
	t := make(config.Table, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]

		raw, ok, err := nodeRaw(v)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		t = append(t, config.Entry{Key: k.Value, Value: raw})
	}
	return t, nil
}

func nodeRaw(n *yaml.Node) (config.Raw, bool, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return nodeRaw(n.Alias)
	case yaml.MappingNode:
		t, err := mappingTable(n)
		return t, err == nil, err
	default:
		var v any
		err := n.Decode(&v)
		if err != nil {
			return nil, false, err
		}
		raw, ok := fromAny(v)
		return raw, ok, nil
	}
}
