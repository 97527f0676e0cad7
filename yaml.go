package schemaconv

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a single YAML document into a Node, applying the same
// duplicate-key rule as Parse. Schemas authored in YAML are checked exactly
// like JSON ones.
func ParseYAML(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &SyntaxError{Offset: -1, Err: err}
	}
	if len(root.Content) == 0 {
		return nil, &SyntaxError{Offset: -1, Err: io.ErrUnexpectedEOF}
	}
	return yamlToNode(root.Content[0], "")
}

// IsYAMLPath reports whether path names a YAML file.
func IsYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ParsePath parses data as YAML when path names a YAML file and as JSON
// otherwise.
func ParsePath(path string, data []byte, opt ParseOptions) (*Node, error) {
	if IsYAMLPath(path) {
		return ParseYAML(data)
	}
	return ParseWith(data, opt)
}

// YAMLReader decodes a multi-document YAML stream into Nodes.
type YAMLReader struct {
	dec *yaml.Decoder
}

// NewYAMLReader constructs a YAMLReader.
func NewYAMLReader(r io.Reader) *YAMLReader {
	return &YAMLReader{dec: yaml.NewDecoder(r)}
}

// Next returns the next document. It returns (nil, io.EOF) when the stream is
// exhausted.
func (s *YAMLReader) Next() (*Node, error) {
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &SyntaxError{Offset: -1, Err: err}
	}
	if len(root.Content) == 0 {
		return Null(), nil
	}
	return yamlToNode(root.Content[0], "")
}

func yamlToNode(n *yaml.Node, ptr Pointer) (*Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return yamlToNode(n.Content[0], ptr)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Null(), nil
		}
		return yamlToNode(n.Alias, ptr)
	case yaml.MappingNode:
		obj := Object()
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, Pointer: ptr, Offset: -1,
					Line: k.Line, Column: k.Column, FirstLine: pos[0], FirstColumn: pos[1]}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := yamlToNode(v, ptr.Field(key))
			if err != nil {
				return nil, err
			}
			obj.append(key, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := &Node{Kind: KindArray, Items: make([]*Node, 0, len(n.Content))}
		for i, c := range n.Content {
			v, err := yamlToNode(c, ptr.Index(i))
			if err != nil {
				return nil, err
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err == nil {
				return Bool(b), nil
			}
			return String(n.Value), nil
		case "!!int":
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return Number(strconv.FormatInt(i, 10)), nil
			}
			return String(n.Value), nil
		case "!!float":
			if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
			}
			return String(n.Value), nil
		default:
			return String(n.Value), nil
		}
	}
	return nil, &SyntaxError{Offset: -1, Err: fmt.Errorf("unsupported YAML node kind %d at line %d", n.Kind, n.Line)}
}
