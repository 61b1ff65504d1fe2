package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SyntaxKey is the frontmatter field naming the citation syntax of a document.
const SyntaxKey = "citation-syntax"

// SyntaxName returns the citation syntax named in the frontmatter fields.
// ok is false when the field is absent.
func SyntaxName(fields map[string]any) (name string, ok bool, err error) {
	v, present := fields[SyntaxKey]
	if !present || v == nil {
		return "", false, nil
	}
	s, isString := v.(string)
	if !isString {
		return "", false, fmt.Errorf("%s must be a string, got %T", SyntaxKey, v)
	}
	return s, true, nil
}

// SetSyntaxName rewrites the citation-syntax field of raw frontmatter,
// keeping the other fields, their order and their comments. When the field
// is missing and add is false the frontmatter is returned unchanged.
func SetSyntaxName(frontmatter []byte, name string, add bool, style Style) ([]byte, error) {
	var doc yaml.Node
	if len(bytes.TrimSpace(frontmatter)) > 0 {
		if err := yaml.Unmarshal(frontmatter, &doc); err != nil {
			return nil, err
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("frontmatter is not a mapping")
	}

	mapping := doc.Content[0]
	found := false
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == SyntaxKey {
			val := mapping.Content[i+1]
			if val.Kind == yaml.ScalarNode && val.Value == name {
				return frontmatter, nil
			}
			mapping.Content[i+1] = &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name}
			found = true
			break
		}
	}
	if !found {
		if !add {
			return frontmatter, nil
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: SyntaxKey},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
		)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if nl := style.Newline; nl != "" && nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}
