package serialize

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/visualizeme/pkg/errors"
	"github.com/matzehuels/visualizeme/pkg/value"
)

// YAML encodes v as a YAML document, preserving member order.
func YAML(v *value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(v)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode YAML")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode YAML")
	}
	return buf.Bytes(), nil
}

// yamlNode mirrors v as a yaml.Node. Strings carry an explicit !!str tag
// so the encoder quotes values that would otherwise read back as another
// type, such as "true" or "1.5".
func yamlNode(v *value.Value) *yaml.Node {
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: "null"}
	}
	switch v.Kind {
	case value.Bool:
		if v.Bool {
			return &yaml.Node{Kind: yaml.ScalarNode, Value: "true"}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Value: "false"}
	case value.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v.Num.String()}
	case value.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Str}
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		if len(v.Items) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, it := range v.Items {
			n.Content = append(n.Content, yamlNode(it))
		}
		return n
	case value.Object:
		n := &yaml.Node{Kind: yaml.MappingNode}
		if len(v.Members) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, m := range v.Members {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				yamlNode(m.Value))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: "null"}
}
