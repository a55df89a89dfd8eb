package decode

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
)

// yamlElement is the on-disk shape of an element in a YAML dump.
type yamlElement struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:"attributes,omitempty"`
	Children   []*yamlElement `yaml:"children,omitempty"`
}

// YAML decodes an element tree dump:
//
//	name: Map
//	attributes: {package: MyCollab/Lobby}
//	children:
//	  - name: levels
//	    children:
//	      - name: level
//	        attributes: {name: lvl_a-00, x: 0, y: 0, width: 320, height: 184}
func YAML(r io.Reader) (*level.Element, error) {
	var doc yamlElement
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Malformed(err, "decode yaml level")
	}
	return fromYAML(&doc)
}

// WriteYAML writes el in the format read by [YAML].
func WriteYAML(w io.Writer, el *level.Element) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toYAML(el)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode yaml level")
	}
	return enc.Close()
}

// fromYAML converts a decoded dump. An empty list item decodes as a nil
// child and is rejected.
func fromYAML(y *yamlElement) (*level.Element, error) {
	el := &level.Element{Name: y.Name, Attributes: make(map[string]any, len(y.Attributes))}
	for k, v := range y.Attributes {
		el.Attributes[k] = normalize(v)
	}
	for i, c := range y.Children {
		if c == nil {
			return nil, errors.New(errors.ErrCodeMalformedInput, "yaml level: child %d of %q is empty", i, y.Name)
		}
		child, err := fromYAML(c)
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, child)
	}
	return el, nil
}

func toYAML(el *level.Element) *yamlElement {
	y := &yamlElement{Name: el.Name, Attributes: el.Attributes}
	for _, c := range el.Children {
		y.Children = append(y.Children, toYAML(c))
	}
	return y
}

// normalize folds the numeric types yaml.v3 may produce onto int and float64.
func normalize(v any) any {
	switch n := v.(type) {
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return float64(n)
	}
	return v
}
