package decode

import (
	"io"

	"github.com/beevik/etree"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
)

// XML decodes an element tree where every element is a tag and every
// attribute an XML attribute. Values stay strings; the typed accessors on
// [level.Element] parse them.
func XML(r io.Reader) (*level.Element, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Malformed(err, "decode xml level")
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "xml level has no root element")
	}
	return fromXML(root), nil
}

func fromXML(x *etree.Element) *level.Element {
	el := &level.Element{Name: x.Tag}
	if len(x.Attr) > 0 {
		el.Attributes = make(map[string]any, len(x.Attr))
		for _, a := range x.Attr {
			el.Attributes[a.Key] = a.Value
		}
	}
	for _, c := range x.ChildElements() {
		el.Children = append(el.Children, fromXML(c))
	}
	return el
}
