package nodemap

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/matzehuels/lobbymap/pkg/errors"
)

// Position is an (x, y) pair in export space.
type Position [2]float32

// X returns the horizontal coordinate.
func (p Position) X() float32 { return p[0] }

// Y returns the vertical coordinate.
func (p Position) Y() float32 { return p[1] }

// NodeMap maps a label to its position. Keys are unique by construction.
type NodeMap map[string]Position

// Labels returns the keys in sorted order.
func (nm NodeMap) Labels() []string {
	labels := make([]string, 0, len(nm))
	for k := range nm {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Marshal encodes nm in canonical form. Equal maps always produce identical
// bytes.
func Marshal(nm NodeMap) ([]byte, error) {
	if nm == nil {
		nm = NodeMap{}
	}
	data, err := json.Marshal(map[string]Position(nm))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode node map")
	}
	return data, nil
}

// Unmarshal decodes a node map. Key order in the input is irrelevant; every
// value must be an array of exactly two numbers.
func Unmarshal(data []byte) (NodeMap, error) {
	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Malformed(err, "decode node map")
	}
	if raw == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "node map is not an object")
	}
	nm := make(NodeMap, len(raw))
	for label, v := range raw {
		if len(v) != 2 {
			return nil, errors.New(errors.ErrCodeMalformedInput, "node %q: want [x, y], got %d values", label, len(v))
		}
		nm[label] = Position{float32(v[0]), float32(v[1])}
	}
	return nm, nil
}

// Write writes the canonical form of nm followed by a newline.
func Write(w io.Writer, nm NodeMap) error {
	data, err := Marshal(nm)
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write node map")
	}
	return nil
}

// ReadJSON decodes a node map from r.
func ReadJSON(r io.Reader) (NodeMap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read node map")
	}
	return Unmarshal(data)
}

// Edge is a directed connection between two labels.
type Edge struct {
	From, To string
}

// Resolve looks up both endpoints of e, failing with UNRESOLVED_REFERENCE
// when either label is absent.
func (nm NodeMap) Resolve(e Edge) (from, to Position, err error) {
	from, ok := nm[e.From]
	if !ok {
		return from, to, errors.Unresolved(e.From)
	}
	to, ok = nm[e.To]
	if !ok {
		return from, to, errors.Unresolved(e.To)
	}
	return from, to, nil
}
