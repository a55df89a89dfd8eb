package decode

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/matzehuels/lobbymap/pkg/errors"
	"github.com/matzehuels/lobbymap/pkg/level"
)

// Header is the magic string that opens every binary map.
const Header = "CELESTE MAP"

// Attribute value tags in the binary format.
const (
	tagBool byte = iota
	tagUint8
	tagInt16
	tagInt32
	tagFloat32
	tagLookup
	tagString
	tagRLE
)

type binReader struct {
	r      *bufio.Reader
	lookup []string
}

// Binary decodes a Celeste binary map. The package name stored in the file
// header is exposed as the root's "package" attribute.
func Binary(r io.Reader) (*level.Element, error) {
	d := &binReader{r: bufio.NewReader(r)}

	magic, err := d.string()
	if err != nil {
		return nil, errors.Malformed(err, "read header")
	}
	if magic != Header {
		return nil, errors.New(errors.ErrCodeMalformedInput, "not a binary map (header %q)", magic)
	}
	pkg, err := d.string()
	if err != nil {
		return nil, errors.Malformed(err, "read package name")
	}

	n, err := d.int16()
	if err != nil {
		return nil, errors.Malformed(err, "read lookup table size")
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "negative lookup table size %d", n)
	}
	d.lookup = make([]string, n)
	for i := range d.lookup {
		if d.lookup[i], err = d.string(); err != nil {
			return nil, errors.Malformed(err, "read lookup entry %d", i)
		}
	}

	root, err := d.element()
	if err != nil {
		return nil, errors.Malformed(err, "read element tree")
	}
	if root.Attributes == nil {
		root.Attributes = make(map[string]any)
	}
	root.Attributes["package"] = pkg
	return root, nil
}

func (d *binReader) element() (*level.Element, error) {
	name, err := d.lookupString()
	if err != nil {
		return nil, err
	}
	el := &level.Element{Name: name}

	count, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		el.Attributes = make(map[string]any, count)
	}
	for range count {
		key, err := d.lookupString()
		if err != nil {
			return nil, err
		}
		val, err := d.value()
		if err != nil {
			return nil, errors.Malformed(err, "attribute %s.%s", name, key)
		}
		el.Attributes[key] = val
	}

	children, err := d.int16()
	if err != nil {
		return nil, err
	}
	if children < 0 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "element %s has negative child count", name)
	}
	el.Children = make([]*level.Element, 0, children)
	for range children {
		c, err := d.element()
		if err != nil {
			return nil, err
		}
		el.Children = append(el.Children, c)
	}
	return el, nil
}

func (d *binReader) value() (any, error) {
	tag, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case tagBool:
		b, err := d.r.ReadByte()
		return b != 0, err
	case tagUint8:
		b, err := d.r.ReadByte()
		return int(b), err
	case tagInt16:
		v, err := d.int16()
		return int(v), err
	case tagInt32:
		var v int32
		err := binary.Read(d.r, binary.LittleEndian, &v)
		return int(v), err
	case tagFloat32:
		var bits uint32
		err := binary.Read(d.r, binary.LittleEndian, &bits)
		return float64(math.Float32frombits(bits)), err
	case tagLookup:
		return d.lookupString()
	case tagString:
		return d.string()
	case tagRLE:
		return d.rle()
	default:
		return nil, errors.New(errors.ErrCodeMalformedInput, "unknown value tag %d", tag)
	}
}

func (d *binReader) int16() (int16, error) {
	var v int16
	err := binary.Read(d.r, binary.LittleEndian, &v)
	return v, err
}

func (d *binReader) lookupString() (string, error) {
	i, err := d.int16()
	if err != nil {
		return "", err
	}
	if i < 0 || int(i) >= len(d.lookup) {
		return "", errors.New(errors.ErrCodeMalformedInput, "lookup index %d out of range", i)
	}
	return d.lookup[i], nil
}

// string reads a length-prefixed string whose length is a 7-bit varint.
func (d *binReader) string() (string, error) {
	var n, shift uint
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return "", err
		}
		n |= uint(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift > 28 {
			return "", errors.New(errors.ErrCodeMalformedInput, "string length overflows")
		}
	}
	var buf bytes.Buffer
	if copied, err := io.CopyN(&buf, d.r, int64(n)); copied < int64(n) {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return buf.String(), nil
}

// rle reads a run-length encoded string: (count, byte) pairs.
func (d *binReader) rle() (string, error) {
	n, err := d.int16()
	if err != nil {
		return "", err
	}
	if n < 0 || n%2 != 0 {
		return "", errors.New(errors.ErrCodeMalformedInput, "bad run-length size %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", err
	}
	var out []byte
	for i := 0; i < len(buf); i += 2 {
		for range buf[i] {
			out = append(out, buf[i+1])
		}
	}
	return string(out), nil
}
