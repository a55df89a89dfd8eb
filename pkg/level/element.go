package level

import (
	"strconv"
)

// Element is one node of a decoded level tree.
//
// Attribute values are bool, int, float64 or string. Readers that only carry
// text (XML) store strings; the typed accessors parse them on demand.
type Element struct {
	Name       string
	Attributes map[string]any
	Children   []*Element
}

// Attr returns the raw attribute value for key.
func (e *Element) Attr(key string) (any, bool) {
	if e == nil || e.Attributes == nil {
		return nil, false
	}
	v, ok := e.Attributes[key]
	return v, ok
}

// String returns the attribute as a string. Numbers and booleans are not
// converted; only string-typed values succeed.
func (e *Element) String(key string) (string, bool) {
	v, ok := e.Attr(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the attribute as an int. Integral floats and numeric strings
// are accepted.
func (e *Element) Int(key string) (int, bool) {
	v, ok := e.Attr(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Float returns the attribute as a float64.
func (e *Element) Float(key string) (float64, bool) {
	v, ok := e.Attr(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Bool returns the attribute as a bool.
func (e *Element) Bool(key string) (bool, bool) {
	v, ok := e.Attr(key)
	if !ok {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if p, err := strconv.ParseBool(b); err == nil {
			return p, true
		}
	}
	return false, false
}

// Child returns the first direct child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	if e == nil {
		return nil
	}
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}
