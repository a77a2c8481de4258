package trellis

import (
	"math"
	"sort"
)

// SetAttr stores an attribute value. Later writes replace earlier ones.
// Non-finite numbers are rejected with an *InvalidAttributeError.
func (n *Node) SetAttr(key string, value any) error {
	if !finiteValue(value) {
		return &InvalidAttributeError{Key: key, Value: value}
	}
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[key] = value
	return nil
}

// Attr returns an attribute value and whether it is set.
func (n *Node) Attr(key string) (any, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// DelAttr removes an attribute. No-op if it is not set.
func (n *Node) DelAttr(key string) {
	delete(n.attrs, key)
}

// AttrKeys returns the attribute keys in sorted order.
func (n *Node) AttrKeys() []string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyAttrs(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func finiteValue(v any) bool {
	switch x := v.(type) {
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		f := float64(x)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return true
}
