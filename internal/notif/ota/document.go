// Package ota translates raw OTA SOAP/XML notifications into the
// normalized records the reconciliation engine consumes. Parsing is
// generic (element tree to map) and every projection fails soft: missing
// paths yield empty values, never panics or errors, so the pipeline can
// always reach the response builder.
package ota

import (
	"fmt"
	"strings"

	mxj "github.com/clbanning/mxj/v2"
)

// AttrPrefix marks attribute keys in the parsed mapping, and TextKey
// holds element character data when a node also carries attributes.
const (
	AttrPrefix = "@"
	TextKey    = "#text"
)

func init() {
	mxj.SetAttrPrefix(AttrPrefix)
}

// Document is the generic mapping produced from one XML payload.
type Document map[string]any

// Parse converts raw XML into a Document. Malformed input yields an
// empty document; callers detect that with Empty.
func Parse(data []byte) Document {
	m, err := mxj.NewMapXml(data)
	if err != nil {
		return Document{}
	}
	return Document(m)
}

func (d Document) Empty() bool {
	return len(d) == 0
}

// Root exposes the document for node navigation.
func (d Document) Root() Node {
	return Node(d)
}

// Node is one element in the parsed tree. All lookups match the local
// element name, ignoring the namespace prefix, because channel managers
// disagree on prefix spelling (soap-env, SOAP-ENV, soapenv).
type Node map[string]any

func localName(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func (n Node) lookup(name string) (any, bool) {
	if v, ok := n[name]; ok {
		return v, true
	}
	for k, v := range n {
		if !strings.HasPrefix(k, AttrPrefix) && localName(k) == name {
			return v, true
		}
	}
	return nil, false
}

func asNode(v any) Node {
	switch t := v.(type) {
	case map[string]any:
		return Node(t)
	case []any:
		// Repeated siblings collapse to the first element here; callers
		// that need all of them use Children.
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				return Node(m)
			}
		}
	}
	return Node{}
}

// Child returns the named child element, or an empty node when absent,
// so lookups chain safely.
func (n Node) Child(name string) Node {
	v, ok := n.lookup(name)
	if !ok {
		return Node{}
	}
	return asNode(v)
}

// Children coerces the single-or-many element shape into a slice.
func (n Node) Children(name string) []Node {
	v, ok := n.lookup(name)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []any:
		nodes := make([]Node, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				nodes = append(nodes, Node(m))
			} else {
				nodes = append(nodes, Node{})
			}
		}
		return nodes
	case map[string]any:
		return []Node{Node(t)}
	}
	// A present but empty element (<Elem/>) parses to a scalar. It still
	// counts as one child, so projections over it fail soft instead of
	// reporting the element missing.
	return []Node{{}}
}

// Attr returns the named attribute value, or "".
func (n Node) Attr(name string) string {
	if v, ok := n[AttrPrefix+name]; ok {
		return scalar(v)
	}
	for k, v := range n {
		if strings.HasPrefix(k, AttrPrefix) && localName(k[len(AttrPrefix):]) == name {
			return scalar(v)
		}
	}
	return ""
}

// Text returns the character data of the named child, handling both the
// scalar encoding (<Email>x</Email>) and the element-with-attributes
// encoding (<Email Type="1">x</Email> parsed as {#text: x}).
func (n Node) Text(name string) string {
	v, ok := n.lookup(name)
	if !ok {
		return ""
	}
	return scalar(v)
}

func (n Node) Empty() bool {
	return len(n) == 0
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if text, ok := t[TextKey]; ok {
			return scalar(text)
		}
		return ""
	case []any:
		for _, item := range t {
			if s := scalar(item); s != "" {
				return s
			}
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
