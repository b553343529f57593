// Package svg renders timelines into a small markup tree that can be
// written out as an HTML page or a standalone SVG image.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/safedep/timescope/core/geometry"
)

type attr struct {
	key   string
	value string
}

// Node is one element of the markup tree. Attributes keep insertion order
// so output is stable.
type Node struct {
	Tag      string
	Text     string
	Children []*Node

	attrs  []attr
	parent *Node
}

// NewNode creates a detached element.
func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// Attr returns the value of attribute key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

// SetAttr sets attribute key, replacing any previous value.
func (n *Node) SetAttr(key, value string) *Node {
	for i := range n.attrs {
		if n.attrs[i].key == key {
			n.attrs[i].value = value
			return n
		}
	}
	n.attrs = append(n.attrs, attr{key: key, value: value})
	return n
}

// SetNum sets a numeric attribute.
func (n *Node) SetNum(key string, v float64) *Node {
	return n.SetAttr(key, geometry.FormatNumber(v))
}

// Append adds child as the last child of n and returns the child.
func (n *Node) Append(child *Node) *Node {
	if child.parent != nil {
		child.Remove()
	}
	child.parent = n
	n.Children = append(n.Children, child)
	return child
}

// AppendNew creates an element and appends it to n.
func (n *Node) AppendNew(tag string) *Node {
	return n.Append(NewNode(tag))
}

// Remove detaches n from its parent.
func (n *Node) Remove() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.Children {
		if c == n {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	n.parent = nil
}

// Parent returns the parent element, nil when detached.
func (n *Node) Parent() *Node {
	return n.parent
}

// HasClass reports whether the class attribute lists class.
func (n *Node) HasClass(class string) bool {
	v, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// FindAll returns the descendants of n that match, in document order.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// FindClass returns the descendants carrying class.
func (n *Node) FindClass(class string) []*Node {
	return n.FindAll(func(c *Node) bool { return c.HasClass(class) })
}

// FindTag returns the descendants with the given tag.
func (n *Node) FindTag(tag string) []*Node {
	return n.FindAll(func(c *Node) bool { return c.Tag == tag })
}

// WriteTo serialises n and its subtree.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := n.write(&buf); err != nil {
		return 0, err
	}
	written, err := w.Write(buf.Bytes())
	return int64(written), err
}

// String returns the serialised subtree.
func (n *Node) String() string {
	var buf bytes.Buffer
	if err := n.write(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func (n *Node) write(buf *bytes.Buffer) error {
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	for _, a := range n.attrs {
		fmt.Fprintf(buf, ` %s="`, a.key)
		if err := xml.EscapeText(buf, []byte(a.value)); err != nil {
			return err
		}
		buf.WriteByte('"')
	}

	if len(n.Children) == 0 && n.Text == "" && !needsCloseTag(n.Tag) {
		buf.WriteString("/>")
		return nil
	}

	buf.WriteByte('>')
	if n.Text != "" {
		if err := xml.EscapeText(buf, []byte(n.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := c.write(buf); err != nil {
			return err
		}
	}
	buf.WriteString("</")
	buf.WriteString(n.Tag)
	buf.WriteByte('>')
	return nil
}

// HTML containers must not self-close.
func needsCloseTag(tag string) bool {
	switch tag {
	case "div", "body", "html", "head", "style", "title", "script":
		return true
	}
	return false
}
