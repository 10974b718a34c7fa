package drugbank

import (
	"encoding/xml"
	"strings"
)

// node is a generic element tree. One top-level drug element is decoded into
// a node and then walked by path, which keeps the reader independent of the
// many optional sections a DrugBank release may or may not carry.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// text returns the trimmed character data of n.
func (n *node) text() string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

func (n *node) attr(local string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child named local, or nil.
func (n *node) child(local string) *node {
	if n == nil {
		return nil
	}
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			return &n.Children[i]
		}
	}
	return nil
}

// path follows a chain of direct children.
func (n *node) path(locals ...string) *node {
	cur := n
	for _, l := range locals {
		cur = cur.child(l)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// children returns every direct child named local.
func (n *node) children(local string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == local {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// descendants returns every element named local below n in document order.
func (n *node) descendants(local string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	var walk func(*node)
	walk = func(cur *node) {
		for i := range cur.Children {
			c := &cur.Children[i]
			if c.XMLName.Local == local {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// firstDescendant returns the first element named local below n, or nil.
func (n *node) firstDescendant(local string) *node {
	if n == nil {
		return nil
	}
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local == local {
			return c
		}
		if d := c.firstDescendant(local); d != nil {
			return d
		}
	}
	return nil
}

// value returns the trimmed text of the direct child local as a nullable
// cell: absent or empty elements are null.
func (n *node) value(local string) string {
	return n.child(local).text()
}
