package ingest

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

type xmlNode struct {
	name     string
	text     strings.Builder
	children []*xmlNode
}

func (n *xmlNode) leaf() bool { return len(n.children) == 0 }

// ReadXML reads every element that carries an identifier child, whatever
// the enclosing document structure or namespaces. Field names are element
// local names; the first occurrence of a name within a record wins.
func ReadXML(r io.Reader) ([]RawRow, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var root *xmlNode
	var stack []*xmlNode
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &xmlNode{name: t.Name.Local}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, ErrEmptySource
	}

	var rows []RawRow
	var walk func(n *xmlNode)
	walk = func(n *xmlNode) {
		if isRecordElement(n) {
			rows = append(rows, RawRow{Index: len(rows) + 1, Fields: collectLeaves(n)})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)

	if len(rows) == 0 {
		return nil, ErrEmptySource
	}
	return rows, nil
}

// isRecordElement reports whether n has a direct leaf child named like an
// identifier. Requiring a leaf keeps a container of <Item> records from being
// mistaken for a record itself.
func isRecordElement(n *xmlNode) bool {
	for _, c := range n.children {
		if c.leaf() && IsIdentifierField(c.name) {
			return true
		}
	}
	return false
}

func collectLeaves(n *xmlNode) map[string]string {
	fields := make(map[string]string)
	var walk func(c *xmlNode)
	walk = func(c *xmlNode) {
		if c.leaf() {
			if _, ok := fields[c.name]; !ok {
				fields[c.name] = strings.TrimSpace(c.text.String())
			}
			return
		}
		for _, cc := range c.children {
			walk(cc)
		}
	}
	for _, c := range n.children {
		walk(c)
	}
	return fields
}
