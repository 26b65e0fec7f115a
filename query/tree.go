package query

import (
	"encoding/xml"

	"github.com/antchfx/xmlquery"

	"github.com/rose00/xmlinput/xmlerr"
	"github.com/rose00/xmlinput/xmlscan"
)

// Tree is an assembled node tree rooted at a xmlquery.DocumentNode,
// built by Build from a run of xmlscan-classified lines.
type Tree struct {
	Root *xmlquery.Node
}

// Build walks s forward from its current line, turning each HEAD/ELEM/
// TAIL/TEXT line into the corresponding xmlquery node, until the markup
// opened by the first HEAD line closes or the input is exhausted.
//
// Build expects s to be positioned on a HEAD or ELEM line; calling it
// on a TEXT line (no enclosing element to assemble) is a caller error.
// An unmatched TAIL (one with no open element, or whose name differs
// from the innermost open element's), or input that ends with elements
// still open, reports an xmlerr of kind xmlerr.MatchFailure.
//
// xmlns / xmlns:<prefix> attributes are tracked as the tree is built,
// so a namespaced tag like "ns:item"
// gets Node.Prefix="ns" and Node.NamespaceURI resolved to whatever
// "ns" means at that point in the tree; a tag with no prefix is left
// with an empty NamespaceURI.
func Build(s *xmlscan.Scanner) (*Tree, error) {
	if s.Kind() == xmlscan.TEXT {
		return nil, xmlerr.New("query.Build", xmlerr.MatchFailure,
			xmlerr.WithMessage("no enclosing element: current line is TEXT"))
	}

	root := &xmlquery.Node{Type: xmlquery.DocumentNode}
	stack := []*xmlquery.Node{root}
	nsStack := []prefixMap{nil}

	for {
		switch s.Kind() {
		case xmlscan.HEAD:
			n, ns := elementNode(s, nsStack[len(nsStack)-1])
			appendChild(stack[len(stack)-1], n)
			stack = append(stack, n)
			nsStack = append(nsStack, ns)

		case xmlscan.ELEM:
			n, _ := elementNode(s, nsStack[len(nsStack)-1])
			appendChild(stack[len(stack)-1], n)

		case xmlscan.TAIL:
			open := ""
			if top := stack[len(stack)-1]; len(stack) > 1 {
				open = top.Data
				if top.Prefix != "" {
					open = top.Prefix + ":" + top.Data
				}
			}
			if len(stack) <= 1 || string(s.Tag()) != open {
				return nil, xmlerr.New("query.Build", xmlerr.MatchFailure,
					xmlerr.WithLine(s.Reader().Lineno()),
					xmlerr.WithMessage("unmatched closing tag </"+string(s.Tag())+">"))
			}
			stack = stack[:len(stack)-1]
			nsStack = nsStack[:len(nsStack)-1]

		case xmlscan.TEXT:
			appendChild(stack[len(stack)-1], &xmlquery.Node{
				Type: xmlquery.TextNode,
				Data: string(s.Text()),
			})
		}

		if len(stack) == 1 {
			// The element that opened this run has closed.
			break
		}
		if !s.Next() {
			return nil, xmlerr.New("query.Build", xmlerr.MatchFailure,
				xmlerr.WithLine(s.Reader().Lineno()),
				xmlerr.WithMessage("input ended with elements still open"))
		}
	}

	return &Tree{Root: root}, nil
}

// elementNode builds the node for the current markup line and returns
// the prefixMap in effect for its own children (parent extended by any
// xmlns declarations on this element).
func elementNode(s *xmlscan.Scanner, parentNS prefixMap) (*xmlquery.Node, prefixMap) {
	attrs := s.Attrs()
	xattrs := make([]xml.Attr, len(attrs))
	for i, a := range attrs {
		xattrs[i] = toXMLAttr(string(a.Name), string(a.Value))
	}

	ns := declared(parentNS, xattrs)

	prefix, local := qualifiedName(string(s.Tag()))
	qattrs := make([]xmlquery.Attr, len(xattrs))
	for i, a := range xattrs {
		qattrs[i] = xmlquery.Attr{Name: a.Name, Value: a.Value}
	}
	n := &xmlquery.Node{
		Type:         xmlquery.ElementNode,
		Data:         local,
		Prefix:       prefix,
		NamespaceURI: ns.resolve(prefix),
		Attr:         qattrs,
	}
	return n, ns
}

// appendChild links child as the last child of parent, wiring the
// sibling pointers xmlquery's own tree-walking methods expect.
func appendChild(parent, child *xmlquery.Node) {
	child.Parent = parent
	if parent.FirstChild == nil {
		parent.FirstChild = child
	} else {
		parent.LastChild.NextSibling = child
		child.PrevSibling = parent.LastChild
	}
	parent.LastChild = child
}
