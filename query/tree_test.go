package query

import (
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"

	"github.com/rose00/xmlinput/line"
	"github.com/rose00/xmlinput/xmlscan"
)

func newScannerForQuery(data string) *xmlscan.Scanner {
	return xmlscan.New(line.NewFromBytes([]byte(data)))
}

func TestBuildAssemblesNestedTree(t *testing.T) {
	a := assert.New(t)
	s := newScannerForQuery("<config>\n<item name='a'/>\n<item name='b'/>\ntext here\n</config>\n")

	tree, err := Build(s)
	a.NoError(err)
	a.NotNil(tree.Root)

	root := tree.Root.FirstChild
	a.NotNil(root)
	a.Equal(xmlquery.ElementNode, root.Type)
	a.Equal("config", root.Data)

	var children []*xmlquery.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	a.Len(children, 3)
	a.Equal("item", children[0].Data)
	a.Equal("a", children[0].Attr[0].Value)
	a.Equal("item", children[1].Data)
	a.Equal("b", children[1].Attr[0].Value)
	a.Equal(xmlquery.TextNode, children[2].Type)
	a.Equal("text here", children[2].Data)
}

func TestBuildRejectsUnmatchedClose(t *testing.T) {
	a := assert.New(t)
	s := newScannerForQuery("<config>\n</other>\n")
	_, err := Build(s)
	a.Error(err)
}

func TestBuildRejectsUnclosedInput(t *testing.T) {
	a := assert.New(t)
	s := newScannerForQuery("<config>\n<item/>\n")
	_, err := Build(s)
	a.Error(err)
}

func TestBuildRejectsStartingOnText(t *testing.T) {
	a := assert.New(t)
	s := newScannerForQuery("plain text\n")
	_, err := Build(s)
	a.Error(err)
}

func TestBuildResolvesNamespacePrefix(t *testing.T) {
	a := assert.New(t)
	s := newScannerForQuery("<cfg:config xmlns:cfg='urn:example:cfg'>\n<cfg:item name='a'/>\n</cfg:config>\n")

	tree, err := Build(s)
	a.NoError(err)

	root := tree.Root.FirstChild
	a.Equal("config", root.Data)
	a.Equal("cfg", root.Prefix)
	a.Equal("urn:example:cfg", root.NamespaceURI)

	item := root.FirstChild
	a.Equal("item", item.Data)
	a.Equal("cfg", item.Prefix)
	a.Equal("urn:example:cfg", item.NamespaceURI)
}

func TestQueryStringFindsElements(t *testing.T) {
	a := assert.New(t)
	s := newScannerForQuery("<config>\n<item name='a'/>\n<item name='b'/>\n</config>\n")
	tree, err := Build(s)
	a.NoError(err)

	all, err := tree.QueryString("//item")
	a.NoError(err)
	a.Len(all, 2)

	one, err := tree.QueryString("//item[@name='b']")
	a.NoError(err)
	a.Len(one, 1)
	a.Equal("b", one[0].Attr[0].Value)
}

func TestQueryWithCompiledExpr(t *testing.T) {
	a := assert.New(t)
	expr, err := Compile("//item/@name")
	a.NoError(err)

	s := newScannerForQuery("<config>\n<item name='a'/>\n</config>\n")
	tree, err := Build(s)
	a.NoError(err)

	nodes, err := tree.Query(expr)
	a.NoError(err)
	a.Len(nodes, 1)
}
