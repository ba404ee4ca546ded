package render

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attrs builds an attribute list from key, value pairs.
func attrs(kv ...string) []html.Attribute {
	if len(kv)%2 != 0 {
		panic("attrs: odd number of arguments")
	}
	res := make([]html.Attribute, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		res = append(res, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	return res
}

// el builds an element node. Nil children are skipped, which keeps optional parts inline.
func el(tag string, attr []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attr,
	}
	for _, child := range children {
		if child != nil {
			n.AppendChild(child)
		}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func textf(format string, args ...any) *html.Node {
	return text(fmt.Sprintf(format, args...))
}

func fragment(children ...*html.Node) []*html.Node {
	res := make([]*html.Node, 0, len(children))
	for _, child := range children {
		if child != nil {
			res = append(res, child)
		}
	}
	return res
}

func when(cond bool, n func() *html.Node) *html.Node {
	if !cond {
		return nil
	}
	return n()
}

// HTML serializes n and its subtree.
func HTML(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", fmt.Errorf("failed to render node: %w", err)
	}
	return sb.String(), nil
}

// Document serializes n as a full HTML document.
func Document(n *html.Node) (string, error) {
	body, err := HTML(n)
	if err != nil {
		return "", err
	}
	return "<!DOCTYPE html>" + body, nil
}
