// Package htmlstyle runs the inline <style> elements of an HTML
// document through the container query transpiler, using
// golang.org/x/net/html as the underlying parser.
package htmlstyle

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/cqfill/transform"
)

// Result is the outcome of rewriting one document.
type Result struct {
	// HTML is the re-serialized document.
	HTML string

	// Descriptors aggregates the descriptors of every rewritten
	// <style> element, in document order. Parent indices are re-based
	// to index into this aggregate slice.
	Descriptors []transform.Descriptor

	// Styles counts the <style> elements that were rewritten.
	Styles int
}

// RewriteDocument parses an HTML document, transpiles each inline
// <style> element and re-serializes the document. Each style element
// is transpiled separately, with the document's shared salt and an id
// offset that continues from the previous elements, so descriptor ids
// stay unique across the document.
func RewriteDocument(r io.Reader, opts transform.Options) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmlstyle: parsing document: %w", err)
	}

	// One salt for the whole document, so every style element shares
	// the same internal property and attribute names.
	if opts.Salt == "" {
		opts.Salt = transform.NewSalt()
	}

	result := &Result{}
	rewriteStyles(doc, opts, result)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return nil, fmt.Errorf("htmlstyle: rendering document: %w", err)
	}
	result.HTML = sb.String()
	return result, nil
}

// rewriteStyles walks the node tree looking for style elements.
func rewriteStyles(n *html.Node, opts transform.Options, result *Result) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Style {
		rewriteStyleElement(n, opts, result)
		return
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		rewriteStyles(child, opts, result)
	}
}

func rewriteStyleElement(n *html.Node, opts transform.Options, result *Result) {
	var source strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			source.WriteString(child.Data)
		}
	}
	if strings.TrimSpace(source.String()) == "" {
		return
	}

	opts.IDOffset = len(result.Descriptors)
	out, descriptors := transform.Transform(source.String(), opts)

	// Re-base nested-descriptor parent links onto the aggregate slice.
	offset := len(result.Descriptors)
	for i := range descriptors {
		if descriptors[i].Parent >= 0 {
			descriptors[i].Parent += offset
		}
	}
	result.Descriptors = append(result.Descriptors, descriptors...)
	result.Styles++

	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		child = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: out})
}
