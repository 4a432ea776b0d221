// Package ubl extracts invoice data from UBL 2.1 electronic invoice
// documents as profiled by SUNAT (Peru).
//
// SUNAT invoices mix several XML namespaces (cbc, cac, sac) for
// semantically equivalent fields, and issuers are not consistent about
// prefixes. All lookups here therefore match on local element names only.
// Extraction is best-effort: a field that cannot be found resolves to the
// empty string, and only a document that cannot be parsed at all is a hard
// failure.
package ubl

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

// Element is one node of the parsed invoice tree. Parent links are kept so
// identifier disambiguation can walk ancestors.
type Element struct {
	Local    string // local tag name, namespace prefix stripped
	Space    string // namespace URI, informational only
	Parent   *Element
	Children []*Element

	text strings.Builder
}

// Document is a parsed invoice tree.
type Document struct {
	root *Element
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// Parse reads an XML document into an element tree. Stylesheet processing
// instructions, comments and directives are skipped, and a leading BOM is
// tolerated; SUNAT downloads frequently carry both.
func Parse(r io.Reader) (*Document, error) {
	const op = "Parse"

	dec := xml.NewDecoder(stripBOM(r))
	// Some issuers emit ISO-8859-1 declarations; decode the bytes as-is
	// rather than failing on the charset label.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root, cur *Element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ExtractionError{Op: op, Err: ErrUnparsableDocument, Details: err.Error()}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{
				Local:  t.Name.Local,
				Space:  t.Name.Space,
				Parent: cur,
			}
			if cur != nil {
				cur.Children = append(cur.Children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, &ExtractionError{Op: op, Err: ErrUnparsableDocument, Details: "multiple root elements"}
			}
			cur = el
		case xml.EndElement:
			if cur != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur != nil {
				cur.text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, &ExtractionError{Op: op, Err: ErrUnparsableDocument, Details: "document has no root element"}
	}
	return &Document{root: root}, nil
}

// Text returns the element's accumulated character data, trimmed.
func (e *Element) Text() string {
	return strings.TrimSpace(e.text.String())
}

// Find returns the first element with the given local name anywhere under
// e (excluding e itself), in document order, or nil.
func (e *Element) Find(local string) *Element {
	for _, c := range e.Children {
		if c.Local == local {
			return c
		}
		if found := c.Find(local); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every element with the given local name under e, in
// document order.
func (e *Element) FindAll(local string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Local == local {
			out = append(out, c)
		}
		out = append(out, c.FindAll(local)...)
	}
	return out
}

// Value returns the trimmed text of the first element with the given local
// name under e, regardless of namespace; empty string if absent.
func (e *Element) Value(local string) string {
	if found := e.Find(local); found != nil {
		return found.Text()
	}
	return ""
}

// hasAncestor reports whether any ancestor of e (including e itself) has
// one of the given local names.
func (e *Element) hasAncestor(locals ...string) bool {
	for node := e; node != nil; node = node.Parent {
		for _, l := range locals {
			if node.Local == l {
				return true
			}
		}
	}
	return false
}

// stripBOM removes a UTF-8 byte order mark before decoding.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	head, err := br.Peek(3)
	if err == nil && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		if _, err := br.Discard(3); err != nil {
			// Discard after a successful Peek cannot fail; keep the
			// reader usable regardless.
			return br
		}
	}
	return br
}
