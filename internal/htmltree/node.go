// Package htmltree turns loosely structured HTML into a forest of tag nodes.
//
// It is not a conforming HTML parser. Tags are found by a single regular
// expression pass and nested with an explicit stack, recovering from
// mismatched or stray closing tags instead of rejecting the document. Every
// node records byte offsets into the preprocessed text so callers can recover
// both the raw markup and the tag-stripped text of any element.
package htmltree

import (
	"fmt"
	"regexp"
	"strings"
)

// selfClosingTags never receive a closing tag. The set is fixed.
var selfClosingTags = map[string]struct{}{
	"br":  {},
	"img": {},
	"hr":  {},
}

// IsSelfClosingTag reports whether tag is in the fixed allow-list of elements
// that are never pushed onto the open-element stack (br, img, hr).
func IsSelfClosingTag(tag string) bool {
	_, ok := selfClosingTags[strings.ToLower(tag)]
	return ok
}

// Node is one parsed element. Offsets are byte offsets into the text that was
// handed to Build (the output of Normalize when going through Parse).
type Node struct {
	// Tag is the lowercased tag name.
	Tag string
	// Attributes is the raw text between the tag name and the closing '>'.
	Attributes string

	// ContentStart and ContentEnd bound the inner markup.
	ContentStart int
	ContentEnd   int
	// TagStart and TagEnd bound the element including its own tags.
	TagStart int
	TagEnd   int

	// Contents is the raw markup inside the element.
	Contents string
	// Stripped is Contents with all markup removed.
	Stripped string

	Children []*Node
}

// IsEmpty reports whether the node has a zero-length content span.
func (n *Node) IsEmpty() bool {
	return n.ContentEnd <= n.ContentStart
}

// attributePattern matches one key, optionally followed by a quoted or bare value.
var attributePattern = regexp.MustCompile(`([^\s=/"'<>]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'<>]+)))?`)

// Attr returns the value of the first attribute called name (case-insensitive).
// Later duplicates are ignored.
func (n *Node) Attr(name string) (string, bool) {
	return AttributeValue(n.Attributes, name)
}

// AttributeValue looks up name in raw attribute text such as ` name="x" id=y`.
// The first occurrence wins. Attributes without a value yield "" and true.
func AttributeValue(attributes, name string) (string, bool) {
	for _, m := range attributePattern.FindAllStringSubmatchIndex(attributes, -1) {
		if !strings.EqualFold(attributes[m[2]:m[3]], name) {
			continue
		}
		for g := 2; g <= 4; g++ {
			if m[2*g] >= 0 {
				return attributes[m[2*g]:m[2*g+1]], true
			}
		}
		return "", true
	}
	return "", false
}

// Walk visits n and its descendants depth-first in document order. Returning
// false from fn skips the children of the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

func (n *Node) String() string {
	if len(n.Children) == 0 {
		if n.Contents == "" {
			return fmt.Sprintf("<%s%s/>", n.Tag, n.Attributes)
		}
		return fmt.Sprintf("<%s%s>: %q", n.Tag, n.Attributes, n.Stripped)
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("<%s%s>: %q, %s", n.Tag, n.Attributes, n.Stripped, strings.Join(parts, "\n"))
}
