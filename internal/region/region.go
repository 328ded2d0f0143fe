// Package region partitions a node forest into titled records, each started
// by a delimiter element such as <a name="6.001">.
package region

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/htmlregions/internal/htmltree"
)

// Region is a titled run of sibling nodes. Nodes[0] is always the delimiter.
type Region struct {
	Title string
	Nodes []*htmltree.Node
}

// TitleFunc returns the title of a region started by n, or false when n is
// not a delimiter.
type TitleFunc func(n *htmltree.Node) (string, bool)

// Delimiter recognises the nodes that start a region.
type Delimiter struct {
	Tag   string
	Title TitleFunc
}

// Match returns the title for n when n is a delimiter. A nil Title accepts
// every node with the right tag and titles it "".
func (d Delimiter) Match(n *htmltree.Node) (string, bool) {
	if n == nil || !strings.EqualFold(n.Tag, d.Tag) {
		return "", false
	}
	if d.Title == nil {
		return "", true
	}
	return d.Title(n)
}

// Is reports whether n would start a region.
func (d Delimiter) Is(n *htmltree.Node) bool {
	_, ok := d.Match(n)
	return ok
}

// AttributeTitle titles a region with the value of attribute name. Nodes
// without the attribute, or with an empty value, are not delimiters.
func AttributeTitle(name string) TitleFunc {
	return func(n *htmltree.Node) (string, bool) {
		v, ok := n.Attr(name)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
}

// PatternTitle titles a region with the first match of re in the raw
// attribute text, using the first capture group when re has one.
func PatternTitle(re *regexp.Regexp) TitleFunc {
	return func(n *htmltree.Node) (string, bool) {
		m := re.FindStringSubmatch(n.Attributes)
		if m == nil {
			return "", false
		}
		if len(m) > 1 {
			return m[1], true
		}
		return m[0], true
	}
}

// Segment splits forest into regions started by nodes with the given tag for
// which titleOf yields a title. See Split.
func Segment(forest []*htmltree.Node, tag string, titleOf TitleFunc) []Region {
	return Split(forest, Delimiter{Tag: tag, Title: titleOf})
}

// Split walks nodes left to right. A delimiter opens a new region and every
// following sibling joins it until the next delimiter. Before the first
// delimiter of a level, nodes are searched recursively instead. Once a region
// closes, the children of its members are searched again so records hidden by
// broken nesting are still found; the results are not deduplicated.
func Split(nodes []*htmltree.Node, d Delimiter) []Region {
	var (
		regions []Region
		current *Region
	)
	flush := func() {
		if current == nil {
			return
		}
		closed := *current
		current = nil
		regions = append(regions, closed)
		for _, member := range closed.Nodes {
			regions = append(regions, Split(member.Children, d)...)
		}
	}

	for _, n := range nodes {
		if title, ok := d.Match(n); ok {
			flush()
			current = &Region{Title: title, Nodes: []*htmltree.Node{n}}
			continue
		}
		if current != nil {
			current.Nodes = append(current.Nodes, n)
			continue
		}
		if len(n.Children) > 0 {
			regions = append(regions, Split(n.Children, d)...)
		}
	}
	flush()
	return regions
}
