package htmltree

import (
	"errors"
	"strings"
	"testing"
)

func tolerant() Options { return Options{IgnoreErrors: true} }

// checkSpans asserts the span invariants for nodes and all descendants.
func checkSpans(t *testing.T, text string, nodes []*Node) {
	t.Helper()
	for _, n := range nodes {
		if got := text[n.ContentStart:n.ContentEnd]; got != n.Contents {
			t.Fatalf("<%s> contents %q, slice %q", n.Tag, n.Contents, got)
		}
		if n.TagStart > n.ContentStart || n.ContentEnd > n.TagEnd {
			t.Fatalf("<%s> content span [%d,%d) outside enclosing span [%d,%d)", n.Tag, n.ContentStart, n.ContentEnd, n.TagStart, n.TagEnd)
		}
		if tagPattern.MatchString(n.Stripped) {
			t.Fatalf("<%s> stripped contents still holds markup: %q", n.Tag, n.Stripped)
		}
		for _, c := range n.Children {
			if c.TagStart < n.ContentStart || c.TagEnd > n.ContentEnd {
				t.Fatalf("child <%s> [%d,%d) escapes parent <%s> content [%d,%d)", c.Tag, c.TagStart, c.TagEnd, n.Tag, n.ContentStart, n.ContentEnd)
			}
		}
		checkSpans(t, text, n.Children)
	}
}

func TestBuild_WellBalancedSpans(t *testing.T) {
	text := `<div id="x"><p>One <b>two</b> three</p><ul><li>a</li><li>b<br>c</li></ul></div><p>tail</p>`
	for _, opts := range []Options{{}, tolerant()} {
		nodes, err := Build(text, Scan(text), opts)
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if len(nodes) != 2 {
			t.Fatalf("expected 2 top-level nodes, got %d", len(nodes))
		}
		checkSpans(t, text, nodes)
		div := nodes[0]
		if div.Tag != "div" || div.Attributes != ` id="x"` {
			t.Fatalf("unexpected first node %s%q", div.Tag, div.Attributes)
		}
		if div.TagStart != 0 || div.TagEnd != len(text)-len(`<p>tail</p>`) {
			t.Fatalf("div enclosing span [%d,%d)", div.TagStart, div.TagEnd)
		}
		if div.Stripped != "One two threeabc" {
			t.Fatalf("div stripped %q", div.Stripped)
		}
		p := div.Children[0]
		if p.Stripped != "One two three" || p.Contents != "One <b>two</b> three" {
			t.Fatalf("p contents %q stripped %q", p.Contents, p.Stripped)
		}
	}
}

func TestBuild_SelfClosingNodesHaveEmptyContent(t *testing.T) {
	text := `<p>a<br>b<img src="x.png" title="T"><hr/><span/>c</p>`
	nodes, err := Build(text, Scan(text), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	p := nodes[0]
	if len(p.Children) != 4 {
		t.Fatalf("expected 4 children, got %d", len(p.Children))
	}
	for _, c := range p.Children {
		if !c.IsEmpty() || c.Contents != "" {
			t.Fatalf("<%s> should have empty content span, got [%d,%d)", c.Tag, c.ContentStart, c.ContentEnd)
		}
		if got := text[c.TagStart:c.TagEnd]; !strings.HasPrefix(got, "<"+c.Tag) || !strings.HasSuffix(got, ">") {
			t.Fatalf("enclosing span of <%s> is %q", c.Tag, got)
		}
	}
	if p.Stripped != "abc" {
		t.Fatalf("stripped %q", p.Stripped)
	}
}

func TestBuild_EndToEndStrippedContents(t *testing.T) {
	text := `<a name="1">X<b>Y</b></a><a name="2">Z</a>`
	nodes, err := Build(text, Scan(text), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	a := nodes[0]
	if a.Stripped != "XY" {
		t.Fatalf("stripped %q, want XY", a.Stripped)
	}
	if len(a.Children) != 1 || a.Children[0].Tag != "b" || a.Children[0].Stripped != "Y" {
		t.Fatalf("unexpected children %v", a.Children)
	}
	if nodes[1].Stripped != "Z" {
		t.Fatalf("second stripped %q", nodes[1].Stripped)
	}
}

func TestBuild_MismatchedCloserRecovery(t *testing.T) {
	text := `<a><b></a>`
	nodes, err := Build(text, Scan(text), tolerant())
	if err != nil {
		t.Fatalf("tolerant build: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Tag != "a" {
		t.Fatalf("expected single <a>, got %v", nodes)
	}
	a := nodes[0]
	if a.TagEnd != len(text) || a.ContentEnd != strings.Index(text, "</a>") {
		t.Fatalf("<a> not closed at </a>: content end %d, tag end %d", a.ContentEnd, a.TagEnd)
	}
	if len(a.Children) != 1 || a.Children[0].Tag != "b" {
		t.Fatalf("expected child <b>, got %v", a.Children)
	}
	b := a.Children[0]
	if b.TagEnd != a.ContentEnd || !b.IsEmpty() {
		t.Fatalf("<b> should be closed early at offset %d, got [%d,%d)", a.ContentEnd, b.TagStart, b.TagEnd)
	}
	checkSpans(t, text, nodes)

	// Strict mode pops only <b> at </a>, so <a> is left open.
	nodes, err = Build(text, Scan(text), Options{})
	if !errors.Is(err, ErrUnclosedElement) {
		t.Fatalf("strict: expected ErrUnclosedElement, got %v", err)
	}
	if nodes != nil {
		t.Fatalf("strict: expected no result, got %v", nodes)
	}
}

func TestBuild_StrictMismatchedCloserPopsTop(t *testing.T) {
	text := `<a></b>`
	nodes, err := Build(text, Scan(text), Options{})
	if err != nil {
		t.Fatalf("strict build %q: %v", text, err)
	}
	if len(nodes) != 1 || nodes[0].Tag != "a" || nodes[0].TagEnd != len(text) || nodes[0].ContentEnd != 3 {
		t.Fatalf("<a> should be closed by </b>: %v", nodes)
	}

	text = `<a><b></a></a>`
	nodes, err = Build(text, Scan(text), Options{})
	if err != nil {
		t.Fatalf("strict build %q: %v", text, err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 1 {
		t.Fatalf("expected <a> with one child, got %v", nodes)
	}
	a, b := nodes[0], nodes[0].Children[0]
	if b.Tag != "b" || b.ContentEnd != 6 || b.TagEnd != 10 {
		t.Fatalf("<b> should be closed by the first </a>: [%d,%d)", b.ContentEnd, b.TagEnd)
	}
	if a.ContentEnd != 10 || a.TagEnd != len(text) {
		t.Fatalf("<a> should be closed by the second </a>: [%d,%d)", a.ContentEnd, a.TagEnd)
	}
	checkSpans(t, text, nodes)
}

// Joining a child's stripped text to the surrounding text can spell out a
// tag again; the stripped accumulator does not rescan after the join.
func TestBuild_StrippedJoinCanFormTagText(t *testing.T) {
	text := `<p>1 <<b>x</b>> 2</p>`
	nodes, err := Build(text, Scan(text), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := nodes[0].Stripped; got != "1 <x> 2" {
		t.Fatalf("stripped %q", got)
	}
	if nodes[0].Children[0].Stripped != "x" {
		t.Fatalf("child stripped %q", nodes[0].Children[0].Stripped)
	}
}

func TestBuild_MismatchedCloserWithoutOpenAncestorPopsTop(t *testing.T) {
	text := `<div><p>x</font>y</div>`
	nodes, err := Build(text, Scan(text), tolerant())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	div := nodes[0]
	p := div.Children[0]
	if p.Contents != "x" || p.TagEnd != strings.Index(text, "y") {
		t.Fatalf("<p> should end at </font>: contents %q tag end %d", p.Contents, p.TagEnd)
	}
	if div.Stripped != "xy" {
		t.Fatalf("div stripped %q", div.Stripped)
	}
}

func TestBuild_UnmatchedClosingTag(t *testing.T) {
	text := `</p><b>x</b>`
	nodes, err := Build(text, Scan(text), tolerant())
	if err != nil {
		t.Fatalf("tolerant: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Tag != "b" {
		t.Fatalf("expected only <b>, got %v", nodes)
	}

	nodes, err = Build(text, Scan(text), Options{})
	if !errors.Is(err, ErrUnmatchedClosingTag) || nodes != nil {
		t.Fatalf("strict: expected ErrUnmatchedClosingTag and no nodes, got %v %v", nodes, err)
	}
}

func TestBuild_UnclosedElements(t *testing.T) {
	text := `<ul><li>one<li>two`
	nodes, err := Build(text, Scan(text), tolerant())
	if err != nil {
		t.Fatalf("tolerant: %v", err)
	}
	ul := nodes[0]
	if ul.TagEnd != len(text) || ul.Stripped != "onetwo" {
		t.Fatalf("ul span end %d stripped %q", ul.TagEnd, ul.Stripped)
	}
	first := ul.Children[0]
	if len(first.Children) != 1 || first.Children[0].Stripped != "two" {
		t.Fatalf("second <li> should nest inside the first, got %v", first.Children)
	}
	checkSpans(t, text, nodes)

	if _, err := Build(text, Scan(text), Options{}); !errors.Is(err, ErrUnclosedElement) {
		t.Fatalf("strict: expected ErrUnclosedElement, got %v", err)
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	for _, text := range []string{"", "just text", "a < b > c"} {
		nodes, err := Build(text, Scan(text), Options{})
		if err != nil {
			t.Fatalf("%q: unexpected error %v", text, err)
		}
		if nodes == nil || len(nodes) != 0 {
			t.Fatalf("%q: expected empty forest, got %v", text, nodes)
		}
	}
}

func TestParse_CommentsProduceNoNodes(t *testing.T) {
	text := "<p>a<!-- <b>hidden</b>\n<i> --></p><!--<div>-->"
	nodes, normalized, err := Parse(text, Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if normalized != "<p>a</p>" {
		t.Fatalf("normalized %q", normalized)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 0 {
		t.Fatalf("comment markup leaked into the tree: %v", nodes)
	}
	if nodes[0].Stripped != "a" {
		t.Fatalf("stripped %q", nodes[0].Stripped)
	}
}

func TestParse_FullDocumentUsesBody(t *testing.T) {
	text := "<!DOCTYPE html>\n<HTML><head><title>t</title></head>\n<BODY class=\"x\">\n<p>hi</p>\n</BODY >\n</HTML>"
	nodes, normalized, err := Parse(text, Options{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if normalized != "\n<p>hi</p>\n" {
		t.Fatalf("normalized %q", normalized)
	}
	if len(nodes) != 1 || nodes[0].Tag != "p" {
		t.Fatalf("expected only body content, got %v", nodes)
	}
	checkSpans(t, normalized, nodes)
}

func TestParse_MalformedDocument(t *testing.T) {
	for _, text := range []string{
		"<html><head></head><p>no body</p></html>",
		"<html><body><p>never closed</p></html>",
	} {
		nodes, _, err := Parse(text, tolerant())
		if !errors.Is(err, ErrMalformedDocument) {
			t.Fatalf("%q: expected ErrMalformedDocument, got %v", text, err)
		}
		if nodes != nil {
			t.Fatalf("%q: expected no nodes", text)
		}
	}
}
