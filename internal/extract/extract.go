package extract

import (
    "strings"

    "golang.org/x/net/html"
    "golang.org/x/text/unicode/norm"

    "github.com/hyperifyio/htmlregions/internal/htmltree"
    "github.com/hyperifyio/htmlregions/internal/region"
)

// Rules tell the traversal which nodes are special.
type Rules struct {
    // IsDelimiter reports nodes that start a new record. Traversal stops at
    // the first one it meets.
    IsDelimiter func(*htmltree.Node) bool
    // ImageTag nodes contribute the value of ImageAttr instead of text.
    ImageTag  string
    ImageAttr string
    // InlineTags contribute their whole stripped text as one fragment.
    InlineTags []string
    // Decode applies Decode to every fragment.
    Decode bool
}

// DefaultRules stops at d and reads image titles, treating <a> and <span> as
// inline text.
func DefaultRules(d region.Delimiter) Rules {
    return Rules{
        IsDelimiter: d.Is,
        ImageTag:    "img",
        ImageAttr:   "title",
        InlineTags:  []string{"a", "span"},
        Decode:      true,
    }
}

// Result is the outcome of a traversal. StoppedAtDelimiter is set when a
// delimiter-shaped node ended the walk; Fragments then holds whatever was
// collected before it.
type Result struct {
    Fragments          []string
    StoppedAtDelimiter bool
}

// Fragments collects the text fragments of n's subtree depth-first. The
// delimiter check applies to n itself too, so a delimiter yields an empty,
// stopped result.
func Fragments(n *htmltree.Node, rules Rules) Result {
    w := walker{rules: rules}
    stopped := w.node(n)
    return Result{Fragments: w.out, StoppedAtDelimiter: stopped}
}

// Collect gathers the fragments of a whole region. The leading delimiter is
// the record head and its contents are read. A delimiter-shaped member met
// before anything was collected is passed over; otherwise collection ends at
// the next delimiter-shaped node, keeping the fragments found before it.
func Collect(r region.Region, rules Rules) []string {
    w := walker{rules: rules}
    for i, n := range r.Nodes {
        if i == 0 {
            if w.contents(n) {
                break
            }
            continue
        }
        if len(w.out) == 0 && rules.IsDelimiter != nil && rules.IsDelimiter(n) {
            continue
        }
        if w.node(n) {
            break
        }
    }
    return w.out
}

type walker struct {
    rules Rules
    out   []string
}

func (w *walker) add(s string) {
    if w.rules.Decode {
        s = Decode(s)
    }
    s = collapseSpaces(strings.TrimSpace(s))
    if s != "" {
        w.out = append(w.out, s)
    }
}

func (w *walker) isInline(tag string) bool {
    for _, t := range w.rules.InlineTags {
        if strings.EqualFold(t, tag) {
            return true
        }
    }
    return false
}

// node returns true when traversal must stop.
func (w *walker) node(n *htmltree.Node) bool {
    if n == nil {
        return false
    }
    if w.rules.ImageTag != "" && strings.EqualFold(n.Tag, w.rules.ImageTag) {
        if v, ok := n.Attr(w.rules.ImageAttr); ok {
            w.add(v)
        }
        return false
    }
    if w.rules.IsDelimiter != nil && w.rules.IsDelimiter(n) {
        return true
    }
    if w.isInline(n.Tag) || len(n.Children) == 0 {
        w.add(n.Stripped)
        return false
    }
    return w.contents(n)
}

// contents walks the text runs and children of n in document order.
func (w *walker) contents(n *htmltree.Node) bool {
    if len(n.Children) == 0 {
        w.add(n.Stripped)
        return false
    }
    pos := n.ContentStart
    for _, c := range n.Children {
        w.add(between(n, pos, c.TagStart))
        if w.node(c) {
            return true
        }
        pos = c.TagEnd
    }
    w.add(between(n, pos, n.ContentEnd))
    return false
}

// between returns n's raw contents over the absolute span [from, to).
func between(n *htmltree.Node, from, to int) string {
    lo, hi := from-n.ContentStart, to-n.ContentStart
    if lo < 0 {
        lo = 0
    }
    if hi > len(n.Contents) {
        hi = len(n.Contents)
    }
    if lo >= hi {
        return ""
    }
    return htmltree.StripTags(n.Contents[lo:hi], "")
}

// Decode is the single decode step applied to extracted text: character
// references are resolved, non-breaking spaces become plain spaces, and the
// result is NFC normalized.
func Decode(s string) string {
    if strings.IndexByte(s, '&') >= 0 {
        s = html.UnescapeString(s)
    }
    s = strings.ReplaceAll(s, "\u00a0", " ")
    return norm.NFC.String(s)
}

func collapseSpaces(s string) string {
    var b strings.Builder
    lastSpace := false
    for _, r := range s {
        if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
            if !lastSpace {
                b.WriteByte(' ')
                lastSpace = true
            }
            continue
        }
        b.WriteRune(r)
        lastSpace = false
    }
    return b.String()
}
