package htmltree

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	// ErrUnmatchedClosingTag is returned in strict mode for a closing tag that
	// arrives while no element is open.
	ErrUnmatchedClosingTag = errors.New("htmltree: closing tag without open element")
	// ErrUnclosedElement is returned in strict mode when elements are still open
	// at the end of the input.
	ErrUnclosedElement = errors.New("htmltree: element not closed")
)

// Options controls how Build reacts to broken markup.
type Options struct {
	// IgnoreErrors enables tolerant mode: stray closers are skipped, a
	// mismatched closer also closes the matching open ancestor, and elements
	// left open at the end are closed against the end of the text. Without it,
	// stray closers and unclosed elements fail the parse, and a mismatched
	// closer only pops the innermost element.
	IgnoreErrors bool
	// Logger receives recovery events at debug level. Nil disables logging.
	Logger *zerolog.Logger
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

// Parse normalizes text, scans it and builds the node forest. Callers that
// need to slice by node offsets must use the normalized text, which is
// returned alongside the forest.
func Parse(text string, opts Options) ([]*Node, string, error) {
	normalized, err := Normalize(text)
	if err != nil {
		return nil, "", err
	}
	nodes, err := Build(normalized, Scan(normalized), opts)
	if err != nil {
		return nil, "", err
	}
	return nodes, normalized, nil
}

type builder struct {
	text   string
	opts   Options
	log    *zerolog.Logger
	forest []*Node
	stack  []*Node
}

// Build nests events scanned from text into a forest of top-level nodes.
// On failure the forest is nil; a partial tree is never returned.
func Build(text string, events []TagEvent, opts Options) ([]*Node, error) {
	b := &builder{text: text, opts: opts, log: opts.logger()}
	for _, ev := range events {
		var err error
		if ev.Closing {
			err = b.close(ev)
		} else {
			b.open(ev)
		}
		if err != nil {
			return nil, err
		}
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	if b.forest == nil {
		return []*Node{}, nil
	}
	return b.forest, nil
}

func (b *builder) top() *Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

// boundary is the offset up to which n's stripped text has been recorded.
func boundary(n *Node) int {
	if k := len(n.Children); k > 0 {
		return n.Children[k-1].TagEnd
	}
	return n.ContentStart
}

func (b *builder) open(ev TagEvent) {
	n := &Node{
		Tag:          ev.Name,
		Attributes:   ev.Attributes,
		TagStart:     ev.Start,
		ContentStart: ev.End,
	}
	if parent := b.top(); parent != nil {
		parent.Stripped += b.text[boundary(parent):ev.Start]
		parent.Children = append(parent.Children, n)
	} else {
		b.forest = append(b.forest, n)
	}
	if ev.SelfClosing || IsSelfClosingTag(ev.Name) {
		n.ContentEnd = n.ContentStart
		n.TagEnd = ev.Start + ev.Len()
		return
	}
	b.stack = append(b.stack, n)
}

func (b *builder) close(ev TagEvent) error {
	cur := b.top()
	if cur == nil {
		if !b.opts.IgnoreErrors {
			return fmt.Errorf("%w: </%s> at offset %d", ErrUnmatchedClosingTag, ev.Name, ev.Start)
		}
		b.log.Debug().Str("tag", ev.Name).Int("offset", ev.Start).Msg("skipping closing tag with empty stack")
		return nil
	}
	if cur.Tag == ev.Name {
		b.pop(ev.Start, ev.End)
		return nil
	}
	if !b.opts.IgnoreErrors {
		b.log.Debug().Str("tag", ev.Name).Str("open", cur.Tag).Int("offset", ev.Start).Msg("mismatched closing tag pops innermost element")
		b.pop(ev.Start, ev.End)
		return nil
	}

	match := -1
	for i := len(b.stack) - 2; i >= 0; i-- {
		if b.stack[i].Tag == ev.Name {
			match = i
			break
		}
	}
	b.log.Debug().Str("tag", ev.Name).Str("open", cur.Tag).Int("offset", ev.Start).Bool("ancestor", match >= 0).Msg("mismatched closing tag")
	if match < 0 {
		b.pop(ev.Start, ev.End)
		return nil
	}
	for len(b.stack)-1 > match {
		b.pop(ev.Start, ev.Start)
	}
	b.pop(ev.Start, ev.End)
	return nil
}

// pop finalizes the innermost open element and hands its stripped text to
// its parent.
func (b *builder) pop(contentEnd, tagEnd int) {
	n := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	n.ContentEnd = contentEnd
	n.TagEnd = tagEnd
	n.Contents = b.text[n.ContentStart:contentEnd]
	n.Stripped += b.text[boundary(n):contentEnd]

	if parent := b.top(); parent != nil {
		parent.Stripped += n.Stripped
	}
}

func (b *builder) finish() error {
	if len(b.stack) == 0 {
		return nil
	}
	if !b.opts.IgnoreErrors {
		cur := b.top()
		return fmt.Errorf("%w: <%s> opened at offset %d", ErrUnclosedElement, cur.Tag, cur.TagStart)
	}
	end := len(b.text)
	for len(b.stack) > 0 {
		b.log.Debug().Str("tag", b.top().Tag).Int("offset", b.top().TagStart).Msg("closing element at end of input")
		b.pop(end, end)
	}
	return nil
}
