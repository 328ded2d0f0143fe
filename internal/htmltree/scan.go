package htmltree

import (
	"regexp"
	"strings"
)

// tagPattern matches <xyz ...>, </xyz ...> and <xyz ... />. Attribute text is
// matched lazily so the first '>' ends the tag.
var tagPattern = regexp.MustCompile(`(?s)<(/?)(\w+)(.*?)(/?)>`)

// TagEvent is one tag found by Scan.
type TagEvent struct {
	Closing     bool
	Name        string
	Attributes  string
	SelfClosing bool
	// Start and End bound the tag itself.
	Start int
	End   int
}

// Len returns the length of the tag's own span.
func (e TagEvent) Len() int { return e.End - e.Start }

// Scan returns the tags of text in document order. It knows nothing about
// nesting.
func Scan(text string) []TagEvent {
	matches := tagPattern.FindAllStringSubmatchIndex(text, -1)
	events := make([]TagEvent, 0, len(matches))
	for _, m := range matches {
		events = append(events, TagEvent{
			Closing:     m[3] > m[2],
			Name:        strings.ToLower(text[m[4]:m[5]]),
			Attributes:  text[m[6]:m[7]],
			SelfClosing: m[9] > m[8],
			Start:       m[0],
			End:         m[1],
		})
	}
	return events
}
