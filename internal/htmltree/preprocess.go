package htmltree

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrMalformedDocument is returned when a full document (one with an <html
// marker) has no locatable <body>...</body> pair.
var ErrMalformedDocument = errors.New("htmltree: html document without body")

var (
	commentPattern   = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlOpenPattern  = regexp.MustCompile(`(?i)<html`)
	bodyOpenPattern  = regexp.MustCompile(`(?is)<body.*?>`)
	bodyClosePattern = regexp.MustCompile(`(?is)</body.*?>`)
)

// StripComments removes every <!-- ... --> span. Comments do not nest, so the
// first "-->" after an opener ends it.
func StripComments(text string) string {
	return commentPattern.ReplaceAllLiteralString(text, "")
}

// Normalize prepares text for scanning. Comments are removed, and when the
// text is a full document only the inner markup of its body is kept.
func Normalize(text string) (string, error) {
	text = StripComments(text)
	for htmlOpenPattern.MatchString(text) {
		open := bodyOpenPattern.FindStringIndex(text)
		if open == nil {
			return "", fmt.Errorf("%w: no <body> tag", ErrMalformedDocument)
		}
		closing := bodyClosePattern.FindStringIndex(text[open[1]:])
		if closing == nil {
			return "", fmt.Errorf("%w: no </body> after offset %d", ErrMalformedDocument, open[1])
		}
		text = text[open[1] : open[1]+closing[0]]
	}
	return text, nil
}

// StripTags replaces every tag matched by the scanner with replacement.
func StripTags(text, replacement string) string {
	return tagPattern.ReplaceAllLiteralString(text, replacement)
}
