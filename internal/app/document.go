package app

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// ReadDocument loads a local HTML file and converts it to UTF-8. Valid UTF-8
// is kept as is; otherwise the encoding comes from a byte order mark or a
// <meta> charset declaration, falling back to windows-1252.
func ReadDocument(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return decodeDocument(b)
}

func decodeDocument(b []byte) (string, error) {
	if utf8.Valid(b) {
		return strings.TrimPrefix(string(b), "\uFEFF"), nil
	}
	enc, name, _ := charset.DetermineEncoding(b, "")
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}
