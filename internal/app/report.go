package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/hyperifyio/htmlregions/internal/region"
)

// DocumentResult is the outcome for one input. Error is set, and Regions
// empty, when the document could not be read or parsed.
type DocumentResult struct {
	Path    string         `json:"path"`
	Error   string         `json:"error,omitempty"`
	Regions []RegionResult `json:"regions"`
}

// RegionResult summarises one region for reporting.
type RegionResult struct {
	Title     string   `json:"title"`
	Nodes     int      `json:"nodes"`
	Text      string   `json:"text"`
	Fragments []string `json:"fragments"`
	// SHA256 digests the raw markup the region spans.
	SHA256 string `json:"sha256"`
}

// computeSHA256Hex returns a lowercase hex-encoded SHA-256 of the given text.
func computeSHA256Hex(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// buildRegionResult slices normalized, the text the region's offsets refer to.
func buildRegionResult(normalized string, r region.Region, fragments []string) RegionResult {
	var raw, text strings.Builder
	for _, n := range r.Nodes {
		if n.TagStart >= 0 && n.TagEnd <= len(normalized) && n.TagStart <= n.TagEnd {
			raw.WriteString(normalized[n.TagStart:n.TagEnd])
		}
		text.WriteString(n.Stripped)
		text.WriteByte(' ')
	}
	if fragments == nil {
		fragments = []string{}
	}
	return RegionResult{
		Title:     r.Title,
		Nodes:     len(r.Nodes),
		Text:      strings.Join(strings.Fields(text.String()), " "),
		Fragments: fragments,
		SHA256:    computeSHA256Hex(raw.String()),
	}
}

func countRegions(docs []DocumentResult) int {
	n := 0
	for _, d := range docs {
		n += len(d.Regions)
	}
	return n
}

// renderMarkdown lists each document and its regions with their fragments.
func renderMarkdown(docs []DocumentResult) string {
	var b strings.Builder
	b.WriteString("# Regions\n\n")
	b.WriteString("- Documents: " + strconv.Itoa(len(docs)) + "\n")
	b.WriteString("- Regions: " + strconv.Itoa(countRegions(docs)) + "\n")

	for _, d := range docs {
		b.WriteString("\n## " + d.Path + "\n")
		if d.Error != "" {
			b.WriteString("\nError: " + d.Error + "\n")
			continue
		}
		if len(d.Regions) == 0 {
			b.WriteString("\nNo regions.\n")
			continue
		}
		for _, r := range d.Regions {
			b.WriteString("\n### " + r.Title + "\n\n")
			b.WriteString("- Nodes: " + strconv.Itoa(r.Nodes) + "\n")
			b.WriteString("- Text: " + r.Text + "\n")
			b.WriteString("- sha256: " + r.SHA256 + "\n")
			if len(r.Fragments) > 0 {
				b.WriteString("\n")
			}
			for i, f := range r.Fragments {
				b.WriteString(strconv.Itoa(i+1) + ". " + f + "\n")
			}
		}
	}
	return b.String()
}

// marshalReportJSON encodes the machine-readable report.
func marshalReportJSON(docs []DocumentResult) ([]byte, error) {
	payload := struct {
		Version   string           `json:"version"`
		Regions   int              `json:"regions"`
		Documents []DocumentResult `json:"documents"`
	}{Version: BuildVersion, Regions: countRegions(docs), Documents: docs}
	return json.MarshalIndent(payload, "", "  ")
}
