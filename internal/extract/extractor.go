// Package extract pulls flattened text fragments out of parsed regions for
// downstream classification.
package extract

import "github.com/hyperifyio/htmlregions/internal/region"

// Extractor turns a region into its ordered text fragments.
// Implementations must not retain or mutate the region's nodes.
type Extractor interface {
    Extract(r region.Region) []string
}

// RuleExtractor applies Collect with fixed rules.
type RuleExtractor struct {
    Rules Rules
}

func (e RuleExtractor) Extract(r region.Region) []string {
    return Collect(r, e.Rules)
}
