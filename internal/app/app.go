package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hyperifyio/htmlregions/internal/extract"
	"github.com/hyperifyio/htmlregions/internal/htmltree"
	"github.com/hyperifyio/htmlregions/internal/region"
)

// ErrNoRegions is returned when no input produced a single region. Per the
// exit code policy this results in a non-zero process exit.
var ErrNoRegions = errors.New("no regions found")

type App struct {
	cfg       Config
	delimiter region.Delimiter
	extractor extract.Extractor
}

func New(cfg Config) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	title := region.AttributeTitle(cfg.TitleAttr)
	if strings.TrimSpace(cfg.TitlePattern) != "" {
		re, err := regexp.Compile(cfg.TitlePattern)
		if err != nil {
			return nil, fmt.Errorf("compile title pattern: %w", err)
		}
		title = region.PatternTitle(re)
	}
	d := region.Delimiter{Tag: strings.ToLower(strings.TrimSpace(cfg.DelimiterTag)), Title: title}

	rules := extract.DefaultRules(d)
	if cfg.ImageTag != "" {
		rules.ImageTag = cfg.ImageTag
	}
	if cfg.ImageAttr != "" {
		rules.ImageAttr = cfg.ImageAttr
	}
	if len(cfg.InlineTags) > 0 {
		rules.InlineTags = append([]string{}, cfg.InlineTags...)
	}
	rules.Decode = !cfg.RawText

	return &App{cfg: cfg, delimiter: d, extractor: extract.RuleExtractor{Rules: rules}}, nil
}

// Run parses every input, then writes a single report. A document that fails
// to load or parse is reported and skipped; it never stops the batch.
func (a *App) Run(ctx context.Context) error {
	docs, err := a.Process(ctx)
	if err != nil {
		return err
	}
	if err := a.write(docs); err != nil {
		return err
	}
	log.Info().Str("out", a.cfg.OutputPath).Int("documents", len(docs)).Msg("wrote report")

	for _, d := range docs {
		if len(d.Regions) > 0 {
			return nil
		}
	}
	return ErrNoRegions
}

// Process parses all inputs with at most Concurrency documents in flight.
// Results keep input order.
func (a *App) Process(ctx context.Context) ([]DocumentResult, error) {
	docs := make([]DocumentResult, len(a.cfg.Inputs))
	g, ctx := errgroup.WithContext(ctx)
	limit := a.cfg.Concurrency
	if limit <= 0 {
		limit = concurrencyDefault
	}
	g.SetLimit(limit)
	for i, path := range a.cfg.Inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			docs[i] = a.processDocument(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func (a *App) processDocument(path string) DocumentResult {
	res := DocumentResult{Path: path}
	logger := log.With().Str("doc", path).Logger()

	text, err := ReadDocument(path)
	if err != nil {
		logger.Warn().Err(err).Msg("read failed; skipping document")
		res.Error = err.Error()
		return res
	}
	nodes, normalized, err := htmltree.Parse(text, htmltree.Options{IgnoreErrors: !a.cfg.Strict, Logger: &logger})
	if err != nil {
		logger.Warn().Err(err).Msg("parse failed; skipping document")
		res.Error = err.Error()
		return res
	}

	regions := region.Split(nodes, a.delimiter)
	res.Regions = make([]RegionResult, 0, len(regions))
	for _, r := range regions {
		res.Regions = append(res.Regions, buildRegionResult(normalized, r, a.extractor.Extract(r)))
	}
	logger.Debug().Int("nodes", len(nodes)).Int("regions", len(regions)).Msg("parsed document")
	return res
}

func (a *App) write(docs []DocumentResult) error {
	switch a.cfg.Format {
	case "pdf":
		return writeReportPDF(docs, a.cfg.OutputPath)
	case "json":
		b, err := marshalReportJSON(docs)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return writeOutput(a.cfg.OutputPath, b)
	default:
		return writeOutput(a.cfg.OutputPath, []byte(renderMarkdown(docs)))
	}
}

// writeOutput writes to path, or to stdout when path is "-".
func writeOutput(path string, b []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
