package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/htmlregions/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, showVersion, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Err(err).Msg("invalid configuration")
		os.Exit(1)
	}
	if showVersion {
		fmt.Println(app.VersionString())
		return
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := run(cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitCode(err))
	}
}

// exitCode maps run errors to the process exit status: 2 when the inputs
// yielded no regions at all, 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, app.ErrNoRegions) {
		return 2
	}
	return 1
}

// parseConfig layers configuration: defaults, then the optional config file,
// then environment variables (dotenv files included), then flags the user set
// explicitly.
func parseConfig(args []string) (app.Config, bool, error) {
	fs := flag.NewFlagSet("htmlregions", flag.ContinueOnError)
	var (
		configPath   string
		envFiles     string
		inputs       string
		outputPath   string
		format       string
		tag          string
		titleAttr    string
		titlePattern string
		imageTag     string
		imageAttr    string
		inlineTags   string
		raw          bool
		strict       bool
		concurrency  int
		verbose      bool
		showVersion  bool
	)
	def := app.DefaultConfig()
	fs.StringVar(&configPath, "config", os.Getenv("HTMLREGIONS_CONFIG"), "Path to YAML or JSON config file")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files loaded before reading the environment")
	fs.StringVar(&inputs, "input", "", "Comma-separated list of HTML files to parse")
	fs.StringVar(&outputPath, "output", def.OutputPath, "Path to write the report ('-' for stdout)")
	fs.StringVar(&format, "format", def.Format, "Report format: markdown, json or pdf")
	fs.StringVar(&tag, "tag", def.DelimiterTag, "Tag name that starts a region")
	fs.StringVar(&titleAttr, "title.attr", def.TitleAttr, "Attribute whose value titles a region")
	fs.StringVar(&titlePattern, "title.pattern", "", "Regular expression matched against delimiter attributes; overrides -title.attr")
	fs.StringVar(&imageTag, "image.tag", def.ImageTag, "Tag whose attribute replaces its text during extraction")
	fs.StringVar(&imageAttr, "image.attr", def.ImageAttr, "Attribute read from image tags")
	fs.StringVar(&inlineTags, "inline", strings.Join(def.InlineTags, ","), "Comma-separated tags extracted as a single fragment")
	fs.BoolVar(&raw, "raw", false, "Keep character references undecoded in fragments")
	fs.BoolVar(&strict, "strict", false, "Fail a document on unbalanced markup instead of recovering")
	fs.IntVar(&concurrency, "concurrency", def.Concurrency, "Maximum documents parsed concurrently")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return app.Config{}, false, err
	}
	if showVersion {
		return def, true, nil
	}

	cfg := def
	if strings.TrimSpace(configPath) != "" {
		fc, err := app.LoadConfigFile(configPath)
		if err != nil {
			return app.Config{}, false, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	if err := app.LoadEnvFiles(splitList(envFiles)...); err != nil {
		return app.Config{}, false, err
	}
	app.ApplyEnvOverrides(&cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Inputs = splitList(inputs)
		case "output":
			cfg.OutputPath = outputPath
		case "format":
			cfg.Format = format
		case "tag":
			cfg.DelimiterTag = tag
		case "title.attr":
			cfg.TitleAttr = titleAttr
		case "title.pattern":
			cfg.TitlePattern = titlePattern
		case "image.tag":
			cfg.ImageTag = imageTag
		case "image.attr":
			cfg.ImageAttr = imageAttr
		case "inline":
			cfg.InlineTags = splitList(inlineTags)
		case "raw":
			cfg.RawText = raw
		case "strict":
			cfg.Strict = strict
		case "concurrency":
			cfg.Concurrency = concurrency
		case "v":
			cfg.Verbose = verbose
		}
	})
	// Positional arguments are inputs too.
	cfg.Inputs = append(cfg.Inputs, fs.Args()...)

	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, false, err
	}
	return cfg, false, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}

func run(cfg app.Config) error {
	ctx := context.Background()

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}
