package app

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "regexp"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
type FileConfig struct {
    Inputs []string `yaml:"inputs" json:"inputs"`
    Output string   `yaml:"output" json:"output"`
    Format string   `yaml:"format" json:"format"`

    Delimiter struct {
        Tag          string `yaml:"tag" json:"tag"`
        TitleAttr    string `yaml:"titleAttr" json:"titleAttr"`
        TitlePattern string `yaml:"titlePattern" json:"titlePattern"`
    } `yaml:"delimiter" json:"delimiter"`

    Extract struct {
        ImageTag   string   `yaml:"imageTag" json:"imageTag"`
        ImageAttr  string   `yaml:"imageAttr" json:"imageAttr"`
        InlineTags []string `yaml:"inlineTags" json:"inlineTags"`
        Raw        bool     `yaml:"raw" json:"raw"`
    } `yaml:"extract" json:"extract"`

    Strict      bool `yaml:"strict" json:"strict"`
    Concurrency int  `yaml:"concurrency" json:"concurrency"`
    Verbose     bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from fc onto fields of cfg that are unset
// or still at their defaults.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if len(cfg.Inputs) == 0 && len(fc.Inputs) > 0 { cfg.Inputs = append([]string{}, fc.Inputs...) }
    if (cfg.OutputPath == "" || cfg.OutputPath == outputDefault) && fc.Output != "" { cfg.OutputPath = fc.Output }
    if (cfg.Format == "" || cfg.Format == formatDefault) && fc.Format != "" { cfg.Format = fc.Format }

    if (cfg.DelimiterTag == "" || cfg.DelimiterTag == delimiterTagDefault) && fc.Delimiter.Tag != "" { cfg.DelimiterTag = fc.Delimiter.Tag }
    if (cfg.TitleAttr == "" || cfg.TitleAttr == titleAttrDefault) && fc.Delimiter.TitleAttr != "" { cfg.TitleAttr = fc.Delimiter.TitleAttr }
    if cfg.TitlePattern == "" && fc.Delimiter.TitlePattern != "" { cfg.TitlePattern = fc.Delimiter.TitlePattern }

    if (cfg.ImageTag == "" || cfg.ImageTag == imageTagDefault) && fc.Extract.ImageTag != "" { cfg.ImageTag = fc.Extract.ImageTag }
    if (cfg.ImageAttr == "" || cfg.ImageAttr == imageAttrDefault) && fc.Extract.ImageAttr != "" { cfg.ImageAttr = fc.Extract.ImageAttr }
    if len(fc.Extract.InlineTags) > 0 { cfg.InlineTags = append([]string{}, fc.Extract.InlineTags...) }
    if !cfg.RawText && fc.Extract.Raw { cfg.RawText = true }

    if !cfg.Strict && fc.Strict { cfg.Strict = true }
    if (cfg.Concurrency == 0 || cfg.Concurrency == concurrencyDefault) && fc.Concurrency > 0 { cfg.Concurrency = fc.Concurrency }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
    if len(cfg.Inputs) == 0 {
        return errors.New("config: at least one input is required")
    }
    for _, in := range cfg.Inputs {
        if trim(in) == "" {
            return errors.New("config: empty input path")
        }
    }
    if trim(cfg.OutputPath) == "" {
        return errors.New("config: output path is required")
    }
    switch cfg.Format {
    case "markdown", "json":
    case "pdf":
        if cfg.OutputPath == "-" {
            return errors.New("config: pdf output needs a file path")
        }
    default:
        return fmt.Errorf("config: unknown format %q", cfg.Format)
    }
    if trim(cfg.DelimiterTag) == "" {
        return errors.New("config: delimiter tag is required")
    }
    if trim(cfg.TitlePattern) != "" {
        if _, err := regexp.Compile(cfg.TitlePattern); err != nil {
            return fmt.Errorf("config: title pattern: %w", err)
        }
    } else if trim(cfg.TitleAttr) == "" {
        return errors.New("config: title attribute or title pattern is required")
    }
    if cfg.Concurrency < 0 {
        return errors.New("config: negative concurrency is not allowed")
    }
    return nil
}

func trim(s string) string {
    i := 0
    j := len(s)
    for i < j && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') { i++ }
    for j > i && (s[j-1] == ' ' || s[j-1] == '\t' || s[j-1] == '\n' || s[j-1] == '\r') { j-- }
    return s[i:j]
}
