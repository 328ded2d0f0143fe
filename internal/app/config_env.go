package app

import (
    "os"
    "strconv"
    "strings"
)

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
    parts := strings.Split(s, ",")
    list := make([]string, 0, len(parts))
    for _, p := range parts {
        if v := strings.TrimSpace(p); v != "" { list = append(list, v) }
    }
    return list
}

func parseBool(s string) (value bool, ok bool) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "1", "true", "yes", "on":
        return true, true
    case "0", "false", "no", "off":
        return false, true
    }
    return false, false
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when they are set. This lets env take precedence over a config file while
// flags, applied afterwards, stay highest.
func ApplyEnvOverrides(cfg *Config) {
    if cfg == nil { return }

    if v := os.Getenv("HTMLREGIONS_INPUTS"); v != "" { cfg.Inputs = splitList(v) }
    if v := os.Getenv("HTMLREGIONS_OUTPUT"); v != "" { cfg.OutputPath = v }
    if v := os.Getenv("HTMLREGIONS_FORMAT"); v != "" { cfg.Format = v }
    if v := os.Getenv("HTMLREGIONS_TAG"); v != "" { cfg.DelimiterTag = v }
    if v := os.Getenv("HTMLREGIONS_TITLE_ATTR"); v != "" { cfg.TitleAttr = v }
    if v := os.Getenv("HTMLREGIONS_TITLE_PATTERN"); v != "" { cfg.TitlePattern = v }
    if v := strings.TrimSpace(os.Getenv("HTMLREGIONS_CONCURRENCY")); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 { cfg.Concurrency = n }
    }

    setBool := func(dst *bool, envKey string) {
        if v, ok := parseBool(os.Getenv(envKey)); ok { *dst = v }
    }
    setBool(&cfg.Strict, "HTMLREGIONS_STRICT")
    setBool(&cfg.RawText, "HTMLREGIONS_RAW")
    setBool(&cfg.Verbose, "VERBOSE")
}
