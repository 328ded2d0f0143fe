package app

import (
    "bufio"
    "errors"
    "fmt"
    "io"
    "os"
    "strings"
)

// LoadEnvFiles reads dotenv files of KEY=VALUE lines and exports the pairs
// into the process environment. Variables already present in the process
// environment are left alone; among the files, later ones win. Missing files
// are skipped.
func LoadEnvFiles(paths ...string) error {
    merged := map[string]string{}
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        f, err := os.Open(p)
        if err != nil {
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return fmt.Errorf("open env file: %w", err)
        }
        vars, err := parseDotenv(f)
        _ = f.Close()
        if err != nil {
            return fmt.Errorf("read env file %s: %w", p, err)
        }
        for k, v := range vars {
            merged[k] = v
        }
    }
    for k, v := range merged {
        if _, set := os.LookupEnv(k); set {
            continue
        }
        if err := os.Setenv(k, v); err != nil {
            return err
        }
    }
    return nil
}

// parseDotenv accepts blank lines, '#' comments, an optional "export "
// prefix, and single or double quoted values. Lines without '=' are ignored.
func parseDotenv(r io.Reader) (map[string]string, error) {
    vars := map[string]string{}
    sc := bufio.NewScanner(r)
    for sc.Scan() {
        line := strings.TrimSpace(sc.Text())
        if line == "" || strings.HasPrefix(line, "#") {
            continue
        }
        line = strings.TrimPrefix(line, "export ")
        key, val, ok := strings.Cut(line, "=")
        key = strings.TrimSpace(key)
        if !ok || key == "" {
            continue
        }
        val = strings.TrimSpace(val)
        if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
            val = val[1 : n-1]
        }
        vars[key] = val
    }
    return vars, sc.Err()
}
