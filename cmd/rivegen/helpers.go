package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-rivegen/pkg/render"
)

// parsePairs splits key=value flags. Keys must be non-empty.
func parsePairs(flag string, values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, raw := range values {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("--%s %q: expected key=value", flag, raw)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// parseOptions turns --option flags into render options. Values that parse
// as JSON literals (numbers, booleans, objects) keep their type; anything
// else is a string.
func parseOptions(values []string) (render.Options, error) {
	pairs, err := parsePairs("option", values)
	if err != nil {
		return nil, err
	}
	opts := render.Options{}
	for key, raw := range pairs {
		var decoded any
		if raw != "" && json.Unmarshal([]byte(raw), &decoded) == nil {
			opts[key] = decoded
			continue
		}
		opts[key] = raw
	}
	return opts, nil
}

// assetOptions embeds a .riv file for the generators that accept one.
func assetOptions(opts render.Options, path string) (render.Options, error) {
	if strings.TrimSpace(path) == "" {
		return opts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("asset %s is empty", path)
	}
	return opts.
		With("assetBase64", base64.StdEncoding.EncodeToString(data)).
		With("assetName", filepath.Base(path)), nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputPath resolves where a document named filename goes. A directory
// --out keeps the generated name; a file --out keeps its name but takes the
// document extension, so bundles land as .zip.
func outputPath(out, filename string) string {
	if out == "" {
		return filename
	}
	if isDir(out) {
		return filepath.Join(out, filename)
	}
	if ext := filepath.Ext(filename); ext != "" {
		return render.WithExtension(out, ext)
	}
	return out
}

func isDir(path string) bool {
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
