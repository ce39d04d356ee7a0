package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gmb_agent/internal/app"
)

const (
	rawFile    = "raw.json"
	reportFile = "report.json"
)

// writeDocuments stores the raw snapshot and the report under dir as
// two-space indented JSON with non-ASCII text left as is.
func writeDocuments(dir string, res app.RunResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if err := writeJSONFile(filepath.Join(dir, rawFile), res.Raw); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(dir, reportFile), res.Report)
}

func writeJSONFile(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
