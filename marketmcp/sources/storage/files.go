package storage

import (
	"fmt"
	"marketmcp/marketmcp/config"
	"marketmcp/marketmcp/utils/jsonutils"
	"marketmcp/marketmcp/utils/types"
	"os"
	"path/filepath"
)

const (
	DefaultSourcesFile = "sources.json"
	DefaultReportFile  = "report.md"
)

// SourcesPath returns outputPath, or sources.json under the configured sources dir.
func SourcesPath(outputPath string, paths config.PathsConfig) string {
	if outputPath != "" {
		return outputPath
	}
	return filepath.Join(paths.SourcesDir, DefaultSourcesFile)
}

// ReportPath returns outputPath, or report.md under the configured reports dir.
func ReportPath(outputPath string, paths config.PathsConfig) string {
	if outputPath != "" {
		return outputPath
	}
	return filepath.Join(paths.ReportsDir, DefaultReportFile)
}

// SaveSources writes records as a pretty-printed JSON array, replacing any
// existing file. Records must already be validated.
func SaveSources(records []types.SourceRecord, outputPath string) (string, []byte, error) {
	if records == nil {
		records = []types.SourceRecord{}
	}
	data, err := jsonutils.MarshalIndent(records)
	if err != nil {
		return "", nil, fmt.Errorf("encode sources: %w", err)
	}
	if err := writeFile(outputPath, data); err != nil {
		return "", nil, err
	}
	return outputPath, data, nil
}

// SaveReport writes markdown verbatim, replacing any existing file.
func SaveReport(markdown, outputPath string) (string, error) {
	if err := writeFile(outputPath, []byte(markdown)); err != nil {
		return "", err
	}
	return outputPath, nil
}

func writeFile(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("%w: output_path: field required", types.ErrValidation)
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
