/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: export.go
Description: Report export for the Akaylee ArchScan scanner. Writes per-file
results as CSV and full session reports as timestamped JSON files for easy
downstream analysis. Ensures report directories exist before writing.
*/

package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
)

// csvHeader is the column layout of exported CSV files
var csvHeader = []string{"path", "outcome", "architecture", "machine", "reason"}

// WriteCSV writes per-file results as CSV rows to the given writer
func WriteCSV(w io.Writer, results []interfaces.FileResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		row := []string{
			result.Path,
			result.Outcome(),
			"",
			"",
			"",
		}

		switch {
		case result.Failed():
			row[4] = result.ReadError
		case result.Detection.Recognized():
			row[2] = result.Detection.Architecture
			row[3] = "0x" + strconv.FormatUint(uint64(result.Detection.Machine), 16)
		case result.Detection.Status == interfaces.StatusInvalid:
			row[4] = result.Detection.Reason
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", result.Path, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportCSVFile writes per-file results to a CSV file
func ExportCSVFile(path string, results []interfaces.FileResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	return WriteCSV(file, results)
}

// WriteJSONReport writes a full session report to a timestamped JSON file in
// the given directory and returns its path
func WriteJSONReport(dir string, report *interfaces.ScanReport) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	// Filename: 2024-06-11_01-30-00_archscan_1a2b3c4d.json
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	session := report.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	filename := fmt.Sprintf("%s_archscan_%s.json", timestamp, session)
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// ExportJSONFile writes a full session report to an explicitly named file
func ExportJSONFile(path string, report *interfaces.ScanReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return nil
}
