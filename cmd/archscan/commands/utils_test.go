/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils_test.go
Description: Tests for the shared command utilities. Tests logging setup from
configuration keys and output-format routing of scan reports.
*/

package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setLoggingKeys configures the log_* keys the way the persistent flags would
func setLoggingKeys(t *testing.T, dir string) {
	t.Helper()
	t.Cleanup(viper.Reset)

	viper.Set("log_level", "info")
	viper.Set("log_format", "custom")
	viper.Set("log_dir", dir)
	viper.Set("log_max_files", 5)
	viper.Set("log_max_size", int64(1024*1024))
	viper.Set("log_compress", false)
	viper.Set("json_logs", false)
}

// TestSetupLoggingHonorsLogDir verifies the configured directory receives the
// timestamped log file
func TestSetupLoggingHonorsLogDir(t *testing.T) {
	dir := t.TempDir()
	setLoggingKeys(t, dir)

	logSystem, err := SetupLogging()
	require.NoError(t, err)
	require.NoError(t, logSystem.Close())

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-archscan_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

// TestSetupLoggingJSONOverride verifies json_logs forces the JSON format
// regardless of log_format
func TestSetupLoggingJSONOverride(t *testing.T) {
	dir := t.TempDir()
	setLoggingKeys(t, dir)
	viper.Set("json_logs", true)

	logSystem, err := SetupLogging()
	require.NoError(t, err)

	logSystem.LogDetection("bin/tool.exe", "recognized", "x64 (64-bit)", 0x8664, nil)
	require.NoError(t, logSystem.Close())

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-archscan_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"Architecture detected"`)
}

// TestSetupLoggingRejectsBadLevel verifies invalid configuration is reported
func TestSetupLoggingRejectsBadLevel(t *testing.T) {
	setLoggingKeys(t, t.TempDir())
	viper.Set("log_level", "verbose")

	_, err := SetupLogging()
	assert.Error(t, err)
}

// sampleReport builds a minimal scan report for rendering tests
func sampleReport() *interfaces.ScanReport {
	return &interfaces.ScanReport{
		SessionID: "0f4a2d71-aaaa-bbbb-cccc-000000000000",
		Targets:   []string{"bin"},
		Results: []interfaces.FileResult{
			{
				Path: "bin/tool.exe",
				Size: 1024,
				Detection: interfaces.Detection{
					Status:       interfaces.StatusRecognized,
					Architecture: "x64 (64-bit)",
					Machine:      0x8664,
				},
			},
		},
		Stats: interfaces.ScanStats{FilesScanned: 1, Recognized: 1},
	}
}

// TestRenderReportJSONOutputFile verifies the json format honors the
// configured output file
func TestRenderReportJSONOutputFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "report.json")
	viper.Set("output_format", "json")
	viper.Set("output_file", path)

	require.NoError(t, renderReport(sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded interfaces.ScanReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "0f4a2d71-aaaa-bbbb-cccc-000000000000", decoded.SessionID)
}

// TestRenderReportJSONReportDir verifies the json format writes a single
// report into the configured report directory
func TestRenderReportJSONReportDir(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	viper.Set("output_format", "json")
	viper.Set("report_dir", dir)

	require.NoError(t, renderReport(sampleReport()))

	files, err := filepath.Glob(filepath.Join(dir, "*_archscan_*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}
