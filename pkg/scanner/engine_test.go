/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine_test.go
Description: Comprehensive tests for the scan engine. Tests target enumeration,
extension filtering, worker pool aggregation, read-error handling, and session
statistics over a synthetic directory tree.
*/

package scanner

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/kleascm/akaylee-archscan/pkg/pe"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeImage writes a minimal synthetic PE file with the given machine value
func writeImage(t *testing.T, path string, machine uint16) {
	t.Helper()

	buf := make([]byte, 0x100)
	buf[0] = 0x4D
	buf[1] = 0x5A
	binary.LittleEndian.PutUint32(buf[0x3C:], 0x80)
	copy(buf[0x80:], []byte{0x50, 0x45, 0x00, 0x00})
	binary.LittleEndian.PutUint16(buf[0x84:], machine)

	require.NoError(t, os.WriteFile(path, buf, 0644))
}

// newTestLogger returns a quiet logger for tests
func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

// TestEngineInitialize tests configuration validation and defaulting
func TestEngineInitialize(t *testing.T) {
	engine := NewEngine()
	engine.SetLogger(newTestLogger())

	err := engine.Initialize(nil)
	assert.Error(t, err)

	err = engine.Initialize(&interfaces.ScannerConfig{})
	assert.Error(t, err)

	config := &interfaces.ScannerConfig{Targets: []string{"."}}
	require.NoError(t, engine.Initialize(config))
	assert.Greater(t, config.Workers, 0)
	assert.NotEmpty(t, config.SessionID)
}

// TestEngineScanDirectory tests a full scan over a synthetic directory tree
func TestEngineScanDirectory(t *testing.T) {
	dir := t.TempDir()

	writeImage(t, filepath.Join(dir, "a.exe"), 0x8664)
	writeImage(t, filepath.Join(dir, "b.dll"), 0x014c)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain text"), 0644))

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeImage(t, filepath.Join(sub, "c.exe"), 0xaa64)

	engine := NewEngine()
	engine.SetLogger(newTestLogger())
	require.NoError(t, engine.Initialize(&interfaces.ScannerConfig{
		Targets:    []string{dir},
		Recursive:  true,
		Extensions: DefaultExtensions,
		Workers:    2,
	}))

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Equal(t, int64(3), report.Stats.FilesScanned)
	assert.Equal(t, int64(3), report.Stats.Recognized)
	assert.Equal(t, int64(0), report.Stats.ReadErrors)
	assert.Equal(t, int64(1), report.Stats.ByArchitecture["x64 (64-bit)"])
	assert.Equal(t, int64(1), report.Stats.ByArchitecture["x86 (32-bit)"])
	assert.Equal(t, int64(1), report.Stats.ByArchitecture["ARM64"])

	// Results are sorted by path for stable reports
	require.Len(t, report.Results, 3)
	for i := 1; i < len(report.Results); i++ {
		assert.Less(t, report.Results[i-1].Path, report.Results[i].Path)
	}
}

// TestEngineNonRecursive tests that subdirectories are skipped without the
// recursive option
func TestEngineNonRecursive(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "top.exe"), 0x8664)

	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeImage(t, filepath.Join(sub, "deep.exe"), 0x014c)

	engine := NewEngine()
	engine.SetLogger(newTestLogger())
	require.NoError(t, engine.Initialize(&interfaces.ScannerConfig{
		Targets:    []string{dir},
		Recursive:  false,
		Extensions: DefaultExtensions,
		Workers:    1,
	}))

	report, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Stats.FilesScanned)
}

// TestEngineMixedOutcomes tests aggregation across the full outcome taxonomy
func TestEngineMixedOutcomes(t *testing.T) {
	dir := t.TempDir()

	writeImage(t, filepath.Join(dir, "good.exe"), 0x8664)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "short.exe"), []byte("MZ"), 0644))

	// DOS signature with an offset field pointing past the file end
	broken := make([]byte, 0x100)
	broken[0] = 0x4D
	broken[1] = 0x5A
	binary.LittleEndian.PutUint32(broken[0x3C:], 0xFFFF)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.exe"), broken, 0644))

	engine := NewEngine()
	engine.SetLogger(newTestLogger())
	require.NoError(t, engine.Initialize(&interfaces.ScannerConfig{
		Targets:    []string{dir},
		Extensions: DefaultExtensions,
		Workers:    2,
	}))

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.Stats.FilesScanned)
	assert.Equal(t, int64(1), report.Stats.Recognized)
	assert.Equal(t, int64(1), report.Stats.NotRecognized)
	assert.Equal(t, int64(1), report.Stats.Invalid)
}

// TestEngineReadErrors tests that unreadable targets are recorded without
// aborting the batch
func TestEngineReadErrors(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "good.exe"), 0x014c)

	engine := NewEngine()
	engine.SetLogger(newTestLogger())
	require.NoError(t, engine.Initialize(&interfaces.ScannerConfig{
		Targets: []string{
			filepath.Join(dir, "good.exe"),
			filepath.Join(dir, "missing.exe"),
		},
		Workers: 1,
	}))

	report, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.Stats.FilesScanned)
	assert.Equal(t, int64(1), report.Stats.Recognized)
	assert.Equal(t, int64(1), report.Stats.ReadErrors)

	var failed *interfaces.FileResult
	for i := range report.Results {
		if report.Results[i].Failed() {
			failed = &report.Results[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "read-error", failed.Outcome())
}

// TestEngineReporters tests that registered reporters receive events
func TestEngineReporters(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "good.exe"), 0x8664)

	recorder := &recordingReporter{}

	engine := NewEngine()
	engine.SetLogger(newTestLogger())
	engine.AddReporter(recorder)
	require.NoError(t, engine.Initialize(&interfaces.ScannerConfig{
		Targets: []string{filepath.Join(dir, "good.exe")},
		Workers: 1,
	}))

	_, err := engine.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, recorder.files)
	assert.Equal(t, 1, recorder.completions)
}

type recordingReporter struct {
	files       int
	completions int
}

func (r *recordingReporter) OnFileScanned(result *interfaces.FileResult) { r.files++ }
func (r *recordingReporter) OnScanCompleted(stats *interfaces.ScanStats) { r.completions++ }

// TestWorkerProcessFile tests a single worker over readable and unreadable files
func TestWorkerProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tool.exe")
	writeImage(t, path, 0x01c0)

	worker := NewWorker(0, pe.NewDetector(pe.Options{}), newTestLogger())

	result := worker.ProcessFile(path)
	assert.False(t, result.Failed())
	assert.Equal(t, "ARM", result.Detection.Architecture)
	assert.Equal(t, int64(0x100), result.Size)

	result = worker.ProcessFile(filepath.Join(dir, "absent.exe"))
	assert.True(t, result.Failed())
	assert.Equal(t, interfaces.StatusNotRecognized, result.Detection.Status)

	stats := worker.GetStats()
	assert.Equal(t, int64(2), stats["scanned"])
	assert.Equal(t, int64(1), stats["read_errors"])
}

// TestReadPrefixTruncation tests that only the file prefix is read
func TestReadPrefixTruncation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "large.bin")

	data := make([]byte, pe.ReadLimit*2)
	require.NoError(t, os.WriteFile(path, data, 0644))

	buf, size, err := ReadPrefix(path)
	require.NoError(t, err)
	assert.Len(t, buf, pe.ReadLimit)
	assert.Equal(t, int64(pe.ReadLimit*2), size)

	short := filepath.Join(dir, "small.bin")
	require.NoError(t, os.WriteFile(short, []byte{0x4D, 0x5A, 0x00}, 0644))

	buf, size, err = ReadPrefix(short)
	require.NoError(t, err)
	assert.Len(t, buf, 3)
	assert.Equal(t, int64(3), size)
}

// TestMatchesExtensions tests the extension filter
func TestMatchesExtensions(t *testing.T) {
	assert.True(t, matchesExtensions("tool.exe", DefaultExtensions))
	assert.True(t, matchesExtensions("TOOL.EXE", DefaultExtensions))
	assert.True(t, matchesExtensions("lib.dll", DefaultExtensions))
	assert.False(t, matchesExtensions("notes.txt", DefaultExtensions))
	assert.True(t, matchesExtensions("anything.xyz", nil))
}
