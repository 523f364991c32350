/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Comprehensive tests for the logging system. Tests logger creation,
configuration validation, formatting, file output, and scanner-specific event
helpers.
*/

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerCreation tests logger creation with different configurations
func TestLoggerCreation(t *testing.T) {
	// Test with default configuration
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Close()
	os.RemoveAll("./logs")

	// Test with custom configuration
	dir := t.TempDir()
	config := &LoggerConfig{
		Level:     LogLevelDebug,
		Format:    LogFormatJSON,
		OutputDir: dir,
		MaxFiles:  5,
		MaxSize:   1024 * 1024, // 1MB
		Timestamp: true,
		Caller:    true,
		Colors:    false,
		Compress:  false,
	}

	logger, err = NewLogger(config)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	defer logger.Close()

	// A timestamped log file is created in the output directory
	files, err := filepath.Glob(filepath.Join(dir, "akaylee-archscan_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

// TestConfigValidation tests LoggerConfig validation
func TestConfigValidation(t *testing.T) {
	valid := &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		OutputDir: "./logs",
		MaxFiles:  3,
		MaxSize:   1024,
	}
	assert.NoError(t, valid.Validate())

	invalid := *valid
	invalid.OutputDir = ""
	assert.Error(t, invalid.Validate())

	invalid = *valid
	invalid.Format = "xml"
	assert.Error(t, invalid.Validate())

	invalid = *valid
	invalid.Level = "verbose"
	assert.Error(t, invalid.Validate())
}

// TestScannerEventHelpers tests the scanner-specific logging methods
func TestScannerEventHelpers(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(&LoggerConfig{
		Level:     LogLevelDebug,
		Format:    LogFormatText,
		OutputDir: dir,
		MaxFiles:  3,
		MaxSize:   1024 * 1024,
		Timestamp: false,
		Caller:    false,
		Colors:    false,
	})
	require.NoError(t, err)

	logger.LogDetection("bin/tool.exe", "recognized", "x64 (64-bit)", 0x8664, nil)
	logger.LogReadError("bin/locked.sys", fmt.Errorf("permission denied"), nil)
	logger.LogScanStats(10, 7, 1, 2, 42.0, nil)

	// Close drains the async queue before the file can be inspected
	require.NoError(t, logger.Close())

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-archscan_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Architecture detected")
	assert.Contains(t, out, "File read failed")
	assert.Contains(t, out, "Statistics update")
}

// TestCustomFormatter tests the custom formatter output
func TestCustomFormatter(t *testing.T) {
	formatter := &CustomFormatter{
		Timestamp: true,
		Caller:    false,
		Colors:    false,
	}

	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "Architecture detected",
		Data: logrus.Fields{
			"path":    "bin/tool.exe",
			"machine": uint16(0x8664),
		},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "[DETECT]")
	assert.Contains(t, line, "0x8664")
}

// TestCloseAppliesRetentionPolicy verifies Close rotates and compresses an
// oversized log file through the log manager
func TestCloseAppliesRetentionPolicy(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(&LoggerConfig{
		Level:     LogLevelDebug,
		Format:    LogFormatText,
		OutputDir: dir,
		MaxFiles:  10,
		MaxSize:   64, // every entry exceeds this
		Timestamp: false,
		Caller:    false,
		Colors:    false,
		Compress:  true,
	})
	require.NoError(t, err)

	logger.LogDetection("bin/tool.exe", "recognized", "x64 (64-bit)", 0x8664, nil)
	require.NoError(t, logger.Close())

	compressed, err := filepath.Glob(filepath.Join(dir, "akaylee-archscan_*.log.*.gz"))
	require.NoError(t, err)
	assert.NotEmpty(t, compressed)
}

// TestLogManagerCleanup tests retention-based cleanup
func TestLogManagerCleanup(t *testing.T) {
	dir := t.TempDir()

	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, fmt.Sprintf("akaylee-archscan_2024-01-0%d_00-00-00.log", i+1))
		require.NoError(t, os.WriteFile(name, []byte("log"), 0644))
	}

	manager := NewLogManager(dir, 2, 1024, false)
	require.NoError(t, manager.CleanupOldLogs())

	files, err := filepath.Glob(filepath.Join(dir, "akaylee-archscan_*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)

	stats, err := manager.GetLogStats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFiles)
}
