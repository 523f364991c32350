/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter implementations for Akaylee ArchScan telemetry.
Supports structured logging of per-file outcomes and session summaries via
the engine's reporter hooks.
*/

package reporting

import (
	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// LoggerReporter logs scan events using the standard logger
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	return &LoggerReporter{logger: logger}
}

// OnFileScanned logs one file outcome
func (r *LoggerReporter) OnFileScanned(result *interfaces.FileResult) {
	fields := logrus.Fields{
		"path":    result.Path,
		"outcome": result.Outcome(),
	}

	switch {
	case result.Failed():
		r.logger.WithFields(fields).Warn("File read failed")
	case result.Detection.Status == interfaces.StatusInvalid:
		fields["reason"] = result.Detection.Reason
		r.logger.WithFields(fields).Warn("Malformed PE structure")
	case result.Detection.Recognized():
		fields["architecture"] = result.Detection.Architecture
		fields["machine"] = result.Detection.Machine
		r.logger.WithFields(fields).Info("Architecture detected")
	default:
		r.logger.WithFields(fields).Debug("Not a PE file")
	}
}

// OnScanCompleted logs the session summary
func (r *LoggerReporter) OnScanCompleted(stats *interfaces.ScanStats) {
	r.logger.WithFields(logrus.Fields{
		"files_scanned":  stats.FilesScanned,
		"recognized":     stats.Recognized,
		"not_recognized": stats.NotRecognized,
		"invalid":        stats.Invalid,
		"read_errors":    stats.ReadErrors,
		"duration":       stats.Duration,
	}).Info("Scan completed")
}
