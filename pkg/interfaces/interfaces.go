/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Shared interfaces for the Akaylee ArchScan scanner. Defines the core
types and interfaces used across all packages to break import cycles and enable
proper modular design.
*/

package interfaces

import (
	"fmt"
	"time"
)

// DetectionStatus represents the outcome class of examining one buffer
type DetectionStatus int

const (
	// StatusNotRecognized means no DOS signature was found, or the buffer is
	// too short to hold a legacy DOS header. Normal outcome for non-PE files,
	// and the zero value of a Detection.
	StatusNotRecognized DetectionStatus = iota
	// StatusRecognized means a valid PE image with a readable machine field
	StatusRecognized
	// StatusInvalid means a DOS signature was found but the PE structure is
	// malformed or truncated
	StatusInvalid
)

// String returns the canonical lowercase name used in reports and CSV rows
func (s DetectionStatus) String() string {
	switch s {
	case StatusRecognized:
		return "recognized"
	case StatusNotRecognized:
		return "not-recognized"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Detection represents the result of examining one byte buffer
// Malformed input is expressed through Status and Reason, never as an error
type Detection struct {
	Status       DetectionStatus `json:"status"`
	Architecture string          `json:"architecture,omitempty"` // Human-readable name for recognized images
	Machine      uint16          `json:"machine,omitempty"`      // Raw COFF machine field value
	Reason       string          `json:"reason,omitempty"`       // Populated only for StatusInvalid
}

// Recognized reports whether the buffer held a valid PE image
func (d Detection) Recognized() bool {
	return d.Status == StatusRecognized
}

// String renders a single-line human-readable form of the detection
func (d Detection) String() string {
	switch d.Status {
	case StatusRecognized:
		return fmt.Sprintf("%s (machine 0x%04x)", d.Architecture, d.Machine)
	case StatusInvalid:
		return fmt.Sprintf("invalid PE: %s", d.Reason)
	default:
		return "not a PE file"
	}
}

// FileResult represents the outcome of scanning a single file
type FileResult struct {
	Path      string        `json:"path"`                 // File path as enumerated
	Size      int64         `json:"size"`                 // File size in bytes
	Detection Detection     `json:"detection"`            // Detection outcome for the file prefix
	ReadError string        `json:"read_error,omitempty"` // I/O failure reading the prefix, if any
	Duration  time.Duration `json:"duration"`             // Time spent reading and detecting
	WorkerID  int           `json:"worker_id"`            // Worker that processed the file
}

// Failed reports whether the file could not be read at all.
// Detection outcomes (including StatusInvalid) are not failures.
func (r *FileResult) Failed() bool {
	return r.ReadError != ""
}

// Outcome returns the report column value for this result
func (r *FileResult) Outcome() string {
	if r.Failed() {
		return "read-error"
	}
	return r.Detection.Status.String()
}

// ScanStats represents aggregate statistics for one scan session
type ScanStats struct {
	FilesScanned   int64            `json:"files_scanned"`
	Recognized     int64            `json:"recognized"`
	NotRecognized  int64            `json:"not_recognized"`
	Invalid        int64            `json:"invalid"`
	ReadErrors     int64            `json:"read_errors"`
	ByArchitecture map[string]int64 `json:"by_architecture"`
	StartTime      time.Time        `json:"start_time"`
	Duration       time.Duration    `json:"duration"`
	FilesPerSecond float64          `json:"files_per_second"`
}

// ScanReport bundles everything produced by one scan session
type ScanReport struct {
	SessionID string       `json:"session_id"`
	Targets   []string     `json:"targets"`
	Results   []FileResult `json:"results"`
	Stats     ScanStats    `json:"stats"`
}

// ScannerConfig represents the configuration for a scan session
type ScannerConfig struct {
	Targets    []string // Files and/or directories to scan
	Recursive  bool     // Descend into subdirectories
	Extensions []string // Extension filter for directory walks (empty = all files)
	Workers    int      // Number of parallel workers (0 = auto-detect)
	ScanAll    bool     // Continue scanning for later DOS signatures when the first yields an invalid PE
	SessionID  string   // Unique scan session identifier
}

// Detector defines the interface for architecture detection over a file prefix
type Detector interface {
	// Detect examines a buffer holding at most the first 4096 bytes of a file.
	// It is pure and safe for concurrent use over independent buffers.
	Detect(buf []byte) Detection
}

// Reporter defines the interface for scan telemetry hooks.
// Allows the engine to notify listeners of per-file and session events.
type Reporter interface {
	// OnFileScanned is called after each file is processed.
	OnFileScanned(result *FileResult)
	// OnScanCompleted is called once with the final statistics.
	OnScanCompleted(stats *ScanStats)
}
