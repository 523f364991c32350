/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Main scan engine implementation for the Akaylee ArchScan scanner.
Enumerates target files, fans work out to a pool of parallel workers, and
aggregates per-file detection results into session statistics. Each file is
processed independently; a failed read never aborts the batch.
*/

package scanner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/kleascm/akaylee-archscan/pkg/pe"
	"github.com/sirupsen/logrus"
)

// Engine coordinates a scan session over a set of target files and directories
type Engine struct {
	config   *interfaces.ScannerConfig
	detector interfaces.Detector
	logger   *logrus.Logger

	// Worker management
	workers []*Worker

	// Aggregation
	results   []interfaces.FileResult
	stats     interfaces.ScanStats
	reporters []interfaces.Reporter

	// State management
	running bool
	mu      sync.Mutex
}

// NewEngine creates a new scan engine instance
func NewEngine() *Engine {
	return &Engine{
		logger: logrus.New(),
	}
}

// SetDetector injects the architecture detector used by all workers
func (e *Engine) SetDetector(detector interfaces.Detector) {
	e.detector = detector
}

// SetLogger replaces the engine's logger
func (e *Engine) SetLogger(logger *logrus.Logger) {
	e.logger = logger
}

// AddReporter registers a reporter for scan telemetry
func (e *Engine) AddReporter(reporter interfaces.Reporter) {
	e.reporters = append(e.reporters, reporter)
}

// Initialize validates the configuration and prepares the engine for a scan.
// Fills in defaults: worker count from CPU count, a fresh session ID, and the
// default detector when none was injected.
func (e *Engine) Initialize(config *interfaces.ScannerConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if config == nil {
		return fmt.Errorf("scanner configuration is required")
	}
	if len(config.Targets) == 0 {
		return fmt.Errorf("at least one target file or directory is required")
	}

	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.SessionID == "" {
		config.SessionID = uuid.New().String()
	}

	if e.detector == nil {
		e.detector = pe.NewDetector(pe.Options{ScanAll: config.ScanAll})
	}

	e.config = config
	e.stats = interfaces.ScanStats{
		ByArchitecture: make(map[string]int64),
	}

	e.logger.WithFields(logrus.Fields{
		"session_id": config.SessionID,
		"targets":    len(config.Targets),
		"workers":    config.Workers,
		"scan_all":   config.ScanAll,
	}).Info("Engine initialized")

	return nil
}

// Run performs the scan and returns the session report. The returned error
// covers engine-level failures only; per-file read errors are recorded in the
// report and counted in the statistics.
func (e *Engine) Run(ctx context.Context) (*interfaces.ScanReport, error) {
	e.mu.Lock()
	if e.config == nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine not initialized - call Initialize() before Run()")
	}
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is already running")
	}
	e.running = true
	e.stats.StartTime = time.Now()
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	paths := make(chan string, 256)
	resultCh := make(chan interfaces.FileResult, 256)

	// Worker pool
	var workerWg sync.WaitGroup
	e.workers = make([]*Worker, 0, e.config.Workers)
	for i := 0; i < e.config.Workers; i++ {
		worker := NewWorker(i, e.detector, e.logger)
		e.workers = append(e.workers, worker)

		workerWg.Add(1)
		go func(w *Worker) {
			defer workerWg.Done()
			w.Run(ctx, paths, resultCh)
		}(worker)
	}

	// Target enumeration feeds the path channel; walk failures surface as
	// read-error results so batch exit semantics stay uniform
	var enumWg sync.WaitGroup
	enumWg.Add(1)
	go func() {
		defer enumWg.Done()
		defer close(paths)
		e.enumerate(ctx, paths, resultCh)
	}()

	// Close the result channel once enumeration and all workers finish
	go func() {
		enumWg.Wait()
		workerWg.Wait()
		close(resultCh)
	}()

	for result := range resultCh {
		e.collect(result)
	}

	e.finalizeStats()

	for _, reporter := range e.reporters {
		reporter.OnScanCompleted(&e.stats)
	}

	e.logger.WithFields(logrus.Fields{
		"session_id":    e.config.SessionID,
		"files_scanned": e.stats.FilesScanned,
		"recognized":    e.stats.Recognized,
		"read_errors":   e.stats.ReadErrors,
		"duration":      e.stats.Duration,
	}).Info("Engine completed scan")

	return &interfaces.ScanReport{
		SessionID: e.config.SessionID,
		Targets:   e.config.Targets,
		Results:   e.sortedResults(),
		Stats:     e.stats,
	}, ctx.Err()
}

// collect folds one file result into the session aggregates
func (e *Engine) collect(result interfaces.FileResult) {
	e.mu.Lock()
	e.results = append(e.results, result)
	e.stats.FilesScanned++

	if result.Failed() {
		e.stats.ReadErrors++
	} else {
		switch result.Detection.Status {
		case interfaces.StatusRecognized:
			e.stats.Recognized++
			e.stats.ByArchitecture[result.Detection.Architecture]++
		case interfaces.StatusInvalid:
			e.stats.Invalid++
		default:
			e.stats.NotRecognized++
		}
	}
	e.mu.Unlock()

	for _, reporter := range e.reporters {
		reporter.OnFileScanned(&result)
	}
}

// finalizeStats computes the derived statistics after all results are in
func (e *Engine) finalizeStats() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stats.Duration = time.Since(e.stats.StartTime)
	if seconds := e.stats.Duration.Seconds(); seconds > 0 {
		e.stats.FilesPerSecond = float64(e.stats.FilesScanned) / seconds
	}
}

// sortedResults returns the collected results in path order for stable reports
func (e *Engine) sortedResults() []interfaces.FileResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	results := make([]interfaces.FileResult, len(e.results))
	copy(results, e.results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	return results
}

// GetStats returns a snapshot of the current session statistics
func (e *Engine) GetStats() interfaces.ScanStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.stats
	stats.ByArchitecture = make(map[string]int64, len(e.stats.ByArchitecture))
	for arch, count := range e.stats.ByArchitecture {
		stats.ByArchitecture[arch] = count
	}
	return stats
}

// WorkerStats returns per-worker statistics for diagnostics
func (e *Engine) WorkerStats() []map[string]interface{} {
	stats := make([]map[string]interface{}, 0, len(e.workers))
	for _, worker := range e.workers {
		stats = append(stats, worker.GetStats())
	}
	return stats
}
