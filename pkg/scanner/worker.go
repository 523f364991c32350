/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: worker.go
Description: Worker implementation for parallel file scanning in the Akaylee
ArchScan scanner. Each worker reads file prefixes from a shared path channel,
runs architecture detection over its own buffer, and emits per-file results.
Workers share nothing but the channels; detection itself is pure.
*/

package scanner

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/kleascm/akaylee-archscan/pkg/pe"
	"github.com/sirupsen/logrus"
)

// Worker represents a single scan worker in the pool
type Worker struct {
	ID       int                 // Unique worker identifier
	detector interfaces.Detector // Architecture detector
	logger   *logrus.Logger      // Worker-specific logger

	// Performance tracking
	scanned    int64     // Number of files processed
	recognized int64     // Number of recognized PE images
	readErrors int64     // Number of unreadable files
	startTime  time.Time // When the worker was created

	mu sync.RWMutex // Thread safety for counters
}

// NewWorker creates a new worker instance
func NewWorker(id int, detector interfaces.Detector, logger *logrus.Logger) *Worker {
	return &Worker{
		ID:        id,
		detector:  detector,
		logger:    logger,
		startTime: time.Now(),
	}
}

// Run processes paths from the channel until it closes or the context is
// cancelled, emitting one result per file
func (w *Worker) Run(ctx context.Context, paths <-chan string, results chan<- interfaces.FileResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-paths:
			if !ok {
				return
			}
			result := w.ProcessFile(path)
			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

// ProcessFile reads a file's prefix and runs detection over it.
// Read failures are recorded in the result, never returned as errors;
// the batch continues regardless of individual outcomes.
func (w *Worker) ProcessFile(path string) interfaces.FileResult {
	start := time.Now()

	result := interfaces.FileResult{
		Path:     path,
		WorkerID: w.ID,
	}

	buf, size, err := ReadPrefix(path)
	result.Size = size

	if err != nil {
		result.ReadError = err.Error()
		result.Duration = time.Since(start)

		w.mu.Lock()
		w.scanned++
		w.readErrors++
		w.mu.Unlock()

		w.logger.WithFields(logrus.Fields{
			"worker": w.ID,
			"path":   path,
		}).Warnf("File read failed: %v", err)
		return result
	}

	result.Detection = w.detector.Detect(buf)
	result.Duration = time.Since(start)

	w.mu.Lock()
	w.scanned++
	if result.Detection.Recognized() {
		w.recognized++
	}
	w.mu.Unlock()

	w.logger.WithFields(logrus.Fields{
		"worker":  w.ID,
		"path":    path,
		"outcome": result.Outcome(),
		"arch":    result.Detection.Architecture,
	}).Debug("File scanned")

	return result
}

// GetStats returns worker performance statistics
func (w *Worker) GetStats() map[string]interface{} {
	w.mu.RLock()
	defer w.mu.RUnlock()

	stats := make(map[string]interface{})
	stats["id"] = w.ID
	stats["scanned"] = w.scanned
	stats["recognized"] = w.recognized
	stats["read_errors"] = w.readErrors
	stats["uptime"] = time.Since(w.startTime)

	uptime := time.Since(w.startTime).Seconds()
	if uptime > 0 {
		stats["files_per_second"] = float64(w.scanned) / uptime
	}

	return stats
}

// ReadPrefix reads at most pe.ReadLimit bytes from the start of a file.
// Files shorter than the limit yield a shorter buffer, not an error.
func ReadPrefix(path string) ([]byte, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	var size int64
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}

	buf := make([]byte, pe.ReadLimit)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, size, err
	}

	return buf[:n], size, nil
}
