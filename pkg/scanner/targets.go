/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: targets.go
Description: Target enumeration for the Akaylee ArchScan scanner. Expands the
configured files and directories into the stream of file paths scanned by the
worker pool, applying the extension filter to directory walks. Walk failures
are surfaced as read-error results so the batch keeps its uniform per-file
failure semantics.
*/

package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/sirupsen/logrus"
)

// DefaultExtensions is the extension filter applied to directory walks when
// the configuration does not override it. Explicitly named files bypass the
// filter entirely.
var DefaultExtensions = []string{".exe", ".dll", ".sys", ".ocx", ".scr", ".drv", ".cpl"}

// enumerate expands the configured targets into the path channel.
// Directories are walked (recursively when configured) with the extension
// filter applied; explicit file targets are emitted as-is.
func (e *Engine) enumerate(ctx context.Context, paths chan<- string, results chan<- interfaces.FileResult) {
	for _, target := range e.config.Targets {
		if ctx.Err() != nil {
			return
		}

		info, err := os.Stat(target)
		if err != nil {
			e.emitWalkError(ctx, results, target, err)
			continue
		}

		if !info.IsDir() {
			e.emitPath(ctx, paths, target)
			continue
		}

		e.walkDirectory(ctx, target, paths, results)
	}
}

// walkDirectory emits matching files under root into the path channel
func (e *Engine) walkDirectory(ctx context.Context, root string, paths chan<- string, results chan<- interfaces.FileResult) {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			e.emitWalkError(ctx, results, path, err)
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if path != root && !e.config.Recursive {
				return fs.SkipDir
			}
			return nil
		}

		if !matchesExtensions(path, e.config.Extensions) {
			return nil
		}

		e.emitPath(ctx, paths, path)
		return nil
	})

	if err != nil && err != context.Canceled && ctx.Err() == nil {
		e.logger.WithFields(logrus.Fields{
			"root": root,
		}).Warnf("Directory walk aborted: %v", err)
	}
}

// emitPath sends a path unless the scan has been cancelled
func (e *Engine) emitPath(ctx context.Context, paths chan<- string, path string) {
	select {
	case paths <- path:
	case <-ctx.Done():
	}
}

// emitWalkError records an enumeration failure as a read-error result
func (e *Engine) emitWalkError(ctx context.Context, results chan<- interfaces.FileResult, path string, err error) {
	e.logger.WithFields(logrus.Fields{
		"path": path,
	}).Warnf("Target enumeration failed: %v", err)

	select {
	case results <- interfaces.FileResult{Path: path, ReadError: err.Error()}:
	case <-ctx.Done():
	}
}

// matchesExtensions reports whether the path passes the extension filter.
// An empty filter matches every file; comparison is case-insensitive.
func matchesExtensions(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range extensions {
		if ext == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}
