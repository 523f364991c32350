/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: console.go
Description: Console rendering for the Akaylee ArchScan scanner. Prints per-file
detection results as an aligned table and a final summary block with outcome
counts and the per-architecture tally.
*/

package reporting

import (
	"fmt"
	"io"
	"sort"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
)

// PrintResults renders per-file results as an aligned console table
func PrintResults(w io.Writer, results []interfaces.FileResult) {
	pathWidth := len("Path")
	for _, result := range results {
		if len(result.Path) > pathWidth {
			pathWidth = len(result.Path)
		}
	}

	fmt.Fprintf(w, "%-*s  %-14s  %-20s  %s\n", pathWidth, "Path", "Outcome", "Architecture", "Detail")
	for _, result := range results {
		fmt.Fprintf(w, "%-*s  %-14s  %-20s  %s\n",
			pathWidth, result.Path, result.Outcome(), architectureColumn(&result), detailColumn(&result))
	}
}

// architectureColumn returns the architecture cell for one result
func architectureColumn(result *interfaces.FileResult) string {
	if result.Failed() || !result.Detection.Recognized() {
		return "-"
	}
	return result.Detection.Architecture
}

// detailColumn returns the detail cell for one result
func detailColumn(result *interfaces.FileResult) string {
	switch {
	case result.Failed():
		return result.ReadError
	case result.Detection.Recognized():
		return fmt.Sprintf("machine 0x%04x", result.Detection.Machine)
	case result.Detection.Status == interfaces.StatusInvalid:
		return result.Detection.Reason
	default:
		return ""
	}
}

// PrintSummary renders the final statistics block
func PrintSummary(w io.Writer, stats *interfaces.ScanStats) {
	fmt.Fprintln(w, "\n📊 Scan Summary")
	fmt.Fprintln(w, "===============")
	fmt.Fprintf(w, "Files Scanned: %d\n", stats.FilesScanned)
	fmt.Fprintf(w, "Recognized: %d\n", stats.Recognized)
	fmt.Fprintf(w, "Not Recognized: %d\n", stats.NotRecognized)
	fmt.Fprintf(w, "Invalid PE: %d\n", stats.Invalid)
	fmt.Fprintf(w, "Read Errors: %d\n", stats.ReadErrors)
	fmt.Fprintf(w, "Duration: %v\n", stats.Duration)
	fmt.Fprintf(w, "Rate: %.1f files/sec\n", stats.FilesPerSecond)

	if len(stats.ByArchitecture) > 0 {
		fmt.Fprintln(w, "\nArchitectures:")
		names := make([]string, 0, len(stats.ByArchitecture))
		for name := range stats.ByArchitecture {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %-20s %d\n", name, stats.ByArchitecture[name])
		}
	}
}
