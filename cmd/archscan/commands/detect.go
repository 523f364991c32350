/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detect.go
Description: Detect command implementation for the Akaylee ArchScan scanner.
Detects the architecture of individual files and prints one line per file,
continuing past non-PE and malformed inputs.
*/

package commands

import (
	"fmt"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/kleascm/akaylee-archscan/pkg/pe"
	"github.com/kleascm/akaylee-archscan/pkg/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunDetect detects the architecture of the given files
func RunDetect(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	logSystem, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logSystem.Close()

	opts := pe.Options{ScanAll: viper.GetBool("scan_all")}

	readFailures := 0
	for _, path := range args {
		buf, _, err := scanner.ReadPrefix(path)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", path, err)
			logSystem.LogReadError(path, err, nil)
			readFailures++
			continue
		}

		det := pe.DetectWithOptions(buf, opts)
		logSystem.LogDetection(path, det.Status.String(), det.Architecture, det.Machine, nil)
		switch det.Status {
		case interfaces.StatusRecognized:
			fmt.Printf("✅ %s: %s\n", path, det)
		case interfaces.StatusInvalid:
			fmt.Printf("⚠️  %s: %s\n", path, det)
		default:
			fmt.Printf("⚪ %s: %s\n", path, det)
		}
	}

	// Only I/O failures produce a non-zero exit status
	if readFailures > 0 {
		return fmt.Errorf("%d file(s) could not be read", readFailures)
	}
	return nil
}
