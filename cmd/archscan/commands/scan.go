/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: scan.go
Description: Scan command implementation for the Akaylee ArchScan scanner.
Handles the batch scan process with comprehensive configuration, worker pool
management, and result rendering in table, CSV, and JSON formats.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/kleascm/akaylee-archscan/pkg/reporting"
	"github.com/kleascm/akaylee-archscan/pkg/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunScan executes the batch scan process
func RunScan(cmd *cobra.Command, args []string) error {
	fmt.Println("🚀 Akaylee ArchScan - Starting Scan Session")
	fmt.Println("===========================================")
	fmt.Println()

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

	// Create scanner configuration
	config := createScannerConfig(args)

	// Validate configuration
	if err := validateScannerConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Create scan engine
	engine := scanner.NewEngine()

	logger := logSystem.GetLogger()
	engine.SetLogger(logger)
	engine.AddReporter(reporting.NewLoggerReporter(logger))

	// Initialize engine
	if err := engine.Initialize(config); err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\n🛑 Received shutdown signal, stopping scan...")
		cancel()
	}()

	// Run the scan
	report, err := engine.Run(ctx)
	if err != nil && report == nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	logSystem.LogScanStats(report.Stats.FilesScanned, report.Stats.Recognized,
		report.Stats.Invalid, report.Stats.ReadErrors, report.Stats.FilesPerSecond,
		map[string]interface{}{"session_id": report.SessionID})

	// Render results
	if err := renderReport(report); err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}

	// Write session report if requested. The json output format already
	// honors report_dir, so only the other formats write it here.
	if reportDir := viper.GetString("report_dir"); reportDir != "" && viper.GetString("output_format") != "json" {
		path, err := reporting.WriteJSONReport(reportDir, report)
		if err != nil {
			return fmt.Errorf("failed to write session report: %w", err)
		}
		fmt.Printf("\n📄 Session report: %s\n", path)
	}

	fmt.Println("\n✨ Scan session completed!")

	// Non-zero exit status is reserved for I/O-level failures; detection
	// outcomes never fail the batch
	if report.Stats.ReadErrors > 0 {
		return fmt.Errorf("%d file(s) could not be read", report.Stats.ReadErrors)
	}
	return nil
}

// renderReport renders the scan report in the configured output format
func renderReport(report *interfaces.ScanReport) error {
	switch viper.GetString("output_format") {
	case "csv":
		if outputFile := viper.GetString("output_file"); outputFile != "" {
			if err := reporting.ExportCSVFile(outputFile, report.Results); err != nil {
				return err
			}
			fmt.Printf("📄 CSV results: %s\n", outputFile)
		} else if err := reporting.WriteCSV(os.Stdout, report.Results); err != nil {
			return err
		}
		reporting.PrintSummary(os.Stdout, &report.Stats)

	case "json":
		if outputFile := viper.GetString("output_file"); outputFile != "" {
			if err := reporting.ExportJSONFile(outputFile, report); err != nil {
				return err
			}
			fmt.Printf("📄 JSON report: %s\n", outputFile)
		} else {
			dir := viper.GetString("report_dir")
			if dir == "" {
				dir = "."
			}
			path, err := reporting.WriteJSONReport(dir, report)
			if err != nil {
				return err
			}
			fmt.Printf("📄 JSON report: %s\n", path)
		}
		reporting.PrintSummary(os.Stdout, &report.Stats)

	case "table", "":
		reporting.PrintResults(os.Stdout, report.Results)
		reporting.PrintSummary(os.Stdout, &report.Stats)

	default:
		return fmt.Errorf("unsupported output format: %s", viper.GetString("output_format"))
	}

	return nil
}

// validateScannerConfig validates the scanner configuration
func validateScannerConfig(config *interfaces.ScannerConfig) error {
	if len(config.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	for _, target := range config.Targets {
		if _, err := os.Stat(target); os.IsNotExist(err) {
			return fmt.Errorf("target not found: %s", target)
		}
	}

	switch viper.GetString("output_format") {
	case "table", "csv", "json", "":
		// ok
	default:
		return fmt.Errorf("unsupported output format: %s", viper.GetString("output_format"))
	}

	return nil
}

// createScannerConfig creates the scanner configuration from viper and args
func createScannerConfig(targets []string) *interfaces.ScannerConfig {
	extensions := viper.GetStringSlice("extensions")
	if len(extensions) == 0 {
		extensions = scanner.DefaultExtensions
	}

	return &interfaces.ScannerConfig{
		Targets:    targets,
		Recursive:  viper.GetBool("recursive"),
		Extensions: extensions,
		Workers:    viper.GetInt("workers"),
		ScanAll:    viper.GetBool("scan_all"),
	}
}
