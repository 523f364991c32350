/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee ArchScan scanner.
Provides comprehensive command-line options, configuration management, and
beautiful user interface for detecting executable architectures across files
and directory trees with advanced logging capabilities.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-archscan/cmd/archscan/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool

	// Scan configuration
	workers    int
	recursive  bool
	extensions []string
	scanAll    bool

	// Output configuration
	outputFormat string
	outputFile   string
	reportDir    string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "archscan",
		Short: "Akaylee ArchScan - PE executable architecture scanner",
		Long: `Akaylee ArchScan is a fast, parallel scanner that determines the target
machine architecture of Windows PE executables (.exe, .dll, drivers) by parsing
their DOS and COFF headers. It reads only the first 4096 bytes of each file,
never aborts a batch on a malformed image, and reports results as a console
table, CSV, or JSON.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")

	// Add logging-specific flags
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))

	// Add scan command
	scanCmd := &cobra.Command{
		Use:   "scan [targets...]",
		Short: "Scan files and directories for executable architectures",
		Long: `Scan the given files and directories, detecting the target machine
architecture of every PE executable found. Directories are filtered by
extension; malformed and non-PE files are reported per file and never stop
the batch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunScan,
	}

	// Add scan command flags
	scanCmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	scanCmd.Flags().BoolVar(&recursive, "recursive", true, "Descend into subdirectories")
	scanCmd.Flags().StringSliceVar(&extensions, "extensions", nil, "Extension filter for directory walks (empty = defaults)")
	scanCmd.Flags().BoolVar(&scanAll, "scan-all", false, "Keep scanning for later DOS signatures when the first yields an invalid PE")

	scanCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, csv, json)")
	scanCmd.Flags().StringVar(&outputFile, "output", "", "Write csv or json results to this file")
	scanCmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for timestamped JSON session reports")

	// Bind flags to viper
	viper.BindPFlag("workers", scanCmd.Flags().Lookup("workers"))
	viper.BindPFlag("recursive", scanCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("extensions", scanCmd.Flags().Lookup("extensions"))
	viper.BindPFlag("scan_all", scanCmd.Flags().Lookup("scan-all"))
	viper.BindPFlag("output_format", scanCmd.Flags().Lookup("format"))
	viper.BindPFlag("output_file", scanCmd.Flags().Lookup("output"))
	viper.BindPFlag("report_dir", scanCmd.Flags().Lookup("report-dir"))

	rootCmd.AddCommand(scanCmd)

	// Add detect command for single files
	detectCmd := &cobra.Command{
		Use:   "detect [files...]",
		Short: "Detect the architecture of individual files",
		Long: `Detect the target machine architecture of the given files, printing one
line per file. Non-PE and malformed files are reported as such; only files
that cannot be read at all produce a non-zero exit status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunDetect,
	}

	detectCmd.Flags().BoolVar(&scanAll, "scan-all", false, "Keep scanning for later DOS signatures when the first yields an invalid PE")
	viper.BindPFlag("scan_all", detectCmd.Flags().Lookup("scan-all"))

	rootCmd.AddCommand(detectCmd)

	// Add list-architectures command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "list-architectures",
		Short: "List the COFF machine types the scanner recognizes",
		Long: `List all COFF machine type values in the scanner's lookup table with
their human-readable architecture names.`,
		Run: func(cmd *cobra.Command, args []string) {
			commands.ListArchitectures(cmd, args)
		},
	})

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Perform built-in self-checks for system validation",
		Long: `Perform comprehensive checks to validate detector correctness, log
writability, and worker pool operation. Very useful for CI/CD integration.`,
		RunE: commands.PerformSelfCheck,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
