/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for the Akaylee ArchScan scanner. Provides
list-architectures and self-check functionality for system validation.
*/

package commands

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
	"github.com/kleascm/akaylee-archscan/pkg/logging"
	"github.com/kleascm/akaylee-archscan/pkg/pe"
	"github.com/kleascm/akaylee-archscan/pkg/scanner"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ListArchitectures lists the COFF machine types the scanner recognizes
func ListArchitectures(cmd *cobra.Command, args []string) {
	fmt.Println("🧭 Akaylee ArchScan - Recognized Architectures")
	fmt.Println("==============================================")
	fmt.Println()

	for i, machine := range pe.KnownMachines() {
		fmt.Printf("%2d. 0x%04x  %s\n", i+1, machine.Value, machine.Name)
	}

	fmt.Println()
	fmt.Println("✨ Machine values outside this table are reported as Unknown (0xXXXX)")
}

// PerformSelfCheck performs comprehensive system validation
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 Akaylee ArchScan - System Self-Check")
	fmt.Println("=======================================")
	fmt.Println()

	checks := []struct {
		name     string
		function func() error
	}{
		{"Detector Correctness", checkDetectorCorrectness},
		{"Log Directory Writability", checkLogDirectory},
		{"Worker Pool Operation", checkWorkerPool},
		{"CPU Resources", checkCPUResources},
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Printf("🔍 %s... ", check.name)
		if err := check.function(); err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
		} else {
			fmt.Println("✅ PASSED")
			passed++
		}
	}

	fmt.Println()
	fmt.Printf("📊 Results: %d/%d checks passed\n", passed, total)
	printLogStats()

	if passed == total {
		fmt.Println("✨ All checks passed! System is ready for scanning.")
		return nil
	}

	fmt.Println("⚠️  Some checks failed. Please address the issues before scanning.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

// printLogStats summarizes the accumulated log files in the configured directory
func printLogStats() {
	logDir := viper.GetString("log_dir")
	if logDir == "" {
		logDir = "./logs"
	}

	manager := logging.NewLogManager(logDir, viper.GetInt("log_max_files"),
		viper.GetInt64("log_max_size"), viper.GetBool("log_compress"))
	stats, err := manager.GetLogStats()
	if err != nil || stats.TotalFiles == 0 {
		return
	}

	fmt.Printf("🗂  Log files: %d (%.1f KB total, %d compressed)\n",
		stats.TotalFiles, float64(stats.TotalSize)/1024, stats.CompressedFiles)
}

// checkDetectorCorrectness runs the detector over a synthetic known-good image
func checkDetectorCorrectness() error {
	buf := make([]byte, 0x100)
	buf[0] = 0x4D
	buf[1] = 0x5A
	binary.LittleEndian.PutUint32(buf[0x3C:], 0x80)
	copy(buf[0x80:], []byte{0x50, 0x45, 0x00, 0x00})
	binary.LittleEndian.PutUint16(buf[0x84:], 0x8664)

	det := pe.Detect(buf)
	if !det.Recognized() {
		return fmt.Errorf("synthetic image not recognized: %s", det)
	}
	if det.Architecture != "x64 (64-bit)" {
		return fmt.Errorf("unexpected architecture: %s", det.Architecture)
	}

	if det := pe.Detect(nil); det.Status != interfaces.StatusNotRecognized {
		return fmt.Errorf("empty buffer misclassified: %s", det)
	}

	return nil
}

// checkLogDirectory verifies the configured log directory is writable
func checkLogDirectory() error {
	logDir := viper.GetString("log_dir")
	if logDir == "" {
		logDir = "./logs"
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("cannot create log directory: %v", err)
	}

	testFile := filepath.Join(logDir, "archscan_selfcheck.tmp")
	if err := os.WriteFile(testFile, []byte("check"), 0644); err != nil {
		return fmt.Errorf("cannot write to log directory: %v", err)
	}
	return os.Remove(testFile)
}

// checkWorkerPool runs a tiny end-to-end scan over a temporary file
func checkWorkerPool() error {
	dir, err := os.MkdirTemp("", "archscan_selfcheck_")
	if err != nil {
		return fmt.Errorf("cannot create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	buf := make([]byte, 0x100)
	buf[0] = 0x4D
	buf[1] = 0x5A
	binary.LittleEndian.PutUint32(buf[0x3C:], 0x80)
	copy(buf[0x80:], []byte{0x50, 0x45, 0x00, 0x00})
	binary.LittleEndian.PutUint16(buf[0x84:], 0x014c)

	path := filepath.Join(dir, "sample.exe")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("cannot write sample file: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	engine := scanner.NewEngine()
	engine.SetLogger(logger)
	if err := engine.Initialize(&interfaces.ScannerConfig{
		Targets: []string{path},
		Workers: 2,
	}); err != nil {
		return err
	}

	report, err := engine.Run(context.Background())
	if err != nil {
		return err
	}
	if report.Stats.Recognized != 1 {
		return fmt.Errorf("sample file not recognized")
	}

	return nil
}

// checkCPUResources checks CPU availability for the worker pool
func checkCPUResources() error {
	if runtime.NumCPU() < 1 {
		return fmt.Errorf("no CPU cores reported")
	}
	return nil
}
