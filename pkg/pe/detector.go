/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: detector.go
Description: PE (Portable Executable) architecture detector for the Akaylee ArchScan
scanner. Performs bounds-checked manual parsing of the DOS and COFF headers over a
file prefix buffer to determine the target machine architecture of an executable.
Pure computation with no I/O; safe for concurrent use over independent buffers.
*/

package pe

import (
	"bytes"
	"encoding/binary"

	"github.com/kleascm/akaylee-archscan/pkg/interfaces"
)

const (
	// ReadLimit is the maximum number of bytes callers should read from the
	// start of a candidate file before invoking detection
	ReadLimit = 4096

	// dosHeaderSize is the size of the legacy DOS header. Buffers shorter
	// than this cannot hold a PE file.
	dosHeaderSize = 64

	// peOffsetField is the offset, relative to the DOS signature, of the
	// 32-bit little-endian field holding the PE header offset (e_lfanew)
	peOffsetField = 0x3C

	// machineFieldOffset is the offset of the COFF machine field relative to
	// the PE signature
	machineFieldOffset = 4
)

var (
	// dosSignature is the two-byte "MZ" DOS header signature
	dosSignature = []byte{0x4D, 0x5A}

	// peSignature is the four-byte "PE\0\0" image signature
	peSignature = []byte{0x50, 0x45, 0x00, 0x00}
)

// Options controls optional detection behavior
type Options struct {
	// ScanAll continues searching for later DOS signature occurrences when an
	// earlier occurrence yields an invalid PE structure. The default (false)
	// examines only the first occurrence, which can misclassify files with
	// stray "MZ" bytes ahead of the real DOS header.
	ScanAll bool
}

// Detect examines a buffer holding at most the first ReadLimit bytes of a
// file and determines whether it is a valid PE image and which machine
// architecture it targets. Never panics on malformed input; all malformed
// paths are expressed as result variants.
func Detect(buf []byte) interfaces.Detection {
	return DetectWithOptions(buf, Options{})
}

// DetectWithOptions is Detect with explicit behavior options
func DetectWithOptions(buf []byte, opts Options) interfaces.Detection {
	if len(buf) < dosHeaderSize {
		return interfaces.Detection{Status: interfaces.StatusNotRecognized}
	}

	// First occurrence scanning from offset 0 upward. With ScanAll, later
	// occurrences are tried when an earlier one yields an invalid structure,
	// and the first occurrence's outcome is reported if none succeeds.
	var firstInvalid *interfaces.Detection
	for i := 0; i+len(dosSignature) <= len(buf); i++ {
		if buf[i] != dosSignature[0] || buf[i+1] != dosSignature[1] {
			continue
		}

		det := detectAt(buf, i)
		if det.Status == interfaces.StatusRecognized {
			return det
		}
		if firstInvalid == nil {
			firstInvalid = &det
		}
		if !opts.ScanAll {
			break
		}
	}

	if firstInvalid != nil {
		return *firstInvalid
	}
	return interfaces.Detection{Status: interfaces.StatusNotRecognized}
}

// detectAt validates the PE structure anchored at a DOS signature occurrence.
// Returns StatusRecognized or StatusInvalid, never StatusNotRecognized.
func detectAt(buf []byte, mz int) interfaces.Detection {
	if mz+peOffsetField+4 > len(buf) {
		return invalid("buffer truncated before PE header offset field")
	}

	// e_lfanew is signed in the on-disk format. The bounds comparison runs
	// in int64 so an offset near MaxInt32 cannot wrap on 32-bit platforms.
	peOffset := int32(binary.LittleEndian.Uint32(buf[mz+peOffsetField:]))
	if peOffset <= 0 || int64(peOffset)+int64(len(peSignature)+2) > int64(len(buf)) {
		return invalid("PE header offset out of range")
	}

	if !bytes.Equal(buf[int(peOffset):int(peOffset)+len(peSignature)], peSignature) {
		return invalid("PE signature mismatch")
	}

	machine := binary.LittleEndian.Uint16(buf[int(peOffset)+machineFieldOffset:])
	return interfaces.Detection{
		Status:       interfaces.StatusRecognized,
		Architecture: MachineName(machine),
		Machine:      machine,
	}
}

// invalid builds a StatusInvalid detection with the given reason
func invalid(reason string) interfaces.Detection {
	return interfaces.Detection{
		Status: interfaces.StatusInvalid,
		Reason: reason,
	}
}

// Detector adapts the detection functions to the interfaces.Detector
// interface with a fixed set of options
type Detector struct {
	opts Options
}

// NewDetector creates a new detector with the given options
func NewDetector(opts Options) *Detector {
	return &Detector{opts: opts}
}

// Detect implements interfaces.Detector
func (d *Detector) Detect(buf []byte) interfaces.Detection {
	return DetectWithOptions(buf, d.opts)
}
