/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: machine.go
Description: COFF machine type table for the Akaylee ArchScan scanner. Maps the
16-bit machine field of the COFF header to human-readable architecture names,
with a formatted fallback for values outside the table.
*/

package pe

import (
	"fmt"
	"sort"
)

// COFF machine type values recognized by the scanner
const (
	MachineI386     uint16 = 0x014c
	MachineAMD64    uint16 = 0x8664
	MachineARM      uint16 = 0x01c0
	MachineARM64    uint16 = 0xaa64
	MachineR3000    uint16 = 0x0162
	MachineR4000    uint16 = 0x0166
	MachineR10000   uint16 = 0x0168
	MachineWCEMIPS2 uint16 = 0x0169
	MachineAlpha    uint16 = 0x0184
	MachineSH3      uint16 = 0x01a2
	MachineSH3DSP   uint16 = 0x01a3
	MachineSH4      uint16 = 0x01a6
	MachineSH5      uint16 = 0x01a8
	MachineThumb    uint16 = 0x01c2
	MachineARMNT    uint16 = 0x01c4
	MachineIA64     uint16 = 0x0200
	MachineM32R     uint16 = 0x9041
	MachineAlpha64  uint16 = 0x0284
)

// machineNames maps COFF machine values to architecture names
var machineNames = map[uint16]string{
	MachineI386:     "x86 (32-bit)",
	MachineAMD64:    "x64 (64-bit)",
	MachineARM:      "ARM",
	MachineARM64:    "ARM64",
	MachineR3000:    "MIPS R3000",
	MachineR4000:    "MIPS R4000",
	MachineR10000:   "MIPS R10000",
	MachineWCEMIPS2: "MIPS WCE v2",
	MachineAlpha:    "Alpha AXP",
	MachineSH3:      "Hitachi SH3",
	MachineSH3DSP:   "Hitachi SH3 DSP",
	MachineSH4:      "Hitachi SH4",
	MachineSH5:      "Hitachi SH5",
	MachineThumb:    "ARM Thumb",
	MachineARMNT:    "ARM Thumb-2",
	MachineIA64:     "Intel Itanium",
	MachineM32R:     "Mitsubishi M32R",
	MachineAlpha64:  "Alpha AXP 64-bit",
}

// MachineName returns the human-readable architecture name for a COFF
// machine value, or "Unknown (0xXXXX)" for values outside the table
func MachineName(machine uint16) string {
	if name, ok := machineNames[machine]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%04X)", machine)
}

// MachineInfo pairs a COFF machine value with its architecture name
type MachineInfo struct {
	Value uint16 `json:"value"`
	Name  string `json:"name"`
}

// KnownMachines returns all table entries sorted by machine value.
// Used by the list-architectures command.
func KnownMachines() []MachineInfo {
	machines := make([]MachineInfo, 0, len(machineNames))
	for value, name := range machineNames {
		machines = append(machines, MachineInfo{Value: value, Name: name})
	}
	sort.Slice(machines, func(i, j int) bool {
		return machines[i].Value < machines[j].Value
	})
	return machines
}
