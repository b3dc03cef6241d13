package extract

import (
	"regexp"
	"strings"

	"megaraid-health-check/pkg/types"
)

var (
	// DG/VD TYPE State Access ... Name
	vdRowRegex = regexp.MustCompile(`^\s*(\d+)/(\d+)\s+(\S+)\s+(\S+)(.*)$`)
	// EID:Slt DID State DG Size Intf Med ...
	pdRowRegex      = regexp.MustCompile(`^\s*(\d*:\d+)\s+(\d+)\s+(\S+)(.*)$`)
	sectorSizeRegex = regexp.MustCompile(`^\d+B$`)
	sizeUnitRegex   = regexp.MustCompile(`(?i)^(?:[KMGTP]i?B|B|bytes)$`)
	sizeValueRegex  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	controllerMissingRegex = regexp.MustCompile(`(?i)controller\s+\d+\s+not\s+found|invalid\s+controller|no\s+controller\s+found`)
)

// VirtualDriveRows parses the rows of a virtual drive table. Only the id and
// the two following columns are positional, the name is the last column
// unless the row ends with a size.
func VirtualDriveRows(text string) []types.VirtualDrive {
	var vds []types.VirtualDrive
	for _, line := range strings.Split(text, "\n") {
		m := vdRowRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		vd := types.VirtualDrive{
			ID:        m[1] + "/" + m[2],
			Group:     m[1],
			Number:    m[2],
			RaidLevel: m[3],
			State:     types.Normalize(m[4]),
		}
		if rest := strings.Fields(m[5]); len(rest) > 0 {
			last := rest[len(rest)-1]
			if !sizeUnitRegex.MatchString(last) && !sizeValueRegex.MatchString(last) {
				vd.Name = last
			}
		}
		vds = append(vds, vd)
	}
	return vds
}

// PhysicalDriveRows parses the rows of a physical drive table
func PhysicalDriveRows(text string) []types.PhysicalDrive {
	var pds []types.PhysicalDrive
	for _, line := range strings.Split(text, "\n") {
		m := pdRowRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		id, ok := ParseDriveRef(m[1])
		if !ok {
			continue
		}
		pd := types.PhysicalDrive{
			ID:       id,
			DeviceID: m[2],
			State:    types.Normalize(m[3]),
			Spare:    spareKind(m[3]),
		}

		rest := strings.Fields(m[4])
		for i, f := range rest {
			switch {
			case strings.EqualFold(f, "SSD"):
				pd.Medium = types.MediumSSD
			case strings.EqualFold(f, "HDD"):
				pd.Medium = types.MediumHDD
			case sizeUnitRegex.MatchString(f) && i > 0 && sizeValueRegex.MatchString(rest[i-1]) && pd.Size == "":
				pd.Size = rest[i-1] + " " + f
			case sectorSizeRegex.MatchString(f) && i+1 < len(rest) && pd.Model == "":
				pd.Model = rest[i+1]
			}
		}
		pds = append(pds, pd)
	}
	return pds
}

func spareKind(code string) types.SpareKind {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "DHS":
		return types.SpareDedicated
	case "GHS":
		return types.SpareGlobal
	case "UGOOD":
		return types.SpareUnconfiguredGood
	}
	return types.SpareNone
}

// SummaryCount returns a "<label> = N" count such as "Physical Drives = 4"
func SummaryCount(text, label string) (int, bool) {
	return ParseRecord(text).Int(label)
}

// ControllerMissing reports whether the tool said the controller does not exist
func ControllerMissing(text string) bool {
	return controllerMissingRegex.MatchString(text)
}
