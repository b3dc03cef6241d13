package extract

import (
	"regexp"
	"strings"

	"megaraid-health-check/pkg/types"
)

// Block is a contiguous span of lines that starts at an anchor match
type Block struct {
	Key   string
	Lines []string
}

// Record parses the block into a Record
func (b Block) Record() Record {
	return ParseLines(b.Lines)
}

// Sections returns every block of text starting at a line matching anchor.
// A block ends before the next anchor line, or after window lines when
// window is positive. The block key is the first non-empty capture group of
// anchor, or the whole match when no group matched.
func Sections(text string, anchor *regexp.Regexp, window int) []Block {
	var blocks []Block
	var current *Block

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := anchor.FindStringSubmatch(line); m != nil {
			key := m[0]
			for _, g := range m[1:] {
				if g != "" {
					key = g
					break
				}
			}
			blocks = append(blocks, Block{Key: key, Lines: []string{line}})
			current = &blocks[len(blocks)-1]
			continue
		}
		if current == nil {
			continue
		}
		if window > 0 && len(current.Lines) >= window {
			current = nil
			continue
		}
		current.Lines = append(current.Lines, line)
	}
	return blocks
}

var (
	// "Drive /c0/e252/s0 :", "Drive /c0/e252/s0 State :", "Drive 252:0", a bare
	// "252:0 ..." row, or a "Drive 3" header without enclosure
	driveAnchorRegex = regexp.MustCompile(`(?i)^\s*(?:Drive\s+)?(/c\d+(?:/e\d+)?/s\d+|\d*:\d+)(?:\s|$)|^\s*Drive\s+(\d+)\s*:?\s*$`)
	drivePathRegex   = regexp.MustCompile(`(?i)^/c\d+(?:/e(\d+))?/s(\d+)$`)
	driveCompactRe   = regexp.MustCompile(`^(\d*):(\d+)$`)
	driveSlotRegex   = regexp.MustCompile(`^\d+$`)
)

// ParseDriveRef resolves a drive reference in the "/cX/eE/sS" path form, the
// compact "E:S" form or as a bare slot number to a DriveID.
func ParseDriveRef(ref string) (types.DriveID, bool) {
	ref = strings.TrimSpace(ref)
	if m := drivePathRegex.FindStringSubmatch(ref); m != nil {
		return types.DriveID{Enclosure: m[1], Slot: m[2]}, true
	}
	if m := driveCompactRe.FindStringSubmatch(ref); m != nil {
		return types.DriveID{Enclosure: m[1], Slot: m[2]}, true
	}
	if driveSlotRegex.MatchString(ref) {
		return types.DriveID{Slot: ref}, true
	}
	return types.DriveID{}, false
}

// DriveSection is the merged detail text of one physical drive
type DriveSection struct {
	ID    types.DriveID
	Lines []string
}

// Record parses the drive section into a Record
func (d DriveSection) Record() Record {
	return ParseLines(d.Lines)
}

// DriveSections splits a per-drive detail dump into one section per drive.
// Sub-headers that refer to the same drive, in any notation, are merged in
// first seen order.
func DriveSections(text string, window int) []DriveSection {
	var sections []DriveSection
	index := make(map[types.DriveID]int)

	for _, b := range Sections(text, driveAnchorRegex, window) {
		id, ok := ParseDriveRef(b.Key)
		if !ok {
			continue
		}
		if i, seen := index[id]; seen {
			sections[i].Lines = append(sections[i].Lines, b.Lines...)
			continue
		}
		index[id] = len(sections)
		sections = append(sections, DriveSection{ID: id, Lines: append([]string(nil), b.Lines...)})
	}
	return sections
}
