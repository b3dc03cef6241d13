package extract

import (
	"regexp"
	"strings"
)

var (
	// "Property   Value" / "Ctrl_Prop   Value" headers of two column tables
	propertyHeaderRegex = regexp.MustCompile(`(?i)^\s*\S+\s+(Value)\s*$`)
	separatorRegex      = regexp.MustCompile(`^\s*[-=]{3,}\s*$`)
	letterRegex         = regexp.MustCompile(`[A-Za-z]`)
)

// Record is an ordered set of label/value pairs pulled from tool output.
// Labels are matched case-insensitively and the first occurrence of a label wins.
type Record struct {
	labels []string
	values map[string]string
}

// ParseRecord builds a Record from a block of text. It understands
// "Label = value", "Label : value" and two column "Property Value" tables.
// Lines without a label or without a value are ignored.
func ParseRecord(text string) Record {
	return ParseLines(strings.Split(text, "\n"))
}

// ParseLines builds a Record from already split lines
func ParseLines(lines []string) Record {
	r := Record{values: make(map[string]string)}
	valueCol := -1

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			valueCol = -1
			continue
		}
		if separatorRegex.MatchString(line) {
			continue
		}
		if m := propertyHeaderRegex.FindStringSubmatchIndex(line); m != nil {
			valueCol = m[2]
			continue
		}

		var label, value string
		if valueCol > 0 && len(line) > valueCol && !strings.ContainsAny(line[:valueCol], "=") {
			label, value = line[:valueCol], line[valueCol:]
		} else {
			var ok bool
			label, value, ok = splitField(line)
			if !ok {
				continue
			}
		}
		r.add(label, value)
	}
	return r
}

// splitField splits on whichever of '=' or ':' comes first
func splitField(line string) (string, string, bool) {
	eq := strings.Index(line, "=")
	colon := strings.Index(line, ":")
	idx := eq
	if idx < 0 || (colon >= 0 && colon < idx) {
		idx = colon
	}
	if idx <= 0 {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

func (r *Record) add(label, value string) {
	key := normalizeLabel(label)
	value = strings.TrimSpace(value)
	if key == "" || value == "" || !letterRegex.MatchString(key) {
		return
	}
	if _, exists := r.values[key]; exists {
		return
	}
	r.labels = append(r.labels, key)
	r.values[key] = value
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}

// Get returns the value for an exact label
func (r Record) Get(label string) (string, bool) {
	v, ok := r.values[normalizeLabel(label)]
	return v, ok
}

// Find returns the value of the first label containing any of the given fragments
func (r Record) Find(fragments ...string) (string, bool) {
	for _, label := range r.labels {
		for _, f := range fragments {
			if strings.Contains(label, normalizeLabel(f)) {
				return r.values[label], true
			}
		}
	}
	return "", false
}

// Int returns the first integer in the value of an exact label
func (r Record) Int(label string) (int, bool) {
	v, ok := r.Get(label)
	if !ok {
		return 0, false
	}
	return FirstInt(v)
}

// FindInt returns the first integer in the value found by Find
func (r Record) FindInt(fragments ...string) (int, bool) {
	v, ok := r.Find(fragments...)
	if !ok {
		return 0, false
	}
	return FirstInt(v)
}

// Labels returns the labels in source order
func (r Record) Labels() []string {
	out := make([]string, len(r.labels))
	copy(out, r.labels)
	return out
}
