package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intRegex     = regexp.MustCompile(`\d+`)
	percentRegex = regexp.MustCompile(`(\d+)(?:\.\d+)?\s*%`)

	unsupportedMarkers = []string{"unsupported command", "un-supported command", "invalid command"}
)

// FirstInt returns the first run of digits in s
func FirstInt(s string) (int, bool) {
	m := intRegex.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// FirstPercent returns the integer part of the first "NN%" in s
func FirstPercent(s string) (int, bool) {
	m := percentRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Unsupported reports whether the tool rejected the query for this controller
func Unsupported(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range unsupportedMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// YesNo interprets a flag value. ok is false when the value is neither.
func YesNo(s string) (value bool, ok bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return false, false
	}
	switch strings.ToLower(fields[0]) {
	case "yes", "true", "y":
		return true, true
	case "no", "false", "n":
		return false, true
	}
	return false, false
}
