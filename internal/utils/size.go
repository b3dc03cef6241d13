package utils

import (
	"strconv"
	"strings"
)

// sizeUnits maps storcli size units to their multiplier. storcli prints
// binary multiples with decimal unit names.
var sizeUnits = map[string]float64{
	"":      1,
	"B":     1,
	"BYTES": 1,
	"KB":    1 << 10,
	"KIB":   1 << 10,
	"MB":    1 << 20,
	"MIB":   1 << 20,
	"GB":    1 << 30,
	"GIB":   1 << 30,
	"TB":    1 << 40,
	"TIB":   1 << 40,
	"PB":    1 << 50,
	"PIB":   1 << 50,
}

// ParseSizeToBytes converts a size such as "1.090 TB" to bytes. ok is false
// when the number or the unit is not recognized.
func ParseSizeToBytes(size string) (bytes int64, ok bool) {
	size = strings.ToUpper(strings.ReplaceAll(size, " ", ""))
	if size == "" {
		return 0, false
	}

	split := len(size)
	for i, r := range size {
		if (r < '0' || r > '9') && r != '.' {
			split = i
			break
		}
	}

	value, err := strconv.ParseFloat(size[:split], 64)
	if err != nil {
		return 0, false
	}
	multiplier, known := sizeUnits[size[split:]]
	if !known {
		return 0, false
	}
	return int64(value * multiplier), true
}
