package report

import (
	"encoding/json"
	"io"

	"megaraid-health-check/pkg/types"
)

// JSON writes the health report as indented JSON
func JSON(w io.Writer, resp *types.HealthResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
