package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"megaraid-health-check/internal/report"
	"megaraid-health-check/pkg/types"
)

// Build-time variables (set via -ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	buildBy   = "unknown"
)

// ExitCodeError carries the plugin exit status out of a command
type ExitCodeError struct {
	Code int
}

func (e ExitCodeError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit status.
// Anything that is not an ExitCodeError is an UNKNOWN result.
func run(args []string) int {
	cmd := newRootCommand(os.Stdout)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	var exitErr ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	fmt.Fprintln(os.Stdout, report.UnknownLine("Error: "+err.Error(), report.Options{}))
	return types.SeverityUnknown.ExitCode()
}
