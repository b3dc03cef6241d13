package provider

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"megaraid-health-check/internal/utils"
)

// StorcliCandidates are the binaries tried, in order, when no path is configured
var StorcliCandidates = []string{"storcli64", "storcli", "perccli64", "perccli"}

// Local runs storcli on this host
type Local struct {
	command    string
	controller string
	timeout    time.Duration
}

// NewLocal creates a provider for a local controller. An empty command
// selects the first storcli or perccli binary found in PATH.
func NewLocal(command, controller string, timeout time.Duration) (*Local, error) {
	if command == "" {
		command = utils.LookupCommand(StorcliCandidates...)
		if command == "" {
			return nil, errors.Wrapf(ErrToolMissing, "none of %v in PATH", StorcliCandidates)
		}
	} else if !utils.CommandExists(command) {
		return nil, errors.Wrapf(ErrToolMissing, "%s", command)
	}

	return &Local{
		command:    command,
		controller: controller,
		timeout:    timeout,
	}, nil
}

// Run executes the query
func (l *Local) Run(ctx context.Context, q Query) (Result, error) {
	return runCommand(ctx, l.timeout, l.command, q.Args(l.controller)...)
}

// Target returns the binary in use
func (l *Local) Target() string {
	return l.command
}
