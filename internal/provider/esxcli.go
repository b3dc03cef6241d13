package provider

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
)

// DefaultESXCLIPath is where the vSphere CLI installs esxcli
const DefaultESXCLIPath = "/opt/vmware-vsphere-cli-distrib/lib/bin/esxcli/esxcli"

// ESXCLI runs storcli through the esxcli storcli plugin on a remote ESXi host
type ESXCLI struct {
	path       string
	host       string
	user       string
	thumbprint string
	controller string
	timeout    time.Duration
}

// ESXCLIOptions configures an ESXCLI provider
type ESXCLIOptions struct {
	Path       string
	Host       string
	User       string
	Thumbprint string
	Controller string
	Timeout    time.Duration
}

// NewESXCLI creates a provider for an ESXi host. The host's SSL thumbprint is required.
func NewESXCLI(opts ESXCLIOptions) (*ESXCLI, error) {
	if opts.Host == "" || opts.User == "" {
		return nil, errors.New("esxcli transport requires host and user")
	}
	if opts.Thumbprint == "" {
		return nil, errors.Errorf("unknown host: %s (no SSL thumbprint configured)", opts.Host)
	}
	if opts.Path == "" {
		opts.Path = DefaultESXCLIPath
	}
	if _, err := os.Stat(opts.Path); err != nil {
		return nil, errors.Wrapf(ErrToolMissing, "esxcli not found at %s", opts.Path)
	}

	return &ESXCLI{
		path:       opts.Path,
		host:       opts.Host,
		user:       opts.User,
		thumbprint: opts.Thumbprint,
		controller: opts.Controller,
		timeout:    opts.Timeout,
	}, nil
}

// Run executes the query through esxcli
func (e *ESXCLI) Run(ctx context.Context, q Query) (Result, error) {
	return runCommand(ctx, e.timeout, e.path, e.args(q)...)
}

func (e *ESXCLI) args(q Query) []string {
	args := []string{"-s", e.host, "-u", e.user, "-d", e.thumbprint, "storcli"}
	return append(args, q.Args(e.controller)...)
}

// Target returns the ESXi host
func (e *ESXCLI) Target() string {
	return e.host
}
