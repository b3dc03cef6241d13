//go:build !unix

package provider

import "os/exec"

func killProcessGroup(cmd *exec.Cmd) {}
