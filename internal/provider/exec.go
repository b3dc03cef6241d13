package provider

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	exitCodeTimeout    = 124
	exitCodeErrDefault = 1

	// waitDelay bounds how long output pipes held by leftover children are drained after cancellation
	waitDelay = time.Second
)

// runCommand runs name with args under timeout and collects its output.
// Only a missing binary or an expired timeout is returned as an error.
func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	log.WithFields(log.Fields{"command": name, "args": args, "timeout": timeout}).Debug("Running command")

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	outbuf, errbuf := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = outbuf
	cmd.Stderr = errbuf
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)
	err := cmd.Run()

	result := Result{Output: outbuf.String()}
	if errbuf.Len() > 0 {
		result.Output = strings.TrimSuffix(result.Output, "\n") + "\n" + errbuf.String()
	}

	if ctx.Err() == context.DeadlineExceeded {
		result.ExitCode = exitCodeTimeout
		return result, errors.Wrapf(ErrTimeout, "%s %s after %s", name, strings.Join(args, " "), timeout)
	}

	if err != nil {
		var exitErr *exec.ExitError
		switch {
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
			return result, errors.Wrapf(ErrToolMissing, "%s: %v", name, err)
		default:
			result.ExitCode = exitCodeErrDefault
			if result.Output == "" {
				result.Output = err.Error()
			}
		}
	}

	log.WithFields(log.Fields{
		"command":  name,
		"args":     args,
		"exitCode": result.ExitCode,
		"bytes":    len(result.Output),
	}).Debug("Finished running command")

	return result, nil
}
