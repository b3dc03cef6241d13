package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"megaraid-health-check/internal/config"
	"megaraid-health-check/internal/health"
	"megaraid-health-check/internal/metrics"
	"megaraid-health-check/internal/notify"
	"megaraid-health-check/internal/provider"
	"megaraid-health-check/internal/report"
	"megaraid-health-check/pkg/types"
)

// newRootCommand builds the check command with its serve and version subcommands
func newRootCommand(out io.Writer) *cobra.Command {
	cfg := config.New()
	var showVersion bool

	cmd := &cobra.Command{
		Use:   "megaraid-health-check",
		Args:  cobra.ExactArgs(0),
		Short: "Check the health of a MegaRAID controller",
		Long: "Check the health of a MegaRAID controller through storcli and print a single monitoring\n" +
			"status line. The exit status is 0 (OK), 1 (WARNING), 2 (CRITICAL) or 3 (UNKNOWN).",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(out, versionLine())
				return nil
			}
			return runCheck(cmd.Context(), cfg, out)
		},
	}

	cfg.BindGlobalFlags(cmd.PersistentFlags())
	cfg.BindCheckFlags(cmd.PersistentFlags())
	cmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print the version and exit")

	cmd.AddCommand(newServeCommand(cfg))
	cmd.AddCommand(newVersionCommand(out))
	return cmd
}

// setupLogging sends logs to stderr and tags them with a fresh run id
func setupLogging(cfg *config.Config) *log.Entry {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	return log.WithField("run", uuid.New().String())
}

// outputOptions maps the configuration onto renderer options
func outputOptions(cfg *config.Config) report.Options {
	return report.Options{
		Product:  cfg.Product,
		Terse:    cfg.Terse,
		Perfdata: cfg.Perfdata,
		Long:     cfg.Long,
		ShowHost: cfg.ShowHost,
		Host:     cfg.Host,
		TargetVD: cfg.VD,
	}
}

// newProvider selects the transport for the configured target
func newProvider(cfg *config.Config) (provider.Provider, error) {
	if cfg.Replay != "" {
		return provider.LoadReplay(cfg.Replay)
	}

	switch cfg.ResolveTransport() {
	case config.TransportLocal:
		return provider.NewLocal(cfg.StorcliPath, cfg.Controller, cfg.Timeout)
	case config.TransportESXCLI:
		return provider.NewESXCLI(provider.ESXCLIOptions{
			Path:       cfg.ESXCLIPath,
			Host:       cfg.Host,
			User:       cfg.User,
			Thumbprint: cfg.HostThumbprint(),
			Controller: cfg.Controller,
			Timeout:    cfg.Timeout,
		})
	case config.TransportSSH:
		return provider.NewSSH(provider.SSHOptions{
			Host:       cfg.Host,
			User:       cfg.User,
			Password:   cfg.Password,
			Command:    cfg.StorcliPath,
			Controller: cfg.Controller,
			Timeout:    cfg.Timeout,
		})
	}
	return nil, errors.Errorf("unknown transport %q", cfg.Transport)
}

// maintenanceMode reports whether the bypass file exists
func maintenanceMode(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// runCheck performs one check and prints its result. A non-OK severity is
// returned as an ExitCodeError.
func runCheck(ctx context.Context, cfg *config.Config, out io.Writer) error {
	opts := outputOptions(cfg)
	if maintenanceMode(cfg.MaintenanceFile) {
		fmt.Fprintln(out, report.MaintenanceLine(opts))
		return nil
	}

	logger := setupLogging(cfg)

	c := &checkRun{cfg: cfg, out: out, opts: opts, logger: logger}
	if err := cfg.Validate(); err != nil {
		return c.unknown(err)
	}

	p, err := newProvider(cfg)
	if err != nil {
		return c.unknown(err)
	}
	if closer, ok := p.(io.Closer); ok {
		defer closer.Close()
	}
	c.target = p.Target()

	snap, err := health.New(p, cfg.Controller).WithLogger(logger).Check(ctx)
	if err != nil {
		return c.unknown(err)
	}
	if logger.Logger.IsLevelEnabled(log.DebugLevel) {
		logger.Debug("Snapshot:\n" + spew.Sdump(snap))
	}

	v := health.Classify(snap, health.Options{TargetVD: cfg.VD})
	logger.WithFields(log.Fields{
		"severity": v.Severity.String(),
		"rule":     v.Rule,
		"reasons":  v.Reasons,
	}).Info("Check classified")

	return c.finish(snap, v)
}

// checkRun carries the output side of one check
type checkRun struct {
	cfg    *config.Config
	out    io.Writer
	opts   report.Options
	logger *log.Entry
	target string
	err    error
}

// unknown reports a run that could not be classified
func (c *checkRun) unknown(err error) error {
	c.logger.WithError(err).Warn("Check failed")
	c.err = err
	v := types.Verdict{
		Severity: types.SeverityUnknown,
		Reasons:  []string{"Error: " + err.Error()},
	}
	return c.finish(nil, v)
}

// finish prints the result, writes the optional side outputs and returns the exit status
func (c *checkRun) finish(snap *types.Snapshot, v types.Verdict) error {
	line := statusLine(snap, v, c.opts)

	var err error
	switch {
	case c.cfg.JSON:
		err = report.JSON(c.out, c.response(snap, v))
	case c.cfg.Pretty:
		err = report.Pretty(c.out, c.response(snap, v))
	case snap == nil:
		_, err = fmt.Fprintln(c.out, line)
	default:
		err = report.Render(c.out, snap, v, c.opts)
	}
	if err != nil {
		c.logger.WithError(err).Error("Failed to write report")
	}

	if c.cfg.Textfile != "" {
		m := metrics.New()
		m.Update(c.cfg.Controller, snap, v)
		m.MarkChecked(c.cfg.Controller, float64(time.Now().Unix()))
		if err := m.WriteTextfile(c.cfg.Textfile); err != nil {
			c.logger.WithError(err).Warn("Failed to write metrics textfile")
		}
	}

	target := c.target
	if c.cfg.Host != "" {
		target = c.cfg.Host
	}
	if _, err := notify.New(c.cfg.NotifyURL, nil).Notify(target, v.Severity, line); err != nil {
		c.logger.WithError(err).Warn("Notification failed")
	}

	if code := v.Severity.ExitCode(); code != 0 {
		return ExitCodeError{Code: code}
	}
	return nil
}

// response builds the JSON report, keeping the error of a failed run
func (c *checkRun) response(snap *types.Snapshot, v types.Verdict) *types.HealthResponse {
	resp := health.Response(snap, v, version)
	if c.err != nil {
		resp.Controller = c.cfg.Controller
		resp.Target = c.target
		resp.Error = c.err.Error()
	}
	return resp
}

// statusLine is the first line of the plugin output
func statusLine(snap *types.Snapshot, v types.Verdict, opts report.Options) string {
	if snap == nil {
		return report.UnknownLine(strings.Join(v.Reasons, "; "), opts)
	}
	return report.StatusLine(snap, v, opts)
}
