package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"megaraid-health-check/internal/config"
	"megaraid-health-check/internal/system"
)

func versionLine() string {
	return fmt.Sprintf("megaraid-health-check v%s (commit %s, built %s by %s)", version, commit, buildTime, buildBy)
}

func newVersionCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Args:  cobra.ExactArgs(0),
		Short: "Print the version and the detected storcli tool",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.New()
			info := system.New(cfg.StorcliPath, cfg.ESXCLIPath).Detect()

			fmt.Fprintln(out, versionLine())
			fmt.Fprintf(out, "platform: %s\n", info.Platform)
			if info.CanQueryLocal() {
				fmt.Fprintf(out, "storcli:  %s (%s)\n", info.StorcliPath, info.StorcliVersion)
			} else {
				fmt.Fprintln(out, "storcli:  not found")
			}
			if info.CanQueryESXi() {
				fmt.Fprintf(out, "esxcli:   %s\n", info.ESXCLIPath)
			}
			return nil
		},
	}
}
