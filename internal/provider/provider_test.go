package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryArgs(t *testing.T) {
	tests := []struct {
		query    Query
		expected []string
	}{
		{QueryVirtualDrives, []string{"/c0/vall", "show"}},
		{QueryDriveDetail, []string{"/c0/eall/sall", "show", "all"}},
		{QueryCacheVaultStatus, []string{"/c0/cv", "show", "status"}},
		{QueryRebuildJSON, []string{"/c0/eall/sall", "show", "rebuild", "J"}},
		{QueryPatrolRead, []string{"/c0", "show", "patrolread"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.query.Args("0"), string(tt.query))
	}

	assert.Equal(t, []string{"/c2/fall", "show"}, QueryForeignConfig.Args("2"))
	assert.Nil(t, Query("bogus").Args("0"))
}

func TestEveryQueryHasArgs(t *testing.T) {
	for q := range queryArgs {
		assert.NotEmpty(t, q.Args("0"), string(q))
	}
}

func TestResultUnsupported(t *testing.T) {
	assert.True(t, Result{Output: "Status = Failure\nDescription = Unsupported Command"}.Unsupported())
	assert.False(t, Result{Output: "State Optimal"}.Unsupported())
}

func TestRunCommand(t *testing.T) {
	res, err := runCommand(context.Background(), 5*time.Second, "sh", "-c", "echo hello; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "hello")
}

func TestRunCommandTimeout(t *testing.T) {
	res, err := runCommand(context.Background(), 50*time.Millisecond, "sleep", "5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, exitCodeTimeout, res.ExitCode)
}

func TestRunCommandTimeoutKillsChildren(t *testing.T) {
	start := time.Now()
	_, err := runCommand(context.Background(), 200*time.Millisecond, "sh", "-c", "sleep 3; echo done")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	if elapsed > 2*time.Second {
		t.Errorf("Expected the run to end shortly after the timeout, took %s", elapsed)
	}
}

func TestRunCommandMissingTool(t *testing.T) {
	_, err := runCommand(context.Background(), time.Second, "definitely_does_not_exist_command_12345")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrToolMissing))
}

func TestNewLocalMissingCommand(t *testing.T) {
	_, err := NewLocal("definitely_does_not_exist_command_12345", "0", time.Second)
	assert.True(t, errors.Is(err, ErrToolMissing))
}

func TestLocalRun(t *testing.T) {
	l, err := NewLocal("echo", "1", time.Second)
	require.NoError(t, err)

	res, err := l.Run(context.Background(), QueryVirtualDrives)
	require.NoError(t, err)
	assert.Equal(t, "/c1/vall show\n", res.Output)
	assert.Equal(t, "echo", l.Target())
}

func TestNewESXCLIValidation(t *testing.T) {
	_, err := NewESXCLI(ESXCLIOptions{Host: "10.10.10.10"})
	assert.Error(t, err)

	_, err = NewESXCLI(ESXCLIOptions{Host: "10.10.10.10", User: "nagios"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SSL thumbprint configured")

	_, err = NewESXCLI(ESXCLIOptions{
		Host:       "10.10.10.10",
		User:       "nagios",
		Thumbprint: "55:45:DE",
		Path:       filepath.Join(t.TempDir(), "esxcli"),
	})
	assert.True(t, errors.Is(err, ErrToolMissing))
}

func TestESXCLIArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esxcli")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho \"$@\"\n"), 0o755))

	e, err := NewESXCLI(ESXCLIOptions{
		Path:       path,
		Host:       "10.10.10.20",
		User:       "nagios",
		Thumbprint: "5E:BF:B4",
		Controller: "0",
		Timeout:    5 * time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"-s", "10.10.10.20", "-u", "nagios", "-d", "5E:BF:B4", "storcli", "/c0/cv", "show", "status"},
		e.args(QueryCacheVaultStatus))

	res, err := e.Run(context.Background(), QueryForeignConfig)
	require.NoError(t, err)
	assert.Equal(t, "-s 10.10.10.20 -u nagios -d 5E:BF:B4 storcli /c0/fall show\n", res.Output)
	assert.Equal(t, "10.10.10.20", e.Target())
}

func TestNewSSH(t *testing.T) {
	_, err := NewSSH(SSHOptions{Host: "esx01"})
	assert.Error(t, err)

	s, err := NewSSH(SSHOptions{Host: "esx01", User: "root", Password: "secret", Controller: "0"})
	require.NoError(t, err)
	assert.Equal(t, "esx01:22", s.host)
	assert.Equal(t, "esx01", s.Target())
	assert.Equal(t, "storcli64", s.command)
	assert.NoError(t, s.Close())
}

func TestStaticAndReplay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vd-list.txt"), []byte("0/238 RAID1 Optl"), 0o644))

	s, err := LoadReplay(dir)
	require.NoError(t, err)

	res, err := s.Run(context.Background(), QueryVirtualDrives)
	require.NoError(t, err)
	assert.Equal(t, "0/238 RAID1 Optl", res.Output)

	res, err = s.Run(context.Background(), QueryBBUStatus)
	require.NoError(t, err)
	assert.Empty(t, res.Output)

	_, err = LoadReplay(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestStaticCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic("fixture", nil).Run(ctx, QueryVirtualDrives)
	assert.True(t, errors.Is(err, ErrTimeout))
}
