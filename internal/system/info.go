package system

import (
	"os"
	"path/filepath"
	"runtime"

	log "github.com/sirupsen/logrus"

	"megaraid-health-check/internal/provider"
	"megaraid-health-check/internal/utils"
)

// SystemInfo holds detected system information
type SystemInfo struct {
	OS             string
	Hostname       string
	Platform       Platform
	StorcliPath    string
	StorcliVersion string
	ESXCLIPath     string
	HasESXCLI      bool
}

// Platform represents the detected platform type
type Platform string

const (
	PlatformLinux    Platform = "linux"
	PlatformVMkernel Platform = "vmkernel"
	PlatformUnknown  Platform = "unknown"
)

// Detector handles system detection
type Detector struct {
	storcli string
	esxcli  string
	info    *SystemInfo
}

// New creates a new system detector. storcli overrides the tool search and
// esxcli is the path checked for remote ESXi queries.
func New(storcli, esxcli string) *Detector {
	return &Detector{storcli: storcli, esxcli: esxcli}
}

// Detect performs one-time system detection
func (d *Detector) Detect() *SystemInfo {
	if d.info != nil {
		return d.info // Return cached info if already detected
	}

	info := &SystemInfo{OS: runtime.GOOS}
	info.Hostname, _ = os.Hostname()

	switch info.OS {
	case "linux":
		info.Platform = PlatformLinux
	default:
		info.Platform = PlatformUnknown
	}
	// ESXi reports itself as linux to Go binaries
	if _, err := os.Stat("/bin/vmkload_mod"); err == nil {
		info.Platform = PlatformVMkernel
	}

	info.detectStorcli(d.storcli)
	info.detectESXCLI(d.esxcli)
	d.logDetectedCapabilities(info)

	d.info = info
	return info
}

// detectStorcli finds the local storcli-compatible tool and its version
func (info *SystemInfo) detectStorcli(override string) {
	candidates := provider.StorcliCandidates
	if override != "" {
		candidates = []string{override}
	}
	info.StorcliPath = utils.LookupCommand(candidates...)
	if info.StorcliPath == "" {
		return
	}
	if v, err := utils.GetToolVersion(info.StorcliPath, "-v"); err == nil {
		info.StorcliVersion = v
	}
}

// detectESXCLI checks whether the vSphere CLI is installed
func (info *SystemInfo) detectESXCLI(path string) {
	if path == "" {
		path = provider.DefaultESXCLIPath
	}
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		info.HasESXCLI = true
		info.ESXCLIPath = path
	}
}

// logDetectedCapabilities logs the detected system capabilities
func (d *Detector) logDetectedCapabilities(info *SystemInfo) {
	log.WithFields(log.Fields{
		"platform": info.Platform,
		"hostname": info.Hostname,
		"storcli":  info.StorcliPath,
		"version":  info.StorcliVersion,
		"esxcli":   info.ESXCLIPath,
	}).Debug("System detection summary")
}

// StorcliName returns the base name of the detected tool, or "" when none was found
func (info *SystemInfo) StorcliName() string {
	if info.StorcliPath == "" {
		return ""
	}
	return filepath.Base(info.StorcliPath)
}

// CanQueryLocal returns true if a local storcli-compatible tool was found
func (info *SystemInfo) CanQueryLocal() bool {
	return info.StorcliPath != ""
}

// CanQueryESXi returns true if esxcli is available for remote hosts
func (info *SystemInfo) CanQueryESXi() bool {
	return info.HasESXCLI
}
