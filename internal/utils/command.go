package utils

import (
	"os/exec"
	"strings"
)

// CommandExists checks if a command is available in the system PATH
func CommandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

// LookupCommand returns the resolved path of the first candidate found in PATH
func LookupCommand(candidates ...string) string {
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}

// GetToolVersion gets the version line of a tool
func GetToolVersion(tool string, versionArgs ...string) (string, error) {
	output, err := exec.Command(tool, versionArgs...).Output()
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(strings.ToLower(line), "ver") {
			return line, nil
		}
	}
	return "", nil
}
