//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const portfolioYAML = `
projects:
  - title: Weather Dashboard
    description: Forecasts on a map
    technologies: [React, Node]
  - title: Chat App
    description: Rooms and presence
    technologies: [Go, WebSocket]
  - title: Budget Tracker
    technologies: [Vue]
certificates:
  - title: Cloud Practitioner
    issuer: AWS
    date: 2023-05-10
`

// CreateTestWorkspace creates the temp dir the app runs in. It doubles as
// $HOME so no user config leaks into a test.
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tf.t.Helper()
	dir, err := os.MkdirTemp("", "showreel-e2e-")
	if err != nil {
		return "", err
	}
	tf.workspace = dir
	return dir, nil
}

// WritePortfolio writes content to name inside the workspace
func (tf *TUITestFramework) WritePortfolio(name, content string) (string, error) {
	tf.t.Helper()
	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, []byte(strings.TrimLeft(content, "\n")), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// RunCLI runs a non-interactive subcommand in the workspace and returns its
// combined output
func (tf *TUITestFramework) RunCLI(args ...string) (string, error) {
	tf.t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Dir = tf.workspace
	cmd.Env = append(os.Environ(),
		"HOME="+tf.workspace,
		"XDG_CONFIG_HOME="+filepath.Join(tf.workspace, ".config"),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}
