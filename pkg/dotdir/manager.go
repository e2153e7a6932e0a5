// Package dotdir resolves the .matchvision/ directory that holds config.toml.
package dotdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the matchvision directory.
	DirName = ".matchvision"

	// envDir overrides the default lookup when set.
	envDir = "MATCHVISION_HOME"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the absolute path to a .matchvision/ directory, creating it
// when missing. Order of precedence:
//  1. Provided override
//  2. $MATCHVISION_HOME
//  3. Local ./.matchvision/ dir
//  4. Home ~/.matchvision/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating matchvision directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// Lookup is Target without side effects: it reports where the directory
// would be and whether it already exists.
func (m *Manager) Lookup(overrideDir string) (string, bool, error) {
	dir, err := m.resolve(overrideDir)
	if err != nil {
		return "", false, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(abs)
	switch {
	case err == nil:
		return abs, info.IsDir(), nil
	case errors.Is(err, os.ErrNotExist):
		return abs, false, nil
	default:
		return "", false, fmt.Errorf("checking %s: %w", abs, err)
	}
}

func (m *Manager) resolve(overrideDir string) (string, error) {
	if overrideDir != "" {
		return overrideDir, nil
	}

	if env := os.Getenv(envDir); env != "" {
		return env, nil
	}

	if m.localDirExists() {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return filepath.Join(cwd, DirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// localDirExists checks whether a .matchvision/ directory exists in the
// current working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, DirName))
	return err == nil && info.IsDir()
}
