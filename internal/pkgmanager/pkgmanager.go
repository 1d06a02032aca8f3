// Package pkgmanager checks and installs the third-party packages components depend on.
package pkgmanager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Manager is a JavaScript package manager.
type Manager string

const (
	NPM  Manager = "npm"
	Yarn Manager = "yarn"
	PNPM Manager = "pnpm"
	Bun  Manager = "bun"
)

// lockfiles in detection order.
var lockfiles = []struct {
	name    string
	manager Manager
}{
	{"pnpm-lock.yaml", PNPM},
	{"yarn.lock", Yarn},
	{"bun.lockb", Bun},
}

// ErrNoPackageJSON is returned when the project has no package.json.
var ErrNoPackageJSON = errors.New("package.json not found")

// Detect returns the package manager whose lockfile is present in dir, npm otherwise.
func Detect(dir string) Manager {
	for _, l := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, l.name)); err == nil {
			return l.manager
		}
	}
	return NPM
}

// InstallArgs returns the command line that adds packages with m.
func (m Manager) InstallArgs(packages ...string) []string {
	var args []string
	switch m {
	case NPM:
		args = []string{"npm", "install"}
	case Yarn:
		args = []string{"yarn", "add"}
	case Bun:
		args = []string{"bun", "add"}
	default:
		args = []string{"pnpm", "add"}
	}
	return append(args, packages...)
}

type packageJSON struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Missing returns the entries of deps that appear in neither dependencies
// nor devDependencies of dir/package.json. Versions are not compared.
func Missing(dir string, deps []string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoPackageJSON
		}
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	var missing []string
	for _, dep := range deps {
		if _, ok := pkg.Dependencies[dep]; ok {
			continue
		}
		if _, ok := pkg.DevDependencies[dep]; ok {
			continue
		}
		missing = append(missing, dep)
	}
	return missing, nil
}

// CommandRunner runs an external command in dir.
type CommandRunner func(ctx context.Context, dir string, args []string) error

// Installer runs the project's package manager.
type Installer struct {
	Dir    string
	Run    CommandRunner
	Stdout io.Writer
	Stderr io.Writer
}

// NewInstaller creates an installer that executes commands in dir.
func NewInstaller(dir string) *Installer {
	inst := &Installer{Dir: dir, Stdout: os.Stdout, Stderr: os.Stderr}
	inst.Run = inst.exec
	return inst
}

// Install adds packages with the detected package manager and returns the manager used.
func (i *Installer) Install(ctx context.Context, packages []string) (Manager, error) {
	m := Detect(i.Dir)
	if len(packages) == 0 {
		return m, nil
	}
	if err := i.Run(ctx, i.Dir, m.InstallArgs(packages...)); err != nil {
		return m, fmt.Errorf("%s failed: %w", m, err)
	}
	return m, nil
}

func (i *Installer) exec(ctx context.Context, dir string, args []string) error {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr
	return cmd.Run()
}
