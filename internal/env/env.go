// Package env checks that the external tools stemline drives are
// installed before a run starts.
//
// A check never installs anything. It reports, per dependency, where the
// binary was found or which PATH entries were searched, plus a package
// manager hint for the current platform:
//
//	report := env.NewChecker().Check(model.PlatformMac, env.DefaultManifest())
//	if !report.AllFound() {
//	    for _, line := range report.Lines() {
//	        fmt.Println(line)
//	    }
//	}
package env

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/handiism/stemline/internal/model"
)

// ErrMissingDependencies is returned when a required tool is not installed.
var ErrMissingDependencies = errors.New("missing dependencies")

// Dependency is one external tool.
type Dependency struct {
	// Name is the display name used in reports.
	Name string

	// Binary is looked up on PATH. Defaults to Name.
	Binary string

	// Package is the name used in install hints. Defaults to Name.
	Package string
}

// DefaultManifest lists the tools a full run needs.
func DefaultManifest() []Dependency {
	return []Dependency{
		{Name: "yt-dlp"},
		{Name: "ffmpeg"},
		{Name: "demucs"},
	}
}

// Status is the lookup result for one dependency.
type Status struct {
	Name     string
	Found    bool
	Location string
	Searched []string
	Hint     string
}

// Report holds the statuses of a manifest in manifest order.
type Report struct {
	Platform model.Platform
	Statuses []Status
}

// AllFound reports whether every dependency was located.
func (r Report) AllFound() bool {
	for _, s := range r.Statuses {
		if !s.Found {
			return false
		}
	}
	return true
}

// Missing returns the dependencies that were not found.
func (r Report) Missing() []Status {
	var out []Status
	for _, s := range r.Statuses {
		if !s.Found {
			out = append(out, s)
		}
	}
	return out
}

// Lookup returns the status of a dependency by name.
func (r Report) Lookup(name string) (Status, bool) {
	for _, s := range r.Statuses {
		if s.Name == name {
			return s, true
		}
	}
	return Status{}, false
}

// Lines renders the report the way the check command prints it.
func (r Report) Lines() []string {
	lines := []string{fmt.Sprintf("OS: %s", r.Platform)}
	for _, s := range r.Statuses {
		if s.Found {
			lines = append(lines, fmt.Sprintf("%s ==> Found (%s)", s.Name, s.Location))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s ==> !MIA! (searched PATH entries below)", s.Name))
		for _, dir := range s.Searched {
			lines = append(lines, "      "+dir)
		}
	}

	missing := r.Missing()
	if len(missing) == 0 {
		return append(lines, "All dependencies OK.")
	}
	lines = append(lines, "CLI tools missing (install these using your OS package manager):")
	for _, s := range missing {
		lines = append(lines, fmt.Sprintf("  - %s  (e.g., %s)", s.Name, s.Hint))
	}
	return lines
}

// Err returns nil when everything was found, or an error wrapping
// ErrMissingDependencies that names the missing tools.
func (r Report) Err() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, s := range missing {
		names[i] = s.Name
	}
	return fmt.Errorf("%w: %s", ErrMissingDependencies, strings.Join(names, ", "))
}

// InstallHint returns the package manager command for a package.
func InstallHint(p model.Platform, pkg string) string {
	switch p {
	case model.PlatformMac:
		return "brew install " + pkg
	case model.PlatformWindows:
		return "winget install " + pkg
	default:
		return "Install " + pkg + " for your OS"
	}
}

// Checker resolves dependencies against PATH.
type Checker struct {
	// LookPath resolves a binary name to a path.
	LookPath func(file string) (string, error)

	// PathEntries returns the directories that were searched.
	PathEntries func() []string
}

// NewChecker creates a Checker backed by os/exec and the PATH variable.
func NewChecker() *Checker {
	return &Checker{
		LookPath: exec.LookPath,
		PathEntries: func() []string {
			return filepath.SplitList(os.Getenv("PATH"))
		},
	}
}

// Check looks up every dependency of the manifest.
func (c *Checker) Check(p model.Platform, deps []Dependency) Report {
	report := Report{Platform: p}
	for _, dep := range deps {
		binary := dep.Binary
		if binary == "" {
			binary = dep.Name
		}
		pkg := dep.Package
		if pkg == "" {
			pkg = dep.Name
		}

		status := Status{Name: dep.Name, Hint: InstallHint(p, pkg)}
		if path, err := c.LookPath(binary); err == nil {
			status.Found = true
			status.Location = path
		} else {
			status.Searched = c.PathEntries()
		}
		report.Statuses = append(report.Statuses, status)
	}
	return report
}
