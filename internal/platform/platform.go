// Package platform reads the operating system once and maps it to the
// path conventions the rest of stemline uses.
package platform

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/handiism/stemline/internal/model"
)

// OS identifiers reported by runtime.GOOS.
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// Current returns the platform of the running process.
func Current() model.Platform {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a platform. Everything that is not windows
// uses the mac (POSIX) conventions.
func FromGOOS(goos string) model.Platform {
	if goos == OSWindows {
		return model.PlatformWindows
	}
	return model.PlatformMac
}

// DownloadsDir returns the user's Downloads folder.
func DownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}
