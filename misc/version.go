// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// set by linker: -ldflags "-X tracediag/misc.version=... -X tracediag/misc.gitHash=..."
var (
	version = "dev"
	gitHash = "unknown"
)

const appName = "tracediag"

// GetAppName returns program name, it is used for log and report file names
// so it does not depend on how the binary was renamed.
func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetExeName returns name of the running executable without extension.
func GetExeName() string {
	exe, err := os.Executable()
	if err != nil {
		return appName
	}
	return strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
}
