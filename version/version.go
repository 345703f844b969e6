// Package version carries build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version  = "dev"
	Revision = "unknown"
	Built    = "unknown"
)

// String renders the version block printed by `vboxctl version`.
func String() string {
	return fmt.Sprintf("Version:   %s\nRevision:  %s\nBuilt:     %s\nGo:        %s\nOS/Arch:   %s/%s\n",
		Version, Revision, Built, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
