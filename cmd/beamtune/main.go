// beamtune opens the interactive array tuning screen; `beamtune demo` runs
// the bundled analysis backend.
package main

import (
	"github.com/arraylab/beamtune/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	cli.Execute()
}
