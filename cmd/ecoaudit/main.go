// cmd/ecoaudit/main.go
package main

import (
	cmd "github.com/mwiater/ecoaudit/internal/cli"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cmd.SetVersionInfo
	executeCmd     = cmd.Execute
)

// main records build metadata and hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
