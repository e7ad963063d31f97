// Command sidecar-host is a headless host for the sidecar supervisor. It runs
// the backend in the foreground the way a desktop shell would and maps
// terminal signals onto the shutdown hooks.
package main

import (
	"os"

	"github.com/giantswarm/sidecar/cmd/sidecar-host/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
