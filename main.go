// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"os"

	"grapher/cmd"
	"grapher/internal/canvas"
	"grapher/internal/log"
	"grapher/pkg/build"
)

// main wires build information into the CLI and maps failures to exit codes:
// 2 for contract violations (bad input or state), 1 for everything else.
func main() {
	if err := build.Initialize(); err != nil {
		log.Debugf("Development build: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		log.Errorf("%v", err)
		if errors.Is(err, canvas.ErrInvalidInput) || errors.Is(err, canvas.ErrInvalidState) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
