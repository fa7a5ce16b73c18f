// SPDX-License-Identifier: MIT
//
// Package build exposes the metadata embedded at link time:
//
//	go build -ldflags "-X grapher/pkg/build.buildName=grapher \
//	  -X grapher/pkg/build.buildVersion=0.3.0 \
//	  -X grapher/pkg/build.buildCommit=$(git rev-parse --short HEAD) \
//	  -X grapher/pkg/build.buildTime=$(date -u +%FT%TZ)"
//
// Development builds carry none of these; they run with the defaults below.
package build

import (
	"errors"
	"fmt"
)

// Description is the one-line summary shown by the CLI.
const Description = "Signal, spectrum and phase plots on pluggable drawing backends"

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// String formats the flags for the version banner.
func (f ldFlags) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", f.Version, f.Commit, f.Time)
}

// Populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = defaultFlags()
)

func defaultFlags() *ldFlags {
	return &ldFlags{
		Name:    "grapher",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
}

// Initialize copies every linked value into the build information. Values
// that were not linked keep their defaults and are reported together in the
// returned error; callers decide whether a development build is acceptable.
func Initialize() error {
	var errs []error
	for _, f := range []struct {
		name string
		val  string
		dst  *string
	}{
		{"BuildName", buildName, &buildFlags.Name},
		{"BuildTime", buildTime, &buildFlags.Time},
		{"BuildCommit", buildCommit, &buildFlags.Commit},
		{"BuildVersion", buildVersion, &buildFlags.Version},
	} {
		if f.val == "" {
			errs = append(errs, fmt.Errorf("%s is not set", f.name))
			continue
		}
		*f.dst = f.val
	}
	return errors.Join(errs...)
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
