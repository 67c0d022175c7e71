// Package version reports which ceka build is running and checks it against
// the ceka.requires constraint of a project configuration.
//
// Release builds set the variables below with ldflags, e.g.
//
//	go build -ldflags "-X github.com/teranos/ceka/version.Version=1.2.0" ./cmd/ceka
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/ceka/errors"
)

// Dev marks a build without a release tag
const Dev = "dev"

var (
	Version    = Dev
	CommitHash = Dev
	BuildTime  = "unknown"
)

// Info describes the running binary; the banner and verbose log print it
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the build information of this binary
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("ceka %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
}

// Short is the commit hash cut to seven characters
func (i Info) Short() string {
	if len(i.CommitHash) > 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// Satisfies checks release v against a semver constraint such as ">= 1.2, < 2".
// Dev builds and an empty constraint always pass, so unreleased binaries can
// run any project.
func Satisfies(v, constraint string) error {
	if constraint == "" || v == Dev {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %q", constraint)
	}
	current, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(err, "ceka was built with invalid version %q", v)
	}

	if ok, reasons := c.Validate(current); !ok {
		err := errors.Newf("project requires ceka %s, this is ceka %s", constraint, v)
		for _, r := range reasons {
			err = errors.WithDetail(err, r.Error())
		}
		return errors.WithHint(err, "install a matching ceka release or relax ceka.requires")
	}
	return nil
}
