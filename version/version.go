// Package version reports build information stamped in via ldflags:
//
//	go build -ldflags "-X github.com/teranos/plaszyme/version.Version=v0.3.0 \
//	    -X github.com/teranos/plaszyme/version.CommitHash=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

const name = "plaszyme"

// Info contains version and build information
type Info struct {
	Name       string `json:"name"`
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		Name:       name,
		Version:    Version,
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// IsDev reports whether the binary was built without a release tag.
func (i Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev"
}

func (i Info) String() string {
	v := i.Version
	if i.IsDev() {
		v = "dev"
	}
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s)", i.Name, v, i.Short(), i.BuildTime, i.GoVersion, i.Platform)
}

// Short returns the abbreviated commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}
